package collision

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/ccd/spatialmath"
)

// axisEpsilon is the squared length under which an edge cross product is too short to use as an axis.
const axisEpsilon = 1e-12

// Overlapping reports whether a at poseA and b at poseB intersect, using the separating axis test
// over both bodies' face normals and the cross products of their edges. Touching counts as overlap.
func Overlapping(a spatialmath.ConvexShape, poseA spatialmath.Pose, b spatialmath.ConvexShape, poseB spatialmath.Pose) bool {
	vertsA := worldVertices(a, poseA)
	vertsB := worldVertices(b, poseB)

	axes := make([]r3.Vector, 0, a.NumPlanes()+b.NumPlanes()+a.NumEdges()*b.NumEdges())
	rotA := poseA.Orientation().Quaternion()
	rotB := poseB.Orientation().Quaternion()
	for i := 0; i < a.NumPlanes(); i++ {
		axes = append(axes, spatialmath.RotateVector(rotA, a.Plane(i).Normal))
	}
	for i := 0; i < b.NumPlanes(); i++ {
		axes = append(axes, spatialmath.RotateVector(rotB, b.Plane(i).Normal))
	}
	for i := 0; i < a.NumEdges(); i++ {
		a0, a1 := a.Edge(i)
		edgeA := spatialmath.RotateVector(rotA, a1.Sub(a0))
		for j := 0; j < b.NumEdges(); j++ {
			b0, b1 := b.Edge(j)
			axis := edgeA.Cross(spatialmath.RotateVector(rotB, b1.Sub(b0)))
			if axis.Norm2() > axisEpsilon {
				axes = append(axes, axis)
			}
		}
	}

	for _, axis := range axes {
		if separatingAxisTest(axis, vertsA, vertsB) {
			return false
		}
	}
	return true
}

func worldVertices(shape spatialmath.ConvexShape, pose spatialmath.Pose) []r3.Vector {
	verts := make([]r3.Vector, shape.NumVertices())
	for i := range verts {
		verts[i] = spatialmath.TransformPoint(pose, shape.Vertex(i))
	}
	return verts
}

// separatingAxisTest reports whether the projections of both vertex sets onto axis are disjoint.
func separatingAxisTest(axis r3.Vector, vertsA, vertsB []r3.Vector) bool {
	minA, maxA := project(axis, vertsA)
	minB, maxB := project(axis, vertsB)
	return minA > maxB || minB > maxA
}

func project(axis r3.Vector, verts []r3.Vector) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range verts {
		d := axis.Dot(v)
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	return lo, hi
}
