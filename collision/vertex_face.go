package collision

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/ccd/polysolve"
	"go.viam.com/ccd/screw"
	"go.viam.com/ccd/spatialmath"
)

// ToleranceSnap bounds the squared cubic coefficient below which the axial term of a vertex-face
// cubic is dropped to keep the solve well conditioned.
const ToleranceSnap = 0.01

// VertexFaceTimeOfImpact finds the earliest time in [0, minTime) at which vertex crosses the plane of
// a face, both given in the screw space of m. Normally the vertex moves and the plane is fixed. With
// swapAB the vertex belongs to the fixed body and the plane to the moving one, which is solved as
// the vertex running the motion backwards. On a hit it lowers minTime.
func VertexFaceTimeOfImpact(m *screw.Motion, vertex r3.Vector, plane spatialmath.Plane, minTime *float64, swapAB bool) bool {
	if m.IsStatic() {
		return false
	}
	p, q, r := plane.Normal.X, plane.Normal.Y, plane.Normal.Z
	d := plane.Offset()
	a := vertex

	if m.IsPureTranslation() {
		if math.Abs(r) < screw.Epsilon {
			// the vertex slides parallel to the plane; crossing a side of the face is not handled
			return false
		}
		t := (d - plane.Normal.Dot(a)) / (r * m.S())
		if swapAB {
			t = -t
		}
		if t < 0 || t > *minTime {
			return false
		}
		*minTime = t
		return true
	}

	axial := 0.
	if !m.IsPureRotation() {
		axial = r * m.S() / math.Tan(0.5*m.Omega())
		if axial*axial < ToleranceSnap {
			axial = 0
		}
	}
	roots := polysolve.NewAlgebraicSolver().SolveCubic(
		axial,
		-p*a.X-q*a.Y+r*a.Z-d,
		-2*p*a.Y+2*q*a.X+axial,
		p*a.X+q*a.Y+r*a.Z-d,
	)

	found := false
	for _, tau := range roots.Slice() {
		t := 2 * math.Atan(tau) / m.Omega()
		if swapAB {
			t = -t
		}
		if t < 0 || t >= *minTime {
			continue
		}
		*minTime = t
		found = true
	}
	return found
}
