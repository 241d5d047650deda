// Package collision computes when two convex polyhedra moving over one time step first touch.
package collision

import (
	"context"
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/ccd/screw"
	"go.viam.com/ccd/spatialmath"
	"go.viam.com/ccd/utils"
)

const (
	// ContactFraction is the time of impact below which the bodies count as already touching and are
	// left at their start poses.
	ContactFraction = 1e-5
	// ShrinkFactor pulls an accepted time of impact back so the advanced bodies stay apart.
	ShrinkFactor = 0.99
)

// FeatureKind says which kind of feature pair produced a contact.
type FeatureKind int

const (
	// EdgeEdge is an edge of A against an edge of B.
	EdgeEdge FeatureKind = iota
	// VertexFace is a vertex of A against a face of B.
	VertexFace
	// FaceVertex is a face of A against a vertex of B.
	FaceVertex
)

func (k FeatureKind) String() string {
	switch k {
	case EdgeEdge:
		return "edge-edge"
	case VertexFace:
		return "vertex-face"
	case FaceVertex:
		return "face-vertex"
	default:
		return fmt.Sprintf("FeatureKind(%d)", int(k))
	}
}

// FeaturePair identifies the features in contact. IndexA indexes an edge, vertex or plane of A
// depending on Kind, and IndexB likewise for B.
type FeaturePair struct {
	Kind   FeatureKind
	IndexA int
	IndexB int
}

func (f FeaturePair) String() string {
	return fmt.Sprintf("%s(%d, %d)", f.Kind, f.IndexA, f.IndexB)
}

// CastResult holds the outcome of a ConservativeAdvancement query.
type CastResult struct {
	// Fraction of the step the bodies may safely advance; 1 if they never touch.
	Fraction float64
	// TimeOfImpact is the earliest contact time before the safety shrink.
	TimeOfImpact float64
	Feature      FeaturePair
	// ContactPoint and ContactNormal are in world coordinates. The normal points from B towards A.
	ContactPoint  r3.Vector
	ContactNormal r3.Vector
	// PoseA and PoseB are the bodies advanced by Fraction.
	PoseA spatialmath.Pose
	PoseB spatialmath.Pose
}

// RelativeScrewVelocities returns the motion of A seen from B over the step, as the translation
// and rotation vector of startB * endB^-1 * endA * startA^-1. Each rotation component is twice the
// arcsine of the matching quaternion component, which is exact for rotations about a coordinate
// axis and approximate otherwise.
func RelativeScrewVelocities(startA, endA, startB, endB spatialmath.Pose) (r3.Vector, r3.Vector) {
	rel := spatialmath.Compose(
		spatialmath.Compose(startB, spatialmath.PoseInverse(endB)),
		spatialmath.Compose(endA, spatialmath.PoseInverse(startA)),
	)
	linVel := rel.Point()
	if linVel.Norm() < screw.Epsilon {
		linVel = r3.Vector{}
	}
	q := rel.Orientation().Quaternion()
	if q.Real < 0 {
		q = spatialmath.Flip(q)
	}
	angVel := r3.Vector{
		X: 2 * math.Asin(utils.Clamp(q.Imag, -1, 1)),
		Y: 2 * math.Asin(utils.Clamp(q.Jmag, -1, 1)),
		Z: 2 * math.Asin(utils.Clamp(q.Kmag, -1, 1)),
	}
	if angVel.Norm() < screw.Epsilon {
		angVel = r3.Vector{}
	}
	return linVel, angVel
}

// ConservativeAdvancement finds the earliest time in the step at which a, moving from startA to endA,
// touches b, moving from startB to endB, by testing every edge-edge and vertex-face pair under the
// relative screw motion. It reports whether they touch; the result always carries the advanced poses.
// An error is returned only if ctx is cancelled or a parallel worker fails.
func ConservativeAdvancement(
	ctx context.Context,
	a, b spatialmath.ConvexShape,
	startA, endA, startB, endB spatialmath.Pose,
	opts ...Option,
) (bool, *CastResult, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger

	result := &CastResult{Fraction: 1, TimeOfImpact: 1, PoseA: endA, PoseB: endB}

	linA, angA := spatialmath.CalculateVelocity(startA, endA, 1)
	linB, angB := spatialmath.CalculateVelocity(startB, endB, 1)
	logger.Debugw("body velocities", "linA", linA, "angA", angA, "linB", linB, "angB", angB)

	linVel, angVel := RelativeScrewVelocities(startA, endA, startB, endB)
	m := screw.NewMotion(linVel, angVel)
	logger.Debugw("relative screw", "linVel", linVel, "angVel", angVel, "screw", m)
	if m.IsStatic() {
		return false, result, nil
	}

	q := newQuery(m, a, b, startA, startB, o.insideTolerance)
	var best candidate
	var err error
	if o.parallel {
		best, err = q.runParallel(ctx)
	} else {
		best, err = q.run(ctx)
	}
	if err != nil {
		return false, nil, err
	}
	if !best.hit {
		logger.Debug("no feature pair touches during the step")
		return false, result, nil
	}
	logger.Debugw("feature pair accepted", "feature", best.feature, "time", best.time)

	result.TimeOfImpact = best.time
	result.Feature = best.feature
	if best.time < ContactFraction {
		result.Fraction = best.time
		result.PoseA = startA
		result.PoseB = startB
	} else {
		result.Fraction = ShrinkFactor * best.time
		result.PoseB = spatialmath.Interpolate(startB, endB, result.Fraction)
		result.PoseA = spatialmath.Compose(
			q.fromScrew(result.PoseB),
			m.InBetweenPose(spatialmath.Compose(q.w2s, startA), result.Fraction),
		)
	}

	toWorld := q.fromScrew(result.PoseB)
	result.ContactPoint = spatialmath.TransformPoint(toWorld, best.point)
	result.ContactNormal = spatialmath.RotateVector(toWorld.Orientation().Quaternion(), best.normal).Normalize()
	logger.Debugw("advanced", "fraction", result.Fraction, "contact", result.ContactPoint, "normal", result.ContactNormal)
	return true, result, nil
}

// candidate is the best contact found so far, in screw space.
type candidate struct {
	hit     bool
	time    float64
	index   int
	feature FeaturePair
	point   r3.Vector
	normal  r3.Vector
}

type screwEdge struct {
	start, dir r3.Vector
}

// query holds the features of both bodies transformed into screw space. A's features move with the
// screw; B's stay put.
type query struct {
	m         *screw.Motion
	w2s       spatialmath.Pose
	s2w       spatialmath.Pose
	a, b      spatialmath.ConvexShape
	startA    spatialmath.Pose
	startB    spatialmath.Pose
	tolerance float64

	edgesA, edgesB   []screwEdge
	vertsA, vertsB   []r3.Vector
	planesA, planesB []spatialmath.Plane
	centroidB        r3.Vector
}

func newQuery(m *screw.Motion, a, b spatialmath.ConvexShape, startA, startB spatialmath.Pose, tolerance float64) *query {
	w2s := m.LocalPose()
	q := &query{
		m:         m,
		w2s:       w2s,
		s2w:       spatialmath.PoseInverse(w2s),
		a:         a,
		b:         b,
		startA:    startA,
		startB:    startB,
		tolerance: tolerance,
	}
	toScrewA := spatialmath.Compose(w2s, startA)
	toScrewB := spatialmath.Compose(w2s, startB)
	q.edgesA, q.vertsA, q.planesA, _ = screwFeatures(a, toScrewA)
	q.edgesB, q.vertsB, q.planesB, q.centroidB = screwFeatures(b, toScrewB)
	return q
}

func screwFeatures(shape spatialmath.ConvexShape, toScrew spatialmath.Pose) ([]screwEdge, []r3.Vector, []spatialmath.Plane, r3.Vector) {
	edges := make([]screwEdge, shape.NumEdges())
	for i := range edges {
		p0, p1 := shape.Edge(i)
		start := spatialmath.TransformPoint(toScrew, p0)
		edges[i] = screwEdge{start: start, dir: spatialmath.TransformPoint(toScrew, p1).Sub(start)}
	}
	verts := make([]r3.Vector, shape.NumVertices())
	centroid := r3.Vector{}
	for i := range verts {
		verts[i] = spatialmath.TransformPoint(toScrew, shape.Vertex(i))
		centroid = centroid.Add(verts[i])
	}
	if len(verts) > 0 {
		centroid = centroid.Mul(1 / float64(len(verts)))
	}
	planes := make([]spatialmath.Plane, shape.NumPlanes())
	for i := range planes {
		planes[i] = shape.Plane(i).Transform(toScrew)
	}
	return edges, verts, planes, centroid
}

// fromScrew maps screw space to world coordinates with B at poseB.
func (q *query) fromScrew(poseB spatialmath.Pose) spatialmath.Pose {
	return spatialmath.Compose(spatialmath.Compose(poseB, spatialmath.PoseInverse(q.startB)), q.s2w)
}

// size is the number of feature pairs: edges x edges, then A vertices x B planes, then B vertices x
// A planes.
func (q *query) size() int {
	return len(q.edgesA)*len(q.edgesB) + len(q.vertsA)*len(q.planesB) + len(q.vertsB)*len(q.planesA)
}

// evaluate tests the feature pair at the given flattened index against best, updating best on a hit.
func (q *query) evaluate(index int, best *candidate) {
	nEdge := len(q.edgesA) * len(q.edgesB)
	nVertA := len(q.vertsA) * len(q.planesB)
	switch {
	case index < nEdge:
		q.edgePair(index/len(q.edgesB), index%len(q.edgesB), index, best)
	case index < nEdge+nVertA:
		i := index - nEdge
		q.vertexFacePair(i/len(q.planesB), i%len(q.planesB), index, best)
	default:
		i := index - nEdge - nVertA
		q.faceVertexPair(i%len(q.planesA), i/len(q.planesA), index, best)
	}
}

func (q *query) edgePair(i, j, index int, best *candidate) {
	ea, eb := q.edgesA[i], q.edgesB[j]
	_, mu, hit := EdgeEdgeTimeOfImpact(q.m, ea.start, ea.dir, eb.start, eb.dir, &best.time)
	if !hit {
		return
	}
	point := eb.start.Add(eb.dir.Mul(mu))
	normal := q.m.InBetweenVector(ea.dir, best.time).Cross(eb.dir)
	if normal.Norm2() == 0 {
		normal = point.Sub(q.centroidB)
	}
	if normal.Dot(point.Sub(q.centroidB)) < 0 {
		normal = normal.Mul(-1)
	}
	best.set(index, FeaturePair{Kind: EdgeEdge, IndexA: i, IndexB: j}, point, normal)
}

func (q *query) vertexFacePair(vi, pi, index int, best *candidate) {
	vertex := q.vertsA[vi]
	plane := q.planesB[pi]
	t := best.time
	if !VertexFaceTimeOfImpact(q.m, vertex, plane, &t, false) {
		return
	}
	point := q.m.InBetweenPosition(vertex, t)
	local := spatialmath.TransformPoint(spatialmath.PoseInverse(q.startB), spatialmath.TransformPoint(q.s2w, point))
	if !q.b.IsInside(local, q.tolerance) {
		return
	}
	best.time = t
	best.set(index, FeaturePair{Kind: VertexFace, IndexA: vi, IndexB: pi}, point, plane.Normal)
}

func (q *query) faceVertexPair(pi, vi, index int, best *candidate) {
	vertex := q.vertsB[vi]
	plane := q.planesA[pi]
	t := best.time
	if !VertexFaceTimeOfImpact(q.m, vertex, plane, &t, true) {
		return
	}
	pulledBack := q.m.InBetweenPosition(vertex, -t)
	local := spatialmath.TransformPoint(spatialmath.PoseInverse(q.startA), spatialmath.TransformPoint(q.s2w, pulledBack))
	if !q.a.IsInside(local, q.tolerance) {
		return
	}
	best.time = t
	best.set(index, FeaturePair{Kind: FaceVertex, IndexA: pi, IndexB: vi}, vertex, q.m.InBetweenVector(plane.Normal, t).Mul(-1))
}

func (c *candidate) set(index int, feature FeaturePair, point, normal r3.Vector) {
	c.hit = true
	c.index = index
	c.feature = feature
	c.point = point
	c.normal = normal
}

// run evaluates every feature pair in order.
func (q *query) run(ctx context.Context) (candidate, error) {
	best := candidate{time: 1}
	for i := 0; i < q.size(); i++ {
		if err := ctx.Err(); err != nil {
			return candidate{}, err
		}
		q.evaluate(i, &best)
	}
	return best, nil
}

// runParallel evaluates contiguous ranges of feature pairs in parallel, each against its own bound,
// and keeps the earliest contact. Ties go to the lowest index.
func (q *query) runParallel(ctx context.Context) (candidate, error) {
	var groupBest []candidate
	err := utils.GroupWorkParallel(
		ctx,
		q.size(),
		func(numGroups int) {
			groupBest = make([]candidate, numGroups)
		},
		func(groupNum, groupSize, from, to int) (utils.MemberWorkFunc, utils.GroupWorkDoneFunc) {
			local := candidate{time: 1}
			return func(memberNum, workNum int) {
					q.evaluate(workNum, &local)
				}, func() {
					groupBest[groupNum] = local
				}
		},
	)
	if err != nil {
		return candidate{}, err
	}
	best := candidate{time: 1}
	for _, c := range groupBest {
		if !c.hit {
			continue
		}
		if !best.hit || c.time < best.time || (c.time == best.time && c.index < best.index) {
			best = c
		}
	}
	return best, nil
}
