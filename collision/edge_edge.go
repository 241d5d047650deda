package collision

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/ccd/polysolve"
	"go.viam.com/ccd/screw"
)

// EdgeEdgeTimeOfImpact finds the earliest time in [0, minTime) at which the moving edge a + lambda*u
// meets the fixed edge c + mu*v, both given in the screw space of m. On a hit it lowers minTime and
// returns the edge parameters of the contact.
func EdgeEdgeTimeOfImpact(m *screw.Motion, a, u, c, v r3.Vector, minTime *float64) (lambda, mu float64, hit bool) {
	switch {
	case m.IsStatic():
		return 0, 0, false
	case m.IsPureTranslation():
		return edgeEdgeTranslation(m, a, u, c, v, minTime)
	case m.IsPureRotation():
		return edgeEdgeRotation(m, a, u, c, v, minTime)
	default:
		return edgeEdgeGeneralCase(m, a, u, c, v, minTime)
	}
}

// edgeEdgeTranslation intersects the XY projections of both edges, then solves the Z offset for time.
func edgeEdgeTranslation(m *screw.Motion, a, u, c, v r3.Vector, minTime *float64) (float64, float64, bool) {
	det := v.X*u.Y - u.X*v.Y
	if math.Abs(det) < screw.Epsilon {
		return 0, 0, false
	}
	dx := c.X - a.X
	dy := c.Y - a.Y
	lambda := (v.X*dy - v.Y*dx) / det
	mu := (u.X*dy - u.Y*dx) / det
	if !inUnitInterval(lambda) || !inUnitInterval(mu) {
		return 0, 0, false
	}
	t := (c.Z - a.Z + mu*v.Z - lambda*u.Z) / m.S()
	if t < 0 || t > *minTime {
		return 0, 0, false
	}
	*minTime = t
	return lambda, mu, true
}

// edgeEdgeRotation handles rotation without axial translation. An edge lying in a plane normal to
// the axis stays in that plane, which turns the problem into a point sweeping a circle.
func edgeEdgeRotation(m *screw.Motion, a, u, c, v r3.Vector, minTime *float64) (float64, float64, bool) {
	uFlat := math.Abs(u.Z) < screw.Epsilon
	vFlat := math.Abs(v.Z) < screw.Epsilon
	switch {
	case uFlat && vFlat:
		if math.Abs(a.Z-c.Z) < screw.Epsilon {
			// both edges rotate within one plane
			return 0, 0, vertexEdgeTimeOfImpact(m, a, c, v, minTime)
		}
		return 0, 0, false
	case uFlat:
		return edgeEdgeFlatMoving(m, a, u, c, v, minTime)
	case vFlat:
		return edgeEdgeFlatFixed(m, a, u, c, v, minTime)
	default:
		return edgeEdgeGeneralCase(m, a, u, c, v, minTime)
	}
}

// edgeEdgeFlatMoving handles a moving edge normal to the axis: the fixed edge pierces its plane in a
// single point, which some point of the moving edge has to sweep through.
func edgeEdgeFlatMoving(m *screw.Motion, a, u, c, v r3.Vector, minTime *float64) (float64, float64, bool) {
	mu := (a.Z - c.Z) / v.Z
	if !inUnitInterval(mu) {
		return 0, 0, false
	}
	target := c.Add(v.Mul(mu))
	radius := math.Hypot(target.X, target.Y)

	bestLambda := 0.
	found := false
	for _, lambda := range circleLineParams(a, u, radius) {
		if !inUnitInterval(lambda) {
			continue
		}
		if rotationPointPointTime(a.Add(u.Mul(lambda)), radius, m.Omega(), target, minTime) {
			bestLambda = lambda
			found = true
		}
	}
	return bestLambda, mu, found
}

// edgeEdgeFlatFixed handles a fixed edge normal to the axis: the moving edge pierces that plane in a
// single point, which has to sweep through the fixed edge.
func edgeEdgeFlatFixed(m *screw.Motion, a, u, c, v r3.Vector, minTime *float64) (float64, float64, bool) {
	lambda := (c.Z - a.Z) / u.Z
	if !inUnitInterval(lambda) {
		return 0, 0, false
	}
	moving := a.Add(u.Mul(lambda))
	radius := math.Hypot(moving.X, moving.Y)

	bestMu := 0.
	found := false
	for _, mu := range circleLineParams(c, v, radius) {
		if !inUnitInterval(mu) {
			continue
		}
		if rotationPointPointTime(moving, radius, m.Omega(), c.Add(v.Mul(mu)), minTime) {
			bestMu = mu
			found = true
		}
	}
	return lambda, bestMu, found
}

// circleLineParams returns the parameters at which the XY projection of p + k*d lies on the circle
// of the given radius around the origin.
func circleLineParams(p, d r3.Vector, radius float64) []float64 {
	qa := d.X*d.X + d.Y*d.Y
	if qa < screw.Epsilon*screw.Epsilon {
		return nil
	}
	qb := 2 * (p.X*d.X + p.Y*d.Y)
	qc := p.X*p.X + p.Y*p.Y - radius*radius
	return polysolve.NewAlgebraicSolver().SolveQuadraticFull(qa, qb, qc).Slice()
}

// rotationPointPointTime returns whether point, rotating about the axis at rate omega, reaches target
// on its circle in the forward direction before minTime, lowering minTime if so.
func rotationPointPointTime(point r3.Vector, radius, omega float64, target r3.Vector, minTime *float64) bool {
	if radius < screw.Epsilon {
		return false
	}
	// target has to lie in the half plane ahead of point
	if point.X*target.Y-point.Y*target.X < 0 {
		return false
	}
	cos := (point.X*target.X + point.Y*target.Y) / (radius * radius)
	t := math.Acos(math.Max(-1, math.Min(1, cos))) / omega
	if t < 0 || t >= *minTime {
		return false
	}
	*minTime = t
	return true
}

// edgeEdgeGeneralCase substitutes tau = tan(omega*t/2) into the condition that both edge lines are
// coplanar, which leaves a cubic in tau. Each root is checked against both segments.
func edgeEdgeGeneralCase(m *screw.Motion, a, u, c, v r3.Vector, minTime *float64) (float64, float64, bool) {
	k := 0.
	if m.S() != 0 {
		k = m.S() / math.Tan(0.5*m.Omega())
	}
	w := a.Cross(u)
	n := v.Cross(c)
	alpha := (w.X*v.X + w.Y*v.Y) - (u.X*n.X + u.Y*n.Y)
	beta := (w.X*v.Y - w.Y*v.X) - (u.X*n.Y - u.Y*n.X)
	gamma := w.Z*v.Z - u.Z*n.Z
	delta := u.X*v.Y - u.Y*v.X
	eps := -(u.X*v.X + u.Y*v.Y)

	roots := polysolve.NewAlgebraicSolver().SolveCubic(-k*delta, -alpha+gamma+2*k*eps, 2*beta+k*delta, alpha+gamma)

	var bestLambda, bestMu float64
	found := false
	for _, tau := range roots.Slice() {
		t := 2 * math.Atan(tau) / m.Omega()
		if t < 0 || t >= *minTime {
			continue
		}
		p0 := m.InBetweenPosition(a, t)
		dir := m.InBetweenVector(u, t)
		lambda, mu, ok := closestLineParams(p0, dir, c, v)
		if !ok || !inUnitInterval(lambda) || !inUnitInterval(mu) {
			continue
		}
		*minTime = t
		bestLambda, bestMu = lambda, mu
		found = true
	}
	return bestLambda, bestMu, found
}

// closestLineParams returns the parameters of the closest points of the lines p + lambda*u and
// c + mu*v. It fails for parallel lines.
func closestLineParams(p, u, c, v r3.Vector) (float64, float64, bool) {
	w0 := p.Sub(c)
	uu := u.Dot(u)
	uv := u.Dot(v)
	vv := v.Dot(v)
	uw := u.Dot(w0)
	vw := v.Dot(w0)
	denom := uu*vv - uv*uv
	if denom < screw.Epsilon*uu*vv {
		return 0, 0, false
	}
	return (uv*vw - vv*uw) / denom, (uu*vw - uv*uw) / denom, true
}

// vertexEdgeTimeOfImpact would resolve edges that rotate within a single plane. That configuration is
// not handled and never reports a hit.
func vertexEdgeTimeOfImpact(m *screw.Motion, a, c, v r3.Vector, minTime *float64) bool {
	return false
}

func inUnitInterval(x float64) bool {
	return x >= 0 && x <= 1
}
