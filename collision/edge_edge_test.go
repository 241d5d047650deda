package collision

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/ccd/screw"
)

func TestEdgeEdgeStatic(t *testing.T) {
	m := screw.NewMotion(r3.Vector{}, r3.Vector{})
	minTime := 1.
	_, _, hit := EdgeEdgeTimeOfImpact(m, r3.Vector{}, r3.Vector{X: 1}, r3.Vector{}, r3.Vector{Y: 1}, &minTime)
	test.That(t, hit, test.ShouldBeFalse)
	test.That(t, minTime, test.ShouldEqual, 1.)
}

func TestEdgeEdgeTranslation(t *testing.T) {
	m := screw.NewMotion(r3.Vector{Z: 2}, r3.Vector{})
	a := r3.Vector{X: -1}
	u := r3.Vector{X: 2}
	c := r3.Vector{Y: -1, Z: 1}
	v := r3.Vector{Y: 2}

	minTime := 1.
	lambda, mu, hit := EdgeEdgeTimeOfImpact(m, a, u, c, v, &minTime)
	test.That(t, hit, test.ShouldBeTrue)
	test.That(t, minTime, test.ShouldAlmostEqual, 0.5)
	test.That(t, lambda, test.ShouldAlmostEqual, 0.5)
	test.That(t, mu, test.ShouldAlmostEqual, 0.5)

	t.Run("bounded by min time", func(t *testing.T) {
		minTime := 0.4
		_, _, hit := EdgeEdgeTimeOfImpact(m, a, u, c, v, &minTime)
		test.That(t, hit, test.ShouldBeFalse)
		test.That(t, minTime, test.ShouldEqual, 0.4)
	})
	t.Run("touching exactly at min time", func(t *testing.T) {
		minTime := 0.5
		_, _, hit := EdgeEdgeTimeOfImpact(m, a, u, c, v, &minTime)
		test.That(t, hit, test.ShouldBeTrue)
	})
	t.Run("parallel projections", func(t *testing.T) {
		minTime := 1.
		_, _, hit := EdgeEdgeTimeOfImpact(m, a, u, c, r3.Vector{X: 2}, &minTime)
		test.That(t, hit, test.ShouldBeFalse)
	})
	t.Run("projections miss", func(t *testing.T) {
		minTime := 1.
		_, _, hit := EdgeEdgeTimeOfImpact(m, a.Add(r3.Vector{X: 5}), u, c, v, &minTime)
		test.That(t, hit, test.ShouldBeFalse)
	})
	t.Run("moving away", func(t *testing.T) {
		minTime := 1.
		_, _, hit := EdgeEdgeTimeOfImpact(m, a, u, c.Sub(r3.Vector{Z: 2}), v, &minTime)
		test.That(t, hit, test.ShouldBeFalse)
	})
}

func TestEdgeEdgeRotationGeneral(t *testing.T) {
	// a vertical edge at radius 1 sweeps a quarter turn and crosses a slanted edge halfway through
	m := screw.NewMotion(r3.Vector{}, r3.Vector{Z: math.Pi / 2})
	a := r3.Vector{X: 1, Z: -1}
	u := r3.Vector{Z: 2}
	v := r3.Vector{X: 0.2, Z: 1}
	cross := r3.Vector{X: math.Sqrt2 / 2, Y: math.Sqrt2 / 2}
	c := cross.Sub(v.Mul(0.5))

	minTime := 1.
	lambda, mu, hit := EdgeEdgeTimeOfImpact(m, a, u, c, v, &minTime)
	test.That(t, hit, test.ShouldBeTrue)
	test.That(t, minTime, test.ShouldAlmostEqual, 0.5, 1e-9)
	test.That(t, lambda, test.ShouldAlmostEqual, 0.5, 1e-9)
	test.That(t, mu, test.ShouldAlmostEqual, 0.5, 1e-9)

	// the contact really is on both edges at that time
	onA := m.InBetweenPosition(a, minTime).Add(m.InBetweenVector(u, minTime).Mul(lambda))
	onB := c.Add(v.Mul(mu))
	test.That(t, onA.Sub(onB).Norm(), test.ShouldBeLessThanOrEqualTo, 1e-9)
}

func TestEdgeEdgeScrew(t *testing.T) {
	// quarter turn with one unit of rise; the vertical edge slides up while it turns
	m := screw.NewMotion(r3.Vector{Z: 1}, r3.Vector{Z: math.Pi / 2})
	a := r3.Vector{X: 1, Z: -1}
	u := r3.Vector{Z: 2}
	c := r3.Vector{X: math.Sqrt2/2 - 0.5, Y: math.Sqrt2 / 2}
	v := r3.Vector{X: 1}

	minTime := 1.
	lambda, mu, hit := EdgeEdgeTimeOfImpact(m, a, u, c, v, &minTime)
	test.That(t, hit, test.ShouldBeTrue)
	test.That(t, minTime, test.ShouldAlmostEqual, 0.5, 1e-9)
	test.That(t, lambda, test.ShouldAlmostEqual, (1-math.Tan(math.Pi/8))/2, 1e-9)
	test.That(t, mu, test.ShouldAlmostEqual, 0.5, 1e-9)
}

func TestEdgeEdgeRotationFlat(t *testing.T) {
	m := screw.NewMotion(r3.Vector{}, r3.Vector{Z: math.Pi / 2})
	diag := r3.Vector{X: 1, Y: 1}.Normalize()
	target := diag.Mul(1.5)

	t.Run("moving edge normal to axis", func(t *testing.T) {
		minTime := 1.
		lambda, mu, hit := EdgeEdgeTimeOfImpact(m,
			r3.Vector{X: 1}, r3.Vector{X: 1},
			target.Sub(r3.Vector{Z: 1}), r3.Vector{Z: 2},
			&minTime)
		test.That(t, hit, test.ShouldBeTrue)
		test.That(t, minTime, test.ShouldAlmostEqual, 0.5, 1e-9)
		test.That(t, lambda, test.ShouldAlmostEqual, 0.5, 1e-9)
		test.That(t, mu, test.ShouldAlmostEqual, 0.5, 1e-9)
	})
	t.Run("fixed edge normal to axis", func(t *testing.T) {
		minTime := 1.
		lambda, mu, hit := EdgeEdgeTimeOfImpact(m,
			r3.Vector{X: 1.5, Z: -1}, r3.Vector{Z: 2},
			diag, diag,
			&minTime)
		test.That(t, hit, test.ShouldBeTrue)
		test.That(t, minTime, test.ShouldAlmostEqual, 0.5, 1e-9)
		test.That(t, lambda, test.ShouldAlmostEqual, 0.5, 1e-9)
		test.That(t, mu, test.ShouldAlmostEqual, 0.5, 1e-9)
	})
	t.Run("target behind the rotation", func(t *testing.T) {
		minTime := 1.
		behind := r3.Vector{X: target.X, Y: -target.Y}
		_, _, hit := EdgeEdgeTimeOfImpact(m,
			r3.Vector{X: 1}, r3.Vector{X: 1},
			behind.Sub(r3.Vector{Z: 1}), r3.Vector{Z: 2},
			&minTime)
		test.That(t, hit, test.ShouldBeFalse)
	})
	t.Run("fixed edge misses the moving plane", func(t *testing.T) {
		minTime := 1.
		_, _, hit := EdgeEdgeTimeOfImpact(m,
			r3.Vector{X: 1}, r3.Vector{X: 1},
			target.Add(r3.Vector{Z: 1}), r3.Vector{Z: 2},
			&minTime)
		test.That(t, hit, test.ShouldBeFalse)
	})
	t.Run("both edges in one plane", func(t *testing.T) {
		minTime := 1.
		_, _, hit := EdgeEdgeTimeOfImpact(m, r3.Vector{X: 1}, r3.Vector{X: 1}, target, diag, &minTime)
		test.That(t, hit, test.ShouldBeFalse)
		test.That(t, minTime, test.ShouldEqual, 1.)
	})
	t.Run("edges in parallel planes", func(t *testing.T) {
		minTime := 1.
		_, _, hit := EdgeEdgeTimeOfImpact(m, r3.Vector{X: 1}, r3.Vector{X: 1}, target.Add(r3.Vector{Z: 1}), diag, &minTime)
		test.That(t, hit, test.ShouldBeFalse)
	})
}

func TestRotationPointPointTime(t *testing.T) {
	omega := math.Pi / 2
	point := r3.Vector{X: 2}

	minTime := 1.
	test.That(t, rotationPointPointTime(point, 2, omega, r3.Vector{Y: 2}, &minTime), test.ShouldBeFalse)
	test.That(t, minTime, test.ShouldEqual, 1.)

	test.That(t, rotationPointPointTime(point, 2, omega, r3.Vector{X: math.Sqrt2, Y: math.Sqrt2}, &minTime), test.ShouldBeTrue)
	test.That(t, minTime, test.ShouldAlmostEqual, 0.5)

	minTime = 1.
	test.That(t, rotationPointPointTime(point, 2, omega, r3.Vector{X: math.Sqrt2, Y: -math.Sqrt2}, &minTime), test.ShouldBeFalse)
	test.That(t, rotationPointPointTime(r3.Vector{}, 0, omega, r3.Vector{}, &minTime), test.ShouldBeFalse)
}

func TestClosestLineParams(t *testing.T) {
	lambda, mu, ok := closestLineParams(r3.Vector{X: -1}, r3.Vector{X: 2}, r3.Vector{Y: -1, Z: 1}, r3.Vector{Y: 2})
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, lambda, test.ShouldAlmostEqual, 0.5)
	test.That(t, mu, test.ShouldAlmostEqual, 0.5)

	_, _, ok = closestLineParams(r3.Vector{}, r3.Vector{X: 1}, r3.Vector{Y: 1}, r3.Vector{X: 3})
	test.That(t, ok, test.ShouldBeFalse)
}
