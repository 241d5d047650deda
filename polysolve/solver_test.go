package polysolve

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.viam.com/test"
)

var (
	approx     = cmpopts.EquateApprox(0, 1e-9)
	unordered  = cmpopts.SortSlices(func(a, b float64) bool { return a < b })
	emptyRoots = cmpopts.EquateEmpty()
)

func horner(x float64, coeffs ...float64) float64 {
	acc := 0.
	for _, c := range coeffs {
		acc = acc*x + c
	}
	return acc
}

func TestSolveQuadratic(t *testing.T) {
	s := NewAlgebraicSolver()
	for _, tc := range []struct {
		name string
		p, q float64
		kind Kind
		want []float64
	}{
		{"two roots", -3, 2, Found, []float64{1, 2}},
		{"double root", -2, 1, Found, []float64{1}},
		{"slightly negative discriminant", -2, 1 + FuzzyEpsilon/2, Found, []float64{1}},
		{"complex", 0, 1, NoRoots, nil},
	} {
		t.Run(tc.name, func(t *testing.T) {
			roots := s.SolveQuadratic(tc.p, tc.q)
			test.That(t, roots.Kind(), test.ShouldEqual, tc.kind)
			test.That(t, cmp.Diff(tc.want, roots.Slice(), approx, unordered, emptyRoots), test.ShouldBeEmpty)
		})
	}
}

func TestSolveQuadraticFull(t *testing.T) {
	s := NewAlgebraicSolver()
	roots := s.SolveQuadraticFull(2, -6, 4)
	test.That(t, cmp.Diff([]float64{1, 2}, roots.Slice(), approx, unordered), test.ShouldBeEmpty)

	// a zero discriminant still reports two equal roots
	roots = s.SolveQuadraticFull(1, -2, 1)
	test.That(t, roots.Count(), test.ShouldEqual, 2)
	test.That(t, roots.At(0), test.ShouldEqual, roots.At(1))

	roots = s.SolveQuadraticFull(1, 0, 1)
	test.That(t, roots.Kind(), test.ShouldEqual, NoRoots)
	test.That(t, roots.Count(), test.ShouldEqual, 0)
}

func TestSolveCubic(t *testing.T) {
	s := NewAlgebraicSolver()
	for _, tc := range []struct {
		name          string
		lead, a, b, c float64
		kind          Kind
		want          []float64
	}{
		{"three real roots", 1, -6, 11, -6, Found, []float64{1, 2, 3}},
		{"scaled", 2, -12, 22, -12, Found, []float64{1, 2, 3}},
		{"one real root", 1, 0, 1, -2, Found, []float64{1}},
		{"triple root", 1, -3, 3, -1, Found, []float64{1}},
		{"double root", 1, 0, -3, 2, Found, []float64{-2, 1}},
		{"p vanishes", 1, 0, 0, -8, Found, []float64{2}},
		{"quadratic fallback", 0, 1, -3, 2, Found, []float64{1, 2}},
		{"linear fallback", 0, 0, 2, -1, Found, []float64{0.5}},
		{"constant", 0, 0, 0, 1, NoRoots, nil},
		{"identically zero", 0, 0, 0, 0, IdenticallyZero, nil},
	} {
		t.Run(tc.name, func(t *testing.T) {
			roots := s.SolveCubic(tc.lead, tc.a, tc.b, tc.c)
			test.That(t, roots.Kind(), test.ShouldEqual, tc.kind)
			test.That(t, cmp.Diff(tc.want, roots.Slice(), cmpopts.EquateApprox(0, 1e-6), unordered, emptyRoots), test.ShouldBeEmpty)
		})
	}
	test.That(t, s.SolveCubic(0, 0, 0, 0).Count(), test.ShouldEqual, -1)
}

func TestSolveQuartic(t *testing.T) {
	s := NewAlgebraicSolver()
	for _, tc := range []struct {
		name             string
		lead, a, b, c, d float64
		kind             Kind
		want             []float64
	}{
		{"four real roots", 1, -10, 35, -50, 24, Found, []float64{1, 2, 3, 4}},
		{"scaled biquadratic", 2, 0, -10, 0, 8, Found, []float64{-2, -1, 1, 2}},
		{"biquadratic two roots", 1, 0, -3, 0, -4, Found, []float64{-2, 2}},
		{"biquadratic none", 1, 0, 3, 0, 2, NoRoots, nil},
		{"zero constant", 1, -6, 11, -6, 0, Found, []float64{0, 1, 2, 3}},
		{"resolvent", 1, 0, -5, 2, 0.5, Found, nil},
		{"no real roots", 1, 0, 0, 1, 1, NoRoots, nil},
		{"cubic fallback", 0, 1, -6, 11, -6, Found, []float64{1, 2, 3}},
		{"quadratic fallback", 0, 0, 1, -3, 2, Found, []float64{1, 2}},
		{"linear fallback", 0, 0, 0, 4, 2, Found, []float64{-0.5}},
		{"identically zero", 0, 0, 0, 0, 0, IdenticallyZero, nil},
	} {
		t.Run(tc.name, func(t *testing.T) {
			roots := s.SolveQuartic(tc.lead, tc.a, tc.b, tc.c, tc.d)
			test.That(t, roots.Kind(), test.ShouldEqual, tc.kind)
			if tc.want != nil {
				test.That(t, cmp.Diff(tc.want, roots.Slice(), cmpopts.EquateApprox(0, 1e-6), unordered), test.ShouldBeEmpty)
			}
			for _, x := range roots.Slice() {
				test.That(t, horner(x, tc.lead, tc.a, tc.b, tc.c, tc.d), test.ShouldAlmostEqual, 0, 1e-6)
			}
		})
	}
}

func TestSolveQuarticResolventWithShift(t *testing.T) {
	// (x-1)(x+2)(x^2+1): two real roots, a cubic term and no symmetry
	s := NewAlgebraicSolver()
	roots := s.SolveQuartic(1, 1, -1, 1, -2)
	test.That(t, roots.Kind(), test.ShouldEqual, Found)
	test.That(t, cmp.Diff([]float64{-2, 1}, roots.Slice(), cmpopts.EquateApprox(0, 1e-6), unordered), test.ShouldBeEmpty)
}

func TestRootsSubstituteBack(t *testing.T) {
	s := NewAlgebraicSolver()
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		p := rng.Float64()*20 - 10
		q := rng.Float64()*20 - 10
		for _, x := range s.SolveQuadratic(p, q).Slice() {
			test.That(t, horner(x, 1, p, q), test.ShouldAlmostEqual, 0, 1e-3)
		}

		lead := rng.Float64()*4 + 0.5
		a := rng.Float64()*20 - 10
		b := rng.Float64()*20 - 10
		c := rng.Float64()*20 - 10
		roots := s.SolveCubic(lead, a, b, c)
		test.That(t, roots.Len(), test.ShouldBeIn, []int{1, 2, 3})
		for _, x := range roots.Slice() {
			test.That(t, horner(x, lead, a, b, c)/lead, test.ShouldAlmostEqual, 0, 1e-6*math.Max(1, math.Abs(x*x*x)))
		}

		// the real root count follows the sign of the discriminant
		disc := 18*lead*a*b*c - 4*a*a*a*c + a*a*b*b - 4*lead*b*b*b - 27*lead*lead*c*c
		if disc > 1 {
			test.That(t, roots.Len(), test.ShouldEqual, 3)
		} else if disc < -1 {
			test.That(t, roots.Len(), test.ShouldEqual, 1)
		}
	}
}

func TestSolversAreIndependent(t *testing.T) {
	first := NewAlgebraicSolver().SolveCubic(1, -6, 11, -6)
	second := NewAlgebraicSolver().SolveCubic(1, -6, 11, -6)
	test.That(t, first, test.ShouldResemble, second)

	var s Solver = NewAlgebraicSolver()
	test.That(t, s.SolveQuartic(1, -10, 35, -50, 24).Count(), test.ShouldEqual, 4)
}

func TestRootsAccessors(t *testing.T) {
	r := newRoots(1, 2, 3, 4, 5)
	test.That(t, r.Len(), test.ShouldEqual, MaxRoots)
	test.That(t, r.At(3), test.ShouldEqual, 4.)
	test.That(t, func() { r.At(4) }, test.ShouldPanic)
	test.That(t, r.shift(1).Slice(), test.ShouldResemble, []float64{2, 3, 4, 5})
	test.That(t, r.String(), test.ShouldEqual, "[1 2 3 4]")
	test.That(t, noRoots().String(), test.ShouldEqual, "no roots")
	test.That(t, identicallyZero().Count(), test.ShouldEqual, -1)
	test.That(t, Kind(7).String(), test.ShouldEqual, "Kind(7)")
}
