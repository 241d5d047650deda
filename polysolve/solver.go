package polysolve

import (
	"math"

	"go.viam.com/ccd/utils"
)

// FuzzyEpsilon is the threshold under which a coefficient or discriminant counts as zero.
const FuzzyEpsilon = 1e-4

// Solver finds the real roots of low degree polynomials. Coefficients are given leading term first.
type Solver interface {
	SolveQuadratic(p, q float64) Roots
	SolveQuadraticFull(a, b, c float64) Roots
	SolveCubic(lead, a, b, c float64) Roots
	SolveQuartic(lead, a, b, c, d float64) Roots
}

// AlgebraicSolver solves polynomials with the classic closed forms: completing the square,
// Cardano's method with the trigonometric fallback, and Ferrari's resolvent cubic.
// It holds no state, so one value may be shared between goroutines.
type AlgebraicSolver struct{}

// NewAlgebraicSolver returns a closed form solver.
func NewAlgebraicSolver() *AlgebraicSolver {
	return &AlgebraicSolver{}
}

func fuzzyZero(x float64) bool {
	return math.Abs(x) < FuzzyEpsilon
}

// SolveQuadratic solves the depressed quadratic x^2 + p*x + q = 0.
// A discriminant slightly below zero (down to -FuzzyEpsilon) still reports the double root.
func (s *AlgebraicSolver) SolveQuadratic(p, q float64) Roots {
	h := 0.5 * p
	dis := h*h - q
	switch {
	case dis > 0:
		dis = math.Sqrt(dis)
		return newRoots(dis-h, -dis-h)
	case fuzzyZero(dis):
		return newRoots(-h)
	default:
		return noRoots()
	}
}

// SolveQuadraticFull solves a*x^2 + b*x + c = 0 using the discriminant directly.
// A zero discriminant reports the double root twice.
func (s *AlgebraicSolver) SolveQuadraticFull(a, b, c float64) Roots {
	dis := b*b - 4*a*c
	if dis < 0 {
		return noRoots()
	}
	dis = math.Sqrt(dis)
	return newRoots((-b+dis)/(2*a), (-b-dis)/(2*a))
}

// solveLinear solves b*x + c = 0.
func solveLinear(b, c float64) Roots {
	if fuzzyZero(b) {
		if fuzzyZero(c) {
			return identicallyZero()
		}
		return noRoots()
	}
	return newRoots(-c / b)
}

// SolveCubic solves lead*x^3 + a*x^2 + b*x + c = 0, falling back to lower degrees when the
// leading coefficients vanish.
func (s *AlgebraicSolver) SolveCubic(lead, a, b, c float64) Roots {
	if fuzzyZero(lead) {
		if fuzzyZero(a) {
			return solveLinear(b, c)
		}
		return s.SolveQuadraticFull(a, b, c)
	}

	// normal form x^3 + a*x^2 + b*x + c = 0
	a /= lead
	b /= lead
	c /= lead

	// substitute x = y - a/3 to get y^3 + p*y + q = 0
	a /= 3
	u := a * a
	p := b/3 - u
	q := a*(2*u-b) + c

	if fuzzyZero(p) {
		if fuzzyZero(q) {
			return newRoots(-a)
		}
		return newRoots(utils.CubeRoot(-q) - a)
	}

	q /= 2
	dis := p*p*p + q*q
	switch {
	case dis > 0:
		u = utils.CubeRoot(-q + math.Sqrt(dis))
		return newRoots(u - p/u - a)
	case dis < 0:
		// casus irreducibilis
		r := math.Sqrt(-p)
		p *= -r
		phi := math.Acos(utils.Clamp(-q/p, -1, 1)) / 3
		const third = 2 * math.Pi / 3
		return newRoots(
			2*r*math.Cos(phi)-a,
			2*r*math.Cos(phi+third)-a,
			2*r*math.Cos(phi-third)-a,
		)
	default:
		r := utils.CubeRoot(-q)
		return newRoots(2*r-a, -r-a)
	}
}

// SolveQuartic solves lead*x^4 + a*x^3 + b*x^2 + c*x + d = 0, falling back to lower degrees when
// the leading coefficients vanish.
func (s *AlgebraicSolver) SolveQuartic(lead, a, b, c, d float64) Roots {
	if fuzzyZero(lead) {
		if fuzzyZero(a) {
			if fuzzyZero(b) {
				return solveLinear(c, d)
			}
			return s.SolveQuadratic(c/b, d/b)
		}
		return s.SolveCubic(1, b/a, c/a, d/a)
	}

	// normal form x^4 + a*x^3 + b*x^2 + c*x + d = 0
	a /= lead
	b /= lead
	c /= lead
	d /= lead

	// substitute x = y - a/4 to get y^4 + p*y^2 + q*y + r = 0
	a /= 4
	aa := a * a
	p := b - 6*aa
	q := a*(8*aa-2*b) + c
	r := a*(a*(b-3*aa)-c) + d

	if fuzzyZero(q) {
		// biquadratic: solve for y^2
		squares := s.SolveQuadratic(p, r)
		if squares.Len() == 0 || squares.At(0) <= 0 {
			return noRoots()
		}
		hi := math.Sqrt(squares.At(0))
		roots := newRoots(hi, -hi)
		if squares.Len() == 2 && squares.At(1) > 0 {
			lo := math.Sqrt(squares.At(1))
			roots = roots.push(lo).push(-lo)
		}
		return roots.shift(-a)
	}

	if fuzzyZero(r) {
		// y * (y^3 + p*y + q) = 0
		cubic := s.SolveCubic(1, 0, p, q)
		if cubic.Kind() == IdenticallyZero {
			return newRoots(-a)
		}
		return cubic.push(0).shift(-a)
	}

	// resolvent cubic
	resolvent := s.SolveCubic(1, -0.5*p, -r, 0.5*r*p-0.125*q*q)
	w := 0.
	if resolvent.Len() > 0 {
		w = resolvent.At(0)
	}

	uAux := w*w - r
	vAux := 2*w - p
	if fuzzyZero(uAux) {
		uAux = 0
	}
	if fuzzyZero(vAux) {
		vAux = 0
	}
	if uAux < 0 || vAux < 0 {
		return noRoots()
	}
	uAux = math.Sqrt(uAux)
	vAux = math.Sqrt(vAux)
	if q < 0 {
		vAux = -vAux
	}

	first := s.SolveQuadratic(vAux, w-uAux)
	second := s.SolveQuadratic(-vAux, w+uAux)
	return first.concat(second).shift(-a)
}
