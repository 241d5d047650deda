// Package polysolve finds the real roots of polynomials of degree four or less in closed form.
package polysolve

import "fmt"

// MaxRoots is the largest number of real roots any solve can report.
const MaxRoots = 4

// Kind tags the outcome of a solve.
type Kind int

const (
	// NoRoots means the polynomial has no real roots the solver could find.
	NoRoots Kind = iota
	// IdenticallyZero means every coefficient vanished, so every x is a root.
	IdenticallyZero
	// Found means one or more real roots were found.
	Found
)

func (k Kind) String() string {
	switch k {
	case NoRoots:
		return "no roots"
	case IdenticallyZero:
		return "identically zero"
	case Found:
		return "found"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Roots is the result of a solve. Only the first Len() entries of the backing array are meaningful.
// Roots are in the order the solve produced them and are not sorted.
type Roots struct {
	kind   Kind
	n      int
	values [MaxRoots]float64
}

func noRoots() Roots {
	return Roots{kind: NoRoots}
}

func identicallyZero() Roots {
	return Roots{kind: IdenticallyZero}
}

func newRoots(values ...float64) Roots {
	r := Roots{}
	for _, v := range values {
		r = r.push(v)
	}
	return r
}

// push appends a root, dropping anything past MaxRoots.
func (r Roots) push(v float64) Roots {
	if r.n >= MaxRoots {
		return r
	}
	r.values[r.n] = v
	r.n++
	r.kind = Found
	return r
}

func (r Roots) concat(other Roots) Roots {
	for _, v := range other.Slice() {
		r = r.push(v)
	}
	return r
}

func (r Roots) shift(by float64) Roots {
	for i := 0; i < r.n; i++ {
		r.values[i] += by
	}
	return r
}

// Kind returns how the solve ended.
func (r Roots) Kind() Kind {
	return r.kind
}

// Len returns the number of real roots found.
func (r Roots) Len() int {
	return r.n
}

// Count returns the number of roots, or -1 if the polynomial is identically zero.
func (r Roots) Count() int {
	if r.kind == IdenticallyZero {
		return -1
	}
	return r.n
}

// At returns the i-th root. It panics if i is out of range.
func (r Roots) At(i int) float64 {
	if i < 0 || i >= r.n {
		panic(fmt.Sprintf("root index %d out of range [0,%d)", i, r.n))
	}
	return r.values[i]
}

// Slice returns the roots as a new slice.
func (r Roots) Slice() []float64 {
	return append([]float64(nil), r.values[:r.n]...)
}

func (r Roots) String() string {
	if r.kind != Found {
		return r.kind.String()
	}
	return fmt.Sprintf("%v", r.values[:r.n])
}
