package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"go.viam.com/test"

	"go.viam.com/ccd/polysolve"
)

const cubesScene = `{
  a: {
    name: "mover",
    shape: {type: "box", dims: {x: 1, y: 1, z: 1}},
    start: {translation: {}},
    end: {translation: {x: 3}},
  },
  b: {
    name: "wall",
    shape: {type: "box", dims: {x: 1, y: 1, z: 1}},
    start: {translation: {x: 3}},
    end: {translation: {x: 3}},
  },
}`

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := NewApp(&out).Run(append([]string{"ccd"}, args...))
	return out.String(), err
}

func TestParseCoefficients(t *testing.T) {
	for _, tc := range []struct {
		raw      string
		expected []float64
		errStr   string
	}{
		{"1, -3", []float64{1, -3}, ""},
		{"1,-10,35,-50,24", []float64{1, -10, 35, -50, 24}, ""},
		{"2.5,1e-3,0", []float64{2.5, 0.001, 0}, ""},
		{"7", nil, "between 2 and 5"},
		{"1,2,3,4,5,6", nil, "between 2 and 5"},
		{"1,two,3", nil, "coefficient 1"},
	} {
		t.Run(tc.raw, func(t *testing.T) {
			coeffs, err := parseCoefficients(tc.raw)
			if tc.errStr != "" {
				test.That(t, err, test.ShouldNotBeNil)
				test.That(t, err.Error(), test.ShouldContainSubstring, tc.errStr)
				return
			}
			test.That(t, err, test.ShouldBeNil)
			test.That(t, coeffs, test.ShouldResemble, tc.expected)
		})
	}
}

func TestSolveDispatch(t *testing.T) {
	solver := polysolve.NewAlgebraicSolver()
	for _, tc := range []struct {
		name     string
		coeffs   []float64
		expected []float64
	}{
		{"linear", []float64{2, -3}, []float64{1.5}},
		{"quadratic", []float64{1, -3, 2}, []float64{1, 2}},
		{"cubic", []float64{1, -6, 11, -6}, []float64{1, 2, 3}},
		{"quartic", []float64{1, -10, 35, -50, 24}, []float64{1, 2, 3, 4}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			roots := solve(solver, tc.coeffs).Slice()
			sort.Float64s(roots)
			test.That(t, roots, test.ShouldHaveLength, len(tc.expected))
			for i, x := range roots {
				test.That(t, x, test.ShouldAlmostEqual, tc.expected[i], 1e-6)
				test.That(t, evaluate(tc.coeffs, x), test.ShouldAlmostEqual, 0, 1e-6)
			}
		})
	}
}

func TestRootsCommand(t *testing.T) {
	out, err := runApp(t, "roots", "--coeffs", "1,-10,35,-50,24")
	test.That(t, err, test.ShouldBeNil)
	lower := strings.ToLower(out)
	test.That(t, lower, test.ShouldContainSubstring, "found (4)")
	test.That(t, lower, test.ShouldContainSubstring, "max residual")

	out, err = runApp(t, "roots", "--coeffs", "1,0,1")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, strings.ToLower(out), test.ShouldContainSubstring, "no roots (0)")

	_, err = runApp(t, "roots", "--coeffs", "1")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestCastCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cubes.json5")
	test.That(t, os.WriteFile(path, []byte(cubesScene), 0o600), test.ShouldBeNil)

	out, err := runApp(t, "cast", "--config", path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "0.660000")
	test.That(t, out, test.ShouldContainSubstring, "0.666667")
	test.That(t, out, test.ShouldContainSubstring, "face-vertex")
	test.That(t, out, test.ShouldContainSubstring, "mover, wall")

	_, err = runApp(t, "cast", "--config", filepath.Join(t.TempDir(), "missing.json5"))
	test.That(t, err, test.ShouldNotBeNil)

	_, err = runApp(t, "cast")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSchemaCommand(t *testing.T) {
	out, err := runApp(t, "schema")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "inside_tolerance")
}
