package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cast"
	"github.com/urfave/cli/v2"

	"go.viam.com/ccd/polysolve"
)

// parseCoefficients reads a comma separated list of two to five coefficients.
func parseCoefficients(raw string) ([]float64, error) {
	fields := lo.Map(strings.Split(raw, ","), func(s string, _ int) string { return strings.TrimSpace(s) })
	if len(fields) < 2 || len(fields) > 5 {
		return nil, errors.Errorf("expected between 2 and 5 coefficients, got %d", len(fields))
	}
	coeffs := make([]float64, 0, len(fields))
	for i, f := range fields {
		v, err := cast.ToFloat64E(f)
		if err != nil {
			return nil, errors.Wrapf(err, "coefficient %d", i)
		}
		coeffs = append(coeffs, v)
	}
	return coeffs, nil
}

// solve dispatches coeffs, leading term first, to the solver of matching degree.
func solve(solver polysolve.Solver, coeffs []float64) polysolve.Roots {
	switch len(coeffs) {
	case 5:
		return solver.SolveQuartic(coeffs[0], coeffs[1], coeffs[2], coeffs[3], coeffs[4])
	case 4:
		return solver.SolveCubic(coeffs[0], coeffs[1], coeffs[2], coeffs[3])
	case 3:
		return solver.SolveQuadraticFull(coeffs[0], coeffs[1], coeffs[2])
	default:
		return solver.SolveCubic(0, 0, coeffs[0], coeffs[1])
	}
}

// evaluate computes the polynomial at x with Horner's scheme.
func evaluate(coeffs []float64, x float64) float64 {
	return lo.Reduce(coeffs, func(acc, c float64, _ int) float64 { return acc*x + c }, 0.)
}

// RootsAction solves the polynomial given by --coeffs and prints its real roots.
func RootsAction(c *cli.Context) error {
	coeffs, err := parseCoefficients(c.String(flagCoeffs))
	if err != nil {
		return err
	}
	roots := solve(polysolve.NewAlgebraicSolver(), coeffs)

	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("%s (%d)", roots.Kind(), roots.Count()))
	t.AppendHeader(table.Row{"#", "Root", "Residual"})
	residuals := make([]float64, 0, roots.Len())
	for i, x := range roots.Slice() {
		r := math.Abs(evaluate(coeffs, x))
		residuals = append(residuals, r)
		t.AppendRow(table.Row{i + 1, fmt.Sprintf("%.9g", x), fmt.Sprintf("%.3g", r)})
	}
	if len(residuals) > 0 {
		worst, err := stats.Max(residuals)
		if err != nil {
			return err
		}
		t.AppendFooter(table.Row{"", "max residual", fmt.Sprintf("%.3g", worst)})
	}
	fmt.Fprintln(c.App.Writer, t.Render())
	return nil
}
