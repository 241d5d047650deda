package cli

import (
	"fmt"
	"io"

	"github.com/golang/geo/r3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/ccd/collision"
	"go.viam.com/ccd/config"
)

// CastAction runs the continuous collision query described by a scene file and prints the result.
func CastAction(c *cli.Context) error {
	scene, err := config.Read(c.String(flagConfig))
	if err != nil {
		return err
	}
	q, err := scene.Build()
	if err != nil {
		return err
	}
	logger := newLogger(c)
	hit, res, err := collision.ConservativeAdvancement(
		c.Context, q.A, q.B, q.StartA, q.EndA, q.StartB, q.EndB, q.CollisionOptions(logger)...,
	)
	if err != nil {
		return errors.Wrap(err, "cast failed")
	}
	overlapping := collision.Overlapping(q.A, res.PoseA, q.B, res.PoseB)
	if overlapping {
		logger.Warnw("bodies overlap at the advanced poses", "fraction", res.Fraction)
	}
	printCastResult(c.App.Writer, q.A.Label(), q.B.Label(), hit, res, overlapping)
	return nil
}

func formatVector(v r3.Vector) string {
	return fmt.Sprintf("X:%.4f, Y:%.4f, Z:%.4f", v.X, v.Y, v.Z)
}

func printCastResult(w io.Writer, nameA, nameB string, hit bool, res *collision.CastResult, overlapping bool) {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRow(table.Row{"Bodies", fmt.Sprintf("%s, %s", nameA, nameB)})
	t.AppendRow(table.Row{"Hit", hit})
	t.AppendRow(table.Row{"Fraction", fmt.Sprintf("%.6f", res.Fraction)})
	if hit {
		t.AppendRow(table.Row{"Time of impact", fmt.Sprintf("%.6f", res.TimeOfImpact)})
		t.AppendRow(table.Row{"Feature", res.Feature.String()})
		t.AppendRow(table.Row{"Contact point", formatVector(res.ContactPoint)})
		t.AppendRow(table.Row{"Contact normal", formatVector(res.ContactNormal)})
	}
	t.AppendSeparator()
	t.AppendRow(table.Row{fmt.Sprintf("Pose %s", nameA), fmt.Sprint(res.PoseA)})
	t.AppendRow(table.Row{fmt.Sprintf("Pose %s", nameB), fmt.Sprint(res.PoseB)})
	t.AppendRow(table.Row{"Overlapping", overlapping})
	fmt.Fprintln(w, t.Render())
}
