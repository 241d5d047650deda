// Package cli contains the ccd command line application.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"

	"go.viam.com/ccd/logging"
)

const (
	// Flags.
	flagConfig = "config"
	flagCoeffs = "coeffs"
	flagDebug  = "debug"
)

// NewApp returns the ccd application writing its results to out.
func NewApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:            "ccd",
		Usage:           "continuous collision queries for convex polyhedra under screw motion",
		HideHelpCommand: true,
		Writer:          out,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "cast",
				Usage:     "advance two bodies to just before their first contact",
				UsageText: "ccd cast --config scene.json5",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     flagConfig,
						Aliases:  []string{"c"},
						Required: true,
						Usage:    "load the scene from `FILE`",
					},
				},
				Action: CastAction,
			},
			{
				Name:      "roots",
				Usage:     "solve a polynomial of degree at most four",
				UsageText: "ccd roots --coeffs 1,-10,35,-50,24",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     flagCoeffs,
						Required: true,
						Usage:    "comma separated coefficients, leading term first",
					},
				},
				Action: RootsAction,
			},
			{
				Name:   "schema",
				Usage:  "print the JSON schema of scene files",
				Action: SchemaAction,
			},
		},
	}
}

func newLogger(c *cli.Context) logging.Logger {
	if c.Bool(flagDebug) {
		return logging.NewDebugLogger("ccd")
	}
	return logging.NewLogger("ccd")
}
