// Package main is the ccd command itself.
package main

import (
	"os"

	"go.viam.com/ccd/cli"
	"go.viam.com/ccd/logging"
)

func main() {
	if err := cli.NewApp(os.Stdout).Run(os.Args); err != nil {
		logging.Global().Error(err)
		os.Exit(1)
	}
}
