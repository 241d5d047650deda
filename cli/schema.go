package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"go.viam.com/ccd/config"
)

// SchemaAction prints the JSON schema of scene files.
func SchemaAction(c *cli.Context) error {
	out, err := config.SchemaJSON()
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, string(out))
	return nil
}
