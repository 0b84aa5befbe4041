// Package settings manages per-user scoring configuration.
package settings

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sc0remac/cadenzor/adapter/cli"
)

// Cmd is the settings command group.
var Cmd = &cobra.Command{
	Use:   "settings",
	Short: "Scoring configuration",
}

func init() {
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(setCmd)
	Cmd.AddCommand(resetCmd)
	Cmd.AddCommand(presetCmd)
}

// requireApp returns the CLI app or an error when config storage is not
// wired.
func requireApp() (*cli.App, error) {
	app := cli.GetApp()
	if app == nil || app.ConfigService == nil {
		return nil, fmt.Errorf("scoring configuration requires a database connection")
	}
	return app, nil
}
