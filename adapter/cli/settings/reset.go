package settings

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop all stored overrides and return to defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}

		if err := app.ConfigService.Reset(cmd.Context(), app.CurrentUserID); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "scoring configuration reset to defaults")
		return nil
	},
}
