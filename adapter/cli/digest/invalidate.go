package digest

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sc0remac/cadenzor/adapter/cli"
)

var invalidateCmd = &cobra.Command{
	Use:   "invalidate",
	Short: "Drop the cached digest",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.DigestService == nil {
			return fmt.Errorf("digest cache requires redis")
		}

		if err := app.DigestService.Invalidate(cmd.Context(), app.CurrentUserID); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "cached digest dropped")
		return nil
	},
}
