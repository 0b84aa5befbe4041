package settings

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sc0remac/cadenzor/adapter/cli"
)

var setFile string

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Merge scoring overrides from a JSON document",
	Long: `Merge an override document into the stored scoring configuration.
Nested sections merge key by key; out-of-range values are clamped when the
configuration is read, never rejected.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}

		var patch map[string]any
		if err := cli.ReadSnapshot(setFile, &patch); err != nil {
			return err
		}

		if err := app.ConfigService.UpdateOverrides(cmd.Context(), app.CurrentUserID, patch); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "overrides stored")
		return nil
	},
}

func init() {
	setCmd.Flags().StringVarP(&setFile, "file", "f", "-", "override document JSON file")
}
