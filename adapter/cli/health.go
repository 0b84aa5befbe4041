package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check connectivity of the wired backends",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		out := cmd.OutOrStdout()
		if app == nil || app.Health == nil {
			fmt.Fprintln(out, "running without backends (scoring defaults only)")
			return nil
		}

		overall := app.Health.GetOverallHealth(cmd.Context())
		for name, result := range overall.Checks {
			fmt.Fprintf(out, "%-12s %-10s %s\n", name, result.Status, result.Message)
		}
		fmt.Fprintf(out, "overall: %s\n", overall.Status)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
