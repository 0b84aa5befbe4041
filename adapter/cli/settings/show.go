package settings

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Sc0remac/cadenzor/adapter/cli"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective scoring configuration",
	Long: `Show the scoring configuration in effect right now: stored
overrides layered on the defaults, plus any auto-activating scheduling
preset whose window covers the current time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.EffectiveScoringConfig(cmd.Context(), time.Now())
		if err != nil {
			return err
		}
		return cli.PrintJSON(cmd.OutOrStdout(), cfg)
	},
}
