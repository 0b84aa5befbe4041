package score

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Sc0remac/cadenzor/adapter/cli"
	"github.com/Sc0remac/cadenzor/internal/priority/application/services"
	"github.com/Sc0remac/cadenzor/internal/priority/domain"
)

var threadFile string

var threadCmd = &cobra.Command{
	Use:   "thread",
	Short: "Score a thread snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		var thread domain.Thread
		if err := cli.ReadSnapshot(threadFile, &thread); err != nil {
			return err
		}

		now := time.Now()
		cfg, err := cli.EffectiveScoringConfig(cmd.Context(), now)
		if err != nil {
			return err
		}

		return printScore(cmd.OutOrStdout(), thread.Subject, services.ScoreThread(thread, cfg, now))
	},
}

func init() {
	threadCmd.Flags().StringVarP(&threadFile, "file", "f", "-", "thread snapshot JSON file")
}
