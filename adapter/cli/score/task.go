package score

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Sc0remac/cadenzor/adapter/cli"
	"github.com/Sc0remac/cadenzor/internal/priority/application/services"
	"github.com/Sc0remac/cadenzor/internal/priority/domain"
)

var taskFile string

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Score a task snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		var task domain.Task
		if err := cli.ReadSnapshot(taskFile, &task); err != nil {
			return err
		}

		now := time.Now()
		cfg, err := cli.EffectiveScoringConfig(cmd.Context(), now)
		if err != nil {
			return err
		}

		return printScore(cmd.OutOrStdout(), task.Title, services.ScoreTask(task, cfg, now))
	},
}

func init() {
	taskCmd.Flags().StringVarP(&taskFile, "file", "f", "-", "task snapshot JSON file")
}
