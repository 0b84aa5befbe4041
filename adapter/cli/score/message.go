package score

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sc0remac/cadenzor/adapter/cli"
	"github.com/Sc0remac/cadenzor/internal/priority/application/services"
	"github.com/Sc0remac/cadenzor/internal/priority/domain"
)

var messageFile string

var messageCmd = &cobra.Command{
	Use:   "message",
	Short: "Score a message snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		var msg domain.Message
		if err := cli.ReadSnapshot(messageFile, &msg); err != nil {
			return err
		}

		now := time.Now()
		cfg, err := cli.EffectiveScoringConfig(cmd.Context(), now)
		if err != nil {
			return err
		}

		score := services.ScoreMessage(msg, cfg, now)
		out := cmd.OutOrStdout()
		if err := printScore(out, msg.Subject, score); err != nil {
			return err
		}

		if actions := services.ActionsFor(msg, cfg); len(actions) > 0 && !asJSON {
			fmt.Fprintf(out, "suggested: %s\n", strings.Join(actions, ", "))
		}
		return nil
	},
}

func init() {
	messageCmd.Flags().StringVarP(&messageFile, "file", "f", "-", "message snapshot JSON file")
}
