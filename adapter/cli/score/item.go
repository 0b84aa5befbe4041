package score

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Sc0remac/cadenzor/adapter/cli"
	"github.com/Sc0remac/cadenzor/internal/priority/application/services"
	"github.com/Sc0remac/cadenzor/internal/priority/domain"
	scheduling "github.com/Sc0remac/cadenzor/internal/scheduling/domain"
)

var itemFile string

// itemSnapshot carries a timeline item together with the dependencies and
// conflicts that feed its penalty components.
type itemSnapshot struct {
	Item         domain.TimelineItem   `json:"item"`
	Dependencies []domain.Dependency   `json:"dependencies,omitempty"`
	Conflicts    []scheduling.Conflict `json:"conflicts,omitempty"`
}

var itemCmd = &cobra.Command{
	Use:   "item",
	Short: "Score a timeline item snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		var snap itemSnapshot
		if err := cli.ReadSnapshot(itemFile, &snap); err != nil {
			return err
		}

		now := time.Now()
		cfg, err := cli.EffectiveScoringConfig(cmd.Context(), now)
		if err != nil {
			return err
		}

		score := services.ScoreTimelineItem(snap.Item, snap.Dependencies, snap.Conflicts, cfg, now)
		return printScore(cmd.OutOrStdout(), snap.Item.Title, score)
	},
}

func init() {
	itemCmd.Flags().StringVarP(&itemFile, "file", "f", "-", "timeline item snapshot JSON file")
}
