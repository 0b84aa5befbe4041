package digest

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Sc0remac/cadenzor/adapter/cli"
	"github.com/Sc0remac/cadenzor/internal/digest/application/services"
	digestDomain "github.com/Sc0remac/cadenzor/internal/digest/domain"
	priority "github.com/Sc0remac/cadenzor/internal/priority/domain"
	scheduling "github.com/Sc0remac/cadenzor/internal/scheduling/domain"
)

var (
	generateFile string
	generateJSON bool
)

// projectSnapshot is the wire shape of one project in the digest input file.
type projectSnapshot struct {
	ProjectID        uuid.UUID               `json:"project_id"`
	Name             string                  `json:"name"`
	Messages         []priority.Message      `json:"messages,omitempty"`
	Tasks            []priority.Task         `json:"tasks,omitempty"`
	TimelineItems    []priority.TimelineItem `json:"timeline_items,omitempty"`
	Dependencies     []priority.Dependency   `json:"dependencies,omitempty"`
	Threads          []priority.Thread       `json:"threads,omitempty"`
	Conflicts        []scheduling.Conflict   `json:"conflicts,omitempty"`
	LinkedEmails     int                     `json:"linked_emails,omitempty"`
	PendingApprovals []digestDomain.Approval `json:"pending_approvals,omitempty"`
}

// toInput converts the wire shape, detecting conflicts from the timeline
// items when the snapshot does not carry any.
func (p projectSnapshot) toInput() services.ProjectInput {
	conflicts := p.Conflicts
	if len(conflicts) == 0 && len(p.TimelineItems) > 0 {
		items := make([]scheduling.Item, 0, len(p.TimelineItems))
		for _, item := range p.TimelineItems {
			items = append(items, scheduling.Item{
				ID:        item.ID,
				Title:     item.Title,
				Lane:      item.Lane,
				Territory: item.Territory,
				City:      item.City,
				Timezone:  item.Timezone,
				StartsAt:  item.StartsAt,
				EndsAt:    item.EndsAt,
			})
		}
		conflicts = scheduling.DetectConflicts(items, scheduling.DefaultDetectOptions())
	}

	return services.ProjectInput{
		ProjectID: p.ProjectID,
		Name:      p.Name,
		Actions: services.ActionInput{
			Messages:      p.Messages,
			Tasks:         p.Tasks,
			TimelineItems: p.TimelineItems,
			Dependencies:  p.Dependencies,
			Threads:       p.Threads,
		},
		Conflicts:        conflicts,
		LinkedEmails:     p.LinkedEmails,
		PendingApprovals: p.PendingApprovals,
	}
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Build a fresh digest from a project snapshot file",
	RunE: func(cmd *cobra.Command, args []string) error {
		var snapshots []projectSnapshot
		if err := cli.ReadSnapshot(generateFile, &snapshots); err != nil {
			return err
		}

		inputs := make([]services.ProjectInput, 0, len(snapshots))
		for _, snap := range snapshots {
			inputs = append(inputs, snap.toInput())
		}

		now := time.Now()
		cfg, err := cli.EffectiveScoringConfig(cmd.Context(), now)
		if err != nil {
			return err
		}

		var payload digestDomain.Payload
		app := cli.GetApp()
		if app != nil && app.DigestService != nil {
			payload, err = app.DigestService.Generate(cmd.Context(), app.CurrentUserID, inputs, cfg, now)
			if err != nil {
				return err
			}
		} else {
			// No backends: build without caching or events.
			payload = services.BuildDigest(inputs, cfg, now, services.DefaultDigestLimits())
		}

		if err := printPayload(cmd, payload, generateJSON); err != nil {
			return err
		}
		if app == nil || app.DigestService == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "(not cached: running without backends)")
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVarP(&generateFile, "file", "f", "-", "project snapshot JSON file")
	generateCmd.Flags().BoolVar(&generateJSON, "json", false, "output the payload as JSON")
}
