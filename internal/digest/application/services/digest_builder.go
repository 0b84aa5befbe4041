package services

import (
	"sort"
	"time"

	"github.com/google/uuid"

	digest "github.com/Sc0remac/cadenzor/internal/digest/domain"
	priority "github.com/Sc0remac/cadenzor/internal/priority/domain"
	scheduling "github.com/Sc0remac/cadenzor/internal/scheduling/domain"
)

// ProjectInput is one project's slice of the digest inputs.
type ProjectInput struct {
	ProjectID uuid.UUID
	Name      string

	Actions   ActionInput
	Conflicts []scheduling.Conflict

	// LinkedEmails feeds the health formula; open tasks and conflicts are
	// counted from the snapshots.
	LinkedEmails int

	// Health, when non-nil, is an externally supplied metric set used as-is
	// instead of computing one.
	Health *digest.HealthMetrics

	PendingApprovals []digest.Approval
}

// DigestLimits bounds the per-project and global action lists.
type DigestLimits struct {
	PerProject int
	TopActions int
}

// DefaultDigestLimits returns the standard digest bounds.
func DefaultDigestLimits() DigestLimits {
	return DigestLimits{PerProject: 5, TopActions: 10}
}

// BuildDigest runs the aggregator per project and assembles the payload.
// Truncation happens twice on purpose: once per project, then once globally
// after re-sorting, so every project contributes visibility into the digest
// even when one project dominates raw score.
func BuildDigest(
	inputs []ProjectInput,
	cfg *priority.ScoringConfig,
	now time.Time,
	limits DigestLimits,
) digest.Payload {
	if cfg == nil {
		cfg = priority.DefaultScoringConfig()
	}
	if limits.PerProject <= 0 {
		limits.PerProject = DefaultDigestLimits().PerProject
	}
	if limits.TopActions <= 0 {
		limits.TopActions = DefaultDigestLimits().TopActions
	}

	payload := digest.Payload{GeneratedAt: now}

	for _, input := range inputs {
		conflictIndex := scheduling.IndexByItem(input.Conflicts)
		actions := ComputeTopActions(input.Actions, conflictIndex, cfg, now, limits.PerProject)

		var health digest.HealthMetrics
		if input.Health != nil {
			health = *input.Health
		} else {
			health = digest.ComputeHealth(
				cfg.Health,
				countOpenTasks(input.Actions.Tasks),
				len(input.Conflicts),
				input.LinkedEmails,
			)
		}

		payload.Projects = append(payload.Projects, digest.ProjectSnapshot{
			ProjectID:        input.ProjectID,
			Name:             input.Name,
			Health:           health,
			TopActions:       actions,
			PendingApprovals: input.PendingApprovals,
		})

		for _, action := range actions {
			payload.TopActions = append(payload.TopActions, digest.ProjectAction{
				ScoredEntity: action,
				ProjectName:  input.Name,
			})
		}
	}

	sort.SliceStable(payload.TopActions, func(i, j int) bool {
		if payload.TopActions[i].Score != payload.TopActions[j].Score {
			return payload.TopActions[i].Score > payload.TopActions[j].Score
		}
		return payload.TopActions[i].ID.String() < payload.TopActions[j].ID.String()
	})
	if len(payload.TopActions) > limits.TopActions {
		payload.TopActions = payload.TopActions[:limits.TopActions]
	}

	return payload
}

func countOpenTasks(tasks []priority.Task) int {
	count := 0
	for _, task := range tasks {
		if !terminalTaskStatuses[task.Status] {
			count++
		}
	}
	return count
}
