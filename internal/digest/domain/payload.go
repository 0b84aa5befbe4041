// Package domain defines the digest payload shapes and the project health
// formula.
package domain

import (
	"time"

	"github.com/google/uuid"

	priority "github.com/Sc0remac/cadenzor/internal/priority/domain"
)

// Approval is a pending decision surfaced in the digest.
type Approval struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Kind        string     `json:"kind,omitempty"`
	RequestedAt *time.Time `json:"requested_at,omitempty"`
}

// HealthMetrics is a project's health snapshot: the capped-penalty score
// plus the raw counts that produced it.
type HealthMetrics struct {
	Score        float64 `json:"score"`
	OpenTasks    int     `json:"open_tasks"`
	Conflicts    int     `json:"conflicts"`
	LinkedEmails int     `json:"linked_emails"`
}

// ComputeHealth applies the capped penalty formula: the maximum score minus
// a capped per-signal penalty for open tasks, conflicts, and linked emails,
// clamped to the configured [min, max] range.
func ComputeHealth(cfg priority.WorkspaceHealthConfig, openTasks, conflicts, linkedEmails int) HealthMetrics {
	score := cfg.MaxScore
	score -= capped(cfg.OpenTaskPenalty*float64(openTasks), cfg.OpenTaskCap)
	score -= capped(cfg.ConflictPenalty*float64(conflicts), cfg.ConflictCap)
	score -= capped(cfg.LinkedEmailPenalty*float64(linkedEmails), cfg.LinkedEmailCap)
	if score < cfg.MinScore {
		score = cfg.MinScore
	}
	if score > cfg.MaxScore {
		score = cfg.MaxScore
	}
	return HealthMetrics{
		Score:        score,
		OpenTasks:    openTasks,
		Conflicts:    conflicts,
		LinkedEmails: linkedEmails,
	}
}

func capped(penalty, cap float64) float64 {
	if penalty > cap {
		return cap
	}
	return penalty
}

// ProjectAction is a scored entity annotated with its project's display
// metadata for the flattened cross-project list.
type ProjectAction struct {
	priority.ScoredEntity
	ProjectName string `json:"project_name,omitempty"`
}

// ProjectSnapshot is one project's slice of the digest.
type ProjectSnapshot struct {
	ProjectID        uuid.UUID               `json:"project_id"`
	Name             string                  `json:"name"`
	Health           HealthMetrics           `json:"health"`
	TopActions       []priority.ScoredEntity `json:"top_actions"`
	PendingApprovals []Approval              `json:"pending_approvals,omitempty"`
}

// Payload is a complete digest: built fresh per request or schedule tick,
// never a live-updating object.
type Payload struct {
	GeneratedAt time.Time         `json:"generated_at"`
	TopActions  []ProjectAction   `json:"top_actions"`
	Projects    []ProjectSnapshot `json:"projects"`
}
