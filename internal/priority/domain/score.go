package domain

import (
	"time"

	"github.com/google/uuid"
)

// EntityKind identifies the kind of entity a score was produced for.
type EntityKind string

const (
	KindMessage      EntityKind = "message"
	KindTask         EntityKind = "task"
	KindTimelineItem EntityKind = "timeline_item"
	KindThread       EntityKind = "thread"
)

// Component is one signed contribution to a score. The ordered component
// list is the audit trail surfaced to end users; a missing expected
// component tells an operator which signal failed to apply.
type Component struct {
	Label string  `json:"label"`
	Delta float64 `json:"delta"`
}

// Score is the result of evaluating one entity.
type Score struct {
	Total      float64     `json:"total"`
	Components []Component `json:"components"`
}

// ScoredEntity is the common ranked result shape produced by the scorers and
// consumed by the digest builder. It is recomputed on demand and never
// persisted as a source of truth.
type ScoredEntity struct {
	ID         uuid.UUID   `json:"id"`
	Kind       EntityKind  `json:"kind"`
	Title      string      `json:"title"`
	ProjectID  uuid.UUID   `json:"project_id,omitempty"`
	Status     string      `json:"status,omitempty"`
	DueAt      *time.Time  `json:"due_at,omitempty"`
	StartsAt   *time.Time  `json:"starts_at,omitempty"`
	EndsAt     *time.Time  `json:"ends_at,omitempty"`
	Score      float64     `json:"score"`
	Components []Component `json:"components,omitempty"`
}
