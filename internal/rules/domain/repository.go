package domain

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists rule sets.
type Repository interface {
	Save(ctx context.Context, rule *RuleSet) error
	FindByID(ctx context.Context, id uuid.UUID) (*RuleSet, error)
	// ListByKind returns enabled rules of the kind ordered by descending
	// priority, so callers can take the first match.
	ListByKind(ctx context.Context, kind RuleKind) ([]RuleSet, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
