// Package persistence provides PostgreSQL storage for per-user scoring
// configuration overrides.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Sc0remac/cadenzor/internal/priority/domain"
)

// Querier is the subset of pgxpool.Pool the repository uses. Tests
// substitute a fake connection through it.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresConfigRepository stores each user's raw override document as
// JSONB. Only the override is persisted; the effective configuration is
// always recomputed by layering it over the defaults on read, so default
// changes reach every user without a migration.
type PostgresConfigRepository struct {
	db Querier
}

// NewPostgresConfigRepository creates a new repository over the connection.
func NewPostgresConfigRepository(db Querier) *PostgresConfigRepository {
	return &PostgresConfigRepository{db: db}
}

// EnsureSchema creates the scoring_configs table when it does not exist yet,
// so a fresh database works without a separate migration step.
func (r *PostgresConfigRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS scoring_configs (
			user_id    UUID PRIMARY KEY,
			overrides  JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure scoring_configs schema: %w", err)
	}
	return nil
}

// Load returns the user's effective scoring configuration. A user without a
// stored override gets the defaults.
func (r *PostgresConfigRepository) Load(ctx context.Context, userID uuid.UUID) (*domain.ScoringConfig, error) {
	var raw []byte
	err := r.db.QueryRow(ctx,
		`SELECT overrides FROM scoring_configs WHERE user_id = $1`,
		userID,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.DefaultScoringConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load scoring config for user %s: %w", userID, err)
	}

	var overrides map[string]any
	if err := json.Unmarshal(raw, &overrides); err != nil {
		// A corrupt document must not lock the user out of scoring.
		return domain.DefaultScoringConfig(), nil
	}
	return domain.Normalize(overrides, nil), nil
}

// LoadOverrides returns the raw stored override document, or an empty map
// when none exists.
func (r *PostgresConfigRepository) LoadOverrides(ctx context.Context, userID uuid.UUID) (map[string]any, error) {
	var raw []byte
	err := r.db.QueryRow(ctx,
		`SELECT overrides FROM scoring_configs WHERE user_id = $1`,
		userID,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load scoring overrides for user %s: %w", userID, err)
	}

	var overrides map[string]any
	if err := json.Unmarshal(raw, &overrides); err != nil {
		return nil, fmt.Errorf("corrupt scoring overrides for user %s: %w", userID, err)
	}
	return overrides, nil
}

// Save upserts the user's override document as-is. Sanitization happens at
// read time, so the stored document keeps the user's intent even for values
// the current clamps reject.
func (r *PostgresConfigRepository) Save(ctx context.Context, userID uuid.UUID, overrides map[string]any) error {
	raw, err := json.Marshal(overrides)
	if err != nil {
		return fmt.Errorf("failed to serialize scoring overrides: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO scoring_configs (user_id, overrides, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			overrides = EXCLUDED.overrides,
			updated_at = EXCLUDED.updated_at
	`, userID, raw, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save scoring config for user %s: %w", userID, err)
	}
	return nil
}

// Reset deletes the user's override document, reverting them to defaults.
func (r *PostgresConfigRepository) Reset(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM scoring_configs WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to reset scoring config for user %s: %w", userID, err)
	}
	return nil
}
