// Package persistence provides SQLite-backed storage for rule sets.
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Sc0remac/cadenzor/internal/rules/domain"
)

// ErrRuleNotFound is returned when no rule with the given id exists.
var ErrRuleNotFound = errors.New("rule not found")

// SQLiteRuleRepository stores rule sets in SQLite. The condition tree is
// serialized as JSON, so legacy persisted shapes are lowered by the domain
// decoder on read.
type SQLiteRuleRepository struct {
	db *sql.DB
}

// NewSQLiteRuleRepository creates a repository over an open connection.
func NewSQLiteRuleRepository(db *sql.DB) *SQLiteRuleRepository {
	return &SQLiteRuleRepository{db: db}
}

// EnsureSchema creates the rules table when missing.
func (r *SQLiteRuleRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS rules (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			name TEXT NOT NULL,
			enabled INTEGER NOT NULL DEFAULT 1,
			priority INTEGER NOT NULL DEFAULT 0,
			root TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_rules_kind_priority ON rules(kind, priority DESC);
	`)
	if err != nil {
		return fmt.Errorf("failed to create rules schema: %w", err)
	}
	return nil
}

// Save upserts a rule set, assigning an id and timestamps when absent.
func (r *SQLiteRuleRepository) Save(ctx context.Context, rule *domain.RuleSet) error {
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	now := time.Now().UTC()
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = now
	}
	rule.UpdatedAt = now

	root, err := json.Marshal(rule.Root)
	if err != nil {
		return fmt.Errorf("failed to serialize rule condition tree: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO rules (id, kind, name, enabled, priority, root, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			name = excluded.name,
			enabled = excluded.enabled,
			priority = excluded.priority,
			root = excluded.root,
			updated_at = excluded.updated_at
	`,
		rule.ID.String(),
		string(rule.Kind),
		rule.Name,
		boolToInt(rule.Enabled),
		rule.Priority,
		string(root),
		rule.CreatedAt.Format(time.RFC3339),
		rule.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save rule %s: %w", rule.ID, err)
	}
	return nil
}

// FindByID loads one rule set.
func (r *SQLiteRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.RuleSet, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, kind, name, enabled, priority, root, created_at, updated_at
		FROM rules WHERE id = ?
	`, id.String())

	rule, err := scanRule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRuleNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return rule, nil
}

// ListByKind returns enabled rules of a kind, highest priority first.
func (r *SQLiteRuleRepository) ListByKind(ctx context.Context, kind domain.RuleKind) ([]domain.RuleSet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kind, name, enabled, priority, root, created_at, updated_at
		FROM rules
		WHERE kind = ? AND enabled = 1
		ORDER BY priority DESC, created_at ASC
	`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s rules: %w", kind, err)
	}
	defer rows.Close()

	var rules []domain.RuleSet
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, *rule)
	}
	return rules, rows.Err()
}

// Delete removes a rule set. Deleting a missing rule is not an error.
func (r *SQLiteRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM rules WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete rule %s: %w", id, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRule(row rowScanner) (*domain.RuleSet, error) {
	var (
		idStr      string
		kind       string
		name       string
		enabled    int64
		priority   int
		rootJSON   string
		createdStr string
		updatedStr string
	)
	if err := row.Scan(&idStr, &kind, &name, &enabled, &priority, &rootJSON, &createdStr, &updatedStr); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid rule id %q: %w", idStr, err)
	}
	var root domain.ConditionNode
	if err := json.Unmarshal([]byte(rootJSON), &root); err != nil {
		return nil, fmt.Errorf("invalid condition tree for rule %s: %w", id, err)
	}
	createdAt, err := time.Parse(time.RFC3339, createdStr)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at for rule %s: %w", id, err)
	}
	updatedAt, err := time.Parse(time.RFC3339, updatedStr)
	if err != nil {
		return nil, fmt.Errorf("invalid updated_at for rule %s: %w", id, err)
	}

	return &domain.RuleSet{
		ID:        id,
		Kind:      domain.RuleKind(kind),
		Name:      name,
		Enabled:   enabled != 0,
		Priority:  priority,
		Root:      root,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
