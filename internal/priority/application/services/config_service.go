package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Sc0remac/cadenzor/internal/priority/domain"
)

// ConfigStore persists raw scoring override documents.
type ConfigStore interface {
	Load(ctx context.Context, userID uuid.UUID) (*domain.ScoringConfig, error)
	LoadOverrides(ctx context.Context, userID uuid.UUID) (map[string]any, error)
	Save(ctx context.Context, userID uuid.UUID, overrides map[string]any) error
	Reset(ctx context.Context, userID uuid.UUID) error
}

// ConfigService resolves the effective scoring configuration for a user,
// layering stored overrides and any currently active scheduling preset.
type ConfigService struct {
	store ConfigStore
}

// NewConfigService creates a ConfigService.
func NewConfigService(store ConfigStore) *ConfigService {
	return &ConfigService{store: store}
}

// EffectiveConfig loads the user's configuration and applies the first
// preset whose activation window covers now. Presets beyond the first active
// one are ignored; they are alternatives, not layers.
func (s *ConfigService) EffectiveConfig(ctx context.Context, userID uuid.UUID, now time.Time) (*domain.ScoringConfig, error) {
	cfg, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, preset := range cfg.Presets {
		if preset.ActiveAt(now) {
			return domain.Normalize(preset.Overrides, cfg), nil
		}
	}
	return cfg, nil
}

// UpdateOverrides merges a partial override document into the stored one and
// persists the result. The merged document is what Normalize would accept;
// unknown keys are stored untouched so a newer binary can pick them up.
func (s *ConfigService) UpdateOverrides(ctx context.Context, userID uuid.UUID, patch map[string]any) error {
	current, err := s.store.LoadOverrides(ctx, userID)
	if err != nil {
		return err
	}
	merged := mergeOverrideDocs(current, patch)
	return s.store.Save(ctx, userID, merged)
}

// Reset reverts the user to the default configuration.
func (s *ConfigService) Reset(ctx context.Context, userID uuid.UUID) error {
	return s.store.Reset(ctx, userID)
}

// mergeOverrideDocs deep-merges patch into base: nested maps merge
// recursively, everything else replaces.
func mergeOverrideDocs(base, patch map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(patch))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range patch {
		patchMap, patchIsMap := v.(map[string]any)
		baseMap, baseIsMap := out[k].(map[string]any)
		if patchIsMap && baseIsMap {
			out[k] = mergeOverrideDocs(baseMap, patchMap)
			continue
		}
		out[k] = v
	}
	return out
}
