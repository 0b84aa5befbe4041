package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPreset is returned when a preset slug does not exist. Referencing
// a missing preset signals a caller bug, so it is surfaced instead of being
// silently ignored.
var ErrUnknownPreset = errors.New("unknown scheduling preset")

// FindPreset looks up a preset by slug, case-insensitively.
func FindPreset(cfg *ScoringConfig, slug string) (SchedulingPreset, error) {
	if cfg == nil {
		cfg = DefaultScoringConfig()
	}
	for _, p := range cfg.Presets {
		if strings.EqualFold(p.Slug, slug) {
			return p, nil
		}
	}
	return SchedulingPreset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, slug)
}

// ApplyPreset layers the named preset's overrides on top of base and returns
// the resulting configuration. Equivalent to Normalize(preset.Overrides,
// base).
func ApplyPreset(slug string, base *ScoringConfig) (*ScoringConfig, error) {
	if base == nil {
		base = DefaultScoringConfig()
	}
	preset, err := FindPreset(base, slug)
	if err != nil {
		return nil, err
	}
	return Normalize(preset.Overrides, base), nil
}
