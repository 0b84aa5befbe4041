// Package domain implements conflict detection and slot finding over
// time-bound schedule items.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Item is a scheduled, time-bound entry. Only items with a start time take
// part in conflict detection; an item without an end is given a fallback
// duration.
type Item struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Lane      string     `json:"lane,omitempty"`
	Territory string     `json:"territory,omitempty"`
	City      string     `json:"city,omitempty"`
	Timezone  string     `json:"timezone,omitempty"`
	StartsAt  *time.Time `json:"starts_at,omitempty"`
	EndsAt    *time.Time `json:"ends_at,omitempty"`
}

// TimeRange is a half-open [Start, End) interval.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether two half-open ranges intersect.
func (t TimeRange) Overlaps(other TimeRange) bool {
	return t.Start.Before(other.End) && other.Start.Before(t.End)
}

// Duration returns the length of the range.
func (t TimeRange) Duration() time.Duration {
	return t.End.Sub(t.Start)
}

// Scheduled reports whether the item has a resolvable start time.
func (i Item) Scheduled() bool {
	return i.StartsAt != nil
}

// Range returns the item's occupied interval, applying the fallback duration
// when no end time is set.
func (i Item) Range(fallback time.Duration) TimeRange {
	start := *i.StartsAt
	end := start.Add(fallback)
	if i.EndsAt != nil && i.EndsAt.After(start) {
		end = *i.EndsAt
	}
	return TimeRange{Start: start, End: end}
}
