package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// ConflictKind classifies a detected scheduling conflict.
type ConflictKind string

const (
	ConflictLaneOverlap     ConflictKind = "lane_overlap"
	ConflictTerritoryBuffer ConflictKind = "territory_buffer"
	ConflictTravelTime      ConflictKind = "travel_time"
	ConflictTimezoneJump    ConflictKind = "timezone_jump"
)

// Severity grades a conflict.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Conflict is one detected problem between a pair of scheduled items.
// Conflicts are ephemeral: they are recomputed from the current item set on
// every detection pass and never stored independently of the items.
type Conflict struct {
	ID       string       `json:"id"`
	Kind     ConflictKind `json:"kind"`
	Severity Severity     `json:"severity"`
	ItemA    uuid.UUID    `json:"item_a"`
	ItemB    uuid.UUID    `json:"item_b"`
	Message  string       `json:"message"`

	// RequiredHours and AvailableHours carry travel-time metadata for
	// display. They are zero for other conflict kinds.
	RequiredHours  float64 `json:"required_hours,omitempty"`
	AvailableHours float64 `json:"available_hours,omitempty"`
}

// DetectOptions tunes a detection pass.
type DetectOptions struct {
	// BufferHours is the minimum spacing between start times of items in the
	// same territory.
	BufferHours float64
	// FallbackDuration is assumed for items without an end time.
	FallbackDuration time.Duration
	// TimezoneJumpGapHours flags pairs in different timezones closer
	// together than this, even when travel time alone was sufficient.
	TimezoneJumpGapHours float64
}

// DefaultDetectOptions returns the standard detection tuning.
func DefaultDetectOptions() DetectOptions {
	return DetectOptions{
		BufferHours:          24,
		FallbackDuration:     2 * time.Hour,
		TimezoneJumpGapHours: 6,
	}
}

// conflictID derives a deterministic identity from the unordered item pair
// and the conflict kind, so repeated passes over an unchanged item set
// produce an identical id set and callers can diff them.
func conflictID(kind ConflictKind, a, b uuid.UUID) string {
	lo, hi := a, b
	if hi.String() < lo.String() {
		lo, hi = hi, lo
	}
	return fmt.Sprintf("%s:%s:%s", kind, lo, hi)
}

// DetectConflicts runs a pairwise analysis over the scheduled items and
// returns every lane overlap, territory-buffer violation, travel-time
// shortfall, and timezone jump. Items without a start time are ignored.
func DetectConflicts(items []Item, opts DetectOptions) []Conflict {
	if opts.BufferHours <= 0 {
		opts.BufferHours = DefaultDetectOptions().BufferHours
	}
	if opts.FallbackDuration <= 0 {
		opts.FallbackDuration = DefaultDetectOptions().FallbackDuration
	}
	if opts.TimezoneJumpGapHours <= 0 {
		opts.TimezoneJumpGapHours = DefaultDetectOptions().TimezoneJumpGapHours
	}

	scheduled := make([]Item, 0, len(items))
	for _, item := range items {
		if item.Scheduled() {
			scheduled = append(scheduled, item)
		}
	}

	var conflicts []Conflict
	for i := 0; i < len(scheduled); i++ {
		for j := i + 1; j < len(scheduled); j++ {
			conflicts = append(conflicts, detectPair(scheduled[i], scheduled[j], opts)...)
		}
	}
	return conflicts
}

func detectPair(a, b Item, opts DetectOptions) []Conflict {
	var out []Conflict

	rangeA := a.Range(opts.FallbackDuration)
	rangeB := b.Range(opts.FallbackDuration)

	if a.Lane != "" && a.Lane == b.Lane && rangeA.Overlaps(rangeB) {
		out = append(out, Conflict{
			ID:       conflictID(ConflictLaneOverlap, a.ID, b.ID),
			Kind:     ConflictLaneOverlap,
			Severity: SeverityWarning,
			ItemA:    a.ID,
			ItemB:    b.ID,
			Message:  fmt.Sprintf("%q and %q overlap in lane %s", a.Title, b.Title, a.Lane),
		})
	}

	startGap := math.Abs(rangeA.Start.Sub(rangeB.Start).Hours())
	if a.Territory != "" && a.Territory == b.Territory && startGap < opts.BufferHours {
		out = append(out, Conflict{
			ID:       conflictID(ConflictTerritoryBuffer, a.ID, b.ID),
			Kind:     ConflictTerritoryBuffer,
			Severity: SeverityError,
			ItemA:    a.ID,
			ItemB:    b.ID,
			Message: fmt.Sprintf("%q and %q are %.1fh apart in territory %s (minimum %.0fh)",
				a.Title, b.Title, startGap, a.Territory, opts.BufferHours),
		})
	}

	if differentLocation(a, b) {
		earlier, later := a, b
		earlierRange, laterRange := rangeA, rangeB
		if rangeB.Start.Before(rangeA.Start) {
			earlier, later = b, a
			earlierRange, laterRange = rangeB, rangeA
		}
		required := EstimateTravelHours(earlier.City, later.City)
		available := laterRange.Start.Sub(earlierRange.End).Hours()
		if available < required {
			out = append(out, Conflict{
				ID:             conflictID(ConflictTravelTime, a.ID, b.ID),
				Kind:           ConflictTravelTime,
				Severity:       SeverityError,
				ItemA:          a.ID,
				ItemB:          b.ID,
				RequiredHours:  required,
				AvailableHours: available,
				Message: fmt.Sprintf("%.1fh between %q and %q, travel needs ~%.0fh",
					available, earlier.Title, later.Title, required),
			})
		}
	}

	if a.Timezone != "" && b.Timezone != "" && a.Timezone != b.Timezone {
		gap := chronologicalGapHours(rangeA, rangeB)
		if gap < opts.TimezoneJumpGapHours {
			out = append(out, Conflict{
				ID:       conflictID(ConflictTimezoneJump, a.ID, b.ID),
				Kind:     ConflictTimezoneJump,
				Severity: SeverityWarning,
				ItemA:    a.ID,
				ItemB:    b.ID,
				Message: fmt.Sprintf("%q (%s) and %q (%s) are %.1fh apart across timezones",
					a.Title, a.Timezone, b.Title, b.Timezone, gap),
			})
		}
	}

	return out
}

func differentLocation(a, b Item) bool {
	if a.City != "" && b.City != "" {
		return normalizeCity(a.City) != normalizeCity(b.City)
	}
	if a.Territory != "" && b.Territory != "" {
		return a.Territory != b.Territory
	}
	return false
}

func chronologicalGapHours(a, b TimeRange) float64 {
	if b.Start.Before(a.Start) {
		a, b = b, a
	}
	gap := b.Start.Sub(a.End).Hours()
	if gap < 0 {
		return 0
	}
	return gap
}

// IndexByItem builds a lookup of conflicts keyed by the id of each involved
// item. A conflict appears under both of its items.
func IndexByItem(conflicts []Conflict) map[uuid.UUID][]Conflict {
	index := make(map[uuid.UUID][]Conflict)
	for _, c := range conflicts {
		index[c.ItemA] = append(index[c.ItemA], c)
		index[c.ItemB] = append(index[c.ItemB], c)
	}
	return index
}
