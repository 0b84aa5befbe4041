package domain

import (
	"sort"
	"time"
)

// SlotConfidence grades how safe a proposed slot looks.
type SlotConfidence string

const (
	ConfidenceHigh   SlotConfidence = "high"
	ConfidenceMedium SlotConfidence = "medium"
	ConfidenceLow    SlotConfidence = "low"
)

// Slot is a proposed open window.
type Slot struct {
	Start      time.Time      `json:"start"`
	End        time.Time      `json:"end"`
	Confidence SlotConfidence `json:"confidence"`
	Reason     string         `json:"reason,omitempty"`
}

// SlotRequest describes the window being searched for.
type SlotRequest struct {
	From          time.Time
	To            time.Time
	DurationHours float64
	// City is the target location. When it differs from an item's city, the
	// item's occupied interval is inflated by an estimated travel buffer on
	// both sides.
	City string
	// Territory is the fallback location signal when city comparison is not
	// possible. A territory mismatch inflates by the conservative
	// unknown-route buffer.
	Territory string
	// BusinessHoursOnly excludes weekend and off-hours slots entirely
	// instead of proposing them at lower confidence.
	BusinessHoursOnly bool
	// Limit caps the number of proposals. Zero means DefaultSlotLimit.
	Limit int
	// FallbackDuration is assumed for items without an end time.
	FallbackDuration time.Duration
}

// DefaultSlotLimit caps slot proposals when the caller does not say.
const DefaultSlotLimit = 10

// FindAvailableSlots proposes open windows of at least the requested
// duration between the occupied intervals of the given items. Each
// qualifying gap yields a slot at its start, plus a centered slot when the
// gap is at least three times the requested duration. Slots are graded down
// when they fall outside business hours or on a weekend, or dropped when the
// request demands business hours, then sorted by confidence and earliest
// start and capped at the request limit.
func FindAvailableSlots(items []Item, req SlotRequest) []Slot {
	if req.DurationHours <= 0 || !req.To.After(req.From) {
		return nil
	}
	if req.Limit <= 0 {
		req.Limit = DefaultSlotLimit
	}
	if req.FallbackDuration <= 0 {
		req.FallbackDuration = DefaultDetectOptions().FallbackDuration
	}

	duration := time.Duration(req.DurationHours * float64(time.Hour))
	occupied := occupiedRanges(items, req)
	gaps := freeGaps(occupied, req.From, req.To)

	var slots []Slot
	propose := func(start time.Time) {
		slot := gradeSlot(start, start.Add(duration))
		// Off-hours grading is the only thing that lowers confidence, so
		// anything below high is out of business hours.
		if req.BusinessHoursOnly && slot.Confidence != ConfidenceHigh {
			return
		}
		slots = append(slots, slot)
	}
	for _, gap := range gaps {
		if gap.Duration() < duration {
			continue
		}
		propose(gap.Start)
		if gap.Duration() >= 3*duration {
			propose(gap.Start.Add((gap.Duration() - duration) / 2))
		}
	}

	sort.SliceStable(slots, func(i, j int) bool {
		ri, rj := confidenceRank(slots[i].Confidence), confidenceRank(slots[j].Confidence)
		if ri != rj {
			return ri < rj
		}
		return slots[i].Start.Before(slots[j].Start)
	})

	if len(slots) > req.Limit {
		slots = slots[:req.Limit]
	}
	return slots
}

// occupiedRanges collects the intervals blocked by scheduled items, inflated
// by a travel buffer when the item sits in a different location than the
// target.
func occupiedRanges(items []Item, req SlotRequest) []TimeRange {
	var out []TimeRange
	for _, item := range items {
		if !item.Scheduled() {
			continue
		}
		r := item.Range(req.FallbackDuration)
		if buffer := travelBuffer(item, req); buffer > 0 {
			r.Start = r.Start.Add(-buffer)
			r.End = r.End.Add(buffer)
		}
		out = append(out, r)
	}
	return mergeRanges(out)
}

// travelBuffer picks the location signal the same way conflict detection
// does: city when both sides carry one, territory otherwise. A territory
// mismatch cannot be estimated per route, so it gets the conservative
// unknown-route figure.
func travelBuffer(item Item, req SlotRequest) time.Duration {
	if req.City != "" && item.City != "" {
		if normalizeCity(req.City) == normalizeCity(item.City) {
			return 0
		}
		return time.Duration(EstimateTravelHours(item.City, req.City) * float64(time.Hour))
	}
	if req.Territory != "" && item.Territory != "" && req.Territory != item.Territory {
		return time.Duration(UnknownRouteTravelHours * float64(time.Hour))
	}
	return 0
}

func mergeRanges(ranges []TimeRange) []TimeRange {
	if len(ranges) == 0 {
		return nil
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Start.Before(ranges[j].Start) })
	merged := []TimeRange{ranges[0]}
	for _, r := range ranges[1:] {
		last := &merged[len(merged)-1]
		if !r.Start.After(last.End) {
			if r.End.After(last.End) {
				last.End = r.End
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

func freeGaps(occupied []TimeRange, from, to time.Time) []TimeRange {
	var gaps []TimeRange
	cursor := from
	for _, r := range occupied {
		if r.End.Before(cursor) {
			continue
		}
		if r.Start.After(to) {
			break
		}
		if r.Start.After(cursor) {
			gaps = append(gaps, TimeRange{Start: cursor, End: minTime(r.Start, to)})
		}
		if r.End.After(cursor) {
			cursor = r.End
		}
	}
	if cursor.Before(to) {
		gaps = append(gaps, TimeRange{Start: cursor, End: to})
	}
	return gaps
}

// gradeSlot lowers confidence for slots outside business hours or on
// weekends; those are still proposed, just ranked later.
func gradeSlot(start, end time.Time) Slot {
	slot := Slot{Start: start, End: end, Confidence: ConfidenceHigh}
	weekend := start.Weekday() == time.Saturday || start.Weekday() == time.Sunday
	offHours := start.Hour() < 9 || start.Hour() >= 18
	switch {
	case weekend && offHours:
		slot.Confidence = ConfidenceLow
		slot.Reason = "weekend, outside business hours"
	case weekend:
		slot.Confidence = ConfidenceMedium
		slot.Reason = "weekend"
	case offHours:
		slot.Confidence = ConfidenceMedium
		slot.Reason = "outside business hours"
	}
	return slot
}

func confidenceRank(c SlotConfidence) int {
	switch c {
	case ConfidenceHigh:
		return 0
	case ConfidenceMedium:
		return 1
	default:
		return 2
	}
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
