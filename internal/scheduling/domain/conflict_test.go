package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func at(dayOffset int, hour int) *time.Time {
	t := day0.AddDate(0, 0, dayOffset).Add(time.Duration(hour) * time.Hour)
	return &t
}

func scheduledItem(title string, mutate func(*Item)) Item {
	item := Item{
		ID:       uuid.New(),
		Title:    title,
		StartsAt: at(0, 10),
	}
	if mutate != nil {
		mutate(&item)
	}
	return item
}

func kinds(conflicts []Conflict) []ConflictKind {
	out := make([]ConflictKind, len(conflicts))
	for i, c := range conflicts {
		out[i] = c.Kind
	}
	return out
}

func TestDetectConflicts_LaneOverlap(t *testing.T) {
	a := scheduledItem("radio interview", func(i *Item) {
		i.Lane = "Promo"
		i.StartsAt = at(0, 10)
		i.EndsAt = at(0, 11)
	})
	b := scheduledItem("podcast taping", func(i *Item) {
		i.Lane = "Promo"
		i.StartsAt = at(0, 10)
		*i.StartsAt = i.StartsAt.Add(30 * time.Minute) // 10:30
		i.EndsAt = at(0, 11)
		*i.EndsAt = i.EndsAt.Add(30 * time.Minute) // 11:30
	})

	conflicts := DetectConflicts([]Item{a, b}, DetectOptions{})

	require.Len(t, conflicts, 1)
	assert.Equal(t, ConflictLaneOverlap, conflicts[0].Kind)
	assert.Equal(t, SeverityWarning, conflicts[0].Severity)
}

func TestDetectConflicts_LaneOverlapHalfOpen(t *testing.T) {
	// back-to-back bookings share an instant but do not overlap
	a := scheduledItem("soundcheck", func(i *Item) {
		i.Lane = "Live"
		i.StartsAt = at(0, 10)
		i.EndsAt = at(0, 11)
	})
	b := scheduledItem("show", func(i *Item) {
		i.Lane = "Live"
		i.StartsAt = at(0, 11)
		i.EndsAt = at(0, 12)
	})

	conflicts := DetectConflicts([]Item{a, b}, DetectOptions{})
	assert.NotContains(t, kinds(conflicts), ConflictLaneOverlap)
}

func TestDetectConflicts_DifferentLanesNoOverlap(t *testing.T) {
	a := scheduledItem("show", func(i *Item) { i.Lane = "Live" })
	b := scheduledItem("interview", func(i *Item) { i.Lane = "Promo" })

	conflicts := DetectConflicts([]Item{a, b}, DetectOptions{})
	assert.NotContains(t, kinds(conflicts), ConflictLaneOverlap)
}

func TestDetectConflicts_TerritoryBuffer(t *testing.T) {
	a := scheduledItem("Berlin show", func(i *Item) {
		i.Territory = "DE"
		i.StartsAt = at(0, 20)
	})
	b := scheduledItem("Hamburg show", func(i *Item) {
		i.Territory = "DE"
		i.StartsAt = at(1, 10) // 14h later, inside the 24h buffer
	})

	conflicts := DetectConflicts([]Item{a, b}, DetectOptions{})

	require.Contains(t, kinds(conflicts), ConflictTerritoryBuffer)
	for _, c := range conflicts {
		if c.Kind == ConflictTerritoryBuffer {
			assert.Equal(t, SeverityError, c.Severity)
		}
	}

	// same pair spaced past the buffer is clean
	*b.StartsAt = day0.AddDate(0, 0, 2)
	conflicts = DetectConflicts([]Item{a, b}, DetectOptions{})
	assert.NotContains(t, kinds(conflicts), ConflictTerritoryBuffer)
}

func TestDetectConflicts_TravelTime(t *testing.T) {
	a := scheduledItem("London show", func(i *Item) {
		i.City = "London"
		i.StartsAt = at(0, 20)
		i.EndsAt = at(0, 23)
	})
	b := scheduledItem("New York showcase", func(i *Item) {
		i.City = "New York"
		i.StartsAt = at(1, 5) // 6h after the London show ends, ~12h needed
		i.EndsAt = at(1, 7)
	})

	conflicts := DetectConflicts([]Item{a, b}, DetectOptions{})

	var travel *Conflict
	for i := range conflicts {
		if conflicts[i].Kind == ConflictTravelTime {
			travel = &conflicts[i]
		}
	}
	require.NotNil(t, travel)
	assert.Equal(t, SeverityError, travel.Severity)
	assert.Equal(t, 12.0, travel.RequiredHours)
	assert.Equal(t, 6.0, travel.AvailableHours)
}

func TestDetectConflicts_TravelTimeSameCityGenerous(t *testing.T) {
	a := scheduledItem("matinee", func(i *Item) {
		i.City = "Paris"
		i.StartsAt = at(0, 14)
		i.EndsAt = at(0, 16)
	})
	b := scheduledItem("evening set", func(i *Item) {
		i.City = "Paris"
		i.StartsAt = at(0, 20)
		i.EndsAt = at(0, 22)
	})

	conflicts := DetectConflicts([]Item{a, b}, DetectOptions{})
	assert.NotContains(t, kinds(conflicts), ConflictTravelTime)
}

func TestDetectConflicts_UnknownCityConservative(t *testing.T) {
	a := scheduledItem("first stop", func(i *Item) {
		i.City = "Reykjavik"
		i.StartsAt = at(0, 10)
		i.EndsAt = at(0, 12)
	})
	b := scheduledItem("second stop", func(i *Item) {
		i.City = "London"
		i.StartsAt = at(0, 20) // 8h gap, unknown route needs 16h
		i.EndsAt = at(0, 22)
	})

	conflicts := DetectConflicts([]Item{a, b}, DetectOptions{})
	assert.Contains(t, kinds(conflicts), ConflictTravelTime)
}

func TestDetectConflicts_TimezoneJump(t *testing.T) {
	a := scheduledItem("Tokyo stream", func(i *Item) {
		i.Timezone = "Asia/Tokyo"
		i.StartsAt = at(0, 10)
		i.EndsAt = at(0, 12)
	})
	b := scheduledItem("Berlin stream", func(i *Item) {
		i.Timezone = "Europe/Berlin"
		i.StartsAt = at(0, 15) // 3h after a ends
		i.EndsAt = at(0, 16)
	})

	conflicts := DetectConflicts([]Item{a, b}, DetectOptions{})

	require.Contains(t, kinds(conflicts), ConflictTimezoneJump)
	for _, c := range conflicts {
		if c.Kind == ConflictTimezoneJump {
			assert.Equal(t, SeverityWarning, c.Severity)
		}
	}
}

func TestDetectConflicts_UnscheduledItemsIgnored(t *testing.T) {
	a := scheduledItem("scheduled", func(i *Item) { i.Lane = "Live" })
	b := Item{ID: uuid.New(), Title: "draft", Lane: "Live"}

	conflicts := DetectConflicts([]Item{a, b}, DetectOptions{})
	assert.Empty(t, conflicts)
}

func TestDetectConflicts_DeterministicIDs(t *testing.T) {
	a := scheduledItem("a", func(i *Item) { i.Lane = "Live" })
	b := scheduledItem("b", func(i *Item) { i.Lane = "Live" })

	first := DetectConflicts([]Item{a, b}, DetectOptions{})
	second := DetectConflicts([]Item{b, a}, DetectOptions{})

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	// same pair, either input order, same identity
	assert.Equal(t, first[0].ID, second[0].ID)
}

func TestIndexByItem(t *testing.T) {
	a := scheduledItem("a", func(i *Item) { i.Lane = "Live" })
	b := scheduledItem("b", func(i *Item) { i.Lane = "Live" })

	index := IndexByItem(DetectConflicts([]Item{a, b}, DetectOptions{}))

	require.Len(t, index[a.ID], 1)
	require.Len(t, index[b.ID], 1)
	assert.Equal(t, index[a.ID][0].ID, index[b.ID][0].ID)
}

func TestEstimateTravelHours(t *testing.T) {
	cases := []struct {
		name string
		a, b string
		want float64
	}{
		{"same city ignoring case", "London", "  london ", SameCityTravelHours},
		{"intra region", "London", "Paris", IntraRegionTravelHours},
		{"cross region pair", "London", "New York", 12},
		{"unknown city", "London", "Reykjavik", UnknownRouteTravelHours},
		{"empty city", "", "London", UnknownRouteTravelHours},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, EstimateTravelHours(tc.a, tc.b))
			assert.Equal(t, tc.want, EstimateTravelHours(tc.b, tc.a))
		})
	}
}
