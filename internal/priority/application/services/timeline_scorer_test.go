package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Sc0remac/cadenzor/internal/priority/domain"
	scheduling "github.com/Sc0remac/cadenzor/internal/scheduling/domain"
)

func TestScoreTimelineItem_ReferenceDateFallback(t *testing.T) {
	cfg := domain.DefaultScoringConfig()
	at := scoreNow.Add(7 * 24 * time.Hour)

	t.Run("starts_at wins", func(t *testing.T) {
		later := scoreNow.Add(60 * 24 * time.Hour)
		item := domain.TimelineItem{StartsAt: &at, DueAt: &later}
		score := ScoreTimelineItem(item, nil, nil, cfg, scoreNow)
		assert.Equal(t, 20.0, componentDelta(t, score, "due_soon"))
	})

	t.Run("due_at as last resort", func(t *testing.T) {
		item := domain.TimelineItem{DueAt: &at}
		score := ScoreTimelineItem(item, nil, nil, cfg, scoreNow)
		assert.Equal(t, 20.0, componentDelta(t, score, "due_soon"))
	})

	t.Run("no dates at all", func(t *testing.T) {
		score := ScoreTimelineItem(domain.TimelineItem{}, nil, nil, cfg, scoreNow)
		assert.Equal(t, 5.0, componentDelta(t, score, "no_due_date"))
	})
}

func TestScoreTimelineItem_ConflictPenalties(t *testing.T) {
	itemID := uuid.New()
	otherID := uuid.New()
	item := domain.TimelineItem{ID: itemID}

	conflicts := []scheduling.Conflict{
		{Kind: scheduling.ConflictLaneOverlap, Severity: scheduling.SeverityWarning, ItemA: itemID, ItemB: otherID},
		{Kind: scheduling.ConflictTravelTime, Severity: scheduling.SeverityError, ItemA: otherID, ItemB: itemID},
		// belongs to two other items, must be ignored
		{Kind: scheduling.ConflictTravelTime, Severity: scheduling.SeverityError, ItemA: uuid.New(), ItemB: uuid.New()},
	}

	score := ScoreTimelineItem(item, nil, conflicts, nil, scoreNow)

	assert.Equal(t, -8.0, componentDelta(t, score, "conflict:lane_overlap"))
	assert.Equal(t, -20.0, componentDelta(t, score, "conflict:travel_time"))
	// 5 (no date) - 8 - 20 floors at zero
	assert.Equal(t, 0.0, score.Total)
}

func TestScoreTimelineItem_DependencyPenalties(t *testing.T) {
	itemID := uuid.New()
	item := domain.TimelineItem{ID: itemID}

	deps := []domain.Dependency{
		{FromID: uuid.New(), ToID: itemID, Kind: domain.DependencyFinishToStart},
		{FromID: uuid.New(), ToID: itemID, Kind: domain.DependencyStartToStart, Resolved: true},
		{FromID: itemID, ToID: uuid.New(), Kind: domain.DependencyFinishToStart}, // outgoing, ignored
		{FromID: uuid.New(), ToID: itemID, Kind: "made_up_kind"},
	}

	score := ScoreTimelineItem(item, deps, nil, nil, scoreNow)

	assert.Equal(t, -12.0, componentDelta(t, score, "dependency:finish_to_start"))
	// unknown kinds fall back to the linked penalty
	assert.Equal(t, -4.0, componentDelta(t, score, "dependency:made_up_kind"))
	assert.False(t, hasComponent(score, "dependency:start_to_start"))
}

func TestScoreTimelineItem_OverdueShowWithConflicts(t *testing.T) {
	itemID := uuid.New()
	starts := scoreNow.Add(-24 * time.Hour)
	item := domain.TimelineItem{ID: itemID, StartsAt: &starts, Priority: 3}

	conflicts := []scheduling.Conflict{
		{Kind: scheduling.ConflictTerritoryBuffer, Severity: scheduling.SeverityError, ItemA: itemID, ItemB: uuid.New()},
	}

	score := ScoreTimelineItem(item, nil, conflicts, nil, scoreNow)

	// 40 (due_soon) + 18 (overdue 15+1*3) + 18 (priority 3*6) - 20 (error conflict)
	assert.Equal(t, 56.0, score.Total)
}
