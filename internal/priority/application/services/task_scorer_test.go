package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Sc0remac/cadenzor/internal/priority/domain"
)

func TestScoreTask_NoDueDate(t *testing.T) {
	score := ScoreTask(domain.Task{Title: "someday"}, nil, scoreNow)
	assert.Equal(t, 8.0, componentDelta(t, score, "no_due_date"))
	assert.Equal(t, 8.0, score.Total)
}

func TestScoreTask_DueSoonLinearRamp(t *testing.T) {
	cfg := domain.DefaultScoringConfig()

	t.Run("due in 7 of 14 days", func(t *testing.T) {
		due := scoreNow.Add(7 * 24 * time.Hour)
		score := ScoreTask(domain.Task{DueAt: &due}, cfg, scoreNow)
		// 40 * (14-7)/14 = 20
		assert.Equal(t, 20.0, componentDelta(t, score, "due_soon"))
	})

	t.Run("due right now", func(t *testing.T) {
		due := scoreNow
		score := ScoreTask(domain.Task{DueAt: &due}, cfg, scoreNow)
		assert.Equal(t, 40.0, componentDelta(t, score, "due_soon"))
	})

	t.Run("outside the window", func(t *testing.T) {
		due := scoreNow.Add(30 * 24 * time.Hour)
		score := ScoreTask(domain.Task{DueAt: &due}, cfg, scoreNow)
		assert.False(t, hasComponent(score, "due_soon"))
		assert.Equal(t, 0.0, score.Total)
	})
}

func TestScoreTask_OverdueAddsUrgency(t *testing.T) {
	cfg := domain.DefaultScoringConfig()

	due := scoreNow.Add(-2 * 24 * time.Hour)
	score := ScoreTask(domain.Task{DueAt: &due}, cfg, scoreNow)

	// full due_soon boost plus 15 + 2*3 = 21 overdue pressure
	assert.Equal(t, 40.0, componentDelta(t, score, "due_soon"))
	assert.Equal(t, 21.0, componentDelta(t, score, "overdue"))
	assert.Equal(t, 61.0, score.Total)
}

func TestScoreTask_OverdueCapped(t *testing.T) {
	due := scoreNow.Add(-365 * 24 * time.Hour)
	score := ScoreTask(domain.Task{DueAt: &due}, nil, scoreNow)
	assert.Equal(t, 45.0, componentDelta(t, score, "overdue"))
}

func TestScoreTask_PriorityAndStatus(t *testing.T) {
	task := domain.Task{Priority: 4, Status: "blocked"}
	score := ScoreTask(task, nil, scoreNow)

	assert.Equal(t, 24.0, componentDelta(t, score, "priority")) // 4 * 6
	assert.Equal(t, 10.0, componentDelta(t, score, "status:blocked"))
	// 8 (no due date) + 24 + 10
	assert.Equal(t, 42.0, score.Total)
}

func TestScoreTask_OverdueOutranksDueSoon(t *testing.T) {
	cfg := domain.DefaultScoringConfig()

	overdueAt := scoreNow.Add(-24 * time.Hour)
	upcomingAt := scoreNow.Add(3 * 24 * time.Hour)

	overdue := ScoreTask(domain.Task{DueAt: &overdueAt}, cfg, scoreNow)
	upcoming := ScoreTask(domain.Task{DueAt: &upcomingAt}, cfg, scoreNow)

	assert.Greater(t, overdue.Total, upcoming.Total)
}
