package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Sc0remac/cadenzor/internal/priority/domain"
)

func TestScoreThread_FreshHotThreadBeatsStaleQuietOne(t *testing.T) {
	cfg := domain.DefaultScoringConfig()

	recent := scoreNow.Add(-time.Hour)
	stale := scoreNow.Add(-14 * 24 * time.Hour)

	hot := domain.Thread{
		LastMessageAt:      &recent,
		RecentMessageCount: 6,
		UnreadCount:        3,
		UrgentKeyword:      true,
	}
	quiet := domain.Thread{LastMessageAt: &stale}

	hotScore := ScoreThread(hot, cfg, scoreNow)
	quietScore := ScoreThread(quiet, cfg, scoreNow)

	assert.Greater(t, hotScore.Total, quietScore.Total)
}

func TestScoreThread_MissingTimestampDropsRecencySignal(t *testing.T) {
	cfg := domain.DefaultScoringConfig()

	thread := domain.Thread{RecentMessageCount: 2, UnreadCount: 1}
	score := ScoreThread(thread, cfg, scoreNow)

	assert.False(t, hasComponent(score, "recency"))
	assert.True(t, hasComponent(score, "heat"))
	// the remaining weights renormalize, so the blend is still meaningful
	assert.Greater(t, score.Total, 0.0)
}

func TestScoreThread_RecencyHalfLife(t *testing.T) {
	cfg := domain.DefaultScoringConfig()

	atHalfLife := scoreNow.Add(-time.Duration(cfg.Thread.RecencyHalfLifeHours * float64(time.Hour)))
	thread := domain.Thread{LastMessageAt: &atHalfLife}

	score := ScoreThread(thread, cfg, scoreNow)

	// recency signal is exactly 50 at one half-life; only its weighted share
	// shows in the component
	weightSum := cfg.Thread.RecencyWeight + cfg.Thread.HeatWeight +
		cfg.Thread.UrgencyWeight + cfg.Thread.ImpactWeight + cfg.Thread.OutstandingWeight
	expected := 50.0 * cfg.Thread.RecencyWeight / weightSum
	assert.InDelta(t, expected, componentDelta(t, score, "recency"), 0.01)
}

func TestScoreThread_SignalsCappedAt100(t *testing.T) {
	cfg := domain.DefaultScoringConfig()
	deadline := scoreNow.Add(time.Hour)

	thread := domain.Thread{
		RecentMessageCount:   100,
		UnreadCount:          100,
		DeadlineAt:           &deadline,
		UrgentKeyword:        true,
		ExpectedReplyOverdue: true,
		InterestAttachments:  50,
		ProjectPriority:      5,
		UnansweredQuestions:  20,
		OldestQuestionHours:  500,
	}

	score := ScoreThread(thread, cfg, scoreNow)

	// with every raw signal saturated, the blend of the computable signals
	// cannot exceed 100
	assert.LessOrEqual(t, score.Total, 100.0)
	assert.Greater(t, score.Total, 0.0)
}

func TestScoreThread_OverdueQuestionBonus(t *testing.T) {
	cfg := domain.DefaultScoringConfig()

	fresh := domain.Thread{UnansweredQuestions: 1, OldestQuestionHours: 2}
	aged := domain.Thread{UnansweredQuestions: 1, OldestQuestionHours: 72}

	freshOutstanding := componentDelta(t, ScoreThread(fresh, cfg, scoreNow), "outstanding")
	agedOutstanding := componentDelta(t, ScoreThread(aged, cfg, scoreNow), "outstanding")

	assert.Greater(t, agedOutstanding, freshOutstanding)
}

func TestScoreThread_ZeroWeights(t *testing.T) {
	cfg := domain.DefaultScoringConfig()
	cfg.Thread.RecencyWeight = 0
	cfg.Thread.HeatWeight = 0
	cfg.Thread.UrgencyWeight = 0
	cfg.Thread.ImpactWeight = 0
	cfg.Thread.OutstandingWeight = 0

	score := ScoreThread(domain.Thread{UnreadCount: 5}, cfg, scoreNow)
	assert.Equal(t, 0.0, score.Total)
	assert.Empty(t, score.Components)
}
