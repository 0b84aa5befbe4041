package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sc0remac/cadenzor/internal/priority/domain"
)

var scoreNow = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func componentDelta(t *testing.T, s domain.Score, label string) float64 {
	t.Helper()
	for _, c := range s.Components {
		if c.Label == label {
			return c.Delta
		}
	}
	t.Fatalf("score has no component %q (have %v)", label, s.Components)
	return 0
}

func hasComponent(s domain.Score, label string) bool {
	for _, c := range s.Components {
		if c.Label == label {
			return true
		}
	}
	return false
}

func TestScoreMessage_UnreadUnassignedContract(t *testing.T) {
	received := scoreNow // zero idle hours
	msg := domain.Message{
		ID:         uuid.New(),
		Subject:    "Contract draft for summer tour",
		Sender:     "legal@label.example.com",
		Category:   "legal/contract",
		ReceivedAt: &received,
		Unread:     true,
		Triage:     domain.TriageUnassigned,
	}

	score := ScoreMessage(msg, domain.DefaultScoringConfig(), scoreNow)

	// 90 (category) + 18 (unread) + 12 (unassigned) = 120
	assert.Equal(t, 120.0, score.Total)
	assert.Equal(t, 90.0, componentDelta(t, score, "category:legal/contract"))
	assert.Equal(t, 18.0, componentDelta(t, score, "unread"))
	assert.Equal(t, 12.0, componentDelta(t, score, "triage:unassigned"))
}

func TestScoreMessage_UnknownCategoryUsesDefault(t *testing.T) {
	msg := domain.Message{Category: "mystery/unknown"}
	score := ScoreMessage(msg, nil, scoreNow)
	assert.Equal(t, 30.0, componentDelta(t, score, "category:mystery/unknown"))
}

func TestScoreMessage_ConfidenceClamped(t *testing.T) {
	cfg := domain.DefaultScoringConfig()

	msg := domain.Message{Category: "fan/mail", Confidence: ptr(0.5)}
	score := ScoreMessage(msg, cfg, scoreNow)
	// 0.5 * 100 * 0.2 = 10
	assert.Equal(t, 10.0, componentDelta(t, score, "confidence"))

	msg.Confidence = ptr(3.5)
	score = ScoreMessage(msg, cfg, scoreNow)
	// clamped to 1.0 before weighting
	assert.Equal(t, 20.0, componentDelta(t, score, "confidence"))
}

func TestScoreMessage_IdleAgeMonotonic(t *testing.T) {
	cfg := domain.DefaultScoringConfig()
	prev := -1.0
	for _, hours := range []float64{1, 6, 23, 24, 25, 48, 72, 73, 200, 1000} {
		received := scoreNow.Add(-time.Duration(hours * float64(time.Hour)))
		msg := domain.Message{Category: "fan/mail", ReceivedAt: &received}
		score := ScoreMessage(msg, cfg, scoreNow)
		idle := componentDelta(t, score, "idle_age")
		assert.GreaterOrEqual(t, idle, prev, "idle age must not decrease at %v hours", hours)
		prev = idle
	}
}

func TestScoreMessage_FutureReceivedAtSkipsIdleAge(t *testing.T) {
	future := scoreNow.Add(2 * time.Hour)
	msg := domain.Message{Category: "fan/mail", ReceivedAt: &future}
	score := ScoreMessage(msg, domain.DefaultScoringConfig(), scoreNow)
	assert.False(t, hasComponent(score, "idle_age"))
}

func TestScoreMessage_SnoozedDampensIdleAge(t *testing.T) {
	cfg := domain.DefaultScoringConfig()
	received := scoreNow.Add(-48 * time.Hour)

	awake := domain.Message{Category: "fan/mail", ReceivedAt: &received}
	snoozed := awake
	snoozed.Triage = domain.TriageSnoozed

	awakeIdle := componentDelta(t, ScoreMessage(awake, cfg, scoreNow), "idle_age")
	snoozedIdle := componentDelta(t, ScoreMessage(snoozed, cfg, scoreNow), "idle_age")

	assert.Less(t, snoozedIdle, awakeIdle)
	assert.Equal(t, awakeIdle*cfg.Message.SnoozedIdleMultiplier, snoozedIdle)
}

func TestScoreMessage_TotalFlooredAtZero(t *testing.T) {
	msg := domain.Message{Category: "newsletter/digest", Triage: domain.TriageResolved}
	score := ScoreMessage(msg, domain.DefaultScoringConfig(), scoreNow)
	// 5 (category) - 60 (resolved) would be -55
	assert.Equal(t, 0.0, score.Total)
	// the component trail still shows the raw deltas
	assert.Equal(t, -60.0, componentDelta(t, score, "triage:resolved"))
}

func TestScoreMessage_CrossLabelRules(t *testing.T) {
	msg := domain.Message{
		Category: "booking/offer",
		Labels:   []string{"territory/US", "RISK/payment"},
	}
	score := ScoreMessage(msg, domain.DefaultScoringConfig(), scoreNow)
	// default risk/ rule is case-insensitive
	assert.Equal(t, 25.0, componentDelta(t, score, "label:risk/"))
	assert.False(t, hasComponent(score, "label:vip/"))
}

func TestScoreMessage_BoostGatesOnRunningTotal(t *testing.T) {
	cfg := domain.Normalize(map[string]any{
		"message": map[string]any{
			"boosts": []any{
				map[string]any{
					"id":        "hot-offer",
					"min_score": 100.0,
					"domains":   []any{"bigpromoter.com"},
					"boost":     15.0,
				},
			},
		},
	}, nil)

	base := domain.Message{
		Category: "booking/offer", // 65
		Sender:   "talent@bigpromoter.com",
		Unread:   true, // +18
	}

	// 65 + 18 = 83, below the 100 gate
	score := ScoreMessage(base, cfg, scoreNow)
	assert.False(t, hasComponent(score, "boost:hot-offer"))

	gated := base
	gated.Triage = domain.TriageUnassigned // +12
	gated.Labels = []string{"risk/deposit"} // +25 -> 120
	score = ScoreMessage(gated, cfg, scoreNow)
	assert.Equal(t, 15.0, componentDelta(t, score, "boost:hot-offer"))
	assert.Equal(t, 135.0, score.Total)
}

func TestScoreMessage_BoostWithoutCriteriaNeverFires(t *testing.T) {
	cfg := domain.DefaultScoringConfig()
	cfg.Message.Boosts = []domain.BoostRule{{ID: "empty", Boost: 50}}

	score := ScoreMessage(domain.Message{Category: "fan/mail"}, cfg, scoreNow)
	assert.False(t, hasComponent(score, "boost:empty"))
}

func TestScoreMessage_DomainMatchIsSuffixAware(t *testing.T) {
	cfg := domain.DefaultScoringConfig()
	cfg.Message.Boosts = []domain.BoostRule{{
		ID:      "agency",
		Domains: []string{"agency.com"},
		Boost:   10,
	}}

	t.Run("subdomain matches", func(t *testing.T) {
		msg := domain.Message{Category: "fan/mail", Sender: "a@mail.agency.com"}
		assert.True(t, hasComponent(ScoreMessage(msg, cfg, scoreNow), "boost:agency"))
	})
	t.Run("lookalike does not", func(t *testing.T) {
		msg := domain.Message{Category: "fan/mail", Sender: "a@notagency.com"}
		assert.False(t, hasComponent(ScoreMessage(msg, cfg, scoreNow), "boost:agency"))
	})
}

func TestScoreMessage_ExplainOff(t *testing.T) {
	cfg := domain.DefaultScoringConfig()
	cfg.Message.Explain = false

	msg := domain.Message{Category: "legal/contract", Unread: true}
	score := ScoreMessage(msg, cfg, scoreNow)
	assert.Equal(t, 108.0, score.Total)
	assert.Nil(t, score.Components)
}

func TestActionsFor(t *testing.T) {
	cfg := domain.Normalize(map[string]any{
		"message": map[string]any{
			"action_rules": []any{
				map[string]any{
					"id":       "forward-contract",
					"action":   "forward_to_lawyer",
					"categories": []any{"legal/contract"},
				},
				map[string]any{
					"id":     "archive-news",
					"action": "archive",
					"categories": []any{"newsletter/digest"},
				},
			},
		},
	}, nil)

	msg := domain.Message{Category: "legal/contract"}
	actions := ActionsFor(msg, cfg)
	require.Len(t, actions, 1)
	assert.Equal(t, "forward_to_lawyer", actions[0])

	assert.Empty(t, ActionsFor(domain.Message{Category: "fan/mail"}, cfg))
}
