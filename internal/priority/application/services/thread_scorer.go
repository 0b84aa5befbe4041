package services

import (
	"math"
	"time"

	"github.com/Sc0remac/cadenzor/internal/priority/domain"
)

// ScoreThread blends five independently weighted, normalized (0..100)
// signals: recency, heat, urgency, impact, and outstanding work. Configured
// weights are normalized to sum to 1 over the signals that were actually
// computable, so weight configuration is resilient to not summing to any
// fixed total and a missing timestamp drops its signal instead of zeroing
// the blend.
func ScoreThread(thread domain.Thread, cfg *domain.ScoringConfig, now time.Time) domain.Score {
	if cfg == nil {
		cfg = domain.DefaultScoringConfig()
	}
	tc := cfg.Thread

	type signal struct {
		label  string
		weight float64
		value  float64
	}
	var signals []signal

	if thread.LastMessageAt != nil {
		hours := now.Sub(*thread.LastMessageAt).Hours()
		if hours < 0 {
			hours = 0
		}
		recency := 100 * math.Exp2(-hours/tc.RecencyHalfLifeHours)
		signals = append(signals, signal{"recency", tc.RecencyWeight, recency})
	}

	heat := float64(thread.RecentMessageCount)*tc.HeatPerMessage +
		float64(thread.UnreadCount)*tc.HeatPerUnread
	signals = append(signals, signal{"heat", tc.HeatWeight, cap100(heat)})

	var urgency float64
	if thread.DeadlineAt != nil && tc.UrgencyDeadlineDays > 0 {
		days := thread.DeadlineAt.Sub(now).Hours() / 24
		if days < 0 {
			days = 0
		}
		urgency += 100 * clamp01((tc.UrgencyDeadlineDays-days)/tc.UrgencyDeadlineDays)
	}
	if thread.UrgentKeyword {
		urgency += tc.UrgentKeywordScore
	}
	if thread.ExpectedReplyOverdue {
		urgency += tc.ReplyOverdueScore
	}
	signals = append(signals, signal{"urgency", tc.UrgencyWeight, cap100(urgency)})

	impact := float64(thread.InterestAttachments)*tc.ImpactPerAttachment +
		float64(thread.ProjectPriority)*tc.ImpactPerProjectPrio +
		float64(thread.UnreadCount)*tc.ImpactPerUnread
	signals = append(signals, signal{"impact", tc.ImpactWeight, cap100(impact)})

	outstanding := float64(thread.UnansweredQuestions) * tc.OutstandingPerQuestion
	if thread.UnansweredQuestions > 0 && thread.OldestQuestionHours > tc.OverdueQuestionAgeHours {
		outstanding += tc.OverdueQuestionBonus
	}
	signals = append(signals, signal{"outstanding", tc.OutstandingWeight, cap100(outstanding)})

	var weightSum float64
	for _, s := range signals {
		weightSum += s.weight
	}
	if weightSum <= 0 {
		return domain.Score{Total: 0}
	}

	var components []domain.Component
	var total float64
	for _, s := range signals {
		delta := round2(s.value * s.weight / weightSum)
		components = append(components, domain.Component{Label: s.label, Delta: delta})
		total += delta
	}
	if total < 0 {
		total = 0
	}
	return domain.Score{Total: round2(total), Components: components}
}

func cap100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
