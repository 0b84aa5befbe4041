package services

import (
	"time"

	"github.com/Sc0remac/cadenzor/internal/priority/domain"
)

// ScoreTask scores a task from due-date proximity, overdue pressure, manual
// priority, and status.
func ScoreTask(task domain.Task, cfg *domain.ScoringConfig, now time.Time) domain.Score {
	if cfg == nil {
		cfg = domain.DefaultScoringConfig()
	}
	tc := cfg.Task

	var components []domain.Component
	add := func(label string, delta float64) {
		components = append(components, domain.Component{Label: label, Delta: delta})
	}

	appendDueComponents(&components, task.DueAt, now, dueParams{
		windowDays: tc.DueSoonWindowDays,
		maxBoost:   tc.DueSoonMaxBoost,
		noDate:     tc.NoDueDateScore,
		overdue:    tc.Overdue,
	})

	if task.Priority > 0 && tc.PriorityWeight > 0 {
		add("priority", round2(float64(task.Priority)*tc.PriorityWeight))
	}

	if boost, ok := tc.StatusBoosts[task.Status]; ok && boost != 0 {
		add("status:"+task.Status, boost)
	}

	total := sumComponents(components)
	if total < 0 {
		total = 0
	}
	return domain.Score{Total: round2(total), Components: components}
}

type dueParams struct {
	windowDays float64
	maxBoost   float64
	noDate     float64
	overdue    domain.TimeDecayConfig
}

// appendDueComponents applies the shared due-date treatment: a linear boost
// approaching the deadline, an additional capped per-day contribution once
// overdue, and a flat placeholder when no date is set.
func appendDueComponents(components *[]domain.Component, due *time.Time, now time.Time, p dueParams) {
	if due == nil {
		*components = append(*components, domain.Component{Label: "no_due_date", Delta: p.noDate})
		return
	}

	days := due.Sub(now).Hours() / 24
	if days >= 0 {
		if p.windowDays > 0 && days <= p.windowDays {
			boost := p.maxBoost * (p.windowDays - days) / p.windowDays
			*components = append(*components, domain.Component{Label: "due_soon", Delta: round2(boost)})
		}
		return
	}

	overdueDays := -days
	*components = append(*components, domain.Component{Label: "due_soon", Delta: p.maxBoost})
	penalty := p.overdue.OverduePenaltyBase + overdueDays*p.overdue.OverduePenaltyPerDay
	if penalty > p.overdue.OverduePenaltyCap {
		penalty = p.overdue.OverduePenaltyCap
	}
	*components = append(*components, domain.Component{Label: "overdue", Delta: round2(penalty)})
}
