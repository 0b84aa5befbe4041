package services

import (
	"time"

	"github.com/Sc0remac/cadenzor/internal/priority/domain"
	scheduling "github.com/Sc0remac/cadenzor/internal/scheduling/domain"
)

// ScoreTimelineItem scores a timeline item. The date treatment mirrors task
// scoring, applied to the first non-absent of start, end, due. Conflicts
// currently indexed against the item and unresolved dependencies blocking it
// subtract severity- and kind-dependent penalties: an item that cannot
// proceed as scheduled ranks below a clean item with the same dates. The
// penalty tables hold positive magnitudes; the sign is applied here.
func ScoreTimelineItem(
	item domain.TimelineItem,
	deps []domain.Dependency,
	conflicts []scheduling.Conflict,
	cfg *domain.ScoringConfig,
	now time.Time,
) domain.Score {
	if cfg == nil {
		cfg = domain.DefaultScoringConfig()
	}
	tc := cfg.Timeline

	var components []domain.Component
	add := func(label string, delta float64) {
		components = append(components, domain.Component{Label: label, Delta: delta})
	}

	ref := item.StartsAt
	if ref == nil {
		ref = item.EndsAt
	}
	if ref == nil {
		ref = item.DueAt
	}
	appendDueComponents(&components, ref, now, dueParams{
		windowDays: tc.DueSoonWindowDays,
		maxBoost:   tc.DueSoonMaxBoost,
		noDate:     tc.NoDateScore,
		overdue:    tc.Overdue,
	})

	if item.Priority > 0 && tc.PriorityWeight > 0 {
		add("priority", round2(float64(item.Priority)*tc.PriorityWeight))
	}

	for _, c := range conflicts {
		if c.ItemA != item.ID && c.ItemB != item.ID {
			continue
		}
		if penalty, ok := tc.ConflictPenalties[string(c.Severity)]; ok && penalty != 0 {
			add("conflict:"+string(c.Kind), -penalty)
		}
	}

	for _, dep := range deps {
		if dep.ToID != item.ID || dep.Resolved {
			continue
		}
		penalty, ok := tc.DependencyPenalties[string(dep.Kind)]
		if !ok {
			penalty = tc.DependencyPenalties[string(domain.DependencyLinked)]
		}
		if penalty != 0 {
			add("dependency:"+string(dep.Kind), -penalty)
		}
	}

	total := sumComponents(components)
	if total < 0 {
		total = 0
	}
	return domain.Score{Total: round2(total), Components: components}
}
