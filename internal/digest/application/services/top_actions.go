// Package services builds ranked top-action lists and digest payloads from
// entity snapshots.
package services

import (
	"sort"
	"time"

	"github.com/google/uuid"

	scorers "github.com/Sc0remac/cadenzor/internal/priority/application/services"
	priority "github.com/Sc0remac/cadenzor/internal/priority/domain"
	scheduling "github.com/Sc0remac/cadenzor/internal/scheduling/domain"
)

// DefaultTopActionCount is the default ranked list size. It is a minimum,
// not a hard maximum; callers may request more.
const DefaultTopActionCount = 10

// ActionInput carries the entity snapshots of one scoring pass.
type ActionInput struct {
	Messages      []priority.Message
	Tasks         []priority.Task
	TimelineItems []priority.TimelineItem
	Dependencies  []priority.Dependency
	Threads       []priority.Thread
}

// terminal statuses never surface as actions.
var terminalTaskStatuses = map[string]bool{
	"done":      true,
	"cancelled": true,
	"archived":  true,
}

var terminalItemStatuses = map[string]bool{
	"completed": true,
	"cancelled": true,
}

// ComputeTopActions scores every eligible entity, attaches conflict
// penalties by item id, and returns the list sorted by score descending,
// truncated to minimum entries.
func ComputeTopActions(
	input ActionInput,
	conflicts map[uuid.UUID][]scheduling.Conflict,
	cfg *priority.ScoringConfig,
	now time.Time,
	minimum int,
) []priority.ScoredEntity {
	if cfg == nil {
		cfg = priority.DefaultScoringConfig()
	}
	if minimum <= 0 {
		minimum = DefaultTopActionCount
	}

	var out []priority.ScoredEntity

	for _, msg := range input.Messages {
		if msg.Triage == priority.TriageResolved {
			continue
		}
		score := scorers.ScoreMessage(msg, cfg, now)
		out = append(out, priority.ScoredEntity{
			ID:         msg.ID,
			Kind:       priority.KindMessage,
			Title:      msg.Subject,
			ProjectID:  msg.ProjectID,
			Status:     string(msg.Triage),
			Score:      score.Total,
			Components: score.Components,
		})
	}

	for _, task := range input.Tasks {
		if terminalTaskStatuses[task.Status] {
			continue
		}
		score := scorers.ScoreTask(task, cfg, now)
		out = append(out, priority.ScoredEntity{
			ID:         task.ID,
			Kind:       priority.KindTask,
			Title:      task.Title,
			ProjectID:  task.ProjectID,
			Status:     task.Status,
			DueAt:      task.DueAt,
			Score:      score.Total,
			Components: score.Components,
		})
	}

	for _, item := range input.TimelineItems {
		if terminalItemStatuses[item.Status] {
			continue
		}
		score := scorers.ScoreTimelineItem(item, input.Dependencies, conflicts[item.ID], cfg, now)
		out = append(out, priority.ScoredEntity{
			ID:         item.ID,
			Kind:       priority.KindTimelineItem,
			Title:      item.Title,
			ProjectID:  item.ProjectID,
			Status:     item.Status,
			DueAt:      item.DueAt,
			StartsAt:   item.StartsAt,
			EndsAt:     item.EndsAt,
			Score:      score.Total,
			Components: score.Components,
		})
	}

	for _, thread := range input.Threads {
		score := scorers.ScoreThread(thread, cfg, now)
		out = append(out, priority.ScoredEntity{
			ID:         thread.ID,
			Kind:       priority.KindThread,
			Title:      thread.Subject,
			ProjectID:  thread.ProjectID,
			Score:      score.Total,
			Components: score.Components,
		})
	}

	sortByScore(out)
	if len(out) > minimum {
		out = out[:minimum]
	}
	return out
}

func sortByScore(entities []priority.ScoredEntity) {
	sort.SliceStable(entities, func(i, j int) bool {
		if entities[i].Score != entities[j].Score {
			return entities[i].Score > entities[j].Score
		}
		// Stable tiebreak so repeated passes return the same order.
		return entities[i].ID.String() < entities[j].ID.String()
	})
}
