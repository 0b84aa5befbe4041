package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Normalize layers an untrusted partial override onto a base configuration
// and returns a new, fully valid configuration. Sanitization is total: a
// value that is absent or fails to parse as the expected primitive falls back
// to the base value, numeric leaves are clamped to their declared range, and
// map- or list-valued tunables are merged entry-by-entry rather than replaced
// wholesale. Neither input is mutated.
func Normalize(override map[string]any, base *ScoringConfig) *ScoringConfig {
	if base == nil {
		base = DefaultScoringConfig()
	}
	cfg := base.Clone()
	if len(override) == 0 {
		return cfg
	}

	cfg.Version = intIn(override, "version", cfg.Version, 1, 1<<30)

	if m := subMap(override, "time_decay"); m != nil {
		sanitizeTimeDecay(m, &cfg.TimeDecay)
	}
	if m := subMap(override, "message"); m != nil {
		sanitizeMessage(m, &cfg.Message)
	}
	if m := subMap(override, "task"); m != nil {
		sanitizeTask(m, &cfg.Task)
	}
	if m := subMap(override, "timeline"); m != nil {
		sanitizeTimeline(m, &cfg.Timeline)
	}
	if m := subMap(override, "thread"); m != nil {
		sanitizeThread(m, &cfg.Thread)
	}
	if m := subMap(override, "health"); m != nil {
		sanitizeHealth(m, &cfg.Health)
	}
	if raw, ok := override["presets"]; ok {
		cfg.Presets = mergePresets(raw, cfg.Presets)
	}

	return cfg
}

func sanitizeTimeDecay(m map[string]any, d *TimeDecayConfig) {
	d.UpcomingWindowDays = floatIn(m, "upcoming_window_days", d.UpcomingWindowDays, 0, 365)
	d.UpcomingMaxBoost = floatIn(m, "upcoming_max_boost", d.UpcomingMaxBoost, 0, 100)
	d.OverduePenaltyBase = floatIn(m, "overdue_penalty_base", d.OverduePenaltyBase, 0, 100)
	d.OverduePenaltyPerDay = floatIn(m, "overdue_penalty_per_day", d.OverduePenaltyPerDay, 0, 50)
	d.OverduePenaltyCap = floatIn(m, "overdue_penalty_cap", d.OverduePenaltyCap, 0, 100)
}

func sanitizeMessage(m map[string]any, c *MessageScoringConfig) {
	if weights := subMap(m, "category_weights"); weights != nil {
		if c.CategoryWeights == nil {
			c.CategoryWeights = map[string]float64{}
		}
		for category, raw := range weights {
			if w, ok := asFloat(raw); ok {
				c.CategoryWeights[category] = clampFloat(w, 0, 100)
			}
		}
	}
	c.DefaultCategoryWeight = floatIn(m, "default_category_weight", c.DefaultCategoryWeight, 0, 100)
	c.ConfidenceWeight = floatIn(m, "confidence_weight", c.ConfidenceWeight, 0, 1)
	if idle := subMap(m, "idle_age"); idle != nil {
		sanitizeIdleAge(idle, &c.IdleAge)
	}
	c.UnreadBonus = floatIn(m, "unread_bonus", c.UnreadBonus, 0, 50)
	if adj := subMap(m, "triage_adjustments"); adj != nil {
		if c.TriageAdjustments == nil {
			c.TriageAdjustments = map[string]float64{}
		}
		for state, raw := range adj {
			if v, ok := asFloat(raw); ok {
				c.TriageAdjustments[state] = clampFloat(v, -100, 100)
			}
		}
	}
	c.SnoozedIdleMultiplier = floatIn(m, "snoozed_idle_multiplier", c.SnoozedIdleMultiplier, 0, 1)
	if raw, ok := m["cross_label_rules"]; ok {
		c.CrossLabelRules = mergeCrossLabelRules(raw, c.CrossLabelRules)
	}
	if raw, ok := m["boosts"]; ok {
		c.Boosts = mergeBoosts(raw, c.Boosts)
	}
	if raw, ok := m["action_rules"]; ok {
		c.ActionRules = mergeActionRules(raw, c.ActionRules)
	}
	c.Explain = boolIn(m, "explain", c.Explain)
}

func sanitizeIdleAge(m map[string]any, c *IdleAgeConfig) {
	c.ShortWindowHours = floatIn(m, "short_window_hours", c.ShortWindowHours, 0, 720)
	c.ShortPerHour = floatIn(m, "short_per_hour", c.ShortPerHour, 0, 10)
	c.MediumWindowHours = floatIn(m, "medium_window_hours", c.MediumWindowHours, 0, 720)
	c.MediumBase = floatIn(m, "medium_base", c.MediumBase, 0, 50)
	c.MediumPerHour = floatIn(m, "medium_per_hour", c.MediumPerHour, 0, 10)
	c.LongBase = floatIn(m, "long_base", c.LongBase, 0, 50)
	c.LongPerHour = floatIn(m, "long_per_hour", c.LongPerHour, 0, 10)
	c.LongBonusCap = floatIn(m, "long_bonus_cap", c.LongBonusCap, 0, 50)
	// Windows must stay ordered so the scorer's bucketing is well defined.
	if c.MediumWindowHours < c.ShortWindowHours {
		c.MediumWindowHours = c.ShortWindowHours
	}
}

func sanitizeTask(m map[string]any, c *TaskScoringConfig) {
	c.DueSoonWindowDays = floatIn(m, "due_soon_window_days", c.DueSoonWindowDays, 0, 365)
	c.DueSoonMaxBoost = floatIn(m, "due_soon_max_boost", c.DueSoonMaxBoost, 0, 100)
	c.NoDueDateScore = floatIn(m, "no_due_date_score", c.NoDueDateScore, 0, 100)
	if od := subMap(m, "overdue"); od != nil {
		sanitizeTimeDecay(od, &c.Overdue)
	}
	c.PriorityWeight = floatIn(m, "priority_weight", c.PriorityWeight, 0, 20)
	if boosts := subMap(m, "status_boosts"); boosts != nil {
		if c.StatusBoosts == nil {
			c.StatusBoosts = map[string]float64{}
		}
		for status, raw := range boosts {
			if v, ok := asFloat(raw); ok {
				c.StatusBoosts[status] = clampFloat(v, -100, 100)
			}
		}
	}
}

func sanitizeTimeline(m map[string]any, c *TimelineScoringConfig) {
	c.DueSoonWindowDays = floatIn(m, "due_soon_window_days", c.DueSoonWindowDays, 0, 365)
	c.DueSoonMaxBoost = floatIn(m, "due_soon_max_boost", c.DueSoonMaxBoost, 0, 100)
	c.NoDateScore = floatIn(m, "no_date_score", c.NoDateScore, 0, 100)
	if od := subMap(m, "overdue"); od != nil {
		sanitizeTimeDecay(od, &c.Overdue)
	}
	c.PriorityWeight = floatIn(m, "priority_weight", c.PriorityWeight, 0, 20)
	if pens := subMap(m, "conflict_penalties"); pens != nil {
		if c.ConflictPenalties == nil {
			c.ConflictPenalties = map[string]float64{}
		}
		for severity, raw := range pens {
			if v, ok := asFloat(raw); ok {
				c.ConflictPenalties[severity] = clampFloat(v, 0, 100)
			}
		}
	}
	if pens := subMap(m, "dependency_penalties"); pens != nil {
		if c.DependencyPenalties == nil {
			c.DependencyPenalties = map[string]float64{}
		}
		for kind, raw := range pens {
			if v, ok := asFloat(raw); ok {
				c.DependencyPenalties[kind] = clampFloat(v, 0, 100)
			}
		}
	}
}

func sanitizeThread(m map[string]any, c *ThreadScoringConfig) {
	c.RecencyWeight = floatIn(m, "recency_weight", c.RecencyWeight, 0, 100)
	c.HeatWeight = floatIn(m, "heat_weight", c.HeatWeight, 0, 100)
	c.UrgencyWeight = floatIn(m, "urgency_weight", c.UrgencyWeight, 0, 100)
	c.ImpactWeight = floatIn(m, "impact_weight", c.ImpactWeight, 0, 100)
	c.OutstandingWeight = floatIn(m, "outstanding_weight", c.OutstandingWeight, 0, 100)

	c.RecencyHalfLifeHours = floatIn(m, "recency_half_life_hours", c.RecencyHalfLifeHours, 1, 720)
	c.HeatPerMessage = floatIn(m, "heat_per_message", c.HeatPerMessage, 0, 100)
	c.HeatPerUnread = floatIn(m, "heat_per_unread", c.HeatPerUnread, 0, 100)
	c.UrgencyDeadlineDays = floatIn(m, "urgency_deadline_days", c.UrgencyDeadlineDays, 0, 365)
	c.UrgentKeywordScore = floatIn(m, "urgent_keyword_score", c.UrgentKeywordScore, 0, 100)
	c.ReplyOverdueScore = floatIn(m, "reply_overdue_score", c.ReplyOverdueScore, 0, 100)
	c.ImpactPerAttachment = floatIn(m, "impact_per_attachment", c.ImpactPerAttachment, 0, 100)
	c.ImpactPerProjectPrio = floatIn(m, "impact_per_project_priority", c.ImpactPerProjectPrio, 0, 100)
	c.ImpactPerUnread = floatIn(m, "impact_per_unread", c.ImpactPerUnread, 0, 100)
	c.OutstandingPerQuestion = floatIn(m, "outstanding_per_question", c.OutstandingPerQuestion, 0, 100)
	c.OverdueQuestionBonus = floatIn(m, "overdue_question_bonus", c.OverdueQuestionBonus, 0, 100)
	c.OverdueQuestionAgeHours = floatIn(m, "overdue_question_age_hours", c.OverdueQuestionAgeHours, 0, 720)
}

func sanitizeHealth(m map[string]any, c *WorkspaceHealthConfig) {
	c.MaxScore = floatIn(m, "max_score", c.MaxScore, 0, 100)
	c.MinScore = floatIn(m, "min_score", c.MinScore, 0, 100)
	if c.MinScore > c.MaxScore {
		c.MinScore = c.MaxScore
	}
	c.OpenTaskPenalty = floatIn(m, "open_task_penalty", c.OpenTaskPenalty, 0, 100)
	c.OpenTaskCap = floatIn(m, "open_task_cap", c.OpenTaskCap, 0, 100)
	c.ConflictPenalty = floatIn(m, "conflict_penalty", c.ConflictPenalty, 0, 100)
	c.ConflictCap = floatIn(m, "conflict_cap", c.ConflictCap, 0, 100)
	c.LinkedEmailPenalty = floatIn(m, "linked_email_penalty", c.LinkedEmailPenalty, 0, 100)
	c.LinkedEmailCap = floatIn(m, "linked_email_cap", c.LinkedEmailCap, 0, 100)
}

// mergeCrossLabelRules merges override entries into the base list keyed by
// prefix: a matching override updates the base entry, unmatched overrides are
// appended, unmatched base entries are kept.
func mergeCrossLabelRules(raw any, base []CrossLabelRule) []CrossLabelRule {
	items, ok := raw.([]any)
	if !ok {
		return base
	}
	out := append([]CrossLabelRule(nil), base...)
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		prefix, ok := asString(m["prefix"])
		if !ok || prefix == "" {
			continue
		}
		rule := CrossLabelRule{Prefix: prefix}
		idx := -1
		for i, existing := range out {
			if existing.Prefix == prefix {
				rule = existing
				idx = i
				break
			}
		}
		rule.Weight = floatIn(m, "weight", rule.Weight, 0, 100)
		rule.CaseSensitive = boolIn(m, "case_sensitive", rule.CaseSensitive)
		if idx >= 0 {
			out[idx] = rule
		} else {
			out = append(out, rule)
		}
	}
	return out
}

// mergeBoosts merges by id when present, falling back to list position for
// entries without one.
func mergeBoosts(raw any, base []BoostRule) []BoostRule {
	items, ok := raw.([]any)
	if !ok {
		return base
	}
	out := cloneBoosts(base)
	for pos, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id, _ := asString(m["id"])
		idx := -1
		if id != "" {
			for i, existing := range out {
				if existing.ID == id {
					idx = i
					break
				}
			}
		} else if pos < len(out) {
			idx = pos
		}
		var rule BoostRule
		if idx >= 0 {
			rule = out[idx]
		}
		if id != "" {
			rule.ID = id
		}
		if name, ok := asString(m["name"]); ok {
			rule.Name = name
		}
		rule.Senders = stringListIn(m, "senders", rule.Senders)
		rule.Domains = stringListIn(m, "domains", rule.Domains)
		rule.SubjectKeywords = stringListIn(m, "subject_keywords", rule.SubjectKeywords)
		rule.Labels = stringListIn(m, "labels", rule.Labels)
		rule.Categories = stringListIn(m, "categories", rule.Categories)
		if v, ok := m["has_attachment"]; ok {
			if b, ok := v.(bool); ok {
				rule.HasAttachment = &b
			}
		}
		if v, ok := m["min_score"]; ok {
			if f, ok := asFloat(v); ok {
				f = clampFloat(f, 0, 1000)
				rule.MinScore = &f
			}
		}
		rule.Boost = floatIn(m, "boost", rule.Boost, 0, 100)
		if idx >= 0 {
			out[idx] = rule
		} else {
			out = append(out, rule)
		}
	}
	return out
}

func mergeActionRules(raw any, base []ActionRule) []ActionRule {
	items, ok := raw.([]any)
	if !ok {
		return base
	}
	out := cloneActionRules(base)
	for pos, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id, _ := asString(m["id"])
		idx := -1
		if id != "" {
			for i, existing := range out {
				if existing.ID == id {
					idx = i
					break
				}
			}
		} else if pos < len(out) {
			idx = pos
		}
		var rule ActionRule
		if idx >= 0 {
			rule = out[idx]
		}
		if id != "" {
			rule.ID = id
		}
		if action, ok := asString(m["action"]); ok {
			rule.Action = action
		}
		rule.Senders = stringListIn(m, "senders", rule.Senders)
		rule.Domains = stringListIn(m, "domains", rule.Domains)
		rule.SubjectKeywords = stringListIn(m, "subject_keywords", rule.SubjectKeywords)
		rule.Labels = stringListIn(m, "labels", rule.Labels)
		rule.Categories = stringListIn(m, "categories", rule.Categories)
		if v, ok := m["has_attachment"]; ok {
			if b, ok := v.(bool); ok {
				rule.HasAttachment = &b
			}
		}
		if idx >= 0 {
			out[idx] = rule
		} else {
			out = append(out, rule)
		}
	}
	return out
}

func mergePresets(raw any, base []SchedulingPreset) []SchedulingPreset {
	items, ok := raw.([]any)
	if !ok {
		return base
	}
	out := clonePresets(base)
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		slug, ok := asString(m["slug"])
		if !ok || slug == "" {
			continue
		}
		idx := -1
		for i, existing := range out {
			if strings.EqualFold(existing.Slug, slug) {
				idx = i
				break
			}
		}
		var preset SchedulingPreset
		if idx >= 0 {
			preset = out[idx]
		} else {
			preset.Slug = slug
		}
		if name, ok := asString(m["name"]); ok {
			preset.Name = name
		}
		if days, ok := m["days"].([]any); ok {
			parsed := make([]time.Weekday, 0, len(days))
			for _, d := range days {
				if f, ok := asFloat(d); ok {
					day := int(math.Round(f))
					if day >= 0 && day <= 6 {
						parsed = append(parsed, time.Weekday(day))
					}
				}
			}
			preset.Days = parsed
		}
		preset.StartHour = intIn(m, "start_hour", preset.StartHour, 0, 23)
		preset.EndHour = intIn(m, "end_hour", preset.EndHour, 0, 24)
		preset.AutoActivate = boolIn(m, "auto_activate", preset.AutoActivate)
		if ov := subMap(m, "overrides"); ov != nil {
			preset.Overrides = cloneAnyMap(ov)
		}
		if idx >= 0 {
			out[idx] = preset
		} else {
			out = append(out, preset)
		}
	}
	return out
}

func subMap(m map[string]any, key string) map[string]any {
	if v, ok := m[key]; ok {
		if sub, ok := v.(map[string]any); ok {
			return sub
		}
	}
	return nil
}

func floatIn(m map[string]any, key string, fallback, min, max float64) float64 {
	v, ok := m[key]
	if !ok {
		return clampFloat(fallback, min, max)
	}
	f, ok := asFloat(v)
	if !ok {
		return clampFloat(fallback, min, max)
	}
	return clampFloat(f, min, max)
}

func intIn(m map[string]any, key string, fallback, min, max int) int {
	v, ok := m[key]
	if !ok {
		return fallback
	}
	f, ok := asFloat(v)
	if !ok {
		return fallback
	}
	i := int(math.Round(f))
	if i < min {
		return min
	}
	if i > max {
		return max
	}
	return i
}

func boolIn(m map[string]any, key string, fallback bool) bool {
	if v, ok := m[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return fallback
}

func stringListIn(m map[string]any, key string, fallback []string) []string {
	v, ok := m[key]
	if !ok {
		return fallback
	}
	items, ok := v.([]any)
	if !ok {
		return fallback
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := asString(item); ok {
			out = append(out, s)
		}
	}
	return out
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func clampFloat(v, min, max float64) float64 {
	if math.IsNaN(v) {
		return min
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
