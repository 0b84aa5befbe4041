// Package domain contains the scoring configuration and score value objects.
package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// TriageState is the lifecycle state of an inbound message.
type TriageState string

const (
	TriageUnassigned   TriageState = "unassigned"
	TriageAcknowledged TriageState = "acknowledged"
	TriageSnoozed      TriageState = "snoozed"
	TriageResolved     TriageState = "resolved"
)

// DependencyKind classifies a scheduling dependency between timeline items.
type DependencyKind string

const (
	DependencyFinishToStart DependencyKind = "finish_to_start"
	DependencyStartToStart  DependencyKind = "start_to_start"
	DependencyLinked        DependencyKind = "linked"
)

// TimeDecayConfig tunes how due dates and overdue time shift scores.
type TimeDecayConfig struct {
	UpcomingWindowDays   float64 `json:"upcoming_window_days"`
	UpcomingMaxBoost     float64 `json:"upcoming_max_boost"`
	OverduePenaltyBase   float64 `json:"overdue_penalty_base"`
	OverduePenaltyPerDay float64 `json:"overdue_penalty_per_day"`
	OverduePenaltyCap    float64 `json:"overdue_penalty_cap"`
}

// IdleAgeConfig tunes the three-window idle-age contribution for messages.
// Hours since a message was received accumulate urgency: a short linear
// window, a medium window with its own base, and a long window whose linear
// bonus is capped.
type IdleAgeConfig struct {
	ShortWindowHours  float64 `json:"short_window_hours"`
	ShortPerHour      float64 `json:"short_per_hour"`
	MediumWindowHours float64 `json:"medium_window_hours"`
	MediumBase        float64 `json:"medium_base"`
	MediumPerHour     float64 `json:"medium_per_hour"`
	LongBase          float64 `json:"long_base"`
	LongPerHour       float64 `json:"long_per_hour"`
	LongBonusCap      float64 `json:"long_bonus_cap"`
}

// CrossLabelRule grants a weighted bonus when any label on an entity starts
// with the configured prefix (for example "risk/").
type CrossLabelRule struct {
	Prefix        string  `json:"prefix"`
	Weight        float64 `json:"weight"`
	CaseSensitive bool    `json:"case_sensitive"`
}

// BoostRule is an advanced boost: every declared criterion must hold for the
// boost to fire. Boosts are applied in declared order against the running
// total, so a later boost can gate on the score produced by earlier ones via
// MinScore.
type BoostRule struct {
	ID              string   `json:"id"`
	Name            string   `json:"name,omitempty"`
	Senders         []string `json:"senders,omitempty"`
	Domains         []string `json:"domains,omitempty"`
	SubjectKeywords []string `json:"subject_keywords,omitempty"`
	Labels          []string `json:"labels,omitempty"`
	Categories      []string `json:"categories,omitempty"`
	HasAttachment   *bool    `json:"has_attachment,omitempty"`
	MinScore        *float64 `json:"min_score,omitempty"`
	Boost           float64  `json:"boost"`
}

// ActionRule tags a message with a suggested action when all of its declared
// criteria hold. Action rules never change the score.
type ActionRule struct {
	ID              string   `json:"id"`
	Action          string   `json:"action"`
	Senders         []string `json:"senders,omitempty"`
	Domains         []string `json:"domains,omitempty"`
	SubjectKeywords []string `json:"subject_keywords,omitempty"`
	Labels          []string `json:"labels,omitempty"`
	Categories      []string `json:"categories,omitempty"`
	HasAttachment   *bool    `json:"has_attachment,omitempty"`
}

// MessageScoringConfig tunes inbound message scoring.
type MessageScoringConfig struct {
	CategoryWeights       map[string]float64 `json:"category_weights"`
	DefaultCategoryWeight float64            `json:"default_category_weight"`
	ConfidenceWeight      float64            `json:"confidence_weight"`
	IdleAge               IdleAgeConfig      `json:"idle_age"`
	UnreadBonus           float64            `json:"unread_bonus"`
	TriageAdjustments     map[string]float64 `json:"triage_adjustments"`
	SnoozedIdleMultiplier float64            `json:"snoozed_idle_multiplier"`
	CrossLabelRules       []CrossLabelRule   `json:"cross_label_rules"`
	Boosts                []BoostRule        `json:"boosts"`
	ActionRules           []ActionRule       `json:"action_rules"`
	Explain               bool               `json:"explain"`
}

// TaskScoringConfig tunes task scoring.
type TaskScoringConfig struct {
	DueSoonWindowDays float64            `json:"due_soon_window_days"`
	DueSoonMaxBoost   float64            `json:"due_soon_max_boost"`
	NoDueDateScore    float64            `json:"no_due_date_score"`
	Overdue           TimeDecayConfig    `json:"overdue"`
	PriorityWeight    float64            `json:"priority_weight"`
	StatusBoosts      map[string]float64 `json:"status_boosts"`
}

// TimelineScoringConfig tunes timeline item scoring.
type TimelineScoringConfig struct {
	DueSoonWindowDays   float64            `json:"due_soon_window_days"`
	DueSoonMaxBoost     float64            `json:"due_soon_max_boost"`
	NoDateScore         float64            `json:"no_date_score"`
	Overdue             TimeDecayConfig    `json:"overdue"`
	PriorityWeight      float64            `json:"priority_weight"`
	ConflictPenalties   map[string]float64 `json:"conflict_penalties"`
	DependencyPenalties map[string]float64 `json:"dependency_penalties"`
}

// ThreadScoringConfig tunes the multi-signal thread scorer. The five signal
// weights are normalized to sum to 1 at scoring time, so they do not have to
// add up to any fixed total.
type ThreadScoringConfig struct {
	RecencyWeight     float64 `json:"recency_weight"`
	HeatWeight        float64 `json:"heat_weight"`
	UrgencyWeight     float64 `json:"urgency_weight"`
	ImpactWeight      float64 `json:"impact_weight"`
	OutstandingWeight float64 `json:"outstanding_weight"`

	RecencyHalfLifeHours    float64 `json:"recency_half_life_hours"`
	HeatPerMessage          float64 `json:"heat_per_message"`
	HeatPerUnread           float64 `json:"heat_per_unread"`
	UrgencyDeadlineDays     float64 `json:"urgency_deadline_days"`
	UrgentKeywordScore      float64 `json:"urgent_keyword_score"`
	ReplyOverdueScore       float64 `json:"reply_overdue_score"`
	ImpactPerAttachment     float64 `json:"impact_per_attachment"`
	ImpactPerProjectPrio    float64 `json:"impact_per_project_priority"`
	ImpactPerUnread         float64 `json:"impact_per_unread"`
	OutstandingPerQuestion  float64 `json:"outstanding_per_question"`
	OverdueQuestionBonus    float64 `json:"overdue_question_bonus"`
	OverdueQuestionAgeHours float64 `json:"overdue_question_age_hours"`
}

// WorkspaceHealthConfig tunes the per-project health score formula.
type WorkspaceHealthConfig struct {
	MaxScore           float64 `json:"max_score"`
	MinScore           float64 `json:"min_score"`
	OpenTaskPenalty    float64 `json:"open_task_penalty"`
	OpenTaskCap        float64 `json:"open_task_cap"`
	ConflictPenalty    float64 `json:"conflict_penalty"`
	ConflictCap        float64 `json:"conflict_cap"`
	LinkedEmailPenalty float64 `json:"linked_email_penalty"`
	LinkedEmailCap     float64 `json:"linked_email_cap"`
}

// SchedulingPreset is a named bundle of config overrides with an activation
// window expressed as days of the week plus an hour range.
type SchedulingPreset struct {
	Slug      string         `json:"slug"`
	Name      string         `json:"name"`
	Days      []time.Weekday `json:"days,omitempty"`
	StartHour int            `json:"start_hour"`
	EndHour   int            `json:"end_hour"`
	Overrides map[string]any `json:"overrides,omitempty"`

	// AutoActivate applies the preset whenever its window covers the
	// evaluation time. Presets without it are templates applied explicitly.
	AutoActivate bool `json:"auto_activate"`
}

// ActiveAt reports whether the preset auto-activates at t. An empty day list
// means every day; an hour range of [0,0) means all day.
func (p SchedulingPreset) ActiveAt(t time.Time) bool {
	if !p.AutoActivate {
		return false
	}
	if len(p.Days) > 0 {
		matched := false
		for _, d := range p.Days {
			if t.Weekday() == d {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	if p.StartHour == 0 && p.EndHour == 0 {
		return true
	}
	h := t.Hour()
	return h >= p.StartHour && h < p.EndHour
}

// ScoringConfig is the versioned root of all scoring tunables. Instances are
// treated as read-only; Normalize and ApplyPreset return fresh values and
// never mutate their inputs.
type ScoringConfig struct {
	Version   int                   `json:"version"`
	TimeDecay TimeDecayConfig       `json:"time_decay"`
	Message   MessageScoringConfig  `json:"message"`
	Task      TaskScoringConfig     `json:"task"`
	Timeline  TimelineScoringConfig `json:"timeline"`
	Thread    ThreadScoringConfig   `json:"thread"`
	Health    WorkspaceHealthConfig `json:"health"`
	Presets   []SchedulingPreset    `json:"presets"`
}

// DefaultScoringConfig returns the frozen default configuration. A fresh
// value is built on every call so callers can never mutate a shared default.
func DefaultScoringConfig() *ScoringConfig {
	return &ScoringConfig{
		Version: 1,
		TimeDecay: TimeDecayConfig{
			UpcomingWindowDays:   14,
			UpcomingMaxBoost:     30,
			OverduePenaltyBase:   10,
			OverduePenaltyPerDay: 2,
			OverduePenaltyCap:    40,
		},
		Message: MessageScoringConfig{
			CategoryWeights: map[string]float64{
				"legal/contract":    90,
				"finance/invoice":   80,
				"logistics/travel":  70,
				"booking/offer":     65,
				"promo/press":       40,
				"fan/mail":          15,
				"newsletter/digest": 5,
			},
			DefaultCategoryWeight: 30,
			ConfidenceWeight:      0.2,
			IdleAge: IdleAgeConfig{
				ShortWindowHours:  24,
				ShortPerHour:      0.25,
				MediumWindowHours: 72,
				MediumBase:        6,
				MediumPerHour:     0.15,
				LongBase:          14,
				LongPerHour:       0.05,
				LongBonusCap:      10,
			},
			UnreadBonus: 18,
			TriageAdjustments: map[string]float64{
				string(TriageUnassigned):   12,
				string(TriageAcknowledged): 0,
				string(TriageSnoozed):      -20,
				string(TriageResolved):     -60,
			},
			SnoozedIdleMultiplier: 0.25,
			CrossLabelRules: []CrossLabelRule{
				{Prefix: "risk/", Weight: 25},
				{Prefix: "vip/", Weight: 20},
			},
			Boosts:      []BoostRule{},
			ActionRules: []ActionRule{},
			Explain:     true,
		},
		Task: TaskScoringConfig{
			DueSoonWindowDays: 14,
			DueSoonMaxBoost:   40,
			NoDueDateScore:    8,
			Overdue: TimeDecayConfig{
				OverduePenaltyBase:   15,
				OverduePenaltyPerDay: 3,
				OverduePenaltyCap:    45,
			},
			PriorityWeight: 6,
			StatusBoosts: map[string]float64{
				"blocked":     10,
				"in_progress": 5,
				"todo":        0,
			},
		},
		Timeline: TimelineScoringConfig{
			DueSoonWindowDays: 14,
			DueSoonMaxBoost:   40,
			NoDateScore:       5,
			Overdue: TimeDecayConfig{
				OverduePenaltyBase:   15,
				OverduePenaltyPerDay: 3,
				OverduePenaltyCap:    45,
			},
			PriorityWeight: 6,
			ConflictPenalties: map[string]float64{
				"warning": 8,
				"error":   20,
			},
			DependencyPenalties: map[string]float64{
				string(DependencyFinishToStart): 12,
				string(DependencyStartToStart):  6,
				string(DependencyLinked):        4,
			},
		},
		Thread: ThreadScoringConfig{
			RecencyWeight:     0.25,
			HeatWeight:        0.2,
			UrgencyWeight:     0.25,
			ImpactWeight:      0.15,
			OutstandingWeight: 0.15,

			RecencyHalfLifeHours:    48,
			HeatPerMessage:          8,
			HeatPerUnread:           10,
			UrgencyDeadlineDays:     7,
			UrgentKeywordScore:      40,
			ReplyOverdueScore:       30,
			ImpactPerAttachment:     15,
			ImpactPerProjectPrio:    10,
			ImpactPerUnread:         5,
			OutstandingPerQuestion:  20,
			OverdueQuestionBonus:    25,
			OverdueQuestionAgeHours: 48,
		},
		Health: WorkspaceHealthConfig{
			MaxScore:           100,
			MinScore:           0,
			OpenTaskPenalty:    2,
			OpenTaskCap:        30,
			ConflictPenalty:    5,
			ConflictCap:        25,
			LinkedEmailPenalty: 1,
			LinkedEmailCap:     15,
		},
		Presets: []SchedulingPreset{
			{
				Slug:         "tour-mode",
				Name:         "Tour Mode",
				Days:         []time.Weekday{time.Thursday, time.Friday, time.Saturday, time.Sunday},
				StartHour:    0,
				EndHour:      0,
				AutoActivate: true,
				Overrides: map[string]any{
					"message": map[string]any{
						"category_weights": map[string]any{
							"logistics/travel": 95.0,
							"booking/offer":    85.0,
						},
					},
				},
			},
			{
				Slug:      "release-week",
				Name:      "Release Week",
				StartHour: 6,
				EndHour:   22,
				Overrides: map[string]any{
					"message": map[string]any{
						"category_weights": map[string]any{
							"promo/press": 80.0,
						},
						"unread_bonus": 25.0,
					},
				},
			},
		},
	}
}

// Clone returns a deep structural copy of the configuration.
func (c *ScoringConfig) Clone() *ScoringConfig {
	if c == nil {
		return DefaultScoringConfig()
	}
	out := *c
	out.Message.CategoryWeights = cloneFloatMap(c.Message.CategoryWeights)
	out.Message.TriageAdjustments = cloneFloatMap(c.Message.TriageAdjustments)
	out.Message.CrossLabelRules = append([]CrossLabelRule(nil), c.Message.CrossLabelRules...)
	out.Message.Boosts = cloneBoosts(c.Message.Boosts)
	out.Message.ActionRules = cloneActionRules(c.Message.ActionRules)
	out.Task.StatusBoosts = cloneFloatMap(c.Task.StatusBoosts)
	out.Timeline.ConflictPenalties = cloneFloatMap(c.Timeline.ConflictPenalties)
	out.Timeline.DependencyPenalties = cloneFloatMap(c.Timeline.DependencyPenalties)
	out.Presets = clonePresets(c.Presets)
	return &out
}

// Equal reports whether two configurations are semantically identical. It
// compares canonical JSON serializations, so key order never matters.
func Equal(a, b *ScoringConfig) bool {
	aj, errA := json.Marshal(a)
	bj, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return string(aj) == string(bj)
}

// CategoryWeight returns the configured weight for a category, falling back
// to the default weight for unknown categories. Lookup is case-insensitive.
func (m MessageScoringConfig) CategoryWeight(category string) float64 {
	if w, ok := m.CategoryWeights[category]; ok {
		return w
	}
	lower := strings.ToLower(category)
	for k, w := range m.CategoryWeights {
		if strings.ToLower(k) == lower {
			return w
		}
	}
	return m.DefaultCategoryWeight
}

func cloneFloatMap(in map[string]float64) map[string]float64 {
	if in == nil {
		return nil
	}
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneBoosts(in []BoostRule) []BoostRule {
	out := make([]BoostRule, len(in))
	for i, b := range in {
		out[i] = b
		out[i].Senders = append([]string(nil), b.Senders...)
		out[i].Domains = append([]string(nil), b.Domains...)
		out[i].SubjectKeywords = append([]string(nil), b.SubjectKeywords...)
		out[i].Labels = append([]string(nil), b.Labels...)
		out[i].Categories = append([]string(nil), b.Categories...)
		if b.HasAttachment != nil {
			v := *b.HasAttachment
			out[i].HasAttachment = &v
		}
		if b.MinScore != nil {
			v := *b.MinScore
			out[i].MinScore = &v
		}
	}
	return out
}

func cloneActionRules(in []ActionRule) []ActionRule {
	out := make([]ActionRule, len(in))
	for i, r := range in {
		out[i] = r
		out[i].Senders = append([]string(nil), r.Senders...)
		out[i].Domains = append([]string(nil), r.Domains...)
		out[i].SubjectKeywords = append([]string(nil), r.SubjectKeywords...)
		out[i].Labels = append([]string(nil), r.Labels...)
		out[i].Categories = append([]string(nil), r.Categories...)
		if r.HasAttachment != nil {
			v := *r.HasAttachment
			out[i].HasAttachment = &v
		}
	}
	return out
}

func clonePresets(in []SchedulingPreset) []SchedulingPreset {
	out := make([]SchedulingPreset, len(in))
	for i, p := range in {
		out[i] = p
		out[i].Days = append([]time.Weekday(nil), p.Days...)
		if p.Overrides != nil {
			out[i].Overrides = cloneAnyMap(p.Overrides)
		}
	}
	return out
}

func cloneAnyMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		if m, ok := v.(map[string]any); ok {
			out[k] = cloneAnyMap(m)
			continue
		}
		out[k] = v
	}
	return out
}
