// Package services implements the per-entity scorers. All scorers are pure:
// the caller supplies the entity snapshot, the configuration, and "now", and
// receives a total plus the ordered, signed component trail that produced it.
package services

import (
	"math"
	"strings"
	"time"

	"github.com/Sc0remac/cadenzor/internal/priority/domain"
)

// ScoreMessage scores an inbound message. Components are appended in a fixed
// evaluation order: category weight, model confidence, idle age, unread
// bonus, triage adjustment, cross-label rules, then advanced boosts. Boosts
// see the running total produced by everything before them, so a later boost
// can be gated on an earlier one via its minimum-score criterion.
func ScoreMessage(msg domain.Message, cfg *domain.ScoringConfig, now time.Time) domain.Score {
	if cfg == nil {
		cfg = domain.DefaultScoringConfig()
	}
	mc := cfg.Message

	var components []domain.Component
	add := func(label string, delta float64) {
		components = append(components, domain.Component{Label: label, Delta: delta})
	}

	add("category:"+msg.Category, mc.CategoryWeight(msg.Category))

	if msg.Confidence != nil && mc.ConfidenceWeight > 0 {
		conf := clamp01(*msg.Confidence)
		add("confidence", round2(conf*100*mc.ConfidenceWeight))
	}

	if msg.ReceivedAt != nil && !msg.ReceivedAt.After(now) {
		idle := idleAgeScore(now.Sub(*msg.ReceivedAt).Hours(), mc.IdleAge)
		if msg.IsSnoozed() {
			idle *= mc.SnoozedIdleMultiplier
		}
		add("idle_age", round2(idle))
	}

	if msg.Unread {
		add("unread", mc.UnreadBonus)
	}

	if adj, ok := mc.TriageAdjustments[string(msg.Triage)]; ok {
		add("triage:"+string(msg.Triage), adj)
	}

	for _, rule := range mc.CrossLabelRules {
		if labelHasPrefix(msg.Labels, rule.Prefix, rule.CaseSensitive) {
			add("label:"+rule.Prefix, rule.Weight)
		}
	}

	running := sumComponents(components)
	for _, boost := range mc.Boosts {
		if boostMatches(boost, msg, running) {
			label := boost.Name
			if label == "" {
				label = boost.ID
			}
			add("boost:"+label, boost.Boost)
			running += boost.Boost
		}
	}

	total := sumComponents(components)
	if total < 0 {
		total = 0
	}
	if !mc.Explain {
		components = nil
	}
	return domain.Score{Total: round2(total), Components: components}
}

// ActionsFor returns the actions suggested for a message by the configured
// action rules, in declared order. Action rules never change the score.
func ActionsFor(msg domain.Message, cfg *domain.ScoringConfig) []string {
	if cfg == nil {
		cfg = domain.DefaultScoringConfig()
	}
	var actions []string
	for _, rule := range cfg.Message.ActionRules {
		if actionRuleMatches(rule, msg) {
			actions = append(actions, rule.Action)
		}
	}
	return actions
}

// idleAgeScore maps hours-since-received onto the three configured windows.
// The contribution is non-decreasing in elapsed hours within each window.
func idleAgeScore(hours float64, cfg domain.IdleAgeConfig) float64 {
	if hours <= 0 {
		return 0
	}
	switch {
	case hours <= cfg.ShortWindowHours:
		return hours * cfg.ShortPerHour
	case hours <= cfg.MediumWindowHours:
		return cfg.MediumBase + (hours-cfg.ShortWindowHours)*cfg.MediumPerHour
	default:
		bonus := (hours - cfg.MediumWindowHours) * cfg.LongPerHour
		if bonus > cfg.LongBonusCap {
			bonus = cfg.LongBonusCap
		}
		return cfg.LongBase + bonus
	}
}

func boostMatches(b domain.BoostRule, msg domain.Message, running float64) bool {
	declared := false

	if len(b.Senders) > 0 {
		declared = true
		if !containsFold(b.Senders, msg.Sender) {
			return false
		}
	}
	if len(b.Domains) > 0 {
		declared = true
		if !senderInDomains(msg.Sender, b.Domains) {
			return false
		}
	}
	if len(b.SubjectKeywords) > 0 {
		declared = true
		if !anyKeyword(msg.Subject, b.SubjectKeywords) {
			return false
		}
	}
	if len(b.Labels) > 0 {
		declared = true
		if !intersectsFold(msg.Labels, b.Labels) {
			return false
		}
	}
	if len(b.Categories) > 0 {
		declared = true
		if !containsFold(b.Categories, msg.Category) {
			return false
		}
	}
	if b.HasAttachment != nil {
		declared = true
		if msg.HasAttachment != *b.HasAttachment {
			return false
		}
	}
	if b.MinScore != nil {
		declared = true
		if running < *b.MinScore {
			return false
		}
	}

	// A boost with no criteria at all would fire on every message, which is
	// never what a rule author meant.
	return declared
}

func actionRuleMatches(r domain.ActionRule, msg domain.Message) bool {
	declared := false

	if len(r.Senders) > 0 {
		declared = true
		if !containsFold(r.Senders, msg.Sender) {
			return false
		}
	}
	if len(r.Domains) > 0 {
		declared = true
		if !senderInDomains(msg.Sender, r.Domains) {
			return false
		}
	}
	if len(r.SubjectKeywords) > 0 {
		declared = true
		if !anyKeyword(msg.Subject, r.SubjectKeywords) {
			return false
		}
	}
	if len(r.Labels) > 0 {
		declared = true
		if !intersectsFold(msg.Labels, r.Labels) {
			return false
		}
	}
	if len(r.Categories) > 0 {
		declared = true
		if !containsFold(r.Categories, msg.Category) {
			return false
		}
	}
	if r.HasAttachment != nil {
		declared = true
		if msg.HasAttachment != *r.HasAttachment {
			return false
		}
	}

	return declared
}

func labelHasPrefix(labels []string, prefix string, caseSensitive bool) bool {
	for _, label := range labels {
		if caseSensitive {
			if strings.HasPrefix(label, prefix) {
				return true
			}
		} else if strings.HasPrefix(strings.ToLower(label), strings.ToLower(prefix)) {
			return true
		}
	}
	return false
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}

func intersectsFold(a, b []string) bool {
	for _, x := range a {
		if containsFold(b, x) {
			return true
		}
	}
	return false
}

func senderInDomains(sender string, domains []string) bool {
	at := strings.LastIndex(sender, "@")
	if at < 0 {
		return false
	}
	senderDomain := strings.ToLower(sender[at+1:])
	for _, d := range domains {
		d = strings.ToLower(strings.TrimPrefix(d, "@"))
		if senderDomain == d || strings.HasSuffix(senderDomain, "."+d) {
			return true
		}
	}
	return false
}

func anyKeyword(subject string, keywords []string) bool {
	lower := strings.ToLower(subject)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func sumComponents(components []domain.Component) float64 {
	var total float64
	for _, c := range components {
		total += c.Delta
	}
	return total
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
