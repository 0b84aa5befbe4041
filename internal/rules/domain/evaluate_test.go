package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var evalNow = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

func bookingOffer() MapEntity {
	return MapEntity{
		"subject":  "Booking offer: Berlin festival",
		"sender":   "talent@BigPromoter.com",
		"category": "booking/offer",
		"priority": 80.0,
		"unread":   true,
		"labels":   []string{"territory/US", "risk/deposit"},
		"received_at": evalNow.Add(-36 * time.Hour),
		"metadata": map[string]any{
			"source": "gmail",
		},
	}
}

func leaf(field, op string, value any) ConditionNode {
	return ConditionNode{Field: field, Operator: op, Value: value}
}

func TestEvaluate_Operators(t *testing.T) {
	entity := bookingOffer()
	cases := []struct {
		name string
		node ConditionNode
		want bool
	}{
		{"equals folds case", leaf("category", OpEquals, "BOOKING/OFFER"), true},
		{"equals mismatch", leaf("category", OpEquals, "fan/mail"), false},
		{"equals bool", leaf("unread", OpEquals, true), true},
		{"not_equals", leaf("category", OpNotEquals, "fan/mail"), true},
		{"contains substring", leaf("subject", OpContains, "berlin"), true},
		{"contains over set", leaf("labels", OpContains, "deposit"), true},
		{"not_contains", leaf("subject", OpNotContains, "cancellation"), true},
		{"starts_with", leaf("subject", OpStartsWith, "booking"), true},
		{"ends_with", leaf("subject", OpEndsWith, "festival"), true},
		{"matches_regex", leaf("sender", OpMatchesRegex, `@bigpromoter\.com$`), false},
		{"matches_regex case folded pattern", leaf("sender", OpMatchesRegex, `(?i)@bigpromoter\.com$`), true},
		{"invalid regex is false", leaf("sender", OpMatchesRegex, `([`), false},
		{"greater_than", leaf("priority", OpGreaterThan, 70.0), true},
		{"greater_than boundary", leaf("priority", OpGreaterThan, 80.0), false},
		{"less_than", leaf("priority", OpLessThan, 100.0), true},
		{"greater_than_or_equal boundary", leaf("priority", OpGreaterThanOrEqual, 80.0), true},
		{"less_than_or_equal", leaf("priority", OpLessThanOrEqual, 79.0), false},
		{"between inside", leaf("priority", OpBetween, map[string]any{"min": 50.0, "max": 90.0}), true},
		{"between outside", leaf("priority", OpBetween, map[string]any{"min": 0.0, "max": 50.0}), false},
		{"between open min", leaf("priority", OpBetween, map[string]any{"max": 90.0}), true},
		{"between inclusive bounds", leaf("priority", OpBetween, map[string]any{"min": 80.0, "max": 80.0}), true},
		{"is_one_of over labels", leaf("labels", OpIsOneOf, []any{"territory/US"}), true},
		{"is_one_of scalar", leaf("category", OpIsOneOf, []any{"booking/offer", "promo/press"}), true},
		{"is_one_of miss", leaf("labels", OpIsOneOf, []any{"territory/JP"}), false},
		{"not_in", leaf("category", OpNotIn, []any{"fan/mail"}), true},
		{"before", leaf("received_at", OpBefore, evalNow.Format(time.RFC3339)), true},
		{"after", leaf("received_at", OpAfter, evalNow.Format(time.RFC3339)), false},
		{"within_last_days hit", leaf("received_at", OpWithinLastDays, 2.0), true},
		{"within_last_days miss", leaf("received_at", OpWithinLastDays, 1.0), false},
		{"unknown operator is false", leaf("category", "sounds_like", "booking"), false},
		{"missing field is false", leaf("nonexistent", OpEquals, "x"), false},
		{"type mismatch is false", leaf("priority", OpStartsWith, "8"), false},
	}

	ev := Evaluator{Now: evalNow}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ev.Evaluate(tc.node, entity))
		})
	}
}

func TestEvaluate_Combinators(t *testing.T) {
	entity := bookingOffer()
	ev := Evaluator{Now: evalNow}

	trueLeaf := leaf("unread", OpEquals, true)
	falseLeaf := leaf("unread", OpEquals, false)

	cases := []struct {
		name string
		node ConditionNode
		want bool
	}{
		{"all true", ConditionNode{All: []ConditionNode{trueLeaf, trueLeaf}}, true},
		{"all with one false", ConditionNode{All: []ConditionNode{trueLeaf, falseLeaf}}, false},
		{"any with one true", ConditionNode{Any: []ConditionNode{falseLeaf, trueLeaf}}, true},
		{"any all false", ConditionNode{Any: []ConditionNode{falseLeaf, falseLeaf}}, false},
		{"none of false", ConditionNode{None: []ConditionNode{falseLeaf}}, true},
		{"none with a true", ConditionNode{None: []ConditionNode{falseLeaf, trueLeaf}}, false},
		{"zero node matches everything", ConditionNode{}, true},
		{"explicit empty all is vacuously true", ConditionNode{All: []ConditionNode{}}, true},
		{"explicit empty any is vacuously false", ConditionNode{Any: []ConditionNode{}}, false},
		{"explicit empty none is vacuously true", ConditionNode{None: []ConditionNode{}}, true},
		{"nested", ConditionNode{All: []ConditionNode{
			{Any: []ConditionNode{falseLeaf, trueLeaf}},
			{None: []ConditionNode{falseLeaf}},
		}}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ev.Evaluate(tc.node, entity))
		})
	}
}

func TestEvaluate_DecodedEmptyCombinators(t *testing.T) {
	entity := bookingOffer()
	ev := Evaluator{Now: evalNow}

	cases := []struct {
		name string
		raw  string
		want bool
	}{
		{"decoded zero node", `{}`, true},
		{"decoded empty all", `{"all": []}`, true},
		{"decoded empty any", `{"any": []}`, false},
		{"decoded empty none", `{"none": []}`, true},
		{"decoded flat or without conditions", `{"logic": "or"}`, false},
		{"decoded flat and without conditions", `{"logic": "and"}`, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var node ConditionNode
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &node))
			assert.Equal(t, tc.want, ev.Evaluate(node, entity))
		})
	}
}

func TestMapEntity_DottedPaths(t *testing.T) {
	entity := bookingOffer()

	v, ok := entity.Field("metadata.source")
	assert.True(t, ok)
	assert.Equal(t, "gmail", v)

	_, ok = entity.Field("metadata.missing")
	assert.False(t, ok)

	// descending through a non-map is absent, not a panic
	_, ok = entity.Field("subject.anything")
	assert.False(t, ok)
}

func TestFieldFunc(t *testing.T) {
	entity := FieldFunc(func(path string) (any, bool) {
		if path == "lane" {
			return "Promo", true
		}
		return nil, false
	})

	ev := Evaluator{Now: evalNow}
	assert.True(t, ev.Evaluate(leaf("lane", OpEquals, "promo"), entity))
	assert.False(t, ev.Evaluate(leaf("territory", OpEquals, "US"), entity))
}
