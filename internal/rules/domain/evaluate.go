package domain

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Operator names. A leaf whose operator is unknown, or whose operator does
// not fit the entity value's type, evaluates to false rather than erroring,
// so one malformed persisted rule can never take down evaluation of a batch.
const (
	OpEquals             = "equals"
	OpNotEquals          = "not_equals"
	OpContains           = "contains"
	OpNotContains        = "not_contains"
	OpStartsWith         = "starts_with"
	OpEndsWith           = "ends_with"
	OpMatchesRegex       = "matches_regex"
	OpGreaterThan        = "greater_than"
	OpLessThan           = "less_than"
	OpGreaterThanOrEqual = "greater_than_or_equal"
	OpLessThanOrEqual    = "less_than_or_equal"
	OpBetween            = "between"
	OpIsOneOf            = "is_one_of"
	OpNotIn              = "not_in"
	OpBefore             = "before"
	OpAfter              = "after"
	OpWithinLastDays     = "within_last_days"
)

// Evaluator evaluates condition trees against entities. Now is injected so
// date operators are testable and never read a wall clock.
type Evaluator struct {
	Now time.Time
}

// Evaluate applies the combinator semantics: "all" is vacuously true on an
// empty list, "any" is vacuously false, "none" is the negation of any. The
// branches key on slice presence, not length, so an explicit empty "any"
// keeps its vacuous semantics instead of degrading to the zero-node case.
func (e Evaluator) Evaluate(node ConditionNode, entity Entity) bool {
	switch {
	case node.All != nil:
		for _, child := range node.All {
			if !e.Evaluate(child, entity) {
				return false
			}
		}
		return true
	case node.Any != nil:
		for _, child := range node.Any {
			if e.Evaluate(child, entity) {
				return true
			}
		}
		return false
	case node.None != nil:
		for _, child := range node.None {
			if e.Evaluate(child, entity) {
				return false
			}
		}
		return true
	case node.IsLeaf():
		return e.evaluateLeaf(node, entity)
	default:
		// An entirely zero node (no combinator key, no leaf field) behaves
		// like an empty "all" and matches everything.
		return true
	}
}

func (e Evaluator) evaluateLeaf(leaf ConditionNode, entity Entity) bool {
	value, ok := entity.Field(leaf.Field)
	if !ok || value == nil {
		return false
	}

	switch leaf.Operator {
	case OpEquals:
		return equals(value, leaf.Value)
	case OpNotEquals:
		return !equals(value, leaf.Value)
	case OpContains:
		return containsMatch(value, leaf.Value)
	case OpNotContains:
		return !containsMatch(value, leaf.Value)
	case OpStartsWith:
		s, c, ok := bothStrings(value, leaf.Value)
		return ok && strings.HasPrefix(strings.ToLower(s), strings.ToLower(c))
	case OpEndsWith:
		s, c, ok := bothStrings(value, leaf.Value)
		return ok && strings.HasSuffix(strings.ToLower(s), strings.ToLower(c))
	case OpMatchesRegex:
		s, pattern, ok := bothStrings(value, leaf.Value)
		if !ok {
			return false
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return false
		}
		return re.MatchString(s)
	case OpGreaterThan, OpLessThan, OpGreaterThanOrEqual, OpLessThanOrEqual:
		return compareNumbers(value, leaf.Value, leaf.Operator)
	case OpBetween:
		return betweenMatch(value, leaf.Value)
	case OpIsOneOf:
		return setIntersects(value, leaf.Value)
	case OpNotIn:
		return !setIntersects(value, leaf.Value)
	case OpBefore:
		et, ct, ok := bothTimes(value, leaf.Value)
		return ok && et.Before(ct)
	case OpAfter:
		et, ct, ok := bothTimes(value, leaf.Value)
		return ok && et.After(ct)
	case OpWithinLastDays:
		return e.withinLastDays(value, leaf.Value)
	default:
		return false
	}
}

// equals is case-insensitive for text, numeric for numbers, exact for bools.
func equals(entityVal, condVal any) bool {
	if s, c, ok := bothStrings(entityVal, condVal); ok {
		return strings.EqualFold(s, c)
	}
	if b, ok := entityVal.(bool); ok {
		cb, ok := condVal.(bool)
		return ok && b == cb
	}
	ev, okE := asNumber(entityVal)
	cv, okC := asNumber(condVal)
	return okE && okC && ev == cv
}

// containsMatch does case-insensitive substring matching against a string
// value, or across each member of a set-valued field.
func containsMatch(entityVal, condVal any) bool {
	needle, ok := stringValue(condVal)
	if !ok {
		return false
	}
	needle = strings.ToLower(needle)
	if s, ok := stringValue(entityVal); ok {
		return strings.Contains(strings.ToLower(s), needle)
	}
	for _, member := range setMembers(entityVal) {
		if strings.Contains(strings.ToLower(member), needle) {
			return true
		}
	}
	return false
}

func compareNumbers(entityVal, condVal any, op string) bool {
	ev, okE := asNumber(entityVal)
	cv, okC := asNumber(condVal)
	if !okE || !okC {
		return false
	}
	switch op {
	case OpGreaterThan:
		return ev > cv
	case OpLessThan:
		return ev < cv
	case OpGreaterThanOrEqual:
		return ev >= cv
	case OpLessThanOrEqual:
		return ev <= cv
	default:
		return false
	}
}

// betweenMatch checks an inclusive numeric range; either bound may be
// omitted.
func betweenMatch(entityVal, condVal any) bool {
	ev, ok := asNumber(entityVal)
	if !ok {
		return false
	}
	bounds, ok := condVal.(map[string]any)
	if !ok {
		return false
	}
	if raw, ok := bounds["min"]; ok {
		if min, ok := asNumber(raw); ok && ev < min {
			return false
		}
	}
	if raw, ok := bounds["max"]; ok {
		if max, ok := asNumber(raw); ok && ev > max {
			return false
		}
	}
	return true
}

// setIntersects matches when the configured value list and the entity's
// value set share at least one member. A scalar entity value is treated as a
// one-element set.
func setIntersects(entityVal, condVal any) bool {
	wanted := setMembers(condVal)
	if len(wanted) == 0 {
		return false
	}
	have := setMembers(entityVal)
	for _, h := range have {
		for _, w := range wanted {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}

func (e Evaluator) withinLastDays(entityVal, condVal any) bool {
	et, ok := asTime(entityVal)
	if !ok {
		return false
	}
	days, ok := asNumber(condVal)
	if !ok || days < 0 {
		return false
	}
	if et.After(e.Now) {
		return false
	}
	return e.Now.Sub(et).Hours() <= days*24
}

func bothStrings(a, b any) (string, string, bool) {
	as, okA := stringValue(a)
	bs, okB := stringValue(b)
	return as, bs, okA && okB
}

func bothTimes(a, b any) (time.Time, time.Time, bool) {
	at, okA := asTime(a)
	bt, okB := asTime(b)
	return at, bt, okA && okB
}

func stringValue(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func setMembers(v any) []string {
	switch val := v.(type) {
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return []string{val}
	default:
		return nil
	}
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) {
			return 0, false
		}
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed, true
		}
		if parsed, err := time.Parse("2006-01-02", t); err == nil {
			return parsed, true
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}
