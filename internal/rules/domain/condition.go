// Package domain implements the generic condition evaluation engine shared
// by inbox automation rules, project-to-email assignment rules, and timeline
// lane auto-assignment rules. Call sites differ only in the field accessor
// they supply.
package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RuleKind identifies which subsystem owns a persisted rule.
type RuleKind string

const (
	RuleKindAutomation        RuleKind = "automation"
	RuleKindProjectAssignment RuleKind = "project_assignment"
	RuleKindLaneAutoAssign    RuleKind = "lane_auto_assign"
)

// ConditionNode is a node in a boolean rule tree: either exactly one
// combinator (all, any, none) holding children, or a leaf holding a
// field/operator/value predicate. Legacy persisted shapes are normalized to
// this canonical form at load time, never sniffed during evaluation.
type ConditionNode struct {
	All  []ConditionNode `json:"all,omitempty"`
	Any  []ConditionNode `json:"any,omitempty"`
	None []ConditionNode `json:"none,omitempty"`

	Field    string `json:"field,omitempty"`
	Operator string `json:"operator,omitempty"`
	Value    any    `json:"value,omitempty"`
}

// IsLeaf reports whether the node carries a predicate rather than children.
func (n ConditionNode) IsLeaf() bool {
	return len(n.All) == 0 && len(n.Any) == 0 && len(n.None) == 0 && n.Field != ""
}

// LeafCount returns the number of leaf predicates in the subtree.
func (n ConditionNode) LeafCount() int {
	if n.IsLeaf() {
		return 1
	}
	count := 0
	for _, child := range n.All {
		count += child.LeafCount()
	}
	for _, child := range n.Any {
		count += child.LeafCount()
	}
	for _, child := range n.None {
		count += child.LeafCount()
	}
	return count
}

// legacyNode covers every persisted shape a node has ever had: the canonical
// combinator tree, the flat {logic, conditions} sugar, and a bare
// field/operator/value leaf.
type legacyNode struct {
	All  []ConditionNode `json:"all"`
	Any  []ConditionNode `json:"any"`
	None []ConditionNode `json:"none"`

	Logic      string          `json:"logic"`
	Conditions []ConditionNode `json:"conditions"`

	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

// MarshalJSON emits present combinators even when their child list is
// empty; omitempty would drop them and an explicit empty "any" would change
// meaning on reload.
func (n ConditionNode) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 3)
	if n.All != nil {
		out["all"] = n.All
	}
	if n.Any != nil {
		out["any"] = n.Any
	}
	if n.None != nil {
		out["none"] = n.None
	}
	if n.Field != "" {
		out["field"] = n.Field
		out["operator"] = n.Operator
		if n.Value != nil {
			out["value"] = n.Value
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON lowers any supported persisted shape to the canonical tree.
func (n *ConditionNode) UnmarshalJSON(data []byte) error {
	var raw legacyNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if len(raw.Conditions) > 0 || raw.Logic != "" {
		if raw.Conditions == nil {
			raw.Conditions = []ConditionNode{}
		}
		switch raw.Logic {
		case "or", "any":
			*n = ConditionNode{Any: raw.Conditions}
		default: // "and" was the default in the flat shape
			*n = ConditionNode{All: raw.Conditions}
		}
		return nil
	}

	*n = ConditionNode{
		All:      raw.All,
		Any:      raw.Any,
		None:     raw.None,
		Field:    raw.Field,
		Operator: raw.Operator,
		Value:    raw.Value,
	}
	return nil
}

// RuleSet is the persisted shape of one automation, assignment, or
// auto-assign rule: a named root condition tree.
type RuleSet struct {
	ID        uuid.UUID     `json:"id"`
	Kind      RuleKind      `json:"kind"`
	Name      string        `json:"name"`
	Enabled   bool          `json:"enabled"`
	Priority  int           `json:"priority"`
	Root      ConditionNode `json:"root"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// legacyRuleSet additionally accepts the flat persisted shape where the
// conditions list and match mode sat directly on the rule.
type legacyRuleSet struct {
	ID        uuid.UUID       `json:"id"`
	Kind      RuleKind        `json:"kind"`
	Name      string          `json:"name"`
	Enabled   *bool           `json:"enabled"`
	Priority  int             `json:"priority"`
	Root      *ConditionNode  `json:"root"`
	MatchMode string          `json:"match_mode"`
	Condition []ConditionNode `json:"conditions"`
	Field     string          `json:"field"`
	Operator  string          `json:"operator"`
	Value     any             `json:"value"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// UnmarshalJSON accepts the canonical shape, the flat match-mode shape, and
// a bare single-leaf object (treated as an implicit single-leaf "all").
func (r *RuleSet) UnmarshalJSON(data []byte) error {
	var raw legacyRuleSet
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := RuleSet{
		ID:        raw.ID,
		Kind:      raw.Kind,
		Name:      raw.Name,
		Enabled:   true,
		Priority:  raw.Priority,
		CreatedAt: raw.CreatedAt,
		UpdatedAt: raw.UpdatedAt,
	}
	if raw.Enabled != nil {
		out.Enabled = *raw.Enabled
	}

	switch {
	case raw.Root != nil:
		out.Root = *raw.Root
	case len(raw.Condition) > 0 || raw.MatchMode != "":
		if raw.MatchMode == "any" || raw.MatchMode == "or" {
			out.Root = ConditionNode{Any: raw.Condition}
		} else {
			out.Root = ConditionNode{All: raw.Condition}
		}
	case raw.Field != "":
		out.Root = ConditionNode{All: []ConditionNode{{
			Field:    raw.Field,
			Operator: raw.Operator,
			Value:    raw.Value,
		}}}
	}

	*r = out
	return nil
}

// Matches evaluates the rule against an entity at the given time. A rule
// with zero leaves matches everything; that is the explicit "always assign"
// rule.
func (r RuleSet) Matches(entity Entity, now time.Time) bool {
	if r.Root.LeafCount() == 0 {
		return true
	}
	return Evaluator{Now: now}.Evaluate(r.Root, entity)
}
