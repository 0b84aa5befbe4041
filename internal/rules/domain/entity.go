package domain

import "strings"

// Entity exposes field lookup by dotted path. Missing intermediate segments
// return absent rather than erroring, so rules over optional structures
// degrade to "does not match".
type Entity interface {
	Field(path string) (any, bool)
}

// FieldFunc adapts a plain function to the Entity interface; call sites use
// it to supply their own field-accessor mapping.
type FieldFunc func(path string) (any, bool)

// Field implements Entity.
func (f FieldFunc) Field(path string) (any, bool) {
	return f(path)
}

// MapEntity wraps a generic map with dotted-path lookup, e.g.
// "labels.territory" descends into nested maps.
type MapEntity map[string]any

// Field implements Entity.
func (m MapEntity) Field(path string) (any, bool) {
	var current any = map[string]any(m)
	for _, segment := range strings.Split(path, ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = node[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
