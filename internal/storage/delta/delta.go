// Package delta computes minimal field deltas between an entity's new
// document state and its last stored version, so the record store only
// writes what actually changed.
package delta

import (
	"encoding/json"
	"reflect"
	"strings"
	"time"
)

// Compute returns the set of fields in next that differ from stored,
// keyed by dotted path. Comparison rules, applied per field:
//
//   - a field absent (or nil) in stored is always included
//   - time values compare by time.Time.Equal
//   - arrays compare by full serialized equality; any difference
//     replaces the whole array, there is no element-level diffing
//   - nested objects recurse field-by-field, emitting one dotted-path
//     entry per changed leaf
//   - every other scalar compares by direct inequality
//
// Bookkeeping fields (createdOn, lastModifiedOn) are the caller's
// concern; Compute treats them like any other field.
func Compute(next, stored map[string]any) map[string]any {
	out := make(map[string]any)
	compute("", next, stored, out)
	return out
}

func compute(prefix string, next, stored map[string]any, out map[string]any) {
	for key, nv := range next {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		sv, ok := stored[key]
		if !ok || sv == nil {
			out[path] = nv
			continue
		}

		switch n := nv.(type) {
		case time.Time:
			if t, isTime := sv.(time.Time); !isTime || !t.Equal(n) {
				out[path] = nv
			}
		case map[string]any:
			sm, isMap := sv.(map[string]any)
			if !isMap {
				// Stored value is not an object; every leaf counts as
				// changed.
				sm = map[string]any{}
			}
			compute(path, n, sm, out)
		default:
			if isArray(nv) {
				if !serializedEqual(nv, sv) {
					out[path] = nv
				}
			} else if !scalarEqual(nv, sv) {
				out[path] = nv
			}
		}
	}
}

func isArray(v any) bool {
	if v == nil {
		return false
	}
	k := reflect.TypeOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}

func scalarEqual(a, b any) bool {
	if a == b {
		return true
	}
	// Values that crossed a JSON round trip may differ in dynamic type
	// (int vs float64); serialized comparison settles those.
	return serializedEqual(a, b)
}

func serializedEqual(a, b any) bool {
	ab, aerr := json.Marshal(a)
	bb, berr := json.Marshal(b)
	if aerr != nil || berr != nil {
		return false
	}
	return string(ab) == string(bb)
}

// Expand rebuilds a nested document from a flat dotted-path map. It is
// the inverse of the flattening Compute performs, used when hydrating
// an entity from per-field storage.
func Expand(flat map[string]any) map[string]any {
	doc := make(map[string]any)
	for path, value := range flat {
		parts := strings.Split(path, ".")
		node := doc
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[part] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = value
	}
	return doc
}
