/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"sort"
)

// Record is an opaque entity record. Every stored record carries a string "id".
type Record map[string]any

// ID returns the record identifier, or "" when the record has none.
func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

// Clone returns a deep copy of the record's maps and slices.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

// Keys returns the attribute names in sorted order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Fields is the attribute set supplied to create and update.
type Fields map[string]any

// Criteria selects records by field. Values are matched for equality, lists
// mean "in", and maps hold operators such as {">=": 30}. The reserved keys
// where, limit, skip and sort shape the whole query.
type Criteria map[string]any

func cloneValue(v any) any {
	switch tv := v.(type) {
	case Record:
		return tv.Clone()
	case map[string]any:
		return map[string]any(Record(tv).Clone())
	case []Record:
		out := make([]Record, len(tv))
		for i, r := range tv {
			out[i] = r.Clone()
		}
		return out
	case []any:
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
