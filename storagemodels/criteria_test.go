/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"math"
	"testing"

	"github.com/suparena/checkstore/errors"
)

func sampleChecks() []Record {
	return []Record{
		{"id": "c1", "url": "https://a.example", "interval": 60, "active": true, "owner": "u1"},
		{"id": "c2", "url": "http://b.example", "interval": 30.0, "active": false, "owner": "u1"},
		{"id": "c3", "url": "https://c.test", "interval": 300, "active": true, "owner": "u2"},
		{"id": "c4", "url": "https://d.example", "active": true},
	}
}

func ids(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID()
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestQueryApply(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{name: "nil criteria", criteria: nil, want: []string{"c1", "c2", "c3", "c4"}},
		{name: "equality", criteria: Criteria{"owner": "u1"}, want: []string{"c1", "c2"}},
		{name: "numeric equality across types", criteria: Criteria{"interval": 30}, want: []string{"c2"}},
		{name: "bool equality", criteria: Criteria{"active": false}, want: []string{"c2"}},
		{name: "nil matches missing", criteria: Criteria{"owner": nil}, want: []string{"c4"}},
		{name: "list means in", criteria: Criteria{"id": []string{"c1", "c3", "zz"}}, want: []string{"c1", "c3"}},
		{name: "nin keeps missing", criteria: Criteria{"owner": map[string]any{"nin": []any{"u1"}}}, want: []string{"c3", "c4"}},
		{name: "not equal", criteria: Criteria{"owner": map[string]any{"!": "u1"}}, want: []string{"c3", "c4"}},
		{name: "range", criteria: Criteria{"interval": map[string]any{">=": 60, "<": 300}}, want: []string{"c1"}},
		{name: "range skips missing", criteria: Criteria{"interval": map[string]any{">": 0}}, want: []string{"c1", "c2", "c3"}},
		{name: "startsWith", criteria: Criteria{"url": map[string]any{"startsWith": "https://"}}, want: []string{"c1", "c3", "c4"}},
		{name: "endsWith", criteria: Criteria{"url": map[string]any{"endsWith": ".test"}}, want: []string{"c3"}},
		{name: "contains", criteria: Criteria{"url": map[string]any{"contains": "b.ex"}}, want: []string{"c2"}},
		{name: "where block", criteria: Criteria{"where": map[string]any{"active": true}, "limit": 2}, want: []string{"c1", "c3"}},
		{name: "sort desc", criteria: Criteria{"owner": "u1", "sort": "interval DESC"}, want: []string{"c1", "c2"}},
		{name: "sort missing first", criteria: Criteria{"sort": []string{"interval"}}, want: []string{"c4", "c2", "c1", "c3"}},
		{name: "skip and limit", criteria: Criteria{"sort": "id", "skip": 1, "limit": 2}, want: []string{"c2", "c3"}},
		{name: "skip past end", criteria: Criteria{"skip": 10}, want: []string{}},
		{name: "no match", criteria: Criteria{"owner": "nobody"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := ParseCriteria(tt.criteria)
			if err != nil {
				t.Fatalf("ParseCriteria: %v", err)
			}
			got := ids(q.Apply(sampleChecks()))
			if !equalIDs(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestParseCriteriaRejects(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
	}{
		{name: "unknown operator", criteria: Criteria{"url": map[string]any{"like": "x"}}},
		{name: "empty operator map", criteria: Criteria{"url": map[string]any{}}},
		{name: "bad field name", criteria: Criteria{"url; DROP": "x"}},
		{name: "in without list", criteria: Criteria{"id": map[string]any{"in": "c1"}}},
		{name: "contains with number", criteria: Criteria{"url": map[string]any{"contains": 3}}},
		{name: "range with bool", criteria: Criteria{"interval": map[string]any{">": true}}},
		{name: "negative limit", criteria: Criteria{"limit": -1}},
		{name: "fractional skip", criteria: Criteria{"skip": 1.5}},
		{name: "huge skip", criteria: Criteria{"skip": 1e300}},
		{name: "limit past int32", criteria: Criteria{"limit": int64(math.MaxInt32) + 1}},
		{name: "where not a map", criteria: Criteria{"where": "active"}},
		{name: "bad sort direction", criteria: Criteria{"sort": "interval SIDEWAYS"}},
		{name: "sort not strings", criteria: Criteria{"sort": []any{1}}},
		{name: "nested object value", criteria: Criteria{"owner": []any{map[string]any{"id": "u1"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCriteria(tt.criteria)
			if !errors.IsValidationError(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestApplyDoesNotModifyInput(t *testing.T) {
	in := sampleChecks()
	q, err := ParseCriteria(Criteria{"sort": "interval DESC", "limit": 1})
	if err != nil {
		t.Fatal(err)
	}
	_ = q.Apply(in)
	if !equalIDs(ids(in), []string{"c1", "c2", "c3", "c4"}) {
		t.Fatalf("input reordered: %v", ids(in))
	}
}

func TestRecordClone(t *testing.T) {
	orig := Record{
		"id":     "u1",
		"tags":   []any{"a", "b"},
		"meta":   map[string]any{"k": "v"},
		"checks": []Record{{"id": "c1"}},
	}
	cp := orig.Clone()
	cp["tags"].([]any)[0] = "z"
	cp["meta"].(map[string]any)["k"] = "changed"
	cp["checks"].([]Record)[0]["id"] = "c9"

	if orig["tags"].([]any)[0] != "a" {
		t.Error("slice shared between clone and original")
	}
	if orig["meta"].(map[string]any)["k"] != "v" {
		t.Error("map shared between clone and original")
	}
	if orig["checks"].([]Record)[0].ID() != "c1" {
		t.Error("nested record shared between clone and original")
	}
	if Record(nil).Clone() != nil {
		t.Error("clone of nil should be nil")
	}
}
