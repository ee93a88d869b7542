/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/suparena/checkstore/errors"
)

// Operator is a comparison applied to one record attribute.
type Operator string

const (
	OpEq         Operator = "="
	OpNe         Operator = "!="
	OpLt         Operator = "<"
	OpLte        Operator = "<="
	OpGt         Operator = ">"
	OpGte        Operator = ">="
	OpIn         Operator = "in"
	OpNin        Operator = "nin"
	OpContains   Operator = "contains"
	OpStartsWith Operator = "startsWith"
	OpEndsWith   Operator = "endsWith"
)

var operatorAliases = map[string]Operator{
	"=":          OpEq,
	"==":         OpEq,
	"!=":         OpNe,
	"!":          OpNe,
	"<":          OpLt,
	"<=":         OpLte,
	">":          OpGt,
	">=":         OpGte,
	"in":         OpIn,
	"nin":        OpNin,
	"contains":   OpContains,
	"startsWith": OpStartsWith,
	"endsWith":   OpEndsWith,
}

// Reserved criteria keys.
const (
	KeyWhere = "where"
	KeyLimit = "limit"
	KeySkip  = "skip"
	KeySort  = "sort"
)

var fieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Predicate is one attribute comparison.
type Predicate struct {
	Field string
	Op    Operator
	// Value is a []any for OpIn and OpNin, a string for the string operators.
	Value any
}

// SortKey orders results by one attribute.
type SortKey struct {
	Field string
	Desc  bool
}

// Query is the parsed form of a Criteria. All predicates must match.
type Query struct {
	Where []Predicate
	Sort  []SortKey
	// Limit of 0 means no limit.
	Limit int
	Skip  int
}

// ParseCriteria validates criteria and turns it into a Query.
// A nil or empty criteria matches every record.
func ParseCriteria(c Criteria) (*Query, error) {
	q := &Query{}
	for _, key := range sortedKeys(c) {
		val := c[key]
		switch key {
		case KeyWhere:
			where, ok := asMap(val)
			if !ok {
				return nil, errors.NewInvalidArgumentError(KeyWhere, "map", val)
			}
			for _, field := range sortedKeys(where) {
				preds, err := parseField(field, where[field])
				if err != nil {
					return nil, err
				}
				q.Where = append(q.Where, preds...)
			}
		case KeyLimit:
			n, err := parseCount(KeyLimit, val)
			if err != nil {
				return nil, err
			}
			q.Limit = n
		case KeySkip:
			n, err := parseCount(KeySkip, val)
			if err != nil {
				return nil, err
			}
			q.Skip = n
		case KeySort:
			keys, err := parseSort(val)
			if err != nil {
				return nil, err
			}
			q.Sort = keys
		default:
			preds, err := parseField(key, val)
			if err != nil {
				return nil, err
			}
			q.Where = append(q.Where, preds...)
		}
	}
	return q, nil
}

// ValidField reports whether name may be used as a criteria or sort field.
func ValidField(name string) bool {
	return fieldPattern.MatchString(name)
}

func parseField(field string, val any) ([]Predicate, error) {
	if !ValidField(field) {
		return nil, errors.NewValidationError(field, "invalid field name")
	}
	if ops, ok := asMap(val); ok {
		if len(ops) == 0 {
			return nil, errors.NewValidationError(field, "empty operator map")
		}
		preds := make([]Predicate, 0, len(ops))
		for _, name := range sortedKeys(ops) {
			op, known := operatorAliases[name]
			if !known {
				return nil, errors.NewValidationError(field, fmt.Sprintf("unknown operator %q", name))
			}
			p, err := newPredicate(field, op, ops[name])
			if err != nil {
				return nil, err
			}
			preds = append(preds, p)
		}
		return preds, nil
	}
	if _, ok := asList(val); ok {
		p, err := newPredicate(field, OpIn, val)
		if err != nil {
			return nil, err
		}
		return []Predicate{p}, nil
	}
	p, err := newPredicate(field, OpEq, val)
	if err != nil {
		return nil, err
	}
	return []Predicate{p}, nil
}

func newPredicate(field string, op Operator, val any) (Predicate, error) {
	switch op {
	case OpIn, OpNin:
		list, ok := asList(val)
		if !ok {
			return Predicate{}, errors.NewValidationError(field, fmt.Sprintf("%s expects a list, got %T", op, val))
		}
		for _, e := range list {
			if !isScalar(e) {
				return Predicate{}, errors.NewValidationError(field, fmt.Sprintf("%s list holds unsupported %T", op, e))
			}
		}
		return Predicate{Field: field, Op: op, Value: list}, nil
	case OpContains, OpStartsWith, OpEndsWith:
		s, ok := val.(string)
		if !ok {
			return Predicate{}, errors.NewValidationError(field, fmt.Sprintf("%s expects a string, got %T", op, val))
		}
		return Predicate{Field: field, Op: op, Value: s}, nil
	case OpLt, OpLte, OpGt, OpGte:
		if _, isNum := toFloat(val); !isNum {
			if _, isStr := val.(string); !isStr {
				return Predicate{}, errors.NewValidationError(field, fmt.Sprintf("%s expects a number or string, got %T", op, val))
			}
		}
		return Predicate{Field: field, Op: op, Value: val}, nil
	default:
		if !isScalar(val) {
			return Predicate{}, errors.NewValidationError(field, fmt.Sprintf("cannot compare with %T", val))
		}
		return Predicate{Field: field, Op: op, Value: val}, nil
	}
}

func parseCount(key string, val any) (int, error) {
	f, ok := toFloat(val)
	if !ok || f < 0 || f > math.MaxInt32 || f != math.Trunc(f) {
		return 0, errors.NewInvalidArgumentError(key, "non-negative integer", val)
	}
	return int(f), nil
}

func parseSort(val any) ([]SortKey, error) {
	var specs []string
	switch tv := val.(type) {
	case string:
		specs = strings.Split(tv, ",")
	default:
		list, ok := asList(val)
		if !ok {
			return nil, errors.NewInvalidArgumentError(KeySort, "string or list of strings", val)
		}
		for _, e := range list {
			s, ok := e.(string)
			if !ok {
				return nil, errors.NewInvalidArgumentError(KeySort, "string or list of strings", val)
			}
			specs = append(specs, s)
		}
	}

	keys := make([]SortKey, 0, len(specs))
	for _, spec := range specs {
		parts := strings.Fields(spec)
		if len(parts) == 0 {
			continue
		}
		if len(parts) > 2 || !ValidField(parts[0]) {
			return nil, errors.NewValidationError(KeySort, fmt.Sprintf("invalid sort clause %q", spec))
		}
		key := SortKey{Field: parts[0]}
		if len(parts) == 2 {
			switch strings.ToUpper(parts[1]) {
			case "ASC":
			case "DESC":
				key.Desc = true
			default:
				return nil, errors.NewValidationError(KeySort, fmt.Sprintf("invalid sort direction %q", parts[1]))
			}
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// Match reports whether the record satisfies every predicate.
func (q *Query) Match(r Record) bool {
	for _, p := range q.Where {
		if !p.Match(r[p.Field]) {
			return false
		}
	}
	return true
}

// Match reports whether an attribute value satisfies the predicate.
// A missing attribute is treated as nil.
func (p Predicate) Match(v any) bool {
	switch p.Op {
	case OpEq:
		return equal(v, p.Value)
	case OpNe:
		return !equal(v, p.Value)
	case OpIn, OpNin:
		found := false
		for _, e := range p.Value.([]any) {
			if equal(v, e) {
				found = true
				break
			}
		}
		return found == (p.Op == OpIn)
	case OpLt, OpLte, OpGt, OpGte:
		c, ok := compare(v, p.Value)
		if !ok {
			return false
		}
		switch p.Op {
		case OpLt:
			return c < 0
		case OpLte:
			return c <= 0
		case OpGt:
			return c > 0
		default:
			return c >= 0
		}
	case OpContains, OpStartsWith, OpEndsWith:
		s, ok := v.(string)
		if !ok {
			return false
		}
		arg := p.Value.(string)
		switch p.Op {
		case OpContains:
			return strings.Contains(s, arg)
		case OpStartsWith:
			return strings.HasPrefix(s, arg)
		default:
			return strings.HasSuffix(s, arg)
		}
	}
	return false
}

// Apply filters, sorts and pages records the way every backend must.
// The input slice is not modified.
func (q *Query) Apply(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if q.Match(r) {
			out = append(out, r)
		}
	}
	if len(q.Sort) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			return q.less(out[i], out[j])
		})
	}
	if q.Skip > 0 {
		if q.Skip >= len(out) {
			return []Record{}
		}
		out = out[q.Skip:]
	}
	if q.Limit > 0 && q.Limit < len(out) {
		out = out[:q.Limit]
	}
	return out
}

func (q *Query) less(a, b Record) bool {
	for _, k := range q.Sort {
		c := order(a[k.Field], b[k.Field])
		if c == 0 {
			continue
		}
		if k.Desc {
			return c > 0
		}
		return c < 0
	}
	return false
}

// order is a total order over attribute values: nil < bool < number < string < anything else.
func order(a, b any) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch ra {
	case 1:
		ab, bb := a.(bool), b.(bool)
		switch {
		case ab == bb:
			return 0
		case !ab:
			return -1
		default:
			return 1
		}
	case 2, 3:
		c, _ := compare(a, b)
		return c
	}
	return 0
}

func rank(v any) int {
	if v == nil {
		return 0
	}
	if _, ok := v.(bool); ok {
		return 1
	}
	if _, ok := toFloat(v); ok {
		return 2
	}
	if _, ok := v.(string); ok {
		return 3
	}
	return 4
}

func equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	return reflect.DeepEqual(a, b)
}

func compare(a, b any) (int, bool) {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		if !ok {
			return 0, false
		}
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		}
		return 0, true
	}
	sa, ok := a.(string)
	if !ok {
		return 0, false
	}
	sb, ok := b.(string)
	if !ok {
		return 0, false
	}
	return strings.Compare(sa, sb), true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// IsNumber reports whether v holds a Go numeric type.
func IsNumber(v any) bool {
	_, ok := toFloat(v)
	return ok
}

func isScalar(v any) bool {
	if v == nil {
		return true
	}
	switch v.(type) {
	case string, bool:
		return true
	}
	_, ok := toFloat(v)
	return ok
}

func asMap(v any) (map[string]any, bool) {
	switch tv := v.(type) {
	case map[string]any:
		return tv, true
	case Criteria:
		return tv, true
	case Record:
		return tv, true
	case Fields:
		return tv, true
	}
	return nil, false
}

func asList(v any) ([]any, bool) {
	if l, ok := v.([]any); ok {
		return l, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Slice {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AsMap converts the map shapes a caller may pass as criteria or fields.
func AsMap(v any) (map[string]any, bool) {
	return asMap(v)
}
