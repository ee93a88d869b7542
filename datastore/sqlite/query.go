/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package sqlite

import (
	"fmt"
	"strings"

	"github.com/suparena/checkstore/errors"
	"github.com/suparena/checkstore/storagemodels"
)

// Type classes as reported by json_type. A missing path reads as 'null'.
const (
	numericTypes = "('integer', 'real')"
	scalarTypes  = "('false', 'true', 'integer', 'real', 'text')"
)

// buildSelect translates a query into SQL over the JSON data column.
// Rows without an explicit order come back in insertion order.
//
// Every clause is guarded by the JSON type of the stored value so that a
// number never matches a string or a boolean, mirroring Query.Match.
func buildSelect(identity string, q *storagemodels.Query) (string, []any, error) {
	var sb strings.Builder
	args := []any{identity}
	sb.WriteString(`SELECT data FROM records WHERE model = ?`)

	for _, p := range q.Where {
		clause, clauseArgs, err := predicateSQL(p)
		if err != nil {
			return "", nil, err
		}
		sb.WriteString(" AND (")
		sb.WriteString(clause)
		sb.WriteString(")")
		args = append(args, clauseArgs...)
	}

	sb.WriteString(" ORDER BY ")
	for _, k := range q.Sort {
		col, typ, err := column(k.Field)
		if err != nil {
			return "", nil, err
		}
		dir := " ASC, "
		if k.Desc {
			dir = " DESC, "
		}
		// null < bool < number < string < other, then by value within a class
		sb.WriteString("CASE " + typ + " WHEN 'null' THEN 0 WHEN 'false' THEN 1 WHEN 'true' THEN 1" +
			" WHEN 'integer' THEN 2 WHEN 'real' THEN 2 WHEN 'text' THEN 3 ELSE 4 END" + dir)
		sb.WriteString("CASE WHEN " + typ + " IN " + scalarTypes + " THEN " + col + " END" + dir)
	}
	sb.WriteString("rowid ASC")

	if q.Limit > 0 || q.Skip > 0 {
		limit := -1
		if q.Limit > 0 {
			limit = q.Limit
		}
		sb.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, limit, q.Skip)
	}
	return sb.String(), args, nil
}

// column returns the value and JSON type expressions for a field.
func column(field string) (string, string, error) {
	if !storagemodels.ValidField(field) {
		return "", "", errors.NewValidationError(field, "invalid field name")
	}
	col := fmt.Sprintf("json_extract(data, '$.%s')", field)
	typ := fmt.Sprintf("COALESCE(json_type(data, '$.%s'), 'null')", field)
	return col, typ, nil
}

func predicateSQL(p storagemodels.Predicate) (string, []any, error) {
	col, typ, err := column(p.Field)
	if err != nil {
		return "", nil, err
	}

	switch p.Op {
	case storagemodels.OpEq:
		return eqSQL(col, typ, p.Value)
	case storagemodels.OpNe:
		clause, args, err := eqSQL(col, typ, p.Value)
		if err != nil {
			return "", nil, err
		}
		return "NOT (" + clause + ")", args, nil
	case storagemodels.OpLt, storagemodels.OpLte, storagemodels.OpGt, storagemodels.OpGte:
		guard, err := classGuard(p.Field, typ, p.Value)
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("%s AND %s %s ?", guard, col, p.Op), []any{p.Value}, nil
	case storagemodels.OpIn, storagemodels.OpNin:
		return listSQL(col, typ, p.Op == storagemodels.OpIn, p.Value.([]any))
	case storagemodels.OpContains, storagemodels.OpStartsWith, storagemodels.OpEndsWith:
		isText := typ + " = 'text'"
		arg := p.Value.(string)
		if arg == "" {
			return isText, nil, nil
		}
		switch p.Op {
		case storagemodels.OpContains:
			return isText + " AND instr(" + col + ", ?) > 0", []any{arg}, nil
		case storagemodels.OpStartsWith:
			return isText + " AND substr(" + col + ", 1, length(?)) = ?", []any{arg, arg}, nil
		default:
			return isText + " AND substr(" + col + ", -length(?)) = ?", []any{arg, arg}, nil
		}
	}
	return "", nil, errors.NewValidationError(p.Field, fmt.Sprintf("unsupported operator %q", p.Op))
}

// eqSQL matches a single scalar. The clause never evaluates to NULL so it
// can be negated safely.
func eqSQL(col, typ string, v any) (string, []any, error) {
	switch b := v.(type) {
	case nil:
		return typ + " = 'null'", nil, nil
	case bool:
		if b {
			return typ + " = 'true'", nil, nil
		}
		return typ + " = 'false'", nil, nil
	}
	guard, err := classGuard("", typ, v)
	if err != nil {
		return "", nil, err
	}
	return guard + " AND " + col + " = ?", []any{v}, nil
}

// classGuard restricts a comparison to stored values of the argument's class.
func classGuard(field, typ string, v any) (string, error) {
	if _, ok := v.(string); ok {
		return typ + " = 'text'", nil
	}
	if storagemodels.IsNumber(v) {
		return typ + " IN " + numericTypes, nil
	}
	return "", errors.NewValidationError(field, fmt.Sprintf("unsupported value %v", v))
}

// listSQL builds in / nin as a disjunction of equality clauses, the way
// Query.Match does.
func listSQL(col, typ string, in bool, list []any) (string, []any, error) {
	if len(list) == 0 {
		if in {
			return "0", nil, nil
		}
		return "1", nil, nil
	}

	parts := make([]string, 0, len(list))
	var args []any
	for _, v := range list {
		clause, clauseArgs, err := eqSQL(col, typ, v)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, "("+clause+")")
		args = append(args, clauseArgs...)
	}

	clause := strings.Join(parts, " OR ")
	if !in {
		clause = "NOT (" + clause + ")"
	}
	return clause, args, nil
}
