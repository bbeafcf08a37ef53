package query

import (
	"fmt"
	"strings"
)

// Dialect selects how the "is any of" membership test is rendered. Both
// forms bind the value set through a named parameter; only the operator
// syntax differs.
type Dialect int

const (
	// DialectPostgres renders membership as col = ANY(@param).
	DialectPostgres Dialect = iota
	// DialectClickHouse renders membership as col IN (@param).
	DialectClickHouse
)

func (d Dialect) membership(col, param string) string {
	if d == DialectClickHouse {
		return fmt.Sprintf("%s IN (@%s)", col, param)
	}
	return fmt.Sprintf("%s = ANY(@%s)", col, param)
}

// Assemble combines a base query template with a predicate list into one
// final query string and one parameter map.
//
// The base template carries the fixed projection and joins and must be
// valid on its own; Assemble appends a WHERE clause only when at least one
// predicate is active, then the fixed suffix (GROUP BY / ORDER BY / LIMIT).
// Join semantics are never reordered by filters: predicates only restrict
// rows after the joins evaluate.
func Assemble(d Dialect, base string, preds []Predicate, suffix string) (string, map[string]any) {
	var b strings.Builder
	b.WriteString(strings.TrimRight(base, " \n\t"))

	params := make(map[string]any, len(preds))
	if len(preds) > 0 {
		b.WriteString("\nWHERE ")
		for i, p := range preds {
			if i > 0 {
				b.WriteString("\n  AND ")
			}
			// "is any of" over the bound set. Only the column path and the
			// parameter name reach the query text, never the values.
			b.WriteString(d.membership(p.Column, p.Param))
			params[p.Param] = p.Values
		}
	}

	if s := strings.TrimSpace(suffix); s != "" {
		b.WriteString("\n")
		b.WriteString(s)
	}

	return b.String(), params
}
