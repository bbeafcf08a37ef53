// Package query builds parameterized SQL from optional, independent,
// multi-valued filter selections. User-supplied values never appear in
// query text; they only travel as uniquely named bound parameters.
package query

import (
	"muni-dashboard/internal/domain"
)

// JoinScope states where a filter dimension applies relative to the query's
// joins. All current dimensions are post-join: they restrict the combined
// row after joins evaluate. For a left-joined association that is absent,
// the dimension's columns are NULL and an active "is any of" predicate on
// them matches nothing, so such rows are dropped. That is an explicit
// contract of this layer, not an accident of SQL.
type JoinScope int

const (
	// ScopePostJoin restricts the combined row after all joins evaluate.
	ScopePostJoin JoinScope = iota
	// ScopePreJoin would restrict the joined side before the join. No
	// current dimension uses it; it exists so each dimension declares its
	// semantics explicitly.
	ScopePreJoin
)

// Dimension describes one filterable dimension: the selection name exposed
// to callers, the column path it filters in SQL, and its join scope.
type Dimension struct {
	Name   string
	Column string
	Scope  JoinScope
}

// Predicate is one typed filter descriptor: an "is any of" restriction of
// Column over Values, bound through the named parameter Param.
type Predicate struct {
	Dimension string
	Column    string
	Scope     JoinScope
	Param     string
	Values    []string
}

// BuildPredicates turns a filter selection into an ordered predicate list,
// one per non-empty dimension, in dimension declaration order. Dimensions
// with no selected values contribute nothing. Predicates combine with
// logical AND; there is no OR-across-dimensions mode.
func BuildPredicates(sel domain.FilterSelection, dims []Dimension) []Predicate {
	var preds []Predicate
	for _, d := range dims {
		vals := sel.Values(d.Name)
		if len(vals) == 0 {
			continue
		}
		preds = append(preds, Predicate{
			Dimension: d.Name,
			Column:    d.Column,
			Scope:     d.Scope,
			Param:     paramName(d.Name),
			Values:    append([]string(nil), vals...),
		})
	}
	return preds
}

// paramName derives the bound-parameter name for a dimension. Dimension
// names are unique per view, so the derived names are too.
func paramName(dim string) string {
	return "f_" + dim
}
