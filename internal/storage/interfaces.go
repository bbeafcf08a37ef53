// Package storage defines the query-execution capability the dashboard
// core consumes, with PostgreSQL, ClickHouse, and in-memory backends.
package storage

import (
	"context"

	"muni-dashboard/internal/table"
)

// Executor runs one parameterized read-only query and returns the result
// as a table of named columns. Parameters are named (@name in query text)
// and may be scalars or slices. Implementations must never interpolate
// parameter values into the query text.
type Executor interface {
	Query(ctx context.Context, query string, params map[string]any) (*table.Table, error)
}
