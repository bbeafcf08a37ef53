package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"muni-dashboard/internal/storage"
	"muni-dashboard/internal/table"
)

// Executor implements storage.Executor against PostgreSQL using named
// parameter binding. Values never enter the query text.
type Executor struct {
	pool *Pool
}

// NewExecutor creates a new Executor.
func NewExecutor(pool *Pool) *Executor {
	return &Executor{pool: pool}
}

// Compile-time interface check.
var _ storage.Executor = (*Executor)(nil)

// Query runs a parameterized query and returns the result table. All
// errors wrap storage.ErrDataSource.
func (e *Executor) Query(ctx context.Context, query string, params map[string]any) (*table.Table, error) {
	rows, err := e.pool.Query(ctx, query, pgx.NamedArgs(params))
	if err != nil {
		return nil, fmt.Errorf("%w: execute query: %v", storage.ErrDataSource, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Name
	}

	out := table.New(cols...)
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("%w: read row: %v", storage.ErrDataSource, err)
		}
		norm := make([]any, len(vals))
		for i, v := range vals {
			norm[i], err = normalizeValue(v)
			if err != nil {
				return nil, fmt.Errorf("%w: column %s: %v", storage.ErrDataSource, cols[i], err)
			}
		}
		if err := out.AppendRow(norm...); err != nil {
			return nil, fmt.Errorf("%w: %v", storage.ErrDataSource, err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate rows: %v", storage.ErrDataSource, err)
	}

	return out, nil
}

// normalizeValue maps pgx scan values onto the table's scalar set:
// float64, string, time.Time, bool, nil.
func normalizeValue(v any) (any, error) {
	switch v := v.(type) {
	case nil, string, bool, float64, time.Time:
		return v, nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float32:
		return float64(v), nil
	case pgtype.Numeric:
		if !v.Valid {
			return nil, nil
		}
		f, err := v.Float64Value()
		if err != nil {
			return nil, fmt.Errorf("numeric to float64: %w", err)
		}
		if !f.Valid {
			return nil, nil
		}
		return f.Float64, nil
	default:
		return nil, fmt.Errorf("unsupported column type %T", v)
	}
}
