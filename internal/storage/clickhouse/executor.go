package clickhouse

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"

	"muni-dashboard/internal/storage"
	"muni-dashboard/internal/table"
)

// Executor implements storage.Executor against ClickHouse. It serves the
// high-volume trade archive; the query surface is identical to the
// Postgres executor: named @-parameters, result table out.
type Executor struct {
	conn *Conn
}

// NewExecutor creates a new Executor.
func NewExecutor(conn *Conn) *Executor {
	return &Executor{conn: conn}
}

// Compile-time interface check.
var _ storage.Executor = (*Executor)(nil)

// Query runs a parameterized query and returns the result table. All
// errors wrap storage.ErrDataSource.
func (e *Executor) Query(ctx context.Context, query string, params map[string]any) (*table.Table, error) {
	args := make([]any, 0, len(params))
	for k, v := range params {
		args = append(args, clickhouse.Named(k, v))
	}

	rows, err := e.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: execute query: %v", storage.ErrDataSource, err)
	}
	defer rows.Close()

	cols := rows.Columns()
	types := rows.ColumnTypes()

	out := table.New(cols...)
	for rows.Next() {
		dest := make([]any, len(types))
		for i, ct := range types {
			dest[i] = reflect.New(ct.ScanType()).Interface()
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%w: scan row: %v", storage.ErrDataSource, err)
		}
		norm := make([]any, len(dest))
		for i, v := range dest {
			norm[i], err = normalizeValue(reflect.ValueOf(v).Elem().Interface())
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

// normalizeValue maps ClickHouse scan values onto the table's scalar set:
// float64, string, time.Time, bool, nil.
func normalizeValue(v any) (any, error) {
	switch v := v.(type) {
	case nil, string, bool, float64, time.Time:
		return v, nil
	case *string:
		if v == nil {
			return nil, nil
		}
		return *v, nil
	case *float64:
		if v == nil {
			return nil, nil
		}
		return *v, nil
	case *time.Time:
		if v == nil {
			return nil, nil
		}
		return *v, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	default:
		return nil, fmt.Errorf("unsupported column type %T", v)
	}
}
