// Package memory provides an in-memory storage.Executor serving registered
// fixture tables, for tests and local development without a database.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"muni-dashboard/internal/storage"
	"muni-dashboard/internal/table"
)

// Call records one Query invocation.
type Call struct {
	Query  string
	Params map[string]any
}

type fixture struct {
	match string
	fn    func(params map[string]any) (*table.Table, error)
}

// Executor implements storage.Executor over registered fixtures. A query is
// answered by the first fixture whose match string is a substring of the
// query text; registration order decides between overlapping matches.
type Executor struct {
	mu       sync.Mutex
	fixtures []fixture
	calls    []Call
}

// NewExecutor creates an empty fixture executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// Compile-time interface check.
var _ storage.Executor = (*Executor)(nil)

// Register serves the given table for queries containing match.
func (e *Executor) Register(match string, t *table.Table) {
	e.RegisterFunc(match, func(map[string]any) (*table.Table, error) {
		return t, nil
	})
}

// RegisterFunc serves fn's result for queries containing match.
func (e *Executor) RegisterFunc(match string, fn func(params map[string]any) (*table.Table, error)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fixtures = append(e.fixtures, fixture{match: match, fn: fn})
}

// Fail makes queries containing match return err.
func (e *Executor) Fail(match string, err error) {
	e.RegisterFunc(match, func(map[string]any) (*table.Table, error) {
		return nil, err
	})
}

// Query answers from the registered fixtures and records the call.
func (e *Executor) Query(_ context.Context, query string, params map[string]any) (*table.Table, error) {
	e.mu.Lock()
	e.calls = append(e.calls, Call{Query: query, Params: params})
	fixtures := append([]fixture(nil), e.fixtures...)
	e.mu.Unlock()

	for _, f := range fixtures {
		if strings.Contains(query, f.match) {
			return f.fn(params)
		}
	}
	return nil, fmt.Errorf("%w: no fixture registered for query %q", storage.ErrDataSource, query)
}

// Calls returns a copy of all recorded invocations.
func (e *Executor) Calls() []Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Call(nil), e.calls...)
}

// CallCount returns how many recorded queries contain match.
func (e *Executor) CallCount(match string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, c := range e.calls {
		if strings.Contains(c.Query, match) {
			n++
		}
	}
	return n
}

