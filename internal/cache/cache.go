// Package cache memoizes query results per (TTL class, query text,
// parameter set) for a bounded time window. TTL policy lives here in one
// place instead of being scattered across call sites.
package cache

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"muni-dashboard/internal/storage"
	"muni-dashboard/internal/table"
)

// Class selects the TTL applied to a cached query result.
type Class int

const (
	// ClassView covers filter-dependent aggregate views; short TTL.
	ClassView Class = iota
	// ClassReference covers slowly-changing reference lists such as
	// distinct states; longer TTL.
	ClassReference
)

// Config holds the per-class TTLs.
type Config struct {
	ViewTTL      time.Duration
	ReferenceTTL time.Duration
}

// DefaultConfig mirrors the dashboard's refresh expectations: aggregate
// views go stale after two minutes, reference lists after five.
func DefaultConfig() Config {
	return Config{
		ViewTTL:      2 * time.Minute,
		ReferenceTTL: 5 * time.Minute,
	}
}

type entry struct {
	result    *table.Table
	fetchedAt time.Time
}

// Cache is a read-through result cache over a storage.Executor. A hit is
// valid while now - fetchedAt < ttl(class); otherwise the query is
// re-executed and the entry overwritten. There is no manual invalidation
// and no single-flight: concurrent callers with an expired or absent entry
// may both re-fetch, which is acceptable because fetches are idempotent
// reads and overwrites are keyed by identical inputs.
type Cache struct {
	exec storage.Executor
	cfg  Config
	now  func() time.Time

	mu      sync.RWMutex
	entries map[string]entry
}

// New creates a cache over exec.
func New(exec storage.Executor, cfg Config) *Cache {
	return &Cache{
		exec:    exec,
		cfg:     cfg,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

// Query returns the cached result for (class, query, params) when fresh,
// executing through the underlying executor otherwise. Failed fetches are
// never cached.
func (c *Cache) Query(ctx context.Context, class Class, query string, params map[string]any) (*table.Table, error) {
	k := key(class, query, params)
	ttl := c.ttl(class)

	c.mu.RLock()
	e, ok := c.entries[k]
	c.mu.RUnlock()
	if ok && c.now().Sub(e.fetchedAt) < ttl {
		return e.result, nil
	}

	result, err := c.exec.Query(ctx, query, params)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[k] = entry{result: result, fetchedAt: c.now()}
	c.mu.Unlock()

	return result, nil
}

func (c *Cache) ttl(class Class) time.Duration {
	if class == ClassReference {
		return c.cfg.ReferenceTTL
	}
	return c.cfg.ViewTTL
}

// key canonicalizes (class, query, params) into a cache key. Parameter
// order is normalized by sorting names; values print via %v, which is
// stable for the scalar and []string parameter types this layer uses.
func key(class Class, query string, params map[string]any) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "%d|%s", class, query)
	for _, name := range names {
		fmt.Fprintf(&b, "|%s=%v", name, params[name])
	}
	return b.String()
}
