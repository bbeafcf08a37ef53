package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"muni-dashboard/internal/storage/memory"
	"muni-dashboard/internal/table"
)

func fixtureTable() *table.Table {
	t := table.New("cusip")
	t.MustAppendRow("13063A5G5")
	return t
}

func newTestCache(exec *memory.Executor) (*Cache, *time.Time) {
	c := New(exec, Config{ViewTTL: 2 * time.Minute, ReferenceTTL: 5 * time.Minute})
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestQuery_HitWithinTTLSkipsExecutor(t *testing.T) {
	exec := memory.NewExecutor()
	exec.Register("FROM bonds", fixtureTable())
	c, now := newTestCache(exec)
	ctx := context.Background()

	first, err := c.Query(ctx, ClassView, "SELECT cusip FROM bonds", nil)
	require.NoError(t, err)

	*now = now.Add(90 * time.Second)
	second, err := c.Query(ctx, ClassView, "SELECT cusip FROM bonds", nil)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, exec.CallCount("FROM bonds"))
}

func TestQuery_ExpiryRefetches(t *testing.T) {
	exec := memory.NewExecutor()
	exec.Register("FROM bonds", fixtureTable())
	c, now := newTestCache(exec)
	ctx := context.Background()

	_, err := c.Query(ctx, ClassView, "SELECT cusip FROM bonds", nil)
	require.NoError(t, err)

	*now = now.Add(2*time.Minute + time.Second)
	_, err = c.Query(ctx, ClassView, "SELECT cusip FROM bonds", nil)
	require.NoError(t, err)

	assert.Equal(t, 2, exec.CallCount("FROM bonds"))
}

func TestQuery_ReferenceClassOutlivesViewClass(t *testing.T) {
	exec := memory.NewExecutor()
	exec.Register("FROM issuers", fixtureTable())
	c, now := newTestCache(exec)
	ctx := context.Background()

	_, err := c.Query(ctx, ClassReference, "SELECT state FROM issuers", nil)
	require.NoError(t, err)

	// Stale for the view class, still fresh for the reference class.
	*now = now.Add(3 * time.Minute)
	_, err = c.Query(ctx, ClassReference, "SELECT state FROM issuers", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, exec.CallCount("FROM issuers"))

	*now = now.Add(3 * time.Minute)
	_, err = c.Query(ctx, ClassReference, "SELECT state FROM issuers", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, exec.CallCount("FROM issuers"))
}

func TestQuery_DistinctParamsAreDistinctEntries(t *testing.T) {
	exec := memory.NewExecutor()
	exec.Register("FROM bonds", fixtureTable())
	c, _ := newTestCache(exec)
	ctx := context.Background()

	_, err := c.Query(ctx, ClassView, "SELECT * FROM bonds", map[string]any{"f_state": []string{"CA"}})
	require.NoError(t, err)
	_, err = c.Query(ctx, ClassView, "SELECT * FROM bonds", map[string]any{"f_state": []string{"NY"}})
	require.NoError(t, err)

	assert.Equal(t, 2, exec.CallCount("FROM bonds"))

	// Same params again: cached.
	_, err = c.Query(ctx, ClassView, "SELECT * FROM bonds", map[string]any{"f_state": []string{"CA"}})
	require.NoError(t, err)
	assert.Equal(t, 2, exec.CallCount("FROM bonds"))
}

func TestQuery_FailuresAreNotCached(t *testing.T) {
	exec := memory.NewExecutor()
	c, _ := newTestCache(exec)
	ctx := context.Background()

	_, err := c.Query(ctx, ClassView, "SELECT * FROM nowhere", nil)
	require.Error(t, err)

	exec.Register("FROM nowhere", fixtureTable())
	got, err := c.Query(ctx, ClassView, "SELECT * FROM nowhere", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, got.NumRows())
}

func TestKey_Canonical(t *testing.T) {
	a := key(ClassView, "Q", map[string]any{"a": []string{"1"}, "b": []string{"2"}})
	b := key(ClassView, "Q", map[string]any{"b": []string{"2"}, "a": []string{"1"}})
	assert.Equal(t, a, b)

	assert.NotEqual(t,
		key(ClassView, "Q", nil),
		key(ClassReference, "Q", nil),
	)
}
