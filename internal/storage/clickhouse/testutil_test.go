package clickhouse

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"muni-dashboard/internal/storage/migrations"
)

// setupTestDB creates a ClickHouse container, applies the trade-archive
// migrations, and returns a connection. Returns a cleanup function that
// must be called when done.
func setupTestDB(t *testing.T) (*Conn, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "clickhouse/clickhouse-server:24.1-alpine",
		ExposedPorts: []string{"9000/tcp", "8123/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForLog("Application: Ready for connections").
				WithStartupTimeout(60 * time.Second),
			wait.ForListeningPort("9000/tcp"),
		),
		Env: map[string]string{
			"CLICKHOUSE_DB":       "test",
			"CLICKHOUSE_USER":     "default",
			"CLICKHOUSE_PASSWORD": "",
		},
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "9000")
	require.NoError(t, err)

	dsn := fmt.Sprintf("clickhouse://%s:%s/test", host, port.Port())

	require.NoError(t, migrations.RunClickHouse(dsn))

	conn, err := NewConn(ctx, dsn)
	require.NoError(t, err)

	cleanup := func() {
		conn.Close()
		_ = container.Terminate(ctx)
	}

	return conn, cleanup
}

// seedTradeArchive loads five trades: two on CA-issued bonds, one NY, one
// TX, and one on a bond without an issuer (NULL issuer_state).
func seedTradeArchive(t *testing.T, conn *Conn) {
	t.Helper()
	ctx := context.Background()

	day := func(d int) time.Time {
		return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
	}
	rows := []struct {
		bondID   int64
		cusip    string
		state    any
		bondType string
		purpose  string
		tradeID  int64
		date     time.Time
		price    float64
		yield    float64
		quantity int64
	}{
		{1, "13063A5G5", "CA", "GO", "education", 10, day(5), 101.25, 3.1, 50000},
		{1, "13063A5G5", "CA", "GO", "education", 11, day(20), 102.50, 3.0, 25000},
		{2, "64966QCC7", "NY", "revenue", "transport", 12, day(8), 99.75, 4.2, 10000},
		{3, "882724PJ8", "TX", "GO", "utilities", 13, day(9), 100.10, 3.8, 5000},
		{4, "880541ML3", nil, "GO", "education", 14, day(10), 98.40, 4.5, 7500},
	}

	for _, r := range rows {
		err := conn.Exec(ctx, `
			INSERT INTO trade_archive
			  (bond_id, cusip, issuer_state, bond_type, purpose_category,
			   trade_id, date, price, yield, quantity)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.bondID, r.cusip, r.state, r.bondType, r.purpose,
			r.tradeID, r.date, r.price, r.yield, r.quantity)
		require.NoError(t, err)
	}
}
