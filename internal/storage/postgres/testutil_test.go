package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"muni-dashboard/internal/storage/migrations"
)

// setupTestDB creates a PostgreSQL container, applies migrations, and seeds
// the bond fixture. Returns a cleanup function that must be called after
// tests complete.
func setupTestDB(t *testing.T) (*Pool, func()) {
	t.Helper()

	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	require.NoError(t, migrations.RunPostgres(dsn), "failed to run migrations")

	pool, err := NewPool(ctx, dsn)
	require.NoError(t, err, "failed to create pool")

	seedFixture(t, ctx, pool)

	cleanup := func() {
		pool.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return pool, cleanup
}

// seedFixture loads five bonds: two issued by a CA issuer, one NY, one TX,
// and one orphan without any issuer association.
func seedFixture(t *testing.T, ctx context.Context, pool *Pool) {
	t.Helper()

	stmts := []string{
		`INSERT INTO bonds_purposes (id, category, description) VALUES
			(1, 'education', 'school district'),
			(2, 'transport', 'transit authority')`,
		`INSERT INTO issuers (id, name, state) VALUES
			(1, 'State of California', 'CA'),
			(2, 'City of New York', 'NY'),
			(3, 'Dallas ISD', 'TX')`,
		`INSERT INTO bonds (id, cusip, type, coupon_rate, issue_date, maturity_date, duration, tax_status, purpose_id) VALUES
			(1, '13063A5G5', 'GO', 5.000, '2020-01-01', '2030-01-01', 7.20, TRUE, 1),
			(2, '13063BFS6', 'revenue', 4.250, '2019-06-01', '2029-06-01', 6.80, TRUE, 2),
			(3, '64966QCC7', 'GO', 4.000, '2021-03-01', '2031-03-01', 7.90, TRUE, 1),
			(4, '880541ML3', 'revenue', 3.500, '2018-09-01', '2028-09-01', 5.40, FALSE, 2),
			(5, '999999ZZ9', 'GO', 3.000, '2022-01-01', '2032-01-01', 8.10, TRUE, 1)`,
		`INSERT INTO bonds_issuers (bond_id, issuer_id) VALUES
			(1, 1), (2, 1), (3, 2), (4, 3)`,
		`INSERT INTO trades (id, date, price, yield, quantity) VALUES
			(1, '2024-01-05', 101.25, 3.100, 50000),
			(2, '2024-02-05', 102.50, 3.000, 25000),
			(3, '2024-01-20', 99.75, 4.200, 10000)`,
		`INSERT INTO bonds_trades (bond_id, trade_id) VALUES
			(1, 1), (1, 2), (3, 3)`,
		`INSERT INTO credit_ratings (id, bond_id, agency, grade, outlook, rated_at) VALUES
			(1, 1, 'Moody''s', 'AA', 'stable', '2023-01-01'),
			(2, 1, 'Moody''s', 'AA-', 'negative', '2024-01-01'),
			(3, 3, 'S&P', 'BBB', 'stable', '2024-02-01')`,
	}
	for _, stmt := range stmts {
		_, err := pool.Exec(ctx, stmt)
		require.NoError(t, err, "seed fixture")
	}
}
