package migrations

import (
	"database/sql"
	"fmt"

	_ "github.com/ClickHouse/clickhouse-go/v2" // clickhouse database/sql driver
	_ "github.com/jackc/pgx/v5/stdlib"         // pgx database/sql driver
	"github.com/pressly/goose/v3"
)

// RunPostgres applies the Postgres migrations to the database at dsn.
func RunPostgres(dsn string) error {
	return run("pgx", dsn, "postgres")
}

// RunClickHouse applies the trade-archive migrations to the ClickHouse
// instance at dsn.
func RunClickHouse(dsn string) error {
	return run("clickhouse", dsn, "clickhouse")
}

func run(driver, dsn, dir string) error {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("open %s: %w", driver, err)
	}
	defer db.Close()

	goose.SetBaseFS(migrationsFS)
	dialect := driver
	if driver == "pgx" {
		dialect = "postgres"
	}
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect %s: %w", dialect, err)
	}
	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("apply %s migrations: %w", dir, err)
	}
	return nil
}
