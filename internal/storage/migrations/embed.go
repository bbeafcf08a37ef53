// Package migrations applies the embedded goose schema migrations for the
// primary Postgres store and the optional ClickHouse trade archive.
package migrations

import "embed"

//go:embed postgres/*.sql clickhouse/*.sql
var migrationsFS embed.FS
