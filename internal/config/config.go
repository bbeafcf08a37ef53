// Package config loads the service configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds everything the dashboard service needs at startup.
type Config struct {
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" required:"true"`

	// ClickhouseDSN is optional; when set, trade queries run against the
	// ClickHouse trade archive instead of the primary store.
	ClickhouseDSN string `envconfig:"CLICKHOUSE_DSN"`

	// Cache TTL policy, one place for both query classes.
	ViewCacheTTL      time.Duration `envconfig:"VIEW_CACHE_TTL" default:"2m"`
	ReferenceCacheTTL time.Duration `envconfig:"REFERENCE_CACHE_TTL" default:"5m"`

	Debug bool `envconfig:"DEBUG"`
}

// Load reads the configuration. A missing .env file is not an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
