// Command munidash serves the municipal-bond analytics dashboard API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"muni-dashboard/internal/cache"
	"muni-dashboard/internal/config"
	"muni-dashboard/internal/dashboard"
	"muni-dashboard/internal/server"
	chstore "muni-dashboard/internal/storage/clickhouse"
	"muni-dashboard/internal/storage/migrations"
	pgstore "muni-dashboard/internal/storage/postgres"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "munidash",
	Short: "Read-only analytics dashboard over a municipal-bond dataset",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg.Debug)
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		ctx := cmd.Context()

		pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return err
		}
		defer pool.Close()

		ttl := cache.Config{
			ViewTTL:      cfg.ViewCacheTTL,
			ReferenceTTL: cfg.ReferenceCacheTTL,
		}
		primary := cache.New(pgstore.NewExecutor(pool), ttl)

		var opts []dashboard.Option
		if cfg.ClickhouseDSN != "" {
			conn, err := chstore.NewConn(ctx, cfg.ClickhouseDSN)
			if err != nil {
				return err
			}
			defer conn.Close() //nolint:errcheck
			opts = append(opts, dashboard.WithTradeArchive(
				cache.New(chstore.NewExecutor(conn), ttl)))
			logger.Info("trade archive enabled")
		}

		svc := dashboard.NewService(primary, logger.Named("dashboard"), opts...)
		srv := server.New(svc, logger.Named("http"))

		logger.Info("serving dashboard API", zap.String("addr", cfg.HTTPAddr))
		return srv.Start(cfg.HTTPAddr)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg.Debug)
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		if err := migrations.RunPostgres(cfg.PostgresDSN); err != nil {
			return err
		}
		logger.Info("postgres migrations applied")

		if cfg.ClickhouseDSN != "" {
			if err := migrations.RunClickHouse(cfg.ClickhouseDSN); err != nil {
				return err
			}
			logger.Info("clickhouse migrations applied")
		}
		return nil
	},
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
}
