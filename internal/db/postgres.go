package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/itemhub/item-service/internal/config"
)

const applicationName = "itemsvc"

// Connect opens the pgx pool and pings it once.
//
// Every unit of bulk processing borrows one connection per store call, so
// MaxConns is raised to at least PROCESS_WORKERS; otherwise workers would
// queue on the pool instead of the task queue.
func Connect(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MaxConns = max(cfg.DBMaxConns, int32(cfg.ProcessWorkers))
	poolCfg.MinConns = min(cfg.DBMinConns, poolCfg.MaxConns)
	if _, ok := poolCfg.ConnConfig.RuntimeParams["application_name"]; !ok {
		poolCfg.ConnConfig.RuntimeParams["application_name"] = applicationName
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// Migrate applies pending up-migrations from sourceURL (e.g. file://migrations)
// and returns the schema version afterwards. Already-applied migrations are
// skipped.
func Migrate(sourceURL, databaseURL string) (uint, error) {
	m, err := migrate.New(sourceURL, MigrationURL(databaseURL))
	if err != nil {
		return 0, fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("schema version %d is dirty", version)
	}
	return version, nil
}

// MigrationURL rewrites a postgres:// or postgresql:// connection string to
// the pgx5:// scheme golang-migrate's pgx/v5 driver expects.
func MigrationURL(databaseURL string) string {
	for _, scheme := range []string{"postgresql://", "postgres://", "pgx5://"} {
		if rest, ok := strings.CutPrefix(databaseURL, scheme); ok {
			return "pgx5://" + rest
		}
	}
	return "pgx5://" + databaseURL
}
