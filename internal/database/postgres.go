package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"healthtrack/internal/logs"
	"healthtrack/internal/metrics"
)

// Config holds what Connect needs to open a pool.
type Config struct {
	DSN      string
	MaxConns int32
	Retry    RetryPolicy
}

// DB wraps the pgx pool with helper methods
type DB struct {
	Pool *pgxpool.Pool
}

// Connect opens a pool and pings it, retrying with backoff until the
// database answers, the retry budget runs out, or ctx is cancelled.
func Connect(
	ctx context.Context,
	cfg Config,
	logger *logs.Logger,
	reg *metrics.Registry,
) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	var pool *pgxpool.Pool
	attempt := 0

	err = Retry(ctx, cfg.Retry, func() error {
		attempt++
		if attempt > 1 {
			reg.Inc(metrics.DBConnectRetriesTotal)
		}

		p, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			logger.Warn("database pool creation failed", "attempt", attempt, "error", err)
			return err
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			logger.Warn("database ping failed", "attempt", attempt, "error", err)
			return err
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", attempt, err)
	}

	logger.Info("database connected",
		"host", poolConfig.ConnConfig.Host,
		"database", poolConfig.ConnConfig.Database,
	)
	return &DB{Pool: pool}, nil
}

// Close closes the database connection pool
func (db *DB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// Health checks the database connection
func (db *DB) Health(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}
