// Package store persists finished analyses in PostgreSQL. Persistence is
// optional: when no database URL is configured the pool is never
// initialized and callers skip the repo.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	pool *pgxpool.Pool
	once sync.Once
)

// InitDB initializes the connection pool and ensures the analyses table
// exists. Safe to call more than once; only the first call connects.
func InitDB(ctx context.Context, dbURL string) error {
	var err error
	once.Do(func() {
		if dbURL == "" {
			err = fmt.Errorf("database URL is empty")
			return
		}

		config, parseErr := pgxpool.ParseConfig(dbURL)
		if parseErr != nil {
			err = fmt.Errorf("parsing database config: %w", parseErr)
			return
		}

		pool, err = pgxpool.NewWithConfig(ctx, config)
		if err != nil {
			return
		}

		_, err = pool.Exec(ctx, `
			CREATE TABLE IF NOT EXISTS stock_analysis (
				symbol        TEXT PRIMARY KEY,
				analysis_json JSONB NOT NULL,
				updated_at    TIMESTAMPTZ NOT NULL
			);
		`)
	})
	return err
}

// GetPool returns the connection pool, or nil when the store is disabled.
func GetPool() *pgxpool.Pool {
	return pool
}

// Close closes the connection pool.
func Close() {
	if pool != nil {
		pool.Close()
	}
}
