// internal/database/db.go
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the global pgx pool. Connect it once at application startup.
var DB *pgxpool.Pool

// Connect opens the pool against dsn and verifies the server is reachable.
func Connect(ctx context.Context, dsn string) error {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return fmt.Errorf("parse pgx config: %w", err)
	}

	DB, err = pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := DB.Ping(pingCtx); err != nil {
		return fmt.Errorf("db ping: %w", err)
	}
	return nil
}

// Close releases the pool. Safe to call when Connect never succeeded.
func Close() {
	if DB != nil {
		DB.Close()
	}
}
