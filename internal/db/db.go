// Package db opens the shared bun connection pool.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Options tunes the pool.
type Options struct {
	DSN             string
	MaxOpenConns    int
	ConnMaxIdleTime time.Duration
}

// Open connects to Postgres through pgdriver, verifies the connection and
// registers the join models supplied by the modules.
func Open(ctx context.Context, opts Options, logger *slog.Logger, models ...any) (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(opts.DSN)))

	if opts.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(opts.MaxOpenConns)
		sqldb.SetMaxIdleConns(opts.MaxOpenConns)
	}
	if opts.ConnMaxIdleTime > 0 {
		sqldb.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := sqldb.PingContext(pingCtx); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := bun.NewDB(sqldb, pgdialect.New())
	if len(models) > 0 {
		db.RegisterModel(models...)
	}

	if logger != nil {
		logger.InfoContext(ctx, "Database connection established",
			slog.Int("max_open_conns", opts.MaxOpenConns),
		)
	}
	return db, nil
}
