//go:build integration

// Package containers starts the throwaway Postgres and NATS instances the
// integration suites run against.
package containers

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/nats"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const startupDeadline = 45 * time.Second

// SetupPostgresContainer returns a running Postgres 16 and a DSN with TLS off.
func SetupPostgresContainer(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	pg, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("pathfinder"),
		postgres.WithUsername("pathfinder"),
		postgres.WithPassword("pathfinder"),
		testcontainers.WithWaitStrategy(
			// postgres restarts once after initdb
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(startupDeadline),
		),
	)
	if err != nil {
		discard(pg)
		return nil, "", fmt.Errorf("start postgres: %w", err)
	}

	raw, err := pg.ConnectionString(ctx)
	if err != nil {
		discard(pg)
		return nil, "", fmt.Errorf("postgres dsn: %w", err)
	}
	dsn, err := url.Parse(raw)
	if err != nil {
		discard(pg)
		return nil, "", fmt.Errorf("parse postgres dsn: %w", err)
	}
	q := dsn.Query()
	q.Set("sslmode", "disable")
	dsn.RawQuery = q.Encode()

	slog.Info("postgres container ready", "host", dsn.Host)
	return pg, dsn.String(), nil
}

// SetupNatsContainer returns a running NATS server and its client URL.
func SetupNatsContainer(ctx context.Context) (*nats.NATSContainer, string, error) {
	n, err := nats.Run(ctx,
		"nats:2.10-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForAll(
				wait.ForLog("Server is ready"),
				wait.ForListeningPort("4222/tcp"),
			).WithDeadline(startupDeadline),
		),
	)
	if err != nil {
		discard(n)
		return nil, "", fmt.Errorf("start nats: %w", err)
	}

	natsURL, err := n.ConnectionString(ctx)
	if err != nil {
		discard(n)
		return nil, "", fmt.Errorf("nats url: %w", err)
	}

	slog.Info("nats container ready", "url", natsURL)
	return n, natsURL, nil
}

// discard tears down a half-started container. TerminateContainer tolerates
// typed nil pointers.
func discard(c testcontainers.Container) {
	if err := testcontainers.TerminateContainer(c); err != nil {
		slog.Warn("terminate container", "error", err)
	}
}
