//go:build integration

// Package testutils holds the shared container environment and fixtures for
// integration tests.
package testutils

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/pathfinder-club/app"
	"github.com/Black-And-White-Club/pathfinder-club/integration_tests/containers"
	"github.com/Black-And-White-Club/pathfinder-club/internal/db"
	"github.com/Black-And-White-Club/pathfinder-club/internal/eventbus"
	"github.com/Black-And-White-Club/pathfinder-club/internal/queue"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"
)

// appTables lists every table the modules own, children first.
var appTables = []string{
	"user_requirements", "user_specialties", "requirements", "specialties",
	"events", "notifications", "points_history", "users", "clubs",
}

// TestEnvironment holds the containers and connections shared by a test package.
type TestEnvironment struct {
	PgContainer   *postgres.PostgresContainer
	NatsContainer testcontainers.Container
	DSN           string
	NatsURL       string
	DB            *bun.DB
	Bus           *eventbus.Bus
	Logger        *slog.Logger
}

// NewTestEnvironment starts Postgres and NATS, applies every migration and
// connects a NATS-backed event bus.
func NewTestEnvironment(ctx context.Context) (*TestEnvironment, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	env := &TestEnvironment{Logger: logger}

	pg, dsn, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		return nil, err
	}
	env.PgContainer, env.DSN = pg, dsn

	natsContainer, natsURL, err := containers.SetupNatsContainer(ctx)
	if err != nil {
		env.Close(ctx)
		return nil, err
	}
	env.NatsContainer, env.NatsURL = natsContainer, natsURL

	env.DB, err = db.Open(ctx, db.Options{DSN: dsn, MaxOpenConns: 10}, logger)
	if err != nil {
		env.Close(ctx)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	migrators := app.Migrators(env.DB)
	if err := app.InitMigrations(ctx, migrators); err != nil {
		env.Close(ctx)
		return nil, err
	}
	if err := app.MigrateUp(ctx, migrators, logger); err != nil {
		env.Close(ctx)
		return nil, err
	}
	if err := queue.Migrate(ctx, dsn, logger); err != nil {
		env.Close(ctx)
		return nil, err
	}

	env.Bus, err = eventbus.NewNATS(natsURL, logger)
	if err != nil {
		env.Close(ctx)
		return nil, fmt.Errorf("failed to connect event bus: %w", err)
	}
	return env, nil
}

// Reset empties every application table and the job queue.
func (env *TestEnvironment) Reset(ctx context.Context) error {
	for _, table := range appTables {
		if _, err := env.DB.ExecContext(ctx, "TRUNCATE TABLE "+table+" CASCADE"); err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	if _, err := env.DB.ExecContext(ctx, "DELETE FROM river_job"); err != nil {
		return fmt.Errorf("clear river_job: %w", err)
	}
	return nil
}

// Close tears down connections and containers.
func (env *TestEnvironment) Close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if env.Bus != nil {
		_ = env.Bus.Close()
	}
	if env.DB != nil {
		_ = env.DB.Close()
	}
	if env.NatsContainer != nil {
		_ = env.NatsContainer.Terminate(ctx)
	}
	if env.PgContainer != nil {
		_ = env.PgContainer.Terminate(ctx)
	}
}
