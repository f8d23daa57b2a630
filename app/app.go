// Package app assembles the club backend from its modules and runs it.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Black-And-White-Club/pathfinder-club/config"
	"github.com/Black-And-White-Club/pathfinder-club/internal/db"
	"github.com/Black-And-White-Club/pathfinder-club/internal/eventbus"
	"github.com/Black-And-White-Club/pathfinder-club/internal/metrics"
	"github.com/Black-And-White-Club/pathfinder-club/internal/modules"
	"github.com/Black-And-White-Club/pathfinder-club/internal/queue"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
)

// App holds the process-wide resources.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	DB      *bun.DB
	Bus     *eventbus.Bus
	Queue   *queue.Service
	Metrics *metrics.Prometheus
	Modules *modules.Registry
	Router  http.Handler
}

// New connects to Postgres, the event bus and the job queue, then builds the
// modules and the HTTP router.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	database, err := db.Open(ctx, db.Options{
		DSN:             cfg.Postgres.DSN,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		ConnMaxIdleTime: 5 * time.Minute,
	}, logger)
	if err != nil {
		return nil, err
	}

	bus, err := eventbus.New(eventbus.Options{NATSEnabled: cfg.NATS.Enabled, NATSURL: cfg.NATS.URL}, logger)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create event bus: %w", err)
	}

	prom := metrics.NewPrometheus("pathfinder")
	q, err := queue.NewService(ctx, cfg.Postgres.DSN, database, queue.Config{MaxWorkers: cfg.Queue.MaxWorkers}, logger, prom)
	if err != nil {
		bus.Close()
		database.Close()
		return nil, fmt.Errorf("failed to create queue service: %w", err)
	}

	registry := modules.NewRegistry(modules.Deps{
		Config:  cfg,
		DB:      database,
		Bus:     bus,
		Queue:   q,
		Logger:  logger,
		Metrics: prom,
		Tracer:  otel.Tracer(cfg.Observability.ServiceName),
	})

	if err := q.Open(); err != nil {
		q.Close()
		bus.Close()
		database.Close()
		return nil, err
	}

	a := &App{
		Config:  cfg,
		Logger:  logger,
		DB:      database,
		Bus:     bus,
		Queue:   q,
		Metrics: prom,
		Modules: registry,
	}
	a.Router = a.newRouter()
	return a, nil
}

// Run works queued jobs and serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if err := a.Queue.Start(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.newServer().Run(gctx)
	})
	// A failed listener cancels gctx, so the workers drain either way.
	g.Go(func() error {
		<-gctx.Done()
		stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return a.Queue.Stop(stopCtx)
	})
	return g.Wait()
}

// Close releases the queue pool, the bus and the database.
func (a *App) Close() error {
	a.Queue.Close()
	return errors.Join(a.Bus.Close(), a.DB.Close())
}
