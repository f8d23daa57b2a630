// Package queue runs background jobs on River over a dedicated pgx pool.
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/pathfinder-club/internal/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/uptrace/bun"
)

const (
	QueueNotifications = "notifications"
	QueueReminders     = "reminders"

	serviceName = "river"
)

// ErrNotOpen is returned when jobs are inserted before Open.
var ErrNotOpen = errors.New("queue client is not open")

// Enqueuer is the narrow surface modules use to schedule and cancel jobs.
type Enqueuer interface {
	Insert(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (int64, error)
	CancelByArg(ctx context.Context, kinds []string, argKey, argValue string) (int, error)
}

// Config sizes the worker pools.
type Config struct {
	MaxWorkers int
}

// Service owns the River client. Construction is two-phase: modules register
// workers on Workers() first, then Open builds the client.
type Service struct {
	pool    *pgxpool.Pool
	workers *river.Workers
	client  *river.Client[pgx.Tx]
	db      *bun.DB
	cfg     Config
	logger  *slog.Logger
	metrics metrics.OperationMetrics
}

var _ Enqueuer = (*Service)(nil)

// NewService creates the pgx pool River needs and an empty worker registry.
func NewService(ctx context.Context, dsn string, db *bun.DB, cfg Config, logger *slog.Logger, m metrics.OperationMetrics) (*Service, error) {
	logger = logger.With(slog.String("component", "river_queue"))
	if m == nil {
		m = metrics.NewNoop()
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 20
	}

	pool, err := newPool(ctx, dsn)
	if err != nil {
		logger.Error("Failed to create pgx pool for River", slog.Any("error", err))
		return nil, err
	}

	return &Service{
		pool:    pool,
		workers: river.NewWorkers(),
		db:      db,
		cfg:     cfg,
		logger:  logger,
		metrics: m,
	}, nil
}

func newPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

// Workers is the registry modules add their workers to before Open.
func (s *Service) Workers() *river.Workers {
	return s.workers
}

// Open builds the River client from the registered workers.
func (s *Service) Open() error {
	client, err := river.NewClient(riverpgxv5.New(s.pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: s.cfg.MaxWorkers},
			QueueNotifications: {MaxWorkers: s.cfg.MaxWorkers},
			QueueReminders:     {MaxWorkers: max(1, s.cfg.MaxWorkers/4)},
		},
		Workers: s.workers,
		Logger:  s.logger,
	})
	if err != nil {
		s.logger.Error("Failed to create River client", slog.Any("error", err))
		return fmt.Errorf("failed to create River client: %w", err)
	}
	s.client = client
	return nil
}

// Start begins working jobs.
func (s *Service) Start(ctx context.Context) error {
	if s.client == nil {
		return ErrNotOpen
	}
	s.logger.Info("Starting queue service")
	if err := s.client.Start(ctx); err != nil {
		s.logger.Error("Failed to start River client", slog.Any("error", err))
		return fmt.Errorf("failed to start River client: %w", err)
	}
	return nil
}

// Stop waits for running jobs to finish or ctx to expire.
func (s *Service) Stop(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	s.logger.Info("Stopping queue service")
	if err := s.client.Stop(ctx); err != nil {
		s.logger.Error("Failed to stop River client", slog.Any("error", err))
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	return nil
}

// Close releases the pgx pool.
func (s *Service) Close() {
	s.pool.Close()
}

// Insert enqueues a job and returns its id.
func (s *Service) Insert(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (int64, error) {
	const op = "insert_job"
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, op, serviceName)
	defer func() {
		s.metrics.RecordOperationDuration(ctx, op, serviceName, time.Since(start))
	}()

	if s.client == nil {
		s.metrics.RecordOperationFailure(ctx, op, serviceName)
		return 0, ErrNotOpen
	}

	res, err := s.client.Insert(ctx, args, opts)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to insert job",
			slog.String("job_kind", args.Kind()),
			slog.Any("error", err),
		)
		s.metrics.RecordOperationFailure(ctx, op, serviceName)
		return 0, fmt.Errorf("failed to insert %s job: %w", args.Kind(), err)
	}

	s.metrics.RecordOperationSuccess(ctx, op, serviceName)
	s.logger.DebugContext(ctx, "Job inserted",
		slog.String("job_kind", args.Kind()),
		slog.Int64("job_id", res.Job.ID),
		slog.Bool("unique_skipped", res.UniqueSkippedAsDuplicate),
	)
	return res.Job.ID, nil
}

type riverJobRow struct {
	ID   int64  `bun:"id"`
	Kind string `bun:"kind"`
}

// CancelByArg cancels every available or scheduled job of the given kinds
// whose JSON args carry argKey = argValue. It returns how many were cancelled.
func (s *Service) CancelByArg(ctx context.Context, kinds []string, argKey, argValue string) (int, error) {
	const op = "cancel_jobs"
	s.metrics.RecordOperationAttempt(ctx, op, serviceName)

	if s.client == nil {
		s.metrics.RecordOperationFailure(ctx, op, serviceName)
		return 0, ErrNotOpen
	}

	var jobs []riverJobRow
	err := s.db.NewSelect().
		Table("river_job").
		Column("id", "kind").
		Where("kind IN (?)", bun.In(kinds)).
		Where("state IN (?)", bun.In([]string{"available", "scheduled", "retryable"})).
		Where("args->>? = ?", argKey, argValue).
		Scan(ctx, &jobs)
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, op, serviceName)
		return 0, fmt.Errorf("failed to query jobs for cancellation: %w", err)
	}

	cancelled := 0
	for _, job := range jobs {
		if _, err := s.client.JobCancel(ctx, job.ID); err != nil {
			s.logger.WarnContext(ctx, "Failed to cancel job",
				slog.Int64("job_id", job.ID),
				slog.String("job_kind", job.Kind),
				slog.Any("error", err),
			)
			continue
		}
		cancelled++
	}

	if cancelled == len(jobs) {
		s.metrics.RecordOperationSuccess(ctx, op, serviceName)
	} else {
		s.metrics.RecordOperationFailure(ctx, op, serviceName)
	}
	s.logger.InfoContext(ctx, "Jobs cancellation completed",
		slog.Int("total_found", len(jobs)),
		slog.Int("cancelled_count", cancelled),
	)
	return cancelled, nil
}

// HealthCheck verifies the River tables are reachable.
func (s *Service) HealthCheck(ctx context.Context) error {
	if s.client == nil {
		return ErrNotOpen
	}
	var count int
	if err := s.db.NewSelect().Table("river_job").ColumnExpr("COUNT(*)").Scan(ctx, &count); err != nil {
		return fmt.Errorf("queue health check failed: %w", err)
	}
	return nil
}

// Migrate brings River's own schema up to date.
func Migrate(ctx context.Context, dsn string, logger *slog.Logger) error {
	pool, err := newPool(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	migrator, err := rivermigrate.New(riverpgxv5.New(pool), &rivermigrate.Config{Logger: logger})
	if err != nil {
		return fmt.Errorf("failed to create river migrator: %w", err)
	}

	res, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil)
	if err != nil {
		return fmt.Errorf("failed to migrate river schema: %w", err)
	}
	for _, v := range res.Versions {
		logger.InfoContext(ctx, "Applied river migration", slog.Int("version", v.Version))
	}
	return nil
}
