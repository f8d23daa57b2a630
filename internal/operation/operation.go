// Package operation wraps application service calls with tracing, metrics,
// panic recovery, logging and transaction handling.
package operation

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/pathfinder-club/internal/apperr"
	"github.com/Black-And-White-Club/pathfinder-club/internal/metrics"
	"github.com/Black-And-White-Club/pathfinder-club/internal/results"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Runner carries the per-service collaborators every operation needs.
type Runner struct {
	Service string
	Logger  *slog.Logger
	Metrics metrics.OperationMetrics
	Tracer  trace.Tracer
	DB      *bun.DB
}

// NewRunner fills defaults for nil collaborators.
func NewRunner(service string, logger *slog.Logger, m metrics.OperationMetrics, tracer trace.Tracer, db *bun.DB) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.NewNoop()
	}
	return &Runner{
		Service: service,
		Logger:  logger,
		Metrics: m,
		Tracer:  tracer,
		DB:      db,
	}
}

// Func is the signature of an operation body.
type Func[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// TxFunc is the signature of an operation body that needs a database handle.
type TxFunc[S any, F any] func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error)

// WithTelemetry wraps op with a span, attempt/success/failure/duration
// metrics, panic recovery and start/finish logging.
func WithTelemetry[S any, F any](
	r *Runner,
	ctx context.Context,
	operationName string,
	identifier string,
	op Func[S, F],
) (result results.OperationResult[S, F], err error) {
	var span trace.Span
	if r.Tracer != nil {
		ctx, span = r.Tracer.Start(ctx, r.Service+"."+operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	r.Metrics.RecordOperationAttempt(ctx, operationName, r.Service)

	startTime := time.Now()
	defer func() {
		r.Metrics.RecordOperationDuration(ctx, operationName, r.Service, time.Since(startTime))
	}()

	logger := r.Logger.With(
		slog.String("operation", operationName),
		slog.String("identifier", identifier),
	)
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		logger = logger.With(slog.String("request_id", reqID))
	}

	logger.DebugContext(ctx, "Operation triggered")

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, rec)
			logger.ErrorContext(ctx, "Critical panic recovered", slog.Any("error", err))
			r.Metrics.RecordOperationFailure(ctx, operationName, r.Service)
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		logger.ErrorContext(ctx, "Operation failed with error", slog.Any("error", wrappedErr))
		r.Metrics.RecordOperationFailure(ctx, operationName, r.Service)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		logger.WarnContext(ctx, "Operation returned failure result", slog.Any("failure_payload", *result.Failure))
	}

	if result.IsSuccess() {
		logger.InfoContext(ctx, "Operation completed successfully")
	}

	r.Metrics.RecordOperationSuccess(ctx, operationName, r.Service)
	return result, nil
}

// RunInTx runs fn inside a transaction on r.DB. A nil DB hands fn a nil
// handle so repositories fall back to their own connection (used by tests).
// A domain failure does not roll the transaction back; fn must not write
// before deciding to fail.
func RunInTx[S any, F any](
	r *Runner,
	ctx context.Context,
	fn TxFunc[S, F],
) (results.OperationResult[S, F], error) {
	if r.DB == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]
	err := r.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})
	return result, err
}

// Run is WithTelemetry around RunInTx.
func Run[S any, F any](
	r *Runner,
	ctx context.Context,
	operationName string,
	identifier string,
	fn TxFunc[S, F],
) (results.OperationResult[S, F], error) {
	return WithTelemetry(r, ctx, operationName, identifier, func(ctx context.Context) (results.OperationResult[S, F], error) {
		return RunInTx(r, ctx, fn)
	})
}

// Unwrap flattens a result whose failure type is error into the usual
// (value, error) pair.
func Unwrap[S any](result results.OperationResult[S, error], err error) (S, error) {
	var zero S
	if err != nil {
		return zero, err
	}
	if result.IsFailure() {
		return zero, *result.Failure
	}
	if result.Success == nil {
		return zero, nil
	}
	return *result.Success, nil
}

// Classify routes err into a result: classified domain failures become a
// failure result, anything else stays an infrastructure error.
func Classify[S any](err error) (results.OperationResult[S, error], error) {
	if apperr.KindOf(err) != "" {
		return results.FailureResult[S, error](err), nil
	}
	return results.OperationResult[S, error]{}, err
}

// Savepoint runs fn in a nested transaction on db so a failing step can be
// rolled back without aborting the caller's transaction. A nil db runs fn
// directly.
func Savepoint(ctx context.Context, db bun.IDB, fn func(ctx context.Context, db bun.IDB) error) error {
	if db == nil {
		return fn(ctx, nil)
	}
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, tx)
	})
}
