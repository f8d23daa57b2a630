package operation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Black-And-White-Club/pathfinder-club/internal/apperr"
	"github.com/Black-And-White-Club/pathfinder-club/internal/results"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"
)

type recordingMetrics struct {
	attempts, successes, failures, durations int
}

func (m *recordingMetrics) RecordOperationAttempt(context.Context, string, string) { m.attempts++ }
func (m *recordingMetrics) RecordOperationSuccess(context.Context, string, string) { m.successes++ }
func (m *recordingMetrics) RecordOperationFailure(context.Context, string, string) { m.failures++ }
func (m *recordingMetrics) RecordOperationDuration(context.Context, string, string, time.Duration) {
	m.durations++
}

func newTestRunner(m *recordingMetrics) *Runner {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRunner("TestService", logger, m, noop.NewTracerProvider().Tracer("test"), nil)
}

func TestRun(t *testing.T) {
	infraErr := errors.New("connection reset")

	tests := []struct {
		name         string
		fn           TxFunc[string, error]
		wantValue    string
		wantErr      error
		wantKind     apperr.Kind
		wantFailures int
		wantSuccess  int
	}{
		{
			name: "success",
			fn: func(ctx context.Context, db bun.IDB) (results.OperationResult[string, error], error) {
				return results.SuccessResult[string, error]("done"), nil
			},
			wantValue:   "done",
			wantSuccess: 1,
		},
		{
			name: "domain failure counts as success metric",
			fn: func(ctx context.Context, db bun.IDB) (results.OperationResult[string, error], error) {
				return results.FailureResult[string, error](apperr.NotFound("missing")), nil
			},
			wantKind:    apperr.KindNotFound,
			wantSuccess: 1,
		},
		{
			name: "infrastructure error is wrapped",
			fn: func(ctx context.Context, db bun.IDB) (results.OperationResult[string, error], error) {
				return results.OperationResult[string, error]{}, infraErr
			},
			wantErr:      infraErr,
			wantFailures: 1,
		},
		{
			name: "panic is recovered",
			fn: func(ctx context.Context, db bun.IDB) (results.OperationResult[string, error], error) {
				panic("boom")
			},
			wantFailures: 1,
		},
		{
			name: "nil db hands nil handle",
			fn: func(ctx context.Context, db bun.IDB) (results.OperationResult[string, error], error) {
				if db != nil {
					return results.OperationResult[string, error]{}, errors.New("expected nil handle")
				}
				return results.SuccessResult[string, error]("nil"), nil
			},
			wantValue:   "nil",
			wantSuccess: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &recordingMetrics{}
			r := newTestRunner(m)

			got, err := Unwrap(Run(r, context.Background(), "DoThing", "id-1", tt.fn))

			switch {
			case tt.wantErr != nil:
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Contains(t, err.Error(), "DoThing")
			case tt.wantKind != "":
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))
			case tt.wantFailures > 0:
				require.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantValue, got)
			}

			assert.Equal(t, 1, m.attempts)
			assert.Equal(t, 1, m.durations)
			assert.Equal(t, tt.wantFailures, m.failures)
			assert.Equal(t, tt.wantSuccess, m.successes)
		})
	}
}

func TestNewRunner_Defaults(t *testing.T) {
	r := NewRunner("X", nil, nil, nil, nil)
	assert.NotNil(t, r.Logger)
	assert.NotNil(t, r.Metrics)

	got, err := Unwrap(WithTelemetry(r, context.Background(), "Op", "", func(ctx context.Context) (results.OperationResult[int, error], error) {
		return results.SuccessResult[int, error](7), nil
	}))
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestClassify(t *testing.T) {
	res, err := Classify[int](apperr.NotFound("missing"))
	require.NoError(t, err)
	require.True(t, res.IsFailure())
	assert.ErrorIs(t, *res.Failure, apperr.ErrNotFound)

	infra := errors.New("disk full")
	res, err = Classify[int](infra)
	assert.ErrorIs(t, err, infra)
	assert.False(t, res.IsFailure())
	assert.False(t, res.IsSuccess())
}

func TestSavepoint_NilDB(t *testing.T) {
	called := false
	err := Savepoint(context.Background(), nil, func(ctx context.Context, db bun.IDB) error {
		called = true
		assert.Nil(t, db)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)

	boom := errors.New("boom")
	assert.ErrorIs(t, Savepoint(context.Background(), nil, func(context.Context, bun.IDB) error { return boom }), boom)
}
