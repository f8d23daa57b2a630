//go:build integration

package specialtyintegrationtests

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	clubdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/infrastructure/repositories"
	pointsservice "github.com/Black-And-White-Club/pathfinder-club/app/modules/points/application"
	pointsdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/points/domain"
	pointsdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/points/infrastructure/repositories"
	specialtyservice "github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty/application"
	specialtydomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty/domain"
	specialtydb "github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty/infrastructure/repositories"
	"github.com/Black-And-White-Club/pathfinder-club/integration_tests/testutils"
	"github.com/Black-And-White-Club/pathfinder-club/internal/metrics"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"
)

// TestDeps holds the real services a test drives.
type TestDeps struct {
	Ctx       context.Context
	ClubRepo  clubdb.Repository
	Points    *pointsservice.PointsService
	Ledger    *FlakyLedger
	Service   *specialtyservice.SpecialtyService
	Notifier  *testutils.RecordingNotifier
	Generator *testutils.TestDataGenerator
}

// SetupTestSpecialtyService resets the shared database and wires the
// specialty service to the real club, points and specialty repositories.
func SetupTestSpecialtyService(t *testing.T) TestDeps {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, testEnv.Reset(ctx))

	db := testEnv.DB
	logger := testEnv.Logger
	tracer := noop.NewTracerProvider().Tracer("test")
	clubRepo := clubdb.NewRepository(db)
	notifier := &testutils.RecordingNotifier{}

	points := pointsservice.NewPointsService(pointsdb.NewRepository(db), clubRepo, testEnv.Bus, logger, metrics.NewNoop(), tracer, db)
	ledger := &FlakyLedger{Ledger: points}
	service := specialtyservice.NewSpecialtyService(
		specialtydb.NewRepository(db), clubRepo, ledger, notifier, testEnv.Bus, logger, metrics.NewNoop(), tracer, db,
	)
	return TestDeps{
		Ctx:       ctx,
		ClubRepo:  clubRepo,
		Points:    points,
		Ledger:    ledger,
		Service:   service,
		Notifier:  notifier,
		Generator: testutils.NewTestDataGenerator(db, 7),
	}
}

var errLedgerUnavailable = errors.New("ledger unavailable")

// FlakyLedger writes through to the real ledger and, while FailAfterWrite is
// set, reports an error once the row is already inserted. The caller's
// savepoint must discard that row.
type FlakyLedger struct {
	pointsservice.Ledger
	FailAfterWrite atomic.Bool
}

func (l *FlakyLedger) Award(ctx context.Context, db bun.IDB, userID uuid.UUID, amount int, reason string, source pointsdomain.Source) (*pointsdb.PointsHistory, error) {
	entry, err := l.Ledger.Award(ctx, db, userID, amount, reason, source)
	if err != nil {
		return nil, err
	}
	if l.FailAfterWrite.Load() {
		return nil, errLedgerUnavailable
	}
	return entry, nil
}

func newSpecialty(code, name string, n int) specialtyservice.NewSpecialty {
	in := specialtyservice.NewSpecialty{Code: code, Name: name, Area: "Nature"}
	for i := 0; i < n; i++ {
		in.Requirements = append(in.Requirements, specialtyservice.NewRequirement{
			Description: fmt.Sprintf("%s requirement %d", name, i+1),
			Type:        specialtydomain.RequirementText,
		})
	}
	return in
}

func answer(text *string) specialtyservice.Answer {
	return specialtyservice.Answer{Text: text}
}
