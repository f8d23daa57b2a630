package pointsservice

import (
	"context"

	clubdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/domain"
	clubdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/infrastructure/repositories"
	pointsdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/points/domain"
	pointsdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/points/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Ledger is the slice of the points service other modules write through.
type Ledger interface {
	// Award records an entry on db, which should be the caller's transaction.
	Award(ctx context.Context, db bun.IDB, userID uuid.UUID, amount int, reason string, source pointsdomain.Source) (*pointsdb.PointsHistory, error)

	// Announce publishes committed entries. Failures are logged.
	Announce(ctx context.Context, entries ...*pointsdb.PointsHistory)
}

// Service is the full points API.
type Service interface {
	Ledger
	GetBalance(ctx context.Context, actor clubdomain.Actor, userID uuid.UUID) (pointsdomain.Balance, error)
	History(ctx context.Context, actor clubdomain.Actor, userID uuid.UUID, limit int) ([]pointsdb.PointsHistory, error)
	ManualAdjust(ctx context.Context, actor clubdomain.Actor, userID uuid.UUID, amount int, reason string) (*pointsdb.PointsHistory, error)
	ClubRanking(ctx context.Context, actor clubdomain.Actor, limit int) ([]clubdb.User, error)
	HistoryChart(ctx context.Context, actor clubdomain.Actor, userID uuid.UUID) ([]byte, error)
}
