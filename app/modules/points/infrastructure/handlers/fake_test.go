package pointshandlers

import (
	"context"

	clubdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/domain"
	clubdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/infrastructure/repositories"
	pointsservice "github.com/Black-And-White-Club/pathfinder-club/app/modules/points/application"
	pointsdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/points/domain"
	pointsdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/points/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// FakeService is a programmable fake for pointsservice.Service.
type FakeService struct {
	trace []string

	GetBalanceFunc   func(ctx context.Context, actor clubdomain.Actor, userID uuid.UUID) (pointsdomain.Balance, error)
	HistoryFunc      func(ctx context.Context, actor clubdomain.Actor, userID uuid.UUID, limit int) ([]pointsdb.PointsHistory, error)
	ManualAdjustFunc func(ctx context.Context, actor clubdomain.Actor, userID uuid.UUID, amount int, reason string) (*pointsdb.PointsHistory, error)
	ClubRankingFunc  func(ctx context.Context, actor clubdomain.Actor, limit int) ([]clubdb.User, error)
	HistoryChartFunc func(ctx context.Context, actor clubdomain.Actor, userID uuid.UUID) ([]byte, error)
}

func (f *FakeService) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeService) Trace() []string { return f.trace }

func (f *FakeService) Award(ctx context.Context, db bun.IDB, userID uuid.UUID, amount int, reason string, source pointsdomain.Source) (*pointsdb.PointsHistory, error) {
	f.record("Award")
	return &pointsdb.PointsHistory{ID: uuid.New(), UserID: userID, Amount: amount, Reason: reason, Source: source}, nil
}

func (f *FakeService) Announce(ctx context.Context, entries ...*pointsdb.PointsHistory) {
	f.record("Announce")
}

func (f *FakeService) GetBalance(ctx context.Context, actor clubdomain.Actor, userID uuid.UUID) (pointsdomain.Balance, error) {
	f.record("GetBalance")
	if f.GetBalanceFunc != nil {
		return f.GetBalanceFunc(ctx, actor, userID)
	}
	return pointsdomain.NewBalance(userID, 0, 0), nil
}

func (f *FakeService) History(ctx context.Context, actor clubdomain.Actor, userID uuid.UUID, limit int) ([]pointsdb.PointsHistory, error) {
	f.record("History")
	if f.HistoryFunc != nil {
		return f.HistoryFunc(ctx, actor, userID, limit)
	}
	return nil, nil
}

func (f *FakeService) ManualAdjust(ctx context.Context, actor clubdomain.Actor, userID uuid.UUID, amount int, reason string) (*pointsdb.PointsHistory, error) {
	f.record("ManualAdjust")
	if f.ManualAdjustFunc != nil {
		return f.ManualAdjustFunc(ctx, actor, userID, amount, reason)
	}
	return &pointsdb.PointsHistory{ID: uuid.New(), UserID: userID, Amount: amount, Reason: reason, Source: pointsdomain.SourceManual}, nil
}

func (f *FakeService) ClubRanking(ctx context.Context, actor clubdomain.Actor, limit int) ([]clubdb.User, error) {
	f.record("ClubRanking")
	if f.ClubRankingFunc != nil {
		return f.ClubRankingFunc(ctx, actor, limit)
	}
	return nil, nil
}

func (f *FakeService) HistoryChart(ctx context.Context, actor clubdomain.Actor, userID uuid.UUID) ([]byte, error) {
	f.record("HistoryChart")
	if f.HistoryChartFunc != nil {
		return f.HistoryChartFunc(ctx, actor, userID)
	}
	return []byte{0x89, 'P', 'N', 'G'}, nil
}

var _ pointsservice.Service = (*FakeService)(nil)
