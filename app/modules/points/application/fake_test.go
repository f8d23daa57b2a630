package pointsservice

import (
	"context"
	"sync"

	clubdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/domain"
	clubdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/infrastructure/repositories"
	pointsdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/points/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Points Repo
// ------------------------

type FakePointsRepo struct {
	trace []string

	RecordFunc    func(ctx context.Context, db bun.IDB, entry *pointsdb.PointsHistory) error
	HistoryFunc   func(ctx context.Context, db bun.IDB, userID uuid.UUID, limit int) ([]pointsdb.PointsHistory, error)
	LedgerSumFunc func(ctx context.Context, db bun.IDB, userID uuid.UUID) (int, error)
}

func (f *FakePointsRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakePointsRepo) Trace() []string {
	return f.trace
}

func (f *FakePointsRepo) Record(ctx context.Context, db bun.IDB, entry *pointsdb.PointsHistory) error {
	f.record("Record")
	if f.RecordFunc != nil {
		return f.RecordFunc(ctx, db, entry)
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return nil
}

func (f *FakePointsRepo) History(ctx context.Context, db bun.IDB, userID uuid.UUID, limit int) ([]pointsdb.PointsHistory, error) {
	f.record("History")
	if f.HistoryFunc != nil {
		return f.HistoryFunc(ctx, db, userID, limit)
	}
	return nil, nil
}

func (f *FakePointsRepo) LedgerSum(ctx context.Context, db bun.IDB, userID uuid.UUID) (int, error) {
	f.record("LedgerSum")
	if f.LedgerSumFunc != nil {
		return f.LedgerSumFunc(ctx, db, userID)
	}
	return 0, nil
}

var _ pointsdb.Repository = (*FakePointsRepo)(nil)

// ------------------------
// Fake Club Repo
// ------------------------

type FakeClubRepo struct {
	clubdb.Repository

	GetUserFunc         func(ctx context.Context, db bun.IDB, userID uuid.UUID) (*clubdb.User, error)
	LockUserFunc        func(ctx context.Context, db bun.IDB, userID uuid.UUID) (*clubdb.User, error)
	ListClubRankingFunc func(ctx context.Context, db bun.IDB, clubID uuid.UUID, limit int) ([]clubdb.User, error)
}

func (f *FakeClubRepo) GetUser(ctx context.Context, db bun.IDB, userID uuid.UUID) (*clubdb.User, error) {
	if f.GetUserFunc != nil {
		return f.GetUserFunc(ctx, db, userID)
	}
	return nil, clubdb.ErrUserNotFound
}

func (f *FakeClubRepo) LockUser(ctx context.Context, db bun.IDB, userID uuid.UUID) (*clubdb.User, error) {
	if f.LockUserFunc != nil {
		return f.LockUserFunc(ctx, db, userID)
	}
	return f.GetUser(ctx, db, userID)
}

func (f *FakeClubRepo) ListClubRanking(ctx context.Context, db bun.IDB, clubID uuid.UUID, limit int) ([]clubdb.User, error) {
	if f.ListClubRankingFunc != nil {
		return f.ListClubRankingFunc(ctx, db, clubID, limit)
	}
	return nil, nil
}

// ------------------------
// Fake Publisher
// ------------------------

type published struct {
	Topic    string
	Payload  any
	Metadata map[string]string
}

type FakePublisher struct {
	mu     sync.Mutex
	events []published

	PublishFunc func(ctx context.Context, topic string, payload any, metadata map[string]string) error
}

func (f *FakePublisher) Publish(ctx context.Context, topic string, payload any, metadata map[string]string) error {
	f.mu.Lock()
	f.events = append(f.events, published{Topic: topic, Payload: payload, Metadata: metadata})
	f.mu.Unlock()
	if f.PublishFunc != nil {
		return f.PublishFunc(ctx, topic, payload, metadata)
	}
	return nil
}

func (f *FakePublisher) Events() []published {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]published, len(f.events))
	copy(out, f.events)
	return out
}

func member(clubID uuid.UUID, role clubdomain.Role, points int) *clubdb.User {
	return &clubdb.User{ID: uuid.New(), ClubID: &clubID, Name: "Member", Role: role, Points: points}
}
