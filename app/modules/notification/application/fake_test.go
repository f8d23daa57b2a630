package notificationservice

import (
	"context"

	notificationdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/notification/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/riverqueue/river"
	"github.com/uptrace/bun"
)

// FakeNotificationRepo is a programmable fake for notificationdb.Repository.
type FakeNotificationRepo struct {
	trace []string

	CreateFunc      func(ctx context.Context, db bun.IDB, n *notificationdb.Notification) error
	ListFunc        func(ctx context.Context, db bun.IDB, userID uuid.UUID, unreadOnly bool, limit int) ([]notificationdb.Notification, error)
	MarkReadFunc    func(ctx context.Context, db bun.IDB, userID, id uuid.UUID) (*notificationdb.Notification, error)
	MarkAllReadFunc func(ctx context.Context, db bun.IDB, userID uuid.UUID) (int, error)
	CountUnreadFunc func(ctx context.Context, db bun.IDB, userID uuid.UUID) (int, error)
}

func (f *FakeNotificationRepo) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeNotificationRepo) Trace() []string { return f.trace }

func (f *FakeNotificationRepo) Create(ctx context.Context, db bun.IDB, n *notificationdb.Notification) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, db, n)
	}
	return nil
}

func (f *FakeNotificationRepo) List(ctx context.Context, db bun.IDB, userID uuid.UUID, unreadOnly bool, limit int) ([]notificationdb.Notification, error) {
	f.record("List")
	if f.ListFunc != nil {
		return f.ListFunc(ctx, db, userID, unreadOnly, limit)
	}
	return nil, nil
}

func (f *FakeNotificationRepo) MarkRead(ctx context.Context, db bun.IDB, userID, id uuid.UUID) (*notificationdb.Notification, error) {
	f.record("MarkRead")
	if f.MarkReadFunc != nil {
		return f.MarkReadFunc(ctx, db, userID, id)
	}
	return nil, notificationdb.ErrNotFound
}

func (f *FakeNotificationRepo) MarkAllRead(ctx context.Context, db bun.IDB, userID uuid.UUID) (int, error) {
	f.record("MarkAllRead")
	if f.MarkAllReadFunc != nil {
		return f.MarkAllReadFunc(ctx, db, userID)
	}
	return 0, nil
}

func (f *FakeNotificationRepo) CountUnread(ctx context.Context, db bun.IDB, userID uuid.UUID) (int, error) {
	f.record("CountUnread")
	if f.CountUnreadFunc != nil {
		return f.CountUnreadFunc(ctx, db, userID)
	}
	return 0, nil
}

var _ notificationdb.Repository = (*FakeNotificationRepo)(nil)

// FakeEnqueuer records inserted jobs.
type FakeEnqueuer struct {
	Jobs []river.JobArgs
	Opts []*river.InsertOpts

	InsertErr error
}

func (f *FakeEnqueuer) Insert(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (int64, error) {
	if f.InsertErr != nil {
		return 0, f.InsertErr
	}
	f.Jobs = append(f.Jobs, args)
	f.Opts = append(f.Opts, opts)
	return int64(len(f.Jobs)), nil
}

func (f *FakeEnqueuer) CancelByArg(ctx context.Context, kinds []string, argKey, argValue string) (int, error) {
	return 0, nil
}
