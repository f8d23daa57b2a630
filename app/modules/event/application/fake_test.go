package eventservice

import (
	"context"
	"time"

	eventdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/event/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/riverqueue/river"
	"github.com/uptrace/bun"
)

// FakeEventRepo keeps events in memory. Func fields override methods.
type FakeEventRepo struct {
	trace  []string
	Events map[uuid.UUID]*eventdb.Event

	CreateFunc       func(ctx context.Context, db bun.IDB, e *eventdb.Event) error
	ListUpcomingFunc func(ctx context.Context, db bun.IDB, clubID uuid.UUID, from time.Time, limit int) ([]eventdb.Event, error)
}

func NewFakeEventRepo() *FakeEventRepo {
	return &FakeEventRepo{Events: map[uuid.UUID]*eventdb.Event{}}
}

func (f *FakeEventRepo) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeEventRepo) Trace() []string { return f.trace }

func (f *FakeEventRepo) Create(ctx context.Context, db bun.IDB, e *eventdb.Event) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, db, e)
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	stored := *e
	f.Events[e.ID] = &stored
	return nil
}

func (f *FakeEventRepo) Get(ctx context.Context, db bun.IDB, id uuid.UUID) (*eventdb.Event, error) {
	f.record("Get")
	e, ok := f.Events[id]
	if !ok {
		return nil, eventdb.ErrNotFound
	}
	out := *e
	return &out, nil
}

func (f *FakeEventRepo) ListUpcoming(ctx context.Context, db bun.IDB, clubID uuid.UUID, from time.Time, limit int) ([]eventdb.Event, error) {
	f.record("ListUpcoming")
	if f.ListUpcomingFunc != nil {
		return f.ListUpcomingFunc(ctx, db, clubID, from, limit)
	}
	return nil, nil
}

func (f *FakeEventRepo) Delete(ctx context.Context, db bun.IDB, id uuid.UUID) error {
	f.record("Delete")
	if _, ok := f.Events[id]; !ok {
		return eventdb.ErrNotFound
	}
	delete(f.Events, id)
	return nil
}

// FakeEnqueuer records inserted and cancelled jobs.
type FakeEnqueuer struct {
	Jobs      []river.JobArgs
	Opts      []*river.InsertOpts
	Cancelled []string
	InsertErr error
	CancelErr error
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
	if f.CancelErr != nil {
		return 0, f.CancelErr
	}
	f.Cancelled = append(f.Cancelled, argKey+"="+argValue)
	return 1, nil
}

type FakePublisher struct {
	Topics []string
	Err    error
}

func (f *FakePublisher) Publish(ctx context.Context, topic string, payload any, metadata map[string]string) error {
	if f.Err != nil {
		return f.Err
	}
	f.Topics = append(f.Topics, topic)
	return nil
}
