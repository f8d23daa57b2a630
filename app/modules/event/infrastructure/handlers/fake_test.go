package eventhandlers

import (
	"context"

	clubdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/domain"
	eventservice "github.com/Black-And-White-Club/pathfinder-club/app/modules/event/application"
	eventdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/event/infrastructure/repositories"
	"github.com/google/uuid"
)

// FakeService is a programmable fake for eventservice.Service.
type FakeService struct {
	trace []string

	CreateEventFunc  func(ctx context.Context, actor clubdomain.Actor, in eventservice.NewEvent) (*eventdb.Event, error)
	ListUpcomingFunc func(ctx context.Context, actor clubdomain.Actor, limit int) ([]eventdb.Event, error)
	GetEventFunc     func(ctx context.Context, actor clubdomain.Actor, id uuid.UUID) (*eventdb.Event, error)
	DeleteEventFunc  func(ctx context.Context, actor clubdomain.Actor, id uuid.UUID) error
}

var _ eventservice.Service = (*FakeService)(nil)

func (f *FakeService) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeService) Trace() []string { return f.trace }

func (f *FakeService) CreateEvent(ctx context.Context, actor clubdomain.Actor, in eventservice.NewEvent) (*eventdb.Event, error) {
	f.record("CreateEvent")
	if f.CreateEventFunc != nil {
		return f.CreateEventFunc(ctx, actor, in)
	}
	return &eventdb.Event{ID: uuid.New(), ClubID: actor.ClubID, Title: in.Title, Timezone: "UTC"}, nil
}

func (f *FakeService) ListUpcoming(ctx context.Context, actor clubdomain.Actor, limit int) ([]eventdb.Event, error) {
	f.record("ListUpcoming")
	if f.ListUpcomingFunc != nil {
		return f.ListUpcomingFunc(ctx, actor, limit)
	}
	return []eventdb.Event{}, nil
}

func (f *FakeService) GetEvent(ctx context.Context, actor clubdomain.Actor, id uuid.UUID) (*eventdb.Event, error) {
	f.record("GetEvent")
	if f.GetEventFunc != nil {
		return f.GetEventFunc(ctx, actor, id)
	}
	return &eventdb.Event{ID: id, ClubID: actor.ClubID, Timezone: "UTC"}, nil
}

func (f *FakeService) DeleteEvent(ctx context.Context, actor clubdomain.Actor, id uuid.UUID) error {
	f.record("DeleteEvent")
	if f.DeleteEventFunc != nil {
		return f.DeleteEventFunc(ctx, actor, id)
	}
	return nil
}
