package eventservice

import (
	"context"

	clubdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/domain"
	eventdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/event/infrastructure/repositories"
	"github.com/google/uuid"
)

// Service is the club calendar API.
type Service interface {
	CreateEvent(ctx context.Context, actor clubdomain.Actor, in NewEvent) (*eventdb.Event, error)
	ListUpcoming(ctx context.Context, actor clubdomain.Actor, limit int) ([]eventdb.Event, error)
	GetEvent(ctx context.Context, actor clubdomain.Actor, id uuid.UUID) (*eventdb.Event, error)
	DeleteEvent(ctx context.Context, actor clubdomain.Actor, id uuid.UUID) error
}

// NewEvent is the input to CreateEvent. When is RFC3339 or a phrase such as
// "next saturday at 9am" read in Timezone.
type NewEvent struct {
	Title       string
	Description string
	Location    string
	When        string
	Timezone    string
}
