package eventdb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for club event persistence.
type Repository interface {
	// Create inserts an event.
	Create(ctx context.Context, db bun.IDB, e *Event) error

	// Get retrieves an event by id.
	Get(ctx context.Context, db bun.IDB, id uuid.UUID) (*Event, error)

	// ListUpcoming returns a club's events starting at or after from, soonest first.
	ListUpcoming(ctx context.Context, db bun.IDB, clubID uuid.UUID, from time.Time, limit int) ([]Event, error)

	// Delete removes an event.
	Delete(ctx context.Context, db bun.IDB, id uuid.UUID) error
}
