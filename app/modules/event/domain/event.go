package eventdomain

import (
	"time"

	"github.com/google/uuid"
)

// TopicEventCreatedV1 is published once an event is committed.
const TopicEventCreatedV1 = "event.created.v1"

// EventCreatedPayloadV1 announces a new club event.
type EventCreatedPayloadV1 struct {
	EventID   uuid.UUID `json:"event_id"`
	ClubID    uuid.UUID `json:"club_id"`
	Title     string    `json:"title"`
	StartsAt  time.Time `json:"starts_at"`
	CreatedBy uuid.UUID `json:"created_by"`
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always returns the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }
