package eventhandlers

import (
	"time"

	eventdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/event/infrastructure/repositories"
	"github.com/google/uuid"
)

type createEventRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Location    string `json:"location" validate:"max=200"`
	When        string `json:"when" validate:"required"`
	Timezone    string `json:"timezone"`
}

type eventResponse struct {
	ID          uuid.UUID  `json:"id"`
	ClubID      uuid.UUID  `json:"club_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	StartsAt    time.Time  `json:"starts_at"`
	LocalStart  string     `json:"local_start"`
	Timezone    string     `json:"timezone"`
	CreatedBy   *uuid.UUID `json:"created_by,omitempty"`
}

func toEvent(e *eventdb.Event) eventResponse {
	local := e.StartsAt
	if loc, err := time.LoadLocation(e.Timezone); err == nil {
		local = e.StartsAt.In(loc)
	}
	return eventResponse{
		ID:          e.ID,
		ClubID:      e.ClubID,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		StartsAt:    e.StartsAt,
		LocalStart:  local.Format(time.RFC3339),
		Timezone:    e.Timezone,
		CreatedBy:   e.CreatedBy,
	}
}
