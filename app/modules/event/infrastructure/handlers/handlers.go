package eventhandlers

import (
	"log/slog"
	"net/http"

	authhandlers "github.com/Black-And-White-Club/pathfinder-club/app/modules/auth/infrastructure/handlers"
	eventservice "github.com/Black-And-White-Club/pathfinder-club/app/modules/event/application"
	"github.com/Black-And-White-Club/pathfinder-club/internal/httpserver"
)

// EventHandlers implements the Handlers interface.
type EventHandlers struct {
	service eventservice.Service
	logger  *slog.Logger
}

// NewEventHandlers creates a new EventHandlers instance.
func NewEventHandlers(service eventservice.Service, logger *slog.Logger) Handlers {
	return &EventHandlers{service: service, logger: logger}
}

// List handles GET /events.
func (h *EventHandlers) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhandlers.CurrentActor(w, r)
	if !ok {
		return
	}
	limit, err := httpserver.IntQuery(r, "limit", 0)
	if err != nil {
		httpserver.Error(w, r, h.logger, err)
		return
	}
	events, err := h.service.ListUpcoming(r.Context(), actor, limit)
	if err != nil {
		httpserver.Error(w, r, h.logger, err)
		return
	}
	out := make([]eventResponse, 0, len(events))
	for i := range events {
		out = append(out, toEvent(&events[i]))
	}
	httpserver.JSON(w, http.StatusOK, out)
}

// Create handles POST /events.
func (h *EventHandlers) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhandlers.CurrentActor(w, r)
	if !ok {
		return
	}
	var req createEventRequest
	if err := httpserver.Decode(r, &req); err != nil {
		httpserver.Error(w, r, h.logger, err)
		return
	}
	event, err := h.service.CreateEvent(r.Context(), actor, eventservice.NewEvent{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		When:        req.When,
		Timezone:    req.Timezone,
	})
	if err != nil {
		httpserver.Error(w, r, h.logger, err)
		return
	}
	httpserver.JSON(w, http.StatusCreated, toEvent(event))
}

// Get handles GET /events/{id}.
func (h *EventHandlers) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhandlers.CurrentActor(w, r)
	if !ok {
		return
	}
	id, err := httpserver.UUIDParam(r, "id")
	if err != nil {
		httpserver.Error(w, r, h.logger, err)
		return
	}
	event, err := h.service.GetEvent(r.Context(), actor, id)
	if err != nil {
		httpserver.Error(w, r, h.logger, err)
		return
	}
	httpserver.JSON(w, http.StatusOK, toEvent(event))
}

// Delete handles DELETE /events/{id}.
func (h *EventHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhandlers.CurrentActor(w, r)
	if !ok {
		return
	}
	id, err := httpserver.UUIDParam(r, "id")
	if err != nil {
		httpserver.Error(w, r, h.logger, err)
		return
	}
	if err := h.service.DeleteEvent(r.Context(), actor, id); err != nil {
		httpserver.Error(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
