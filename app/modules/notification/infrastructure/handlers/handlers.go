package notificationhandlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	authhandlers "github.com/Black-And-White-Club/pathfinder-club/app/modules/auth/infrastructure/handlers"
	notificationservice "github.com/Black-And-White-Club/pathfinder-club/app/modules/notification/application"
	notificationdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/notification/domain"
	notificationdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/notification/infrastructure/repositories"
	"github.com/Black-And-White-Club/pathfinder-club/internal/apperr"
	"github.com/Black-And-White-Club/pathfinder-club/internal/eventbus"
	"github.com/Black-And-White-Club/pathfinder-club/internal/httpserver"
	"github.com/google/uuid"
)

const defaultHeartbeat = 25 * time.Second

// NotificationHandlers implements the Handlers interface.
type NotificationHandlers struct {
	service    notificationservice.Service
	subscriber eventbus.Subscriber
	logger     *slog.Logger
	heartbeat  time.Duration
}

// NewNotificationHandlers creates a new NotificationHandlers instance.
func NewNotificationHandlers(service notificationservice.Service, subscriber eventbus.Subscriber, logger *slog.Logger) *NotificationHandlers {
	return &NotificationHandlers{
		service:    service,
		subscriber: subscriber,
		logger:     logger,
		heartbeat:  defaultHeartbeat,
	}
}

// WithHeartbeat overrides the keep-alive interval of the stream.
func (h *NotificationHandlers) WithHeartbeat(d time.Duration) *NotificationHandlers {
	h.heartbeat = d
	return h
}

type notificationResponse struct {
	ID        uuid.UUID                   `json:"id"`
	Title     string                      `json:"title"`
	Body      string                      `json:"body"`
	Severity  notificationdomain.Severity `json:"severity"`
	Read      bool                        `json:"read"`
	CreatedAt time.Time                   `json:"created_at"`
	ReadAt    *time.Time                  `json:"read_at,omitempty"`
}

func toResponse(n *notificationdb.Notification) notificationResponse {
	return notificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Body:      n.Body,
		Severity:  n.Severity,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
		ReadAt:    n.ReadAt,
	}
}

// List handles GET /notifications.
func (h *NotificationHandlers) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhandlers.CurrentActor(w, r)
	if !ok {
		return
	}
	limit, err := httpserver.IntQuery(r, "limit", 0)
	if err != nil {
		httpserver.Error(w, r, h.logger, err)
		return
	}
	unreadOnly := false
	if v := r.URL.Query().Get("unread"); v != "" {
		if unreadOnly, err = strconv.ParseBool(v); err != nil {
			httpserver.Error(w, r, h.logger, apperr.Invalid("query parameter unread must be a boolean"))
			return
		}
	}

	list, err := h.service.Inbox(r.Context(), actor.UserID, unreadOnly, limit)
	if err != nil {
		httpserver.Error(w, r, h.logger, err)
		return
	}
	out := make([]notificationResponse, 0, len(list))
	for i := range list {
		out = append(out, toResponse(&list[i]))
	}
	httpserver.JSON(w, http.StatusOK, out)
}

// UnreadCount handles GET /notifications/unread-count.
func (h *NotificationHandlers) UnreadCount(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhandlers.CurrentActor(w, r)
	if !ok {
		return
	}
	n, err := h.service.UnreadCount(r.Context(), actor.UserID)
	if err != nil {
		httpserver.Error(w, r, h.logger, err)
		return
	}
	httpserver.JSON(w, http.StatusOK, map[string]int{"unread": n})
}

// MarkRead handles POST /notifications/{id}/read.
func (h *NotificationHandlers) MarkRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhandlers.CurrentActor(w, r)
	if !ok {
		return
	}
	id, err := httpserver.UUIDParam(r, "id")
	if err != nil {
		httpserver.Error(w, r, h.logger, err)
		return
	}
	n, err := h.service.MarkRead(r.Context(), actor.UserID, id)
	if err != nil {
		httpserver.Error(w, r, h.logger, err)
		return
	}
	httpserver.JSON(w, http.StatusOK, toResponse(n))
}

// MarkAllRead handles POST /notifications/read-all.
func (h *NotificationHandlers) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhandlers.CurrentActor(w, r)
	if !ok {
		return
	}
	n, err := h.service.MarkAllRead(r.Context(), actor.UserID)
	if err != nil {
		httpserver.Error(w, r, h.logger, err)
		return
	}
	httpserver.JSON(w, http.StatusOK, map[string]int{"updated": n})
}
