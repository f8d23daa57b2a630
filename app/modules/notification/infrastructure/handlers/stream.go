package notificationhandlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	authhandlers "github.com/Black-And-White-Club/pathfinder-club/app/modules/auth/infrastructure/handlers"
	notificationdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/notification/domain"
	"github.com/Black-And-White-Club/pathfinder-club/internal/httpserver"
)

// Stream handles GET /notifications/stream as server-sent events. Every
// notification.created.v1 message addressed to the caller is relayed as a
// "notification" event until the client disconnects.
func (h *NotificationHandlers) Stream(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhandlers.CurrentActor(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	messages, err := h.subscriber.Subscribe(ctx, notificationdomain.TopicNotificationCreatedV1)
	if err != nil {
		httpserver.Error(w, r, h.logger, err)
		return
	}

	rc := http.NewResponseController(w)
	// The server write timeout would otherwise cut the stream.
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
		return
	}
	if err := rc.Flush(); err != nil {
		h.logger.WarnContext(ctx, "Streaming not supported by response writer", slog.Any("error", err))
		return
	}

	logger := h.logger.With(slog.String("user_id", actor.UserID.String()))
	logger.DebugContext(ctx, "Notification stream opened")
	defer logger.DebugContext(ctx, "Notification stream closed")

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	recipient := actor.UserID.String()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		case msg, open := <-messages:
			if !open {
				return
			}
			msg.Ack()
			if msg.Metadata.Get(notificationdomain.MetadataUserID) != recipient {
				continue
			}
			if _, err := fmt.Fprintf(w, "id: %s\nevent: notification\ndata: %s\n\n", msg.UUID, msg.Payload); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}
