package notificationservice

import (
	"context"

	notificationdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/notification/domain"
	notificationdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/notification/infrastructure/repositories"
	"github.com/google/uuid"
)

// Notifier is the fire-and-forget surface other modules depend on.
type Notifier interface {
	// Send queues a notification. Failures are logged, never returned.
	Send(ctx context.Context, userID uuid.UUID, title, body string, severity notificationdomain.Severity)
}

// Service is the notification inbox API.
type Service interface {
	Notifier
	Inbox(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]notificationdb.Notification, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) (*notificationdb.Notification, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
}
