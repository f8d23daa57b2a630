package notificationdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for the notification inbox.
type Repository interface {
	// Create stores a notification. Re-inserting an existing id is a no-op so
	// a retried delivery job does not duplicate the row.
	Create(ctx context.Context, db bun.IDB, n *Notification) error

	// List returns a member's notifications, newest first. limit <= 0 means all.
	List(ctx context.Context, db bun.IDB, userID uuid.UUID, unreadOnly bool, limit int) ([]Notification, error)

	// MarkRead flags one of the member's notifications as read.
	MarkRead(ctx context.Context, db bun.IDB, userID, id uuid.UUID) (*Notification, error)

	// MarkAllRead flags every unread notification of the member and returns how many changed.
	MarkAllRead(ctx context.Context, db bun.IDB, userID uuid.UUID) (int, error)

	// CountUnread counts the member's unread notifications.
	CountUnread(ctx context.Context, db bun.IDB, userID uuid.UUID) (int, error)
}
