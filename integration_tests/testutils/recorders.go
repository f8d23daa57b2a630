//go:build integration

package testutils

import (
	"context"
	"sync"

	notificationdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/notification/domain"
	"github.com/google/uuid"
)

// Notification is one captured Send call.
type Notification struct {
	UserID   uuid.UUID
	Title    string
	Severity notificationdomain.Severity
}

// RecordingNotifier captures notifications instead of queueing them.
type RecordingNotifier struct {
	mu   sync.Mutex
	sent []Notification
}

func (n *RecordingNotifier) Send(ctx context.Context, userID uuid.UUID, title, body string, severity notificationdomain.Severity) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, Notification{UserID: userID, Title: title, Severity: severity})
}

// Sent returns a copy of the captured notifications.
func (n *RecordingNotifier) Sent() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.sent...)
}

// Titled returns the captured notifications with the given title.
func (n *RecordingNotifier) Titled(title string) []Notification {
	var out []Notification
	for _, s := range n.Sent() {
		if s.Title == title {
			out = append(out, s)
		}
	}
	return out
}
