package notificationhandlers

import (
	"context"

	notificationservice "github.com/Black-And-White-Club/pathfinder-club/app/modules/notification/application"
	notificationdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/notification/domain"
	notificationdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/notification/infrastructure/repositories"
	"github.com/google/uuid"
)

// FakeService is a programmable fake for notificationservice.Service.
type FakeService struct {
	trace []string

	InboxFunc       func(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]notificationdb.Notification, error)
	MarkReadFunc    func(ctx context.Context, userID, id uuid.UUID) (*notificationdb.Notification, error)
	MarkAllReadFunc func(ctx context.Context, userID uuid.UUID) (int, error)
	UnreadCountFunc func(ctx context.Context, userID uuid.UUID) (int, error)
}

func (f *FakeService) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeService) Trace() []string { return f.trace }

func (f *FakeService) Send(ctx context.Context, userID uuid.UUID, title, body string, severity notificationdomain.Severity) {
	f.record("Send")
}

func (f *FakeService) Inbox(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]notificationdb.Notification, error) {
	f.record("Inbox")
	if f.InboxFunc != nil {
		return f.InboxFunc(ctx, userID, unreadOnly, limit)
	}
	return nil, nil
}

func (f *FakeService) MarkRead(ctx context.Context, userID, id uuid.UUID) (*notificationdb.Notification, error) {
	f.record("MarkRead")
	if f.MarkReadFunc != nil {
		return f.MarkReadFunc(ctx, userID, id)
	}
	return &notificationdb.Notification{ID: id, UserID: userID, Read: true}, nil
}

func (f *FakeService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error) {
	f.record("MarkAllRead")
	if f.MarkAllReadFunc != nil {
		return f.MarkAllReadFunc(ctx, userID)
	}
	return 0, nil
}

func (f *FakeService) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	f.record("UnreadCount")
	if f.UnreadCountFunc != nil {
		return f.UnreadCountFunc(ctx, userID)
	}
	return 0, nil
}

var _ notificationservice.Service = (*FakeService)(nil)
