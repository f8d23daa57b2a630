package notificationservice

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	notificationdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/notification/domain"
	notificationqueue "github.com/Black-And-White-Club/pathfinder-club/app/modules/notification/infrastructure/queue"
	notificationdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/notification/infrastructure/repositories"
	"github.com/Black-And-White-Club/pathfinder-club/internal/apperr"
	"github.com/Black-And-White-Club/pathfinder-club/internal/metrics"
	"github.com/Black-And-White-Club/pathfinder-club/internal/operation"
	"github.com/Black-And-White-Club/pathfinder-club/internal/queue"
	"github.com/Black-And-White-Club/pathfinder-club/internal/results"
	"github.com/google/uuid"
	"github.com/riverqueue/river"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultInboxLimit = 50
	maxInboxLimit     = 200
)

// NotificationService implements the Service interface.
type NotificationService struct {
	repo     notificationdb.Repository
	enqueuer queue.Enqueuer
	logger   *slog.Logger
	op       *operation.Runner
	now      func() time.Time

	maxAttempts int
}

var _ Service = (*NotificationService)(nil)

// NewNotificationService creates a new NotificationService.
func NewNotificationService(
	repo notificationdb.Repository,
	enqueuer queue.Enqueuer,
	maxAttempts int,
	logger *slog.Logger,
	m metrics.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *NotificationService {
	if maxAttempts <= 0 {
		maxAttempts = notificationqueue.MaxDeliveryAttempts
	}
	op := operation.NewRunner("NotificationService", logger, m, tracer, db)
	return &NotificationService{
		repo:        repo,
		enqueuer:    enqueuer,
		logger:      op.Logger,
		op:          op,
		now:         func() time.Time { return time.Now().UTC() },
		maxAttempts: maxAttempts,
	}
}

// Send queues a notification_deliver job.
func (s *NotificationService) Send(ctx context.Context, userID uuid.UUID, title, body string, severity notificationdomain.Severity) {
	logger := s.logger.With(
		slog.String("user_id", userID.String()),
		slog.String("title", title),
	)
	if userID == uuid.Nil || strings.TrimSpace(title) == "" {
		logger.WarnContext(ctx, "Dropping notification without recipient or title")
		return
	}
	if !severity.IsValid() {
		severity = notificationdomain.SeverityInfo
	}

	args := notificationqueue.DeliverArgs{
		NotificationID: uuid.New(),
		UserID:         userID,
		Title:          strings.TrimSpace(title),
		Body:           body,
		Severity:       severity,
		RequestedAt:    s.now(),
	}
	if _, err := s.enqueuer.Insert(ctx, args, &river.InsertOpts{
		Queue:       queue.QueueNotifications,
		MaxAttempts: s.maxAttempts,
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to enqueue notification", slog.Any("error", err))
		return
	}
	logger.DebugContext(ctx, "Notification enqueued", slog.String("notification_id", args.NotificationID.String()))
}

// Inbox lists the member's notifications, newest first.
func (s *NotificationService) Inbox(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]notificationdb.Notification, error) {
	switch {
	case limit <= 0:
		limit = defaultInboxLimit
	case limit > maxInboxLimit:
		limit = maxInboxLimit
	}
	return operation.Unwrap(operation.Run(s.op, ctx, "Inbox", userID.String(), func(ctx context.Context, db bun.IDB) (results.OperationResult[[]notificationdb.Notification, error], error) {
		list, err := s.repo.List(ctx, db, userID, unreadOnly, limit)
		if err != nil {
			return results.OperationResult[[]notificationdb.Notification, error]{}, err
		}
		return results.SuccessResult[[]notificationdb.Notification, error](list), nil
	}))
}

// MarkRead flags one notification. Another member's id reads as not found.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id uuid.UUID) (*notificationdb.Notification, error) {
	return operation.Unwrap(operation.Run(s.op, ctx, "MarkRead", id.String(), func(ctx context.Context, db bun.IDB) (results.OperationResult[*notificationdb.Notification, error], error) {
		n, err := s.repo.MarkRead(ctx, db, userID, id)
		if err != nil {
			if errors.Is(err, notificationdb.ErrNotFound) {
				return results.FailureResult[*notificationdb.Notification, error](apperr.NotFound("notification %s not found", id)), nil
			}
			return results.OperationResult[*notificationdb.Notification, error]{}, err
		}
		return results.SuccessResult[*notificationdb.Notification, error](n), nil
	}))
}

// MarkAllRead flags every unread notification of the member.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error) {
	return operation.Unwrap(operation.Run(s.op, ctx, "MarkAllRead", userID.String(), func(ctx context.Context, db bun.IDB) (results.OperationResult[int, error], error) {
		n, err := s.repo.MarkAllRead(ctx, db, userID)
		if err != nil {
			return results.OperationResult[int, error]{}, err
		}
		return results.SuccessResult[int, error](n), nil
	}))
}

// UnreadCount counts the member's unread notifications.
func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return operation.Unwrap(operation.Run(s.op, ctx, "UnreadCount", userID.String(), func(ctx context.Context, db bun.IDB) (results.OperationResult[int, error], error) {
		n, err := s.repo.CountUnread(ctx, db, userID)
		if err != nil {
			return results.OperationResult[int, error]{}, err
		}
		return results.SuccessResult[int, error](n), nil
	}))
}
