package notificationqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	notificationdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/notification/domain"
	notificationdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/notification/infrastructure/repositories"
	"github.com/Black-And-White-Club/pathfinder-club/internal/eventbus"
	"github.com/google/uuid"
	"github.com/riverqueue/river"
)

// MaxDeliveryAttempts bounds retries of a failed delivery when no limit is configured.
const MaxDeliveryAttempts = 3

// DeliverArgs is a queued notification. The id is fixed at enqueue time so a
// retried job writes the same row.
type DeliverArgs struct {
	NotificationID uuid.UUID                   `json:"notification_id"`
	UserID         uuid.UUID                   `json:"user_id"`
	Title          string                      `json:"title"`
	Body           string                      `json:"body"`
	Severity       notificationdomain.Severity `json:"severity"`
	RequestedAt    time.Time                   `json:"requested_at"`
}

// Kind returns the job type identifier for River.
func (DeliverArgs) Kind() string { return "notification_deliver" }

// DeliverWorker stores the notification and announces it on the bus.
type DeliverWorker struct {
	river.WorkerDefaults[DeliverArgs]

	repo      notificationdb.Repository
	publisher eventbus.Publisher
	logger    *slog.Logger
}

// NewDeliverWorker creates a DeliverWorker.
func NewDeliverWorker(repo notificationdb.Repository, publisher eventbus.Publisher, logger *slog.Logger) *DeliverWorker {
	return &DeliverWorker{repo: repo, publisher: publisher, logger: logger}
}

// Work runs one delivery.
func (w *DeliverWorker) Work(ctx context.Context, job *river.Job[DeliverArgs]) error {
	args := job.Args
	logger := w.logger.With(
		slog.Int64("job_id", job.ID),
		slog.Int("attempt", job.Attempt),
		slog.String("notification_id", args.NotificationID.String()),
		slog.String("user_id", args.UserID.String()),
	)

	n := &notificationdb.Notification{
		ID:        args.NotificationID,
		UserID:    args.UserID,
		Title:     args.Title,
		Body:      args.Body,
		Severity:  args.Severity,
		CreatedAt: args.RequestedAt,
	}
	if err := w.repo.Create(ctx, nil, n); err != nil {
		logger.ErrorContext(ctx, "Failed to store notification", slog.Any("error", err))
		return fmt.Errorf("failed to store notification: %w", err)
	}

	payload := notificationdomain.NotificationCreatedPayloadV1{
		ID:        n.ID,
		UserID:    n.UserID,
		Title:     n.Title,
		Body:      n.Body,
		Severity:  n.Severity,
		CreatedAt: n.CreatedAt,
	}
	if err := w.publisher.Publish(ctx, notificationdomain.TopicNotificationCreatedV1, payload, map[string]string{
		notificationdomain.MetadataUserID: n.UserID.String(),
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to publish notification created event", slog.Any("error", err))
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	logger.DebugContext(ctx, "Notification delivered")
	return nil
}
