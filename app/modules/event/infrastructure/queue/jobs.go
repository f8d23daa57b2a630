package eventqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	clubdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/infrastructure/repositories"
	eventdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/event/infrastructure/repositories"
	notificationservice "github.com/Black-And-White-Club/pathfinder-club/app/modules/notification/application"
	notificationdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/notification/domain"
	"github.com/google/uuid"
	"github.com/riverqueue/river"
)

// ReminderArgKey is the JSON key reminders are cancelled by.
const ReminderArgKey = "event_id"

// ReminderArgs schedules the reminder for one event.
type ReminderArgs struct {
	EventID  uuid.UUID `json:"event_id"`
	ClubID   uuid.UUID `json:"club_id"`
	StartsAt time.Time `json:"starts_at"`
}

// Kind returns the job type identifier for River.
func (ReminderArgs) Kind() string { return "event_reminder" }

// ReminderWorker tells every club member about an upcoming event.
type ReminderWorker struct {
	river.WorkerDefaults[ReminderArgs]

	repo     eventdb.Repository
	clubRepo clubdb.Repository
	notifier notificationservice.Notifier
	logger   *slog.Logger
}

// NewReminderWorker creates a ReminderWorker.
func NewReminderWorker(repo eventdb.Repository, clubRepo clubdb.Repository, notifier notificationservice.Notifier, logger *slog.Logger) *ReminderWorker {
	return &ReminderWorker{repo: repo, clubRepo: clubRepo, notifier: notifier, logger: logger}
}

// Work sends the reminders. A deleted event ends the job quietly.
func (w *ReminderWorker) Work(ctx context.Context, job *river.Job[ReminderArgs]) error {
	args := job.Args
	logger := w.logger.With(
		slog.Int64("job_id", job.ID),
		slog.Int("attempt", job.Attempt),
		slog.String("event_id", args.EventID.String()),
	)

	event, err := w.repo.Get(ctx, nil, args.EventID)
	if err != nil {
		if errors.Is(err, eventdb.ErrNotFound) {
			logger.InfoContext(ctx, "Event no longer exists, skipping reminder")
			return nil
		}
		return fmt.Errorf("failed to load event: %w", err)
	}
	if !event.StartsAt.Equal(args.StartsAt) {
		logger.InfoContext(ctx, "Event was rescheduled, skipping stale reminder")
		return nil
	}

	members, err := w.clubRepo.ListClubMembers(ctx, nil, event.ClubID)
	if err != nil {
		return fmt.Errorf("failed to list club members: %w", err)
	}

	body := reminderBody(event)
	for _, m := range members {
		w.notifier.Send(ctx, m.ID, "Upcoming: "+event.Title, body, notificationdomain.SeverityInfo)
	}
	logger.InfoContext(ctx, "Event reminders sent", slog.Int("recipients", len(members)))
	return nil
}

func reminderBody(e *eventdb.Event) string {
	start := e.StartsAt
	if loc, err := time.LoadLocation(e.Timezone); err == nil {
		start = start.In(loc)
	}
	body := "Starts " + start.Format("Mon Jan 2, 15:04 MST")
	if e.Location != "" {
		body += " at " + e.Location
	}
	return body + "."
}
