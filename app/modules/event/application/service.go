package eventservice

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	clubdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/domain"
	eventdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/event/domain"
	eventqueue "github.com/Black-And-White-Club/pathfinder-club/app/modules/event/infrastructure/queue"
	eventdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/event/infrastructure/repositories"
	"github.com/Black-And-White-Club/pathfinder-club/internal/apperr"
	"github.com/Black-And-White-Club/pathfinder-club/internal/eventbus"
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
	defaultListLimit = 20
	maxListLimit     = 100
	reminderAttempts = 3
)

// EventService implements the Service interface.
type EventService struct {
	repo         eventdb.Repository
	enqueuer     queue.Enqueuer
	publisher    eventbus.Publisher
	logger       *slog.Logger
	op           *operation.Runner
	clock        eventdomain.Clock
	parser       *eventdomain.StartParser
	reminderLead time.Duration
}

var _ Service = (*EventService)(nil)

// NewEventService creates a new EventService.
func NewEventService(
	repo eventdb.Repository,
	enqueuer queue.Enqueuer,
	publisher eventbus.Publisher,
	clock eventdomain.Clock,
	reminderLead time.Duration,
	logger *slog.Logger,
	m metrics.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *EventService {
	op := operation.NewRunner("EventService", logger, m, tracer, db)
	return &EventService{
		repo:         repo,
		enqueuer:     enqueuer,
		publisher:    publisher,
		logger:       op.Logger,
		op:           op,
		clock:        clock,
		parser:       eventdomain.NewStartParser(clock),
		reminderLead: reminderLead,
	}
}

type eventResult = results.OperationResult[*eventdb.Event, error]

// CreateEvent schedules a club event and its reminder.
func (s *EventService) CreateEvent(ctx context.Context, actor clubdomain.Actor, in NewEvent) (*eventdb.Event, error) {
	event, err := operation.Unwrap(operation.Run(s.op, ctx, "CreateEvent", actor.ClubID.String(), func(ctx context.Context, db bun.IDB) (eventResult, error) {
		if !actor.HasClub() || !actor.Role.IsStaff() {
			return results.FailureResult[*eventdb.Event, error](apperr.Forbidden("staff role required")), nil
		}
		title := strings.TrimSpace(in.Title)
		if title == "" {
			return results.FailureResult[*eventdb.Event, error](apperr.Invalid("title is required")), nil
		}
		start, err := s.parser.Parse(in.When, in.Timezone)
		if err != nil {
			return results.FailureResult[*eventdb.Event, error](apperr.Wrap(apperr.KindInvalid, err, "invalid start time")), nil
		}
		loc, _ := eventdomain.LoadTimezone(in.Timezone)

		createdBy := actor.UserID
		event := &eventdb.Event{
			ClubID:      actor.ClubID,
			Title:       title,
			Description: strings.TrimSpace(in.Description),
			Location:    strings.TrimSpace(in.Location),
			StartsAt:    start,
			Timezone:    loc.String(),
			CreatedBy:   &createdBy,
		}
		if err := s.repo.Create(ctx, db, event); err != nil {
			return eventResult{}, err
		}
		return results.SuccessResult[*eventdb.Event, error](event), nil
	}))
	if err != nil {
		return nil, err
	}

	s.scheduleReminder(ctx, event)
	s.announce(ctx, event, actor)
	return event, nil
}

// scheduleReminder runs after commit. A lost reminder does not undo the event.
func (s *EventService) scheduleReminder(ctx context.Context, event *eventdb.Event) {
	at, ok := eventdomain.ReminderAt(event.StartsAt, s.reminderLead, s.clock.Now())
	if !ok {
		s.logger.InfoContext(ctx, "Reminder time already passed, not scheduling",
			slog.String("event_id", event.ID.String()),
		)
		return
	}
	args := eventqueue.ReminderArgs{EventID: event.ID, ClubID: event.ClubID, StartsAt: event.StartsAt}
	if _, err := s.enqueuer.Insert(ctx, args, &river.InsertOpts{
		Queue:       queue.QueueReminders,
		ScheduledAt: at,
		MaxAttempts: reminderAttempts,
		UniqueOpts:  river.UniqueOpts{ByArgs: true},
	}); err != nil {
		s.logger.ErrorContext(ctx, "Failed to schedule event reminder",
			slog.String("event_id", event.ID.String()),
			slog.Any("error", err),
		)
	}
}

func (s *EventService) announce(ctx context.Context, event *eventdb.Event, actor clubdomain.Actor) {
	if s.publisher == nil {
		return
	}
	payload := eventdomain.EventCreatedPayloadV1{
		EventID:   event.ID,
		ClubID:    event.ClubID,
		Title:     event.Title,
		StartsAt:  event.StartsAt,
		CreatedBy: actor.UserID,
	}
	if err := s.publisher.Publish(ctx, eventdomain.TopicEventCreatedV1, payload, map[string]string{
		"club_id": event.ClubID.String(),
	}); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish event created",
			slog.String("event_id", event.ID.String()),
			slog.Any("error", err),
		)
	}
}

// ListUpcoming returns the caller's club events that have not started.
func (s *EventService) ListUpcoming(ctx context.Context, actor clubdomain.Actor, limit int) ([]eventdb.Event, error) {
	return operation.Unwrap(operation.Run(s.op, ctx, "ListUpcoming", actor.ClubID.String(), func(ctx context.Context, db bun.IDB) (results.OperationResult[[]eventdb.Event, error], error) {
		if !actor.HasClub() {
			return results.FailureResult[[]eventdb.Event, error](apperr.Forbidden("club membership required")), nil
		}
		if limit <= 0 {
			limit = defaultListLimit
		}
		limit = min(limit, maxListLimit)
		events, err := s.repo.ListUpcoming(ctx, db, actor.ClubID, s.clock.Now(), limit)
		if err != nil {
			return results.OperationResult[[]eventdb.Event, error]{}, err
		}
		if events == nil {
			events = []eventdb.Event{}
		}
		return results.SuccessResult[[]eventdb.Event, error](events), nil
	}))
}

// GetEvent returns an event of the caller's club. Other clubs' events are
// reported as missing.
func (s *EventService) GetEvent(ctx context.Context, actor clubdomain.Actor, id uuid.UUID) (*eventdb.Event, error) {
	return operation.Unwrap(operation.Run(s.op, ctx, "GetEvent", id.String(), func(ctx context.Context, db bun.IDB) (eventResult, error) {
		event, err := s.clubEvent(ctx, db, actor, id)
		if err != nil {
			return operation.Classify[*eventdb.Event](err)
		}
		return results.SuccessResult[*eventdb.Event, error](event), nil
	}))
}

// DeleteEvent removes an event and cancels its pending reminder.
func (s *EventService) DeleteEvent(ctx context.Context, actor clubdomain.Actor, id uuid.UUID) error {
	_, err := operation.Unwrap(operation.Run(s.op, ctx, "DeleteEvent", id.String(), func(ctx context.Context, db bun.IDB) (eventResult, error) {
		event, err := s.clubEvent(ctx, db, actor, id)
		if err != nil {
			return operation.Classify[*eventdb.Event](err)
		}
		if !actor.IsStaffOf(event.ClubID) {
			return results.FailureResult[*eventdb.Event, error](apperr.Forbidden("staff role required")), nil
		}
		if err := s.repo.Delete(ctx, db, id); err != nil {
			if errors.Is(err, eventdb.ErrNotFound) {
				return results.FailureResult[*eventdb.Event, error](apperr.NotFound("event %s not found", id)), nil
			}
			return eventResult{}, err
		}
		return results.SuccessResult[*eventdb.Event, error](event), nil
	}))
	if err != nil {
		return err
	}

	if _, err := s.enqueuer.CancelByArg(ctx, []string{eventqueue.ReminderArgs{}.Kind()}, eventqueue.ReminderArgKey, id.String()); err != nil {
		s.logger.WarnContext(ctx, "Failed to cancel event reminder",
			slog.String("event_id", id.String()),
			slog.Any("error", err),
		)
	}
	return nil
}

func (s *EventService) clubEvent(ctx context.Context, db bun.IDB, actor clubdomain.Actor, id uuid.UUID) (*eventdb.Event, error) {
	event, err := s.repo.Get(ctx, db, id)
	if err != nil {
		if errors.Is(err, eventdb.ErrNotFound) {
			return nil, apperr.NotFound("event %s not found", id)
		}
		return nil, err
	}
	if !actor.InClub(event.ClubID) {
		return nil, apperr.NotFound("event %s not found", id)
	}
	return event, nil
}
