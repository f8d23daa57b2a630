package event

import (
	"log/slog"
	"time"

	clubdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/infrastructure/repositories"
	eventservice "github.com/Black-And-White-Club/pathfinder-club/app/modules/event/application"
	eventdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/event/domain"
	eventhandlers "github.com/Black-And-White-Club/pathfinder-club/app/modules/event/infrastructure/handlers"
	eventqueue "github.com/Black-And-White-Club/pathfinder-club/app/modules/event/infrastructure/queue"
	eventdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/event/infrastructure/repositories"
	eventrouter "github.com/Black-And-White-Club/pathfinder-club/app/modules/event/infrastructure/router"
	notificationservice "github.com/Black-And-White-Club/pathfinder-club/app/modules/notification/application"
	"github.com/Black-And-White-Club/pathfinder-club/internal/eventbus"
	"github.com/Black-And-White-Club/pathfinder-club/internal/metrics"
	"github.com/Black-And-White-Club/pathfinder-club/internal/queue"
	"github.com/go-chi/chi/v5"
	"github.com/riverqueue/river"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// Module represents the event module.
type Module struct {
	Service  *eventservice.EventService
	handlers eventhandlers.Handlers
}

// NewEventModule creates the module and registers its reminder worker. It
// must run before the queue is opened.
func NewEventModule(
	db *bun.DB,
	q *queue.Service,
	clubRepo clubdb.Repository,
	notifier notificationservice.Notifier,
	publisher eventbus.Publisher,
	reminderLead time.Duration,
	logger *slog.Logger,
	m metrics.OperationMetrics,
	tracer trace.Tracer,
) *Module {
	logger.Info("event.NewEventModule initializing")

	repo := eventdb.NewRepository(db)
	river.AddWorker(q.Workers(), eventqueue.NewReminderWorker(repo, clubRepo, notifier, logger))

	service := eventservice.NewEventService(repo, q, publisher, eventdomain.SystemClock{}, reminderLead, logger, m, tracer, db)
	return &Module{
		Service:  service,
		handlers: eventhandlers.NewEventHandlers(service, logger),
	}
}

// Mount registers the module's routes on an authenticated router.
func (m *Module) Mount(r chi.Router) {
	eventrouter.Mount(r, m.handlers)
}
