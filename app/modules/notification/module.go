package notification

import (
	"log/slog"

	notificationservice "github.com/Black-And-White-Club/pathfinder-club/app/modules/notification/application"
	notificationhandlers "github.com/Black-And-White-Club/pathfinder-club/app/modules/notification/infrastructure/handlers"
	notificationqueue "github.com/Black-And-White-Club/pathfinder-club/app/modules/notification/infrastructure/queue"
	notificationdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/notification/infrastructure/repositories"
	notificationrouter "github.com/Black-And-White-Club/pathfinder-club/app/modules/notification/infrastructure/router"
	"github.com/Black-And-White-Club/pathfinder-club/internal/eventbus"
	"github.com/Black-And-White-Club/pathfinder-club/internal/metrics"
	"github.com/Black-And-White-Club/pathfinder-club/internal/queue"
	"github.com/go-chi/chi/v5"
	"github.com/riverqueue/river"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// Module represents the notification module.
type Module struct {
	Service  *notificationservice.NotificationService
	handlers notificationhandlers.Handlers
}

// NewNotificationModule creates the module and registers its delivery
// worker. It must run before the queue is opened.
func NewNotificationModule(
	db *bun.DB,
	q *queue.Service,
	bus eventbus.EventBus,
	maxAttempts int,
	logger *slog.Logger,
	m metrics.OperationMetrics,
	tracer trace.Tracer,
) *Module {
	logger.Info("notification.NewNotificationModule initializing")

	repo := notificationdb.NewRepository(db)
	river.AddWorker(q.Workers(), notificationqueue.NewDeliverWorker(repo, bus, logger))

	service := notificationservice.NewNotificationService(repo, q, maxAttempts, logger, m, tracer, db)
	return &Module{
		Service:  service,
		handlers: notificationhandlers.NewNotificationHandlers(service, bus, logger),
	}
}

// Mount registers the module's routes on an authenticated router.
func (m *Module) Mount(r chi.Router) {
	notificationrouter.Mount(r, m.handlers)
}
