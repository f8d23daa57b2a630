package specialty

import (
	"log/slog"

	clubdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/infrastructure/repositories"
	notificationservice "github.com/Black-And-White-Club/pathfinder-club/app/modules/notification/application"
	pointsservice "github.com/Black-And-White-Club/pathfinder-club/app/modules/points/application"
	specialtyservice "github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty/application"
	specialtyhandlers "github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty/infrastructure/handlers"
	specialtydb "github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty/infrastructure/repositories"
	specialtyrouter "github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty/infrastructure/router"
	"github.com/Black-And-White-Club/pathfinder-club/internal/eventbus"
	"github.com/Black-And-White-Club/pathfinder-club/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// Module represents the specialty module.
type Module struct {
	Service  *specialtyservice.SpecialtyService
	handlers specialtyhandlers.Handlers
}

// NewSpecialtyModule creates and initializes a new specialty module.
func NewSpecialtyModule(
	db *bun.DB,
	clubRepo clubdb.Repository,
	ledger pointsservice.Ledger,
	notifier notificationservice.Notifier,
	publisher eventbus.Publisher,
	logger *slog.Logger,
	m metrics.OperationMetrics,
	tracer trace.Tracer,
) *Module {
	logger.Info("specialty.NewSpecialtyModule initializing")

	service := specialtyservice.NewSpecialtyService(
		specialtydb.NewRepository(db), clubRepo, ledger, notifier, publisher, logger, m, tracer, db,
	)
	return &Module{
		Service:  service,
		handlers: specialtyhandlers.NewSpecialtyHandlers(service, logger),
	}
}

// Mount registers the module's routes on an authenticated router.
func (m *Module) Mount(r chi.Router) {
	specialtyrouter.Mount(r, m.handlers)
}
