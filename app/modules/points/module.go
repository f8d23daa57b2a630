package points

import (
	"log/slog"

	clubdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/infrastructure/repositories"
	pointsservice "github.com/Black-And-White-Club/pathfinder-club/app/modules/points/application"
	pointshandlers "github.com/Black-And-White-Club/pathfinder-club/app/modules/points/infrastructure/handlers"
	pointsdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/points/infrastructure/repositories"
	pointsrouter "github.com/Black-And-White-Club/pathfinder-club/app/modules/points/infrastructure/router"
	"github.com/Black-And-White-Club/pathfinder-club/internal/eventbus"
	"github.com/Black-And-White-Club/pathfinder-club/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// Module represents the points module.
type Module struct {
	Service  *pointsservice.PointsService
	handlers pointshandlers.Handlers
}

// NewPointsModule creates and initializes a new points module.
func NewPointsModule(
	db *bun.DB,
	clubRepo clubdb.Repository,
	publisher eventbus.Publisher,
	logger *slog.Logger,
	m metrics.OperationMetrics,
	tracer trace.Tracer,
) *Module {
	logger.Info("points.NewPointsModule initializing")

	service := pointsservice.NewPointsService(pointsdb.NewRepository(db), clubRepo, publisher, logger, m, tracer, db)
	return &Module{
		Service:  service,
		handlers: pointshandlers.NewPointsHandlers(service, logger),
	}
}

// Mount registers the module's routes on an authenticated router.
func (m *Module) Mount(r chi.Router) {
	pointsrouter.Mount(r, m.handlers)
}
