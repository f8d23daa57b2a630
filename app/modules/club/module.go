package club

import (
	"log/slog"

	clubservice "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/application"
	clubhandlers "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/infrastructure/handlers"
	clubdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/infrastructure/repositories"
	clubrouter "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/infrastructure/router"
	"github.com/Black-And-White-Club/pathfinder-club/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// Module represents the club module.
type Module struct {
	Repo     clubdb.Repository
	Service  *clubservice.ClubService
	handlers clubhandlers.Handlers
}

// NewClubModule creates and initializes a new club module.
func NewClubModule(
	db *bun.DB,
	logger *slog.Logger,
	m metrics.OperationMetrics,
	tracer trace.Tracer,
) *Module {
	logger.Info("club.NewClubModule initializing")

	repo := clubdb.NewRepository(db)
	service := clubservice.NewClubService(repo, logger, m, tracer, db)

	return &Module{
		Repo:     repo,
		Service:  service,
		handlers: clubhandlers.NewClubHandlers(service, logger),
	}
}

// Mount registers the module's routes on an authenticated router.
func (m *Module) Mount(r chi.Router) {
	clubrouter.Mount(r, m.handlers)
}
