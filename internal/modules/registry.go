// Package modules builds the application modules in dependency order.
package modules

import (
	"log/slog"

	"github.com/Black-And-White-Club/pathfinder-club/app/modules/auth"
	"github.com/Black-And-White-Club/pathfinder-club/app/modules/club"
	"github.com/Black-And-White-Club/pathfinder-club/app/modules/event"
	"github.com/Black-And-White-Club/pathfinder-club/app/modules/notification"
	"github.com/Black-And-White-Club/pathfinder-club/app/modules/points"
	"github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty"
	"github.com/Black-And-White-Club/pathfinder-club/config"
	"github.com/Black-And-White-Club/pathfinder-club/internal/eventbus"
	"github.com/Black-And-White-Club/pathfinder-club/internal/metrics"
	"github.com/Black-And-White-Club/pathfinder-club/internal/queue"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// Module is a feature module exposing REST routes.
type Module interface {
	Mount(r chi.Router)
}

// Registry stores the application modules.
type Registry struct {
	Auth         *auth.Module
	Club         *club.Module
	Points       *points.Module
	Notification *notification.Module
	Specialty    *specialty.Module
	Event        *event.Module
}

// Deps are the shared resources every module draws from.
type Deps struct {
	Config  *config.Config
	DB      *bun.DB
	Bus     eventbus.EventBus
	Queue   *queue.Service
	Logger  *slog.Logger
	Metrics metrics.OperationMetrics
	Tracer  trace.Tracer
}

// NewRegistry initializes every module. Queue workers are registered here,
// so it must run before the queue is opened.
func NewRegistry(d Deps) *Registry {
	clubModule := club.NewClubModule(d.DB, d.Logger, d.Metrics, d.Tracer)
	notificationModule := notification.NewNotificationModule(
		d.DB, d.Queue, d.Bus, d.Config.Queue.NotificationMaxAttempts, d.Logger, d.Metrics, d.Tracer,
	)
	pointsModule := points.NewPointsModule(d.DB, clubModule.Repo, d.Bus, d.Logger, d.Metrics, d.Tracer)

	return &Registry{
		Auth:         auth.NewModule(d.Config, clubModule.Service, d.Logger, d.Tracer),
		Club:         clubModule,
		Points:       pointsModule,
		Notification: notificationModule,
		Specialty: specialty.NewSpecialtyModule(
			d.DB, clubModule.Repo, pointsModule.Service, notificationModule.Service, d.Bus, d.Logger, d.Metrics, d.Tracer,
		),
		Event: event.NewEventModule(
			d.DB, d.Queue, clubModule.Repo, notificationModule.Service, d.Bus, d.Config.Queue.ReminderLead, d.Logger, d.Metrics, d.Tracer,
		),
	}
}

// Routed lists the modules with REST routes, in mount order.
func (r *Registry) Routed() []Module {
	return []Module{r.Club, r.Points, r.Notification, r.Specialty, r.Event}
}
