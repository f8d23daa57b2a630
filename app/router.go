package app

import (
	"log/slog"
	"net/http"

	"github.com/Black-And-White-Club/pathfinder-club/internal/httpserver"
	"github.com/go-chi/chi/v5"
)

func (a *App) newRouter() http.Handler {
	r := httpserver.NewRouter(a.Logger, a.Metrics.Handler(), map[string]httpserver.HealthFunc{
		"postgres": a.DB.PingContext,
		"queue":    a.Queue.HealthCheck,
	})

	r.Group(func(r chi.Router) {
		for _, mw := range a.Modules.Auth.Edge() {
			r.Use(mw)
		}
		r.Use(a.Modules.Auth.Authenticate())

		for _, module := range a.Modules.Routed() {
			a.Logger.Debug("Mounting module routes", slog.String("module", moduleName(module)))
			module.Mount(r)
		}
	})
	return r
}

func (a *App) newServer() *httpserver.Server {
	return httpserver.New(httpserver.Options{
		Address:      a.Config.HTTP.Address,
		ReadTimeout:  a.Config.HTTP.ReadTimeout,
		WriteTimeout: a.Config.HTTP.WriteTimeout,
	}, a.Router, a.Logger)
}
