package pointsrouter

import (
	authhandlers "github.com/Black-And-White-Club/pathfinder-club/app/modules/auth/infrastructure/handlers"
	pointshandlers "github.com/Black-And-White-Club/pathfinder-club/app/modules/points/infrastructure/handlers"
	"github.com/go-chi/chi/v5"
)

// Mount registers the points routes on an authenticated router.
func Mount(r chi.Router, h pointshandlers.Handlers) {
	r.Route("/points", func(r chi.Router) {
		r.Get("/me", h.Me)
		r.Get("/ranking", h.Ranking)
		r.Get("/users/{id}", h.UserPoints)
		r.Get("/users/{id}/chart.png", h.UserChart)
		r.With(authhandlers.RequireStaff).Post("/users/{id}/adjust", h.Adjust)
	})
}
