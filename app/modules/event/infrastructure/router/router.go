package eventrouter

import (
	authhandlers "github.com/Black-And-White-Club/pathfinder-club/app/modules/auth/infrastructure/handlers"
	eventhandlers "github.com/Black-And-White-Club/pathfinder-club/app/modules/event/infrastructure/handlers"
	"github.com/go-chi/chi/v5"
)

// Mount registers the event routes on an authenticated router.
func Mount(r chi.Router, h eventhandlers.Handlers) {
	r.Route("/events", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(authhandlers.RequireStaff)
			r.Post("/", h.Create)
			r.Delete("/{id}", h.Delete)
		})
	})
}
