package specialtyrouter

import (
	authhandlers "github.com/Black-And-White-Club/pathfinder-club/app/modules/auth/infrastructure/handlers"
	specialtyhandlers "github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty/infrastructure/handlers"
	"github.com/go-chi/chi/v5"
)

// Mount registers the specialty routes on an authenticated router.
func Mount(r chi.Router, h specialtyhandlers.Handlers) {
	r.Route("/specialties", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/my", h.My)
		r.Post("/answer", h.Answer)
		r.Get("/classes/{class}", h.ClassRequirements)
		r.Get("/classes/{class}/progress", h.ClassProgress)

		r.Group(func(r chi.Router) {
			r.Use(authhandlers.RequireStaff)
			r.Post("/", h.Create)
			r.Get("/pending", h.Pending)
			r.Get("/dashboard", h.Dashboard)
			r.Get("/dashboard/export", h.ExportDashboard)
			r.Post("/requirement/{userId}/{requirementId}/{status}", h.SetStatus)
			r.Post("/award/{userId}/{specialtyId}", h.Award)
			r.Post("/assign/{userId}/{specialtyId}", h.Assign)
			r.Post("/classes/{class}", h.AddClassRequirement)
			r.Delete("/{id}", h.Delete)
		})

		r.Get("/{id}", h.Get)
	})
}
