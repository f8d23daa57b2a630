package clubrouter

import (
	clubhandlers "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/infrastructure/handlers"
	"github.com/go-chi/chi/v5"
)

// Mount registers the club routes on an authenticated router.
func Mount(r chi.Router, h clubhandlers.Handlers) {
	r.Route("/clubs", func(r chi.Router) {
		r.Post("/", h.CreateClub)
		r.Get("/{id}", h.GetClub)
		r.Get("/{id}/members", h.ListMembers)
		r.Post("/{id}/members", h.AddMember)
	})
	r.Get("/users/me", h.Me)
	r.Patch("/users/{id}/role", h.UpdateMemberRole)
}
