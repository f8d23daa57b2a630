package notificationrouter

import (
	notificationhandlers "github.com/Black-And-White-Club/pathfinder-club/app/modules/notification/infrastructure/handlers"
	"github.com/go-chi/chi/v5"
)

// Mount registers the notification routes.
func Mount(r chi.Router, h notificationhandlers.Handlers) {
	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/unread-count", h.UnreadCount)
		r.Get("/stream", h.Stream)
		r.Post("/read-all", h.MarkAllRead)
		r.Post("/{id}/read", h.MarkRead)
	})
}
