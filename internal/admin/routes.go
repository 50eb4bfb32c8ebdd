package admin

import (
	"go-chi-calculators/internal/auth"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the admin API under /api/admin behind the admin
// bearer token check.
func RegisterRoutes(r chi.Router, h *Handler, v *auth.Verifier) {
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(auth.RequireAdmin(v))

		r.Post("/generate-post", h.GeneratePost)

		r.Get("/pages", h.ListPages)
		r.Post("/pages", h.CreatePage)
		r.Get("/pages/{id}", h.GetPage)
		r.Put("/pages/{id}", h.UpdatePage)
		r.Delete("/pages/{id}", h.DeletePage)
		r.Post("/pages/{id}/publish", h.PublishPage)
		r.Post("/pages/{id}/unpublish", h.UnpublishPage)
	})
}
