package calculator

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the calculator JSON API onto the given router
// under the /api/calculators prefix.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/api/calculators", func(r chi.Router) {
		r.Get("/", h.Catalog)
		r.Post("/batch", h.Batch)
		r.Post("/{category}/{slug}", h.Evaluate)
	})
}
