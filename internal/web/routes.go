package web

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the public site on r.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/", h.Root)
	r.Get("/sitemap.xml", h.Sitemap)
	r.Route("/{locale}/calculators", func(r chi.Router) {
		r.Get("/", h.Catalog)
		r.Get("/{category}", h.Category)
		r.Get("/{category}/{slug}", h.Page)
		r.Get("/{category}/{slug}/calculator", h.Embed)
	})
}
