package web

import (
	"net/http"
	"time"

	"go-chi-calculators/internal/observability"
	"go-chi-calculators/internal/seo"

	"go.uber.org/zap"
)

// Sitemap handles GET /sitemap.xml. Every indexable page is listed once per
// locale with hreflang alternates pointing at its translations.
func (h *Handler) Sitemap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	published := h.publishedPages(ctx)

	var urls []seo.SitemapURL
	add := func(pathFor func(lang string) string, lastMod time.Time) {
		alternates := make([]seo.Alternate, 0, len(h.bundle.Supported())+1)
		for _, l := range h.bundle.Supported() {
			alternates = append(alternates, seo.Alternate{Lang: l, URL: h.abs(pathFor(l))})
		}
		alternates = append(alternates, seo.Alternate{Lang: "x-default", URL: h.abs(pathFor(h.bundle.Fallback()))})
		for _, l := range h.bundle.Supported() {
			urls = append(urls, seo.SitemapURL{Loc: h.abs(pathFor(l)), LastMod: lastMod, Alternates: alternates})
		}
	}

	add(catalogPath, time.Time{})
	for _, c := range h.categoryKeys(published) {
		add(func(l string) string { return categoryPath(l, c) }, time.Time{})
	}

	shadowed := map[string]struct{}{}
	for _, p := range published {
		shadowed[p.Category+"/"+p.Slug] = struct{}{}
		add(func(l string) string { return calculatorPath(l, p.Category, p.Slug) }, p.UpdatedAt)
	}
	for _, d := range h.registry.All() {
		if _, ok := shadowed[d.Key()]; ok {
			continue
		}
		add(func(l string) string { return calculatorPath(l, d.Category, d.Slug) }, time.Time{})
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	if err := seo.WriteSitemap(w, urls); err != nil {
		observability.LoggerWithTrace(ctx).Error("writing sitemap failed", zap.Error(err))
	}
}
