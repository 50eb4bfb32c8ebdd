package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-chi-calculators/internal/admin"
	"go-chi-calculators/internal/auth"
	"go-chi-calculators/internal/calculator"
	"go-chi-calculators/internal/handlers"
	"go-chi-calculators/internal/observability"
	"go-chi-calculators/internal/web"
)

// Deps are the handlers mounted by NewRouter. Admin and Site are optional.
type Deps struct {
	Calculators *calculator.Handler
	Admin       *admin.Handler
	Verifier    *auth.Verifier
	Site        *web.Handler
}

func NewRouter(deps Deps) http.Handler {

	r := chi.NewRouter()

	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)
	r.Use(observability.RecoverMiddleware)

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", observability.PrometheusHandler())

	if deps.Calculators != nil {
		calculator.RegisterRoutes(r, deps.Calculators)
	}
	if deps.Admin != nil && deps.Verifier != nil {
		admin.RegisterRoutes(r, deps.Admin, deps.Verifier)
	}
	if deps.Site != nil {
		web.RegisterRoutes(r, deps.Site)
	}

	return r
}
