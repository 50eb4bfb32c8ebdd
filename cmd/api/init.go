package main

import (
	"context"
	"fmt"

	"go-chi-calculators/internal/admin"
	"go-chi-calculators/internal/auth"
	"go-chi-calculators/internal/calculator"
	"go-chi-calculators/internal/cms"
	"go-chi-calculators/internal/config"
	"go-chi-calculators/internal/content"
	"go-chi-calculators/internal/i18n"
	"go-chi-calculators/internal/llm"
	"go-chi-calculators/internal/observability"
	"go-chi-calculators/internal/server"
	"go-chi-calculators/internal/web"

	"go.uber.org/zap"
)

// initTelemetry starts the OTLP pipelines and registers the application
// metric instruments. Add new domain InitMetrics calls here as the project
// grows.
func initTelemetry(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	shutdown, err := observability.Setup(ctx, observability.TelemetryConfig{
		Enabled:        cfg.TelemetryEnabled,
		SampleRatio:    cfg.TraceSampleRatio,
		MetricInterval: cfg.MetricInterval,
	})
	if err != nil {
		return nil, err
	}

	for _, initMetrics := range []func() error{
		calculator.InitMetrics,
		content.InitMetrics,
		admin.InitMetrics,
	} {
		if err := initMetrics(); err != nil {
			return nil, err
		}
	}

	return shutdown, nil
}

// openStore returns the Postgres page store when DATABASE_URL is set and an
// in-memory store otherwise. The returned close function is never nil.
func openStore(ctx context.Context, cfg *config.Config) (cms.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		observability.Logger.Warn("DATABASE_URL not set, CMS pages are kept in memory")
		return cms.NewMemoryStore(), func() {}, nil
	}

	store, err := cms.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("ensure cms schema: %w", err)
	}
	return store, store.Close, nil
}

// buildRouter wires every domain handler into the HTTP router.
func buildRouter(ctx context.Context, cfg *config.Config) (*routerWithCleanup, error) {
	registry := calculator.Default()

	bundle, err := i18n.Default(cfg.DefaultLocale, cfg.Locales)
	if err != nil {
		return nil, fmt.Errorf("load translations: %w", err)
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	pages := cms.NewService(store,
		cms.WithCacheTTL(cfg.CMSCacheTTL),
		cms.WithLocales(cfg.Locales),
		cms.WithCalculatorCheck(func(ref string) bool {
			_, ok := registry.LookupKey(ref)
			return ok
		}),
	)

	site, err := web.NewHandler(registry, bundle, pages, cfg.BaseURL)
	if err != nil {
		closeStore()
		return nil, fmt.Errorf("load templates: %w", err)
	}

	deps := server.Deps{
		Calculators: calculator.NewHandler(registry),
		Site:        site,
	}

	if cfg.AdminEnabled() {
		var generator admin.Generator
		client := llm.New(llm.Config{
			Endpoint: cfg.LLMEndpoint,
			APIKey:   cfg.LLMAPIKey,
			Model:    cfg.LLMModel,
			Timeout:  cfg.LLMTimeout,
			JSONMode: true,
		})
		if client.Configured() {
			generator = content.NewGenerator(client, cfg.LLMTimeout)
		} else {
			observability.Logger.Warn("LLM_API_KEY not set, generate-post is disabled")
		}
		deps.Admin = admin.NewHandler(pages, generator)
		deps.Verifier = auth.NewVerifier(cfg.AdminJWTSecret)
	} else {
		observability.Logger.Warn("ADMIN_JWT_SECRET not set, admin API is disabled")
	}

	observability.Logger.Info("application wired",
		zap.Strings("locales", bundle.Supported()),
		zap.String("default_locale", bundle.Fallback()),
		zap.Int("calculators", len(registry.All())),
		zap.Bool("admin", deps.Admin != nil),
		zap.Bool("postgres", cfg.DatabaseURL != ""),
	)

	return &routerWithCleanup{handler: server.NewRouter(deps), cleanup: closeStore}, nil
}
