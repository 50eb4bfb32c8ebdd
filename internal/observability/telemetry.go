package observability

import (
	"context"
	"errors"
	"time"
)

// TelemetryConfig selects which OTLP pipelines Setup starts.
type TelemetryConfig struct {
	Enabled        bool
	SampleRatio    float64
	MetricInterval time.Duration
}

// Setup starts tracing, metrics and log export. The returned function shuts
// every started provider down and joins their errors. When telemetry is
// disabled the global no-op providers stay in place.
func Setup(ctx context.Context, cfg TelemetryConfig) (func(context.Context) error, error) {
	var shutdowns []func(context.Context) error

	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return errors.Join(errs...)
	}

	if !cfg.Enabled {
		return shutdown, nil
	}

	traceShutdown, err := InitTracing(ctx, cfg.SampleRatio)
	if err != nil {
		return nil, err
	}
	shutdowns = append(shutdowns, traceShutdown)

	metricShutdown, err := InitMetrics(ctx, cfg.MetricInterval)
	if err != nil {
		return nil, errors.Join(err, shutdown(ctx))
	}
	shutdowns = append(shutdowns, metricShutdown)

	logShutdown, err := InitLogging(ctx)
	if err != nil {
		return nil, errors.Join(err, shutdown(ctx))
	}
	shutdowns = append(shutdowns, logShutdown)

	return shutdown, nil
}
