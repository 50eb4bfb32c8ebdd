package content

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

var (
	generationsCounter metric.Int64Counter     = noop.Int64Counter{}
	generationDuration metric.Float64Histogram = noop.Float64Histogram{}
)

// InitMetrics registers the content generation instruments. Call it once at
// startup, after observability.InitMetrics.
func InitMetrics() error {
	meter := otel.Meter("content")

	var err error

	generationsCounter, err = meter.Int64Counter("content.generations.total",
		metric.WithDescription("Total number of LLM content generations by outcome"),
		metric.WithUnit("{generation}"),
	)
	if err != nil {
		return fmt.Errorf("creating generations counter: %w", err)
	}

	generationDuration, err = meter.Float64Histogram("content.generation.duration",
		metric.WithDescription("Duration of LLM content generations in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(100, 500, 1000, 2500, 5000, 10000, 30000),
	)
	if err != nil {
		return fmt.Errorf("creating generation duration histogram: %w", err)
	}

	return nil
}
