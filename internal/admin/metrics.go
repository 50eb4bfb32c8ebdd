package admin

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

var errorCounter metric.Int64Counter = noop.Int64Counter{}

// InitMetrics registers the admin API instruments.
func InitMetrics() error {
	var err error
	errorCounter, err = otel.Meter("admin").Int64Counter("admin.errors.total",
		metric.WithDescription("Total number of failed admin API requests"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating admin error counter: %w", err)
	}
	return nil
}
