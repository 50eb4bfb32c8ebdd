package observability

import (
	"context"
	"testing"
)

func TestSetupDisabledReturnsNoopShutdown(t *testing.T) {
	shutdown, err := Setup(context.Background(), TelemetryConfig{Enabled: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("expected nil shutdown error, got %v", err)
	}
}

func TestServiceNameFromEnv(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "")
	if got := ServiceName(); got != "calculators" {
		t.Fatalf("expected default service name, got %q", got)
	}

	t.Setenv("OTEL_SERVICE_NAME", "calc-web")
	if got := ServiceName(); got != "calc-web" {
		t.Fatalf("expected %q, got %q", "calc-web", got)
	}
}
