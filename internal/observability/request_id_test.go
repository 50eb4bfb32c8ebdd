package observability

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestNewRequestIDReturnsUUID(t *testing.T) {
	id := NewRequestID()
	if id == "" {
		t.Fatal("expected non-empty request id")
	}

	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected valid UUID, got %q: %v", id, err)
	}
}

func TestAcceptRequestID(t *testing.T) {
	inbound := "8f14e45f-ceea-467f-a0e6-5f9b7c9f8a01"
	if got := AcceptRequestID(inbound); got != inbound {
		t.Fatalf("expected inbound id %q to be kept, got %q", inbound, got)
	}

	got := AcceptRequestID("not-a-uuid\nforged")
	if got == "not-a-uuid\nforged" {
		t.Fatal("expected malformed inbound id to be replaced")
	}
	if _, err := uuid.Parse(got); err != nil {
		t.Fatalf("expected replacement to be a UUID, got %q", got)
	}
}

func TestRequestIDContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	want := "abc-123"

	ctx = ContextWithRequestID(ctx, want)
	got := RequestIDFromContext(ctx)

	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRequestIDFromContextWhenMissingOrWrongType(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		got := RequestIDFromContext(context.Background())
		if got != "" {
			t.Fatalf("expected empty string, got %q", got)
		}
	})

	t.Run("wrong type", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), RequestIDKey, 42)
		got := RequestIDFromContext(ctx)
		if got != "" {
			t.Fatalf("expected empty string, got %q", got)
		}
	})
}
