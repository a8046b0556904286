package shared

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestCorrelationIDRoundTrip(t *testing.T) {
	if _, ok := CorrelationID(context.Background()); ok {
		t.Fatal("expected no correlation id on empty context")
	}

	id := NewCorrelationID()
	if id == "" {
		t.Fatal("expected non-empty correlation id")
	}
	if other := NewCorrelationID(); other == id {
		t.Fatal("expected distinct correlation ids")
	}

	got, ok := CorrelationID(WithCorrelationID(context.Background(), id))
	if !ok || got != id {
		t.Fatalf("expected %q, got %q (ok=%v)", id, got, ok)
	}
}

func TestLogWithContextAddsCorrelationID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)
	ctx := WithCorrelationID(context.Background(), "corr-1")

	LogWithContext(ctx, logger, "handled", zap.String("action", "start"))
	LogErrorWithContext(ctx, logger, "failed", errors.New("boom"))

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}
	for _, entry := range entries {
		if entry.ContextMap()["correlation_id"] != "corr-1" {
			t.Errorf("entry %q missing correlation id: %v", entry.Message, entry.ContextMap())
		}
	}
	if entries[1].Level != zap.ErrorLevel {
		t.Errorf("expected error level, got %s", entries[1].Level)
	}
	if entries[1].ContextMap()["error"] != "boom" {
		t.Errorf("expected error field, got %v", entries[1].ContextMap())
	}
}

func TestLogWithContextWithoutID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	LogWithContext(context.Background(), zap.New(core), "plain")

	if _, ok := logs.All()[0].ContextMap()["correlation_id"]; ok {
		t.Error("did not expect correlation id without one in context")
	}

	LogWithContext(context.Background(), nil, "ignored")
}
