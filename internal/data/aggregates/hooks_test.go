package aggregates

import (
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yungbote/pantry-backend/internal/platform/logger"
)

func TestObservabilityHooksWarnsOnSlowWrites(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := ObservabilityHooks{Log: logger.FromZap(zap.New(core)), SlowAfter: 50 * time.Millisecond}

	h.ObserveOperation("Shopping.Session.Start", "success", 10*time.Millisecond)
	h.ObserveOperation("Shopping.Session.Start", "retryable", 80*time.Millisecond)
	h.IncRetry("Shopping.Session.Start")
	h.IncConflict("Shopping.Session.Start")

	entries := logs.FilterMessage("slow aggregate write").All()
	if len(entries) != 1 {
		t.Fatalf("slow writes: want=1 got=%d", len(entries))
	}
	if got := entries[0].ContextMap()["status"]; got != "retryable" {
		t.Fatalf("status: want=retryable got=%v", got)
	}
}

func TestObservabilityHooksZeroValue(t *testing.T) {
	var h ObservabilityHooks
	h.ObserveOperation("op", "success", time.Hour)
	h.IncConflict("op")
	h.IncRetry("op")
}
