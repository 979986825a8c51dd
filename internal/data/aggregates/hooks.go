package aggregates

import (
	"strings"
	"time"

	"github.com/yungbote/pantry-backend/internal/observability"
	"github.com/yungbote/pantry-backend/internal/platform/logger"
)

// Hooks receives the outcome of every aggregate write attempt.
type Hooks interface {
	ObserveOperation(name, status string, dur time.Duration)
	IncConflict(name string)
	IncRetry(name string)
}

// ObservabilityHooks feeds write outcomes into the service meters and warns
// about attempts slower than SlowAfter. The zero value records nothing.
type ObservabilityHooks struct {
	Metrics   *observability.Metrics
	Log       *logger.Logger
	SlowAfter time.Duration
}

func (h ObservabilityHooks) ObserveOperation(name, status string, dur time.Duration) {
	name = strings.TrimSpace(name)
	h.Metrics.ObserveAggregateOperation(name, status, dur)
	if h.Log != nil && h.SlowAfter > 0 && dur >= h.SlowAfter {
		h.Log.Warn("slow aggregate write", "op", name, "status", status, "duration_ms", dur.Milliseconds())
	}
}

func (h ObservabilityHooks) IncConflict(name string) {
	h.Metrics.IncAggregateConflict(strings.TrimSpace(name))
}

func (h ObservabilityHooks) IncRetry(name string) {
	h.Metrics.IncAggregateRetry(strings.TrimSpace(name))
}
