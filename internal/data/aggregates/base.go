package aggregates

import (
	"context"
	"strings"
	"time"

	domainagg "github.com/yungbote/pantry-backend/internal/domain/aggregates"
	"github.com/yungbote/pantry-backend/internal/platform/dbctx"
	"github.com/yungbote/pantry-backend/internal/platform/logger"
	"gorm.io/gorm"
)

const defaultMaxAttempts = 3

type BaseDeps struct {
	DB     *gorm.DB
	Log    *logger.Logger
	Runner TxRunner
	Hooks  Hooks

	// MaxAttempts bounds how often a write is re-run after a retryable failure.
	MaxAttempts int
	// RetryBackoff is the pause before the second attempt; it doubles after that.
	RetryBackoff time.Duration
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewTxRunner(d.DB)
	}
	if d.Hooks == nil {
		d.Hooks = ObservabilityHooks{}
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.MaxAttempts <= 0 {
		d.MaxAttempts = defaultMaxAttempts
	}
	return d
}

// executeWrite runs fn in a transaction and re-runs it while the mapped
// failure is retryable and the context is still live.
func executeWrite(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	deps = deps.withDefaults()
	op = strings.TrimSpace(op)
	if op == "" {
		op = "aggregate.write"
	}

	var mapped error
	for attempt := 1; attempt <= deps.MaxAttempts; attempt++ {
		start := time.Now()
		mapped = MapError(op, deps.Runner.InTx(ctx, fn))

		status := "success"
		if mapped != nil {
			status = aggregateErrorStatus(mapped)
			if domainagg.IsCode(mapped, domainagg.CodeConflict) {
				deps.Hooks.IncConflict(op)
			}
		}
		deps.Hooks.ObserveOperation(op, status, time.Since(start))

		if mapped == nil || !domainagg.IsCode(mapped, domainagg.CodeRetryable) {
			return mapped
		}
		deps.Hooks.IncRetry(op)
		if ctx.Err() != nil || attempt == deps.MaxAttempts {
			break
		}
		deps.Log.Debug("aggregate write retrying", "op", op, "attempt", attempt, "error", mapped)
		if !sleepCtx(ctx, backoff(deps.RetryBackoff, attempt)) {
			break
		}
	}
	return mapped
}

func backoff(base time.Duration, attempt int) time.Duration {
	if base <= 0 {
		return 0
	}
	return base << (attempt - 1)
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func aggregateErrorStatus(err error) string {
	if err == nil {
		return "success"
	}
	code := strings.TrimSpace(string(domainagg.CodeOf(err)))
	if code == "" {
		code = strings.TrimSpace(string(domainagg.CodeOf(MapError("aggregate.status", err))))
	}
	if code == "" {
		return "failure"
	}
	return code
}
