package sessionsweep

import (
	"context"
	"fmt"
	"time"

	"go.temporal.io/sdk/activity"

	"github.com/yungbote/pantry-backend/internal/platform/logger"
)

// Sweeper is the slice of the shopping session service the sweep needs.
type Sweeper interface {
	AbandonStaleSessions(ctx context.Context, olderThan time.Duration, limit int) (int, error)
}

type Activities struct {
	Log      *logger.Logger
	Sessions Sweeper
}

func (a *Activities) Run(ctx context.Context, p Params) (Result, error) {
	if a == nil || a.Sessions == nil {
		return Result{}, fmt.Errorf("session sweep activities not configured")
	}
	p = p.withDefaults()
	if activity.IsActivity(ctx) {
		activity.RecordHeartbeat(ctx, "sweeping")
	}
	n, err := a.Sessions.AbandonStaleSessions(ctx, p.StaleAfter, p.Limit)
	if err != nil {
		return Result{Abandoned: n}, err
	}
	if n > 0 && a.Log != nil {
		a.Log.Info("Abandoned stale shopping sessions", "count", n, "stale_after", p.StaleAfter.String())
	}
	return Result{Abandoned: n}, nil
}
