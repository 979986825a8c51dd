package app

import (
	"context"

	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/yungbote/pantry-backend/internal/platform/logger"
	"github.com/yungbote/pantry-backend/internal/temporalx"
	"github.com/yungbote/pantry-backend/internal/temporalx/temporalworker"
)

// wireTemporal returns a nil runner when TEMPORAL_ADDRESS is unset.
func wireTemporal(ctx context.Context, log *logger.Logger, cfg Config, s Services) (temporalsdkclient.Client, *temporalworker.Runner, error) {
	tc, err := temporalx.NewClient(ctx, log, cfg.Temporal)
	if err != nil || tc == nil {
		return nil, nil, err
	}
	runner, err := temporalworker.NewRunner(log, tc, cfg.Temporal, s.Shopping, temporalworker.SweepConfig{
		Cron:       cfg.Shopping.SweepCron,
		StaleAfter: cfg.Shopping.StaleAfter,
		Limit:      cfg.Shopping.SweepLimit,
	})
	if err != nil {
		tc.Close()
		return nil, nil, err
	}
	return tc, runner, nil
}
