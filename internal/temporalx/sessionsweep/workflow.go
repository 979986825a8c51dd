package sessionsweep

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

func Workflow(ctx workflow.Context, p Params) (Result, error) {
	p = p.withDefaults()
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		HeartbeatTimeout:    time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    5,
		},
	})

	var res Result
	if err := workflow.ExecuteActivity(ctx, ActivityRun, p).Get(ctx, &res); err != nil {
		return Result{}, err
	}
	workflow.GetLogger(ctx).Info("shopping session sweep finished", "abandoned", res.Abandoned)
	return res, nil
}
