package sessionsweep

import (
	"context"
	"errors"
	"strings"

	"go.temporal.io/api/serviceerror"
	temporalsdkclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"
)

// Starter is the part of the Temporal client used to register the cron run.
type Starter interface {
	ExecuteWorkflow(ctx context.Context, options temporalsdkclient.StartWorkflowOptions, workflow interface{}, args ...interface{}) (temporalsdkclient.WorkflowRun, error)
}

// EnsureSchedule starts the cron workflow unless it is already running.
func EnsureSchedule(ctx context.Context, c Starter, taskQueue, cron string, p Params) error {
	if c == nil {
		return errors.New("temporal client is nil")
	}
	cron = strings.TrimSpace(cron)
	if cron == "" {
		cron = DefaultCron
	}
	opts := temporalsdkclient.StartWorkflowOptions{
		ID:           ScheduleWorkflowID,
		TaskQueue:    taskQueue,
		CronSchedule: cron,
		RetryPolicy:  &temporal.RetryPolicy{MaximumAttempts: 1},
	}
	_, err := c.ExecuteWorkflow(ctx, opts, WorkflowName, p.withDefaults())
	var started *serviceerror.WorkflowExecutionAlreadyStarted
	if err != nil && !errors.As(err, &started) {
		return err
	}
	return nil
}
