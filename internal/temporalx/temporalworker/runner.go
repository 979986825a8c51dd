package temporalworker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/activity"
	temporalsdkclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/yungbote/pantry-backend/internal/platform/logger"
	"github.com/yungbote/pantry-backend/internal/temporalx"
	"github.com/yungbote/pantry-backend/internal/temporalx/sessionsweep"
)

type Runner struct {
	log *logger.Logger
	tc  temporalsdkclient.Client
	cfg temporalx.Config

	sweeper sessionsweep.Sweeper
	sweep   SweepConfig
}

// SweepConfig controls the cron registration for the stale-session sweep.
type SweepConfig struct {
	Cron       string
	StaleAfter time.Duration
	Limit      int
}

func NewRunner(log *logger.Logger, tc temporalsdkclient.Client, cfg temporalx.Config, sweeper sessionsweep.Sweeper, sweep SweepConfig) (*Runner, error) {
	if tc == nil {
		return nil, fmt.Errorf("temporal client is not configured")
	}
	if sweeper == nil {
		return nil, fmt.Errorf("temporal worker missing deps")
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Runner{
		log:     log.With("component", "TemporalWorker"),
		tc:      tc,
		cfg:     cfg,
		sweeper: sweeper,
		sweep:   sweep,
	}, nil
}

// Start polls the task queue until ctx is cancelled and registers the sweep
// cron. It retries worker start until cfg.DialMaxWait has passed.
func (r *Runner) Start(ctx context.Context) error {
	if r == nil || r.tc == nil {
		return fmt.Errorf("temporal worker not initialized")
	}
	cfg := r.cfg
	r.log.Info("Starting Temporal worker", "address", cfg.Address, "namespace", cfg.Namespace, "task_queue", cfg.TaskQueue)

	deadline := time.Now().Add(cfg.DialMaxWait)
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		w := r.newWorker()
		startErr := w.Start()
		if startErr == nil {
			go func() {
				<-ctx.Done()
				w.Stop()
			}()
			r.log.Info("Temporal worker started", "namespace", cfg.Namespace, "task_queue", cfg.TaskQueue, "attempts", attempt)
			return r.ensureSweep(ctx)
		}
		w.Stop()

		var nfe *serviceerror.NamespaceNotFound
		if errors.As(startErr, &nfe) && cfg.AutoRegisterNamespace {
			if err := temporalx.EnsureNamespace(ctx, r.log, cfg); err != nil {
				r.log.Warn("Temporal namespace ensure failed", "namespace", cfg.Namespace, "error", err)
			}
		}

		if cfg.DialMaxWait <= 0 || time.Now().After(deadline) {
			if errors.As(startErr, &nfe) {
				return fmt.Errorf("temporal namespace not found (namespace=%s): %w", cfg.Namespace, startErr)
			}
			return startErr
		}
		r.log.Warn("Temporal worker failed to start; retrying", "task_queue", cfg.TaskQueue, "attempt", attempt, "error", startErr)

		t := time.NewTimer(temporalx.ClampBackoff(250*time.Millisecond, 5*time.Second, attempt))
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}

func (r *Runner) ensureSweep(ctx context.Context) error {
	params := sessionsweep.Params{StaleAfter: r.sweep.StaleAfter, Limit: r.sweep.Limit}
	if err := sessionsweep.EnsureSchedule(ctx, r.tc, r.cfg.TaskQueue, r.sweep.Cron, params); err != nil {
		return fmt.Errorf("register session sweep: %w", err)
	}
	r.log.Info("Shopping session sweep scheduled", "cron", r.sweep.Cron, "stale_after", r.sweep.StaleAfter.String())
	return nil
}

func (r *Runner) newWorker() worker.Worker {
	w := worker.New(r.tc, r.cfg.TaskQueue, worker.Options{
		MaxConcurrentActivityExecutionSize:     r.cfg.WorkerConcurrency,
		MaxConcurrentWorkflowTaskExecutionSize: r.cfg.WorkerConcurrency,
	})
	acts := &sessionsweep.Activities{Log: r.log, Sessions: r.sweeper}
	w.RegisterWorkflowWithOptions(sessionsweep.Workflow, workflow.RegisterOptions{Name: sessionsweep.WorkflowName})
	w.RegisterActivityWithOptions(acts.Run, activity.RegisterOptions{Name: sessionsweep.ActivityRun})
	return w
}
