package sessionsweep

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/activity"
	temporalsdkclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"

	"github.com/yungbote/pantry-backend/internal/platform/logger"
)

type fakeSweeper struct {
	olderThan time.Duration
	limit     int
	n         int
	err       error
}

func (f *fakeSweeper) AbandonStaleSessions(_ context.Context, olderThan time.Duration, limit int) (int, error) {
	f.olderThan = olderThan
	f.limit = limit
	return f.n, f.err
}

func TestWorkflowRunsSweepActivity(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()

	acts := &Activities{Log: logger.Nop(), Sessions: &fakeSweeper{}}
	env.RegisterWorkflowWithOptions(Workflow, workflow.RegisterOptions{Name: WorkflowName})
	env.RegisterActivityWithOptions(acts.Run, activity.RegisterOptions{Name: ActivityRun})
	env.OnActivity(ActivityRun, mock.Anything, Params{StaleAfter: DefaultStaleAfter, Limit: 5}).
		Return(Result{Abandoned: 3}, nil).Once()

	env.ExecuteWorkflow(WorkflowName, Params{Limit: 5})

	if !env.IsWorkflowCompleted() {
		t.Fatalf("workflow did not complete")
	}
	if err := env.GetWorkflowError(); err != nil {
		t.Fatalf("workflow error: %v", err)
	}
	var res Result
	if err := env.GetWorkflowResult(&res); err != nil {
		t.Fatalf("result: %v", err)
	}
	if res.Abandoned != 3 {
		t.Fatalf("abandoned: want=3 got=%d", res.Abandoned)
	}
	env.AssertExpectations(t)
}

func TestActivityAppliesDefaults(t *testing.T) {
	sw := &fakeSweeper{n: 2}
	acts := &Activities{Sessions: sw}

	res, err := acts.Run(context.Background(), Params{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Abandoned != 2 {
		t.Fatalf("abandoned: want=2 got=%d", res.Abandoned)
	}
	if sw.olderThan != DefaultStaleAfter || sw.limit != DefaultLimit {
		t.Fatalf("defaults: want=%s/%d got=%s/%d", DefaultStaleAfter, DefaultLimit, sw.olderThan, sw.limit)
	}
}

func TestActivityPropagatesError(t *testing.T) {
	boom := errors.New("db down")
	acts := &Activities{Sessions: &fakeSweeper{n: 1, err: boom}}
	res, err := acts.Run(context.Background(), Params{StaleAfter: time.Hour})
	if !errors.Is(err, boom) {
		t.Fatalf("err: want=%v got=%v", boom, err)
	}
	if res.Abandoned != 1 {
		t.Fatalf("partial count: want=1 got=%d", res.Abandoned)
	}
}

type mockStarter struct {
	mock.Mock
}

func (m *mockStarter) ExecuteWorkflow(ctx context.Context, options temporalsdkclient.StartWorkflowOptions, wf interface{}, args ...interface{}) (temporalsdkclient.WorkflowRun, error) {
	called := m.Called(options.ID, options.CronSchedule, wf)
	run, _ := called.Get(0).(temporalsdkclient.WorkflowRun)
	return run, called.Error(1)
}

func TestEnsureScheduleIgnoresAlreadyStarted(t *testing.T) {
	m := &mockStarter{}
	m.On("ExecuteWorkflow", ScheduleWorkflowID, DefaultCron, WorkflowName).
		Return(nil, serviceerror.NewWorkflowExecutionAlreadyStarted("running", "", "")).Once()

	if err := EnsureSchedule(context.Background(), m, "pantry", "", Params{}); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	m.AssertExpectations(t)
}

func TestEnsureScheduleReturnsOtherErrors(t *testing.T) {
	m := &mockStarter{}
	m.On("ExecuteWorkflow", ScheduleWorkflowID, "0 * * * *", WorkflowName).
		Return(nil, errors.New("unavailable")).Once()

	if err := EnsureSchedule(context.Background(), m, "pantry", "0 * * * *", Params{}); err == nil {
		t.Fatalf("expected error")
	}
}
