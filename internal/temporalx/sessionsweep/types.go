// Package sessionsweep closes shopping sessions left active past a cutoff.
package sessionsweep

import "time"

const (
	WorkflowName = "shopping_session_sweep"
	ActivityRun  = "shopping_session_sweep_run"

	// ScheduleWorkflowID is fixed so only one cron sweep runs per namespace.
	ScheduleWorkflowID = "shopping_session_sweep_cron"

	DefaultStaleAfter = 12 * time.Hour
	DefaultLimit      = 100
	DefaultCron       = "*/15 * * * *"
)

type Params struct {
	StaleAfter time.Duration `json:"stale_after"`
	Limit      int           `json:"limit"`
}

func (p Params) withDefaults() Params {
	if p.StaleAfter <= 0 {
		p.StaleAfter = DefaultStaleAfter
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	return p
}

type Result struct {
	Abandoned int `json:"abandoned"`
}
