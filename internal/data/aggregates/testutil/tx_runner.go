package testutil

import (
	"context"
	"sync"

	"github.com/yungbote/pantry-backend/internal/data/aggregates"
	"github.com/yungbote/pantry-backend/internal/platform/dbctx"
)

// InjectedTxRunner runs aggregate writes without a database. It counts
// begin/commit/rollback and can fail selected attempts.
type InjectedTxRunner struct {
	mu sync.Mutex

	FailBegin error
	// FailCommit is returned by the first FailCommitTimes commits
	// (every commit when FailCommitTimes is zero).
	FailCommit      error
	FailCommitTimes int

	BeginCalls    int
	CommitCalls   int
	RollbackCalls int
}

var _ aggregates.TxRunner = (*InjectedTxRunner)(nil)

func (r *InjectedTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.BeginCalls++
	failBegin := r.FailBegin
	r.mu.Unlock()

	if failBegin != nil {
		return failBegin
	}
	if fn != nil {
		if err := fn(dbctx.Context{Ctx: ctx}); err != nil {
			r.rollback()
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailCommit != nil && (r.FailCommitTimes == 0 || r.RollbackCalls < r.FailCommitTimes) {
		r.RollbackCalls++
		return r.FailCommit
	}
	r.CommitCalls++
	return nil
}

func (r *InjectedTxRunner) rollback() {
	r.mu.Lock()
	r.RollbackCalls++
	r.mu.Unlock()
}

func (r *InjectedTxRunner) Counts() (begin, commit, rollback int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.BeginCalls, r.CommitCalls, r.RollbackCalls
}
