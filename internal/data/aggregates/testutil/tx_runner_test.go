package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/pantry-backend/internal/platform/dbctx"
)

func TestInjectedTxRunnerCounters(t *testing.T) {
	boom := errors.New("boom")
	noConn := errors.New("no conn")
	commitErr := errors.New("commit failed")
	ok := func(dbctx.Context) error { return nil }
	fail := func(dbctx.Context) error { return boom }

	cases := []struct {
		name                     string
		runner                   *InjectedTxRunner
		bodies                   []func(dbctx.Context) error
		wantErrs                 []error
		begin, commit, rollbacks int
	}{
		{"commit", &InjectedTxRunner{}, []func(dbctx.Context) error{ok}, []error{nil}, 1, 1, 0},
		{"body error rolls back", &InjectedTxRunner{}, []func(dbctx.Context) error{fail}, []error{boom}, 1, 0, 1},
		{"begin failure", &InjectedTxRunner{FailBegin: noConn}, []func(dbctx.Context) error{fail}, []error{noConn}, 1, 0, 0},
		{"first commit fails", &InjectedTxRunner{FailCommit: commitErr, FailCommitTimes: 1},
			[]func(dbctx.Context) error{ok, ok}, []error{commitErr, nil}, 2, 1, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for i, body := range tc.bodies {
				err := tc.runner.InTx(context.Background(), body)
				if !errors.Is(err, tc.wantErrs[i]) || (tc.wantErrs[i] == nil && err != nil) {
					t.Fatalf("call %d: want=%v got=%v", i, tc.wantErrs[i], err)
				}
			}
			if b, c, rb := tc.runner.Counts(); b != tc.begin || c != tc.commit || rb != tc.rollbacks {
				t.Fatalf("counters: want=%d/%d/%d got=%d/%d/%d", tc.begin, tc.commit, tc.rollbacks, b, c, rb)
			}
		})
	}
}
