// Package eventstest builds real session events for sink tests.
package eventstest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/pantry-backend/internal/domain/shopping"
	"github.com/yungbote/pantry-backend/internal/domain/shopping/shoppingtest"
	"github.com/yungbote/pantry-backend/internal/platform/clock"
	"github.com/yungbote/pantry-backend/internal/platform/dbctx"
)

// StartedAndAbandoned returns the events of a session that was started and
// abandoned one minute later.
func StartedAndAbandoned(tb testing.TB) []shopping.Event {
	tb.Helper()
	clk := clock.NewManual(time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC))
	s, started, err := shopping.NewFactory(shoppingtest.NewSessions(), clk).
		Create(dbctx.Context{Ctx: context.Background()}, uuid.New(), shopping.StartOptions{}, map[string]string{"request_id": "req-1"})
	if err != nil {
		tb.Fatalf("create session: %v", err)
	}
	_, abandoned, err := s.Abandon("", clk.Advance(time.Minute), nil)
	if err != nil {
		tb.Fatalf("abandon session: %v", err)
	}
	return append(started, abandoned...)
}
