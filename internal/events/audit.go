package events

import (
	"context"

	"github.com/yungbote/pantry-backend/internal/domain/shopping"
	"github.com/yungbote/pantry-backend/internal/platform/dbctx"
)

type auditSink struct {
	log shopping.EventLog
}

// NewAuditSink stores every event in the append-only event log.
func NewAuditSink(log shopping.EventLog) Sink {
	if log == nil {
		return nil
	}
	return &auditSink{log: log}
}

func (s *auditSink) Name() string { return "audit" }

func (s *auditSink) Deliver(ctx context.Context, evs []shopping.Event) error {
	return s.log.Append(dbctx.Context{Ctx: ctx}, evs)
}
