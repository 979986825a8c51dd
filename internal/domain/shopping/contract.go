package shopping

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/pantry-backend/internal/domain/aggregates"
)

// SessionAggregateContract covers session lifecycle and checked-item writes.
// A user holds at most one active session.
var SessionAggregateContract = aggregates.Contract{
	Name:        "Shopping.SessionAggregate",
	OwnsTx:      true,
	LockedReads: []string{"shopping_session"},
	Emits: []string{
		EventSessionStarted,
		EventItemChecked,
		EventSessionCompleted,
		EventSessionAbandoned,
	},
}

// SessionAggregate is the transactional write boundary for shopping sessions.
//
// Failures are *aggregates.Error with codes CodeValidation, CodeNotFound,
// CodeForbidden, CodeInvalidState, CodeConflict, CodeRetryable or CodeInternal.
type SessionAggregate interface {
	aggregates.Aggregate

	StartSession(ctx context.Context, in StartSessionInput) (SessionResult, error)
	CheckItem(ctx context.Context, in CheckItemInput) (SessionResult, error)
	CompleteSession(ctx context.Context, in CompleteSessionInput) (SessionResult, error)
	AbandonSession(ctx context.Context, in AbandonSessionInput) (SessionResult, error)
}

type StartSessionInput struct {
	UserID   uuid.UUID
	Options  StartOptions
	Metadata map[string]string
}

type CheckItemInput struct {
	SessionID    uuid.UUID
	IngredientID uuid.UUID
	UserID       uuid.UUID
	Metadata     map[string]string
}

type CompleteSessionInput struct {
	SessionID uuid.UUID
	UserID    uuid.UUID
	Metadata  map[string]string
}

type AbandonSessionInput struct {
	SessionID uuid.UUID
	UserID    uuid.UUID
	Reason    string
	Metadata  map[string]string
}

// SessionResult is the committed session and the events its write produced.
type SessionResult struct {
	Session Session
	Events  []Event
}
