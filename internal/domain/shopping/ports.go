package shopping

import (
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/pantry-backend/internal/domain/pantry"
	"github.com/yungbote/pantry-backend/internal/platform/dbctx"
)

// SessionRepository persists sessions. Find methods return (nil, nil) when
// nothing matches.
type SessionRepository interface {
	ActiveSessionFinder
	FindByID(dbc dbctx.Context, id uuid.UUID) (*Session, error)
	// LockByID loads the session row FOR UPDATE; it requires dbc.Tx.
	LockByID(dbc dbctx.Context, id uuid.UUID) (*Session, error)
	// Save inserts a new session with its checked items at version 1.
	Save(dbc dbctx.Context, s Session) (Session, error)
	// Update writes s when the stored version still equals s.Version().
	// ok is false when another writer got there first.
	Update(dbc dbctx.Context, s Session) (updated Session, ok bool, err error)
	ListStaleActive(dbc dbctx.Context, startedBefore time.Time, limit int) ([]uuid.UUID, error)
}

// IngredientRepository loads ingredients with their current stock.
type IngredientRepository interface {
	FindByID(dbc dbctx.Context, id uuid.UUID) (*pantry.Ingredient, error)
}

// EventLog stores drained events for audit.
type EventLog interface {
	Append(dbc dbctx.Context, events []Event) error
}
