package shopping

import (
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/pantry-backend/internal/platform/clock"
	"github.com/yungbote/pantry-backend/internal/platform/dbctx"
	"github.com/yungbote/pantry-backend/internal/pkg/option"
)

// StartOptions are the optional facts recorded when a trip starts.
type StartOptions struct {
	DeviceType option.Option[string]
	Location   option.Option[Location]
}

// ActiveSessionFinder is the slice of SessionRepository the factory needs.
type ActiveSessionFinder interface {
	FindActiveByUserID(dbc dbctx.Context, userID uuid.UUID) (*Session, error)
}

// Factory creates sessions. Its active-session check is paired with a unique
// index on active sessions per user in storage.
type Factory struct {
	sessions ActiveSessionFinder
	clock    clock.Clock
	newID    func() uuid.UUID
}

func NewFactory(sessions ActiveSessionFinder, clk clock.Clock) *Factory {
	if clk == nil {
		clk = clock.System()
	}
	return &Factory{sessions: sessions, clock: clk, newID: uuid.New}
}

func (f *Factory) Create(dbc dbctx.Context, userID uuid.UUID, opts StartOptions, meta map[string]string) (Session, []Event, error) {
	const op = "Shopping.Factory.Create"
	if userID == uuid.Nil {
		return Session{}, nil, validation(op, "user id is required")
	}
	existing, err := f.sessions.FindActiveByUserID(dbc, userID)
	if err != nil {
		return Session{}, nil, err
	}
	if existing != nil {
		return Session{}, nil, AlreadyActiveError(op, nil)
	}
	if d, ok := opts.DeviceType.Get(); ok && d == "" {
		opts.DeviceType = option.None[string]()
	}
	s, events := newSession(f.newID(), userID, f.now(), opts, meta)
	return s, events, nil
}

func (f *Factory) now() time.Time {
	return f.clock.Now()
}
