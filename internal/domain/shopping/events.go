package shopping

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventSessionStarted   = "shopping_session.started"
	EventItemChecked      = "shopping_session.item_checked"
	EventSessionCompleted = "shopping_session.completed"
	EventSessionAbandoned = "shopping_session.abandoned"

	MetaUserID = "user_id"

	DefaultAbandonReason = "user-action"
)

// Event is a fact produced by a session transition. Events are returned to
// the caller and are never stored on the session itself.
type Event interface {
	EventID() uuid.UUID
	EventName() string
	SessionID() uuid.UUID
	OccurredAt() time.Time
	EventMetadata() map[string]string
}

type EventBase struct {
	ID       uuid.UUID         `json:"event_id"`
	Name     string            `json:"event_name"`
	Session  uuid.UUID         `json:"session_id"`
	At       time.Time         `json:"occurred_at"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func (e EventBase) EventID() uuid.UUID    { return e.ID }
func (e EventBase) EventName() string     { return e.Name }
func (e EventBase) SessionID() uuid.UUID  { return e.Session }
func (e EventBase) OccurredAt() time.Time { return e.At }

func (e EventBase) EventMetadata() map[string]string {
	out := make(map[string]string, len(e.Metadata))
	for k, v := range e.Metadata {
		out[k] = v
	}
	return out
}

type SessionStarted struct {
	EventBase
	UserID     uuid.UUID `json:"user_id"`
	StartedAt  time.Time `json:"started_at"`
	DeviceType *string   `json:"device_type,omitempty"`
}

type ItemChecked struct {
	EventBase
	UserID         uuid.UUID     `json:"user_id"`
	IngredientID   uuid.UUID     `json:"ingredient_id"`
	IngredientName string        `json:"ingredient_name"`
	StockStatus    StockStatus   `json:"stock_status"`
	ExpiryStatus   *ExpiryStatus `json:"expiry_status,omitempty"`
	CheckedAt      time.Time     `json:"checked_at"`
	CheckedCount   int           `json:"checked_count"`
}

type SessionCompletedEvent struct {
	EventBase
	UserID           uuid.UUID `json:"user_id"`
	CompletedAt      time.Time `json:"completed_at"`
	DurationMS       int64     `json:"duration_ms"`
	CheckedItemCount int       `json:"checked_item_count"`
	AttentionCount   int       `json:"attention_count"`
}

type SessionAbandonedEvent struct {
	EventBase
	UserID           uuid.UUID `json:"user_id"`
	AbandonedAt      time.Time `json:"abandoned_at"`
	DurationMS       int64     `json:"duration_ms"`
	CheckedItemCount int       `json:"checked_item_count"`
	Reason           string    `json:"reason"`
}

var (
	_ Event = SessionStarted{}
	_ Event = ItemChecked{}
	_ Event = SessionCompletedEvent{}
	_ Event = SessionAbandonedEvent{}
)

func newEventBase(name string, sessionID, userID uuid.UUID, at time.Time, meta map[string]string) EventBase {
	md := make(map[string]string, len(meta)+1)
	for k, v := range meta {
		md[k] = v
	}
	md[MetaUserID] = userID.String()
	return EventBase{
		ID:       uuid.New(),
		Name:     name,
		Session:  sessionID,
		At:       at,
		Metadata: md,
	}
}
