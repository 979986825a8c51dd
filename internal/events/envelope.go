package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/pantry-backend/internal/domain/shopping"
)

// Envelope is the wire shape published to external buses.
type Envelope struct {
	EventID    uuid.UUID         `json:"event_id"`
	Name       string            `json:"event_name"`
	SessionID  uuid.UUID         `json:"session_id"`
	OccurredAt time.Time         `json:"occurred_at"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Payload    json.RawMessage   `json:"payload"`
}

func EnvelopeOf(ev shopping.Event) (Envelope, error) {
	raw, err := json.Marshal(ev)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s: %w", ev.EventName(), err)
	}
	return Envelope{
		EventID:    ev.EventID(),
		Name:       ev.EventName(),
		SessionID:  ev.SessionID(),
		OccurredAt: ev.OccurredAt().UTC(),
		Metadata:   ev.EventMetadata(),
		Payload:    raw,
	}, nil
}
