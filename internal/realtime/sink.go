package realtime

import (
	"context"

	"github.com/yungbote/pantry-backend/internal/domain/shopping"
	"github.com/yungbote/pantry-backend/internal/events"
)

type hubSink struct {
	hub *SSEHub
}

// NewHubSink pushes events straight into the local hub. Multi-instance
// deployments fan out through Redis instead and feed the hub from
// redisbus.Bus.StartForwarder.
func NewHubSink(hub *SSEHub) events.Sink {
	if hub == nil {
		return nil
	}
	return &hubSink{hub: hub}
}

func (s *hubSink) Name() string { return "realtime" }

func (s *hubSink) Deliver(_ context.Context, evs []shopping.Event) error {
	for _, ev := range evs {
		env, err := events.EnvelopeOf(ev)
		if err != nil {
			return err
		}
		s.hub.PublishEnvelope(env)
	}
	return nil
}
