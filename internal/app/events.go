package app

import (
	"context"
	"fmt"
	"io"

	"github.com/yungbote/pantry-backend/internal/events"
	"github.com/yungbote/pantry-backend/internal/events/kafkabus"
	"github.com/yungbote/pantry-backend/internal/events/redisbus"
	"github.com/yungbote/pantry-backend/internal/observability"
	"github.com/yungbote/pantry-backend/internal/platform/logger"
	"github.com/yungbote/pantry-backend/internal/realtime"
)

type eventSinks struct {
	Dispatcher *events.Dispatcher
	Redis      *redisbus.Bus
	Hub        *realtime.SSEHub
	closers    []io.Closer
}

// wireEvents always records the audit log. Redis and Kafka publishers are
// added when their addresses are configured. Without Redis the realtime hub
// is fed directly; with Redis it is fed by the forwarder started in Run.
func wireEvents(ctx context.Context, log *logger.Logger, cfg Config, metrics *observability.Metrics, r Repos) (eventSinks, error) {
	log.Info("Wiring event sinks...")
	out := eventSinks{Hub: realtime.NewSSEHub(log)}
	sinks := []events.Sink{events.NewAuditSink(r.Events)}

	if cfg.Redis.Addr != "" {
		bus, err := redisbus.Dial(ctx, log, cfg.Redis.Addr, cfg.Redis.Channel)
		if err != nil {
			return out, fmt.Errorf("init redis event bus: %w", err)
		}
		out.Redis = bus
		out.closers = append(out.closers, bus)
		sinks = append(sinks, bus)
	} else {
		sinks = append(sinks, realtime.NewHubSink(out.Hub))
	}
	if len(cfg.Kafka.Brokers) > 0 {
		pub := kafkabus.New(log, kafkabus.NewWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic))
		out.closers = append(out.closers, pub)
		sinks = append(sinks, pub)
	}

	out.Dispatcher = events.NewDispatcher(log, metrics, sinks...)
	log.Info("Event sinks ready", "sinks", out.Dispatcher.SinkNames())
	return out, nil
}

// startForwarding relays bus traffic from every instance into the local hub.
func (e eventSinks) startForwarding(ctx context.Context) error {
	if e.Redis == nil {
		return nil
	}
	return e.Redis.StartForwarder(ctx, e.Hub.PublishEnvelope)
}

func (e eventSinks) Close() {
	for _, c := range e.closers {
		_ = c.Close()
	}
}
