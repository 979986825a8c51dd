// Package events fans shopping session events out to sinks once the write
// that produced them has committed.
package events

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/pantry-backend/internal/domain/shopping"
	"github.com/yungbote/pantry-backend/internal/observability"
	"github.com/yungbote/pantry-backend/internal/platform/logger"
)

// Sink receives drained events. Deliver must be safe for concurrent use.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, events []shopping.Event) error
}

type Dispatcher struct {
	log     *logger.Logger
	sinks   []Sink
	metrics *observability.Metrics
	timeout time.Duration
}

func NewDispatcher(log *logger.Logger, metrics *observability.Metrics, sinks ...Sink) *Dispatcher {
	active := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			active = append(active, s)
		}
	}
	return &Dispatcher{
		log:     log.With("service", "EventDispatcher"),
		sinks:   active,
		metrics: metrics,
		timeout: 5 * time.Second,
	}
}

// Dispatch delivers events to every sink. Sink failures are logged and
// counted; they never fail the caller, whose write has already committed.
func (d *Dispatcher) Dispatch(ctx context.Context, evs []shopping.Event) {
	if d == nil || len(evs) == 0 {
		return
	}
	for _, ev := range evs {
		d.metrics.IncSessionEvent(ev.EventName())
	}
	if len(d.sinks) == 0 {
		return
	}

	// Delivery outlives request cancellation.
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()

	var g errgroup.Group
	for _, sink := range d.sinks {
		g.Go(func() error {
			if err := sink.Deliver(dctx, evs); err != nil {
				d.metrics.IncSinkFailure(sink.Name())
				d.log.Warn("event sink delivery failed",
					"sink", sink.Name(),
					"session_id", evs[0].SessionID().String(),
					"events", len(evs),
					"error", err,
				)
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (d *Dispatcher) SinkNames() []string {
	out := make([]string, 0, len(d.sinks))
	for _, s := range d.sinks {
		out = append(out, s.Name())
	}
	return out
}
