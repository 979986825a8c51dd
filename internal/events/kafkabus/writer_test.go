package kafkabus

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"

	"github.com/yungbote/pantry-backend/internal/domain/shopping"
	"github.com/yungbote/pantry-backend/internal/events"
	"github.com/yungbote/pantry-backend/internal/events/eventstest"
	"github.com/yungbote/pantry-backend/internal/platform/logger"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublisherKeysBySession(t *testing.T) {
	w := &fakeWriter{}
	p := New(logger.Nop(), w)
	evs := eventstest.StartedAndAbandoned(t)

	if err := p.Deliver(context.Background(), evs); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if len(w.msgs) != 2 {
		t.Fatalf("messages: want=2 got=%d", len(w.msgs))
	}
	for i, msg := range w.msgs {
		if string(msg.Key) != evs[i].SessionID().String() {
			t.Fatalf("message %d key: want=%s got=%s", i, evs[i].SessionID(), msg.Key)
		}
		var env events.Envelope
		if err := json.Unmarshal(msg.Value, &env); err != nil {
			t.Fatalf("message %d: %v", i, err)
		}
		if env.Name != evs[i].EventName() {
			t.Fatalf("message %d name: want=%s got=%s", i, evs[i].EventName(), env.Name)
		}
	}
	if string(w.msgs[1].Headers[0].Value) != shopping.EventSessionAbandoned {
		t.Fatalf("event_name header: got %s", w.msgs[1].Headers[0].Value)
	}

	if err := p.Close(); err != nil || !w.closed {
		t.Fatalf("Close: err=%v closed=%v", err, w.closed)
	}
}

func TestPublisherReturnsWriterError(t *testing.T) {
	boom := errors.New("broker down")
	p := New(logger.Nop(), &fakeWriter{err: boom})
	if err := p.Deliver(context.Background(), eventstest.StartedAndAbandoned(t)); !errors.Is(err, boom) {
		t.Fatalf("want writer error, got %v", err)
	}
}

func TestNewWriterDefaultsTopic(t *testing.T) {
	w := NewWriter([]string{"localhost:9092"}, "")
	if w.Topic != DefaultTopic {
		t.Fatalf("topic: want=%s got=%s", DefaultTopic, w.Topic)
	}
}
