// Package kafkabus publishes shopping session events to a Kafka topic keyed
// by session id.
package kafkabus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/yungbote/pantry-backend/internal/domain/shopping"
	"github.com/yungbote/pantry-backend/internal/events"
	"github.com/yungbote/pantry-backend/internal/platform/logger"
)

const DefaultTopic = "shopping-session-events"

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher struct {
	log    *logger.Logger
	writer MessageWriter
}

// NewWriter builds a kafka.Writer for the given brokers and topic.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = DefaultTopic
	}
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
}

func New(log *logger.Logger, w MessageWriter) *Publisher {
	return &Publisher{log: log.With("service", "KafkaEventPublisher"), writer: w}
}

func (p *Publisher) Name() string { return "kafka" }

func (p *Publisher) Deliver(ctx context.Context, evs []shopping.Event) error {
	if p == nil || p.writer == nil {
		return fmt.Errorf("kafka publisher not initialized")
	}
	msgs := make([]kafka.Message, 0, len(evs))
	for _, ev := range evs {
		env, err := events.EnvelopeOf(ev)
		if err != nil {
			return err
		}
		raw, err := json.Marshal(env)
		if err != nil {
			return err
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(env.SessionID.String()),
			Value: raw,
			Time:  env.OccurredAt,
			Headers: []kafka.Header{
				{Key: "event_name", Value: []byte(env.Name)},
				{Key: "event_id", Value: []byte(env.EventID.String())},
			},
		})
	}
	if len(msgs) == 0 {
		return nil
	}
	return p.writer.WriteMessages(ctx, msgs...)
}

func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

var _ events.Sink = (*Publisher)(nil)
