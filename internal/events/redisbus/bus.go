// Package redisbus publishes shopping session events on a Redis pub/sub channel.
package redisbus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/pantry-backend/internal/domain/shopping"
	"github.com/yungbote/pantry-backend/internal/events"
	"github.com/yungbote/pantry-backend/internal/platform/logger"
)

const DefaultChannel = "shopping-session-events"

type Bus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

// Dial connects to addr and verifies the connection with a ping.
func Dial(ctx context.Context, log *logger.Logger, addr, channel string) (*Bus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return New(log, rdb, channel), nil
}

func New(log *logger.Logger, rdb *goredis.Client, channel string) *Bus {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		channel = DefaultChannel
	}
	return &Bus{
		log:     log.With("service", "RedisEventBus"),
		rdb:     rdb,
		channel: channel,
	}
}

func (b *Bus) Name() string { return "redis" }

func (b *Bus) Channel() string { return b.channel }

func (b *Bus) Ping(ctx context.Context) error { return b.rdb.Ping(ctx).Err() }

func (b *Bus) Deliver(ctx context.Context, evs []shopping.Event) error {
	for _, ev := range evs {
		if err := b.Publish(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bus) Publish(ctx context.Context, ev shopping.Event) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis event bus not initialized")
	}
	env, err := events.EnvelopeOf(ev)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

// StartForwarder subscribes to the channel and hands each envelope to onMsg
// until ctx is done.
func (b *Bus) StartForwarder(ctx context.Context, onMsg func(events.Envelope)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis event bus not initialized")
	}
	if onMsg == nil {
		return fmt.Errorf("onMsg callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					_ = sub.Close()
					return
				}
				var env events.Envelope
				if err := json.Unmarshal([]byte(m.Payload), &env); err != nil {
					b.log.Warn("bad redis event payload", "error", err)
					continue
				}
				onMsg(env)
			}
		}
	}()
	return nil
}

func (b *Bus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}

var _ events.Sink = (*Bus)(nil)
