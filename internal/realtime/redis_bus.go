package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"studydesk/backend/internal/logger"
)

const (
	DefaultRedisChannel = "studydesk-sync"

	redisDialTimeout = 5 * time.Second
	// matches the hub's per-subscriber buffer
	redisChannelSize = subscriberBuffer
)

// redisBus shares sync messages between server processes over one Redis
// pub/sub channel. Every process, the publisher included, receives each
// message once through its forwarder.
type redisBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

// NewRedisBus connects to addr and fails when the server does not answer a ping.
func NewRedisBus(ctx context.Context, log *logger.Logger, addr, channel string) (Bus, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("redis address is required")
	}
	channel = strings.TrimSpace(channel)
	if channel == "" {
		channel = DefaultRedisChannel
	}
	if log == nil {
		log = logger.NewNop()
	}

	rdb := goredis.NewClient(&goredis.Options{Addr: addr, DialTimeout: redisDialTimeout})
	pingCtx, cancel := context.WithTimeout(ctx, redisDialTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}

	return &redisBus{
		log:     log.With("component", "sync_bus", "channel", channel),
		rdb:     rdb,
		channel: channel,
	}, nil
}

func (b *redisBus) Publish(ctx context.Context, msg Message) error {
	if !KnownAction(msg.Action) {
		return fmt.Errorf("unknown sync action %q", msg.Action)
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode sync message: %w", err)
	}
	return b.rdb.Publish(ctx, b.channel, payload).Err()
}

// StartForwarder subscribes before returning, so no message published after
// it returns is missed, then delivers messages until ctx ends.
func (b *redisBus) StartForwarder(ctx context.Context, deliver func(Message)) error {
	if deliver == nil {
		return errors.New("deliver callback is required")
	}
	sub := b.rdb.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}
	go b.forward(ctx, sub, deliver)
	return nil
}

func (b *redisBus) forward(ctx context.Context, sub *goredis.PubSub, deliver func(Message)) {
	defer sub.Close()
	incoming := sub.Channel(goredis.WithChannelSize(redisChannelSize))
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-incoming:
			if !ok {
				return
			}
			msg, err := decodeMessage([]byte(m.Payload))
			if err != nil {
				b.log.Warn("dropping sync message", "error", err)
				continue
			}
			deliver(msg)
		}
	}
}

func (b *redisBus) Close() error {
	return b.rdb.Close()
}
