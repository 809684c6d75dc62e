// Copyright (c) 2025-2026 Prosperity Leaders
// SPDX-License-Identifier: GPL-3.0-or-later

package realtime

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Publisher is the write side of the change feed. The Hub satisfies it for
// single-process deployments; the Bridge satisfies it when changes must
// also reach other instances through Redis.
type Publisher interface {
	Publish(ev Event)
}

type bridgeEnvelope struct {
	Origin string `json:"origin"`
	Event  Event  `json:"event"`
}

// Bridge fans content change events out through a Redis channel so that
// every instance sees writes made on any instance. Each bridge tags
// outgoing messages with its own origin ID and drops incoming messages
// carrying that ID, so a local publish is delivered locally exactly once.
type Bridge struct {
	client  *redis.Client
	hub     *Hub
	channel string
	origin  string
	logger  *slog.Logger
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewBridge creates a bridge between the local hub and the given Redis
// channel. Call Start to begin relaying.
func NewBridge(client *redis.Client, hub *Hub, channel string, logger *slog.Logger) *Bridge {
	return &Bridge{
		client:  client,
		hub:     hub,
		channel: channel,
		origin:  uuid.NewString(),
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// Start subscribes to the Redis channel and relays remote events into the
// local hub until Stop is called or ctx is cancelled.
func (b *Bridge) Start(ctx context.Context) {
	ctx, b.cancel = context.WithCancel(ctx)
	sub := b.client.Subscribe(ctx, b.channel)
	go func() {
		defer close(b.done)
		defer func() { _ = sub.Close() }()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var env bridgeEnvelope
				if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
					b.logger.Warn("realtime bridge: bad payload", "error", err)
					continue
				}
				if env.Origin == b.origin {
					continue
				}
				b.hub.Publish(env.Event)
			}
		}
	}()
}

// Publish delivers ev to local subscribers and relays it to other
// instances through Redis.
func (b *Bridge) Publish(ev Event) {
	b.hub.Publish(ev)
	payload, err := json.Marshal(bridgeEnvelope{Origin: b.origin, Event: ev})
	if err != nil {
		b.logger.Warn("realtime bridge: marshal failed", "error", err)
		return
	}
	if err := b.client.Publish(context.Background(), b.channel, payload).Err(); err != nil {
		b.logger.Warn("realtime bridge: publish failed", "error", err)
	}
}

// Stop ends the relay and waits for the reader goroutine to exit.
func (b *Bridge) Stop() {
	if b.cancel != nil {
		b.cancel()
	}
	<-b.done
}
