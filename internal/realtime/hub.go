// Copyright (c) 2025-2026 Prosperity Leaders
// SPDX-License-Identifier: GPL-3.0-or-later

package realtime

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// subscriptionBuffer is the per-subscription event channel capacity.
// Events beyond a full buffer are dropped with a warning rather than
// blocking the publisher.
const subscriptionBuffer = 64

// Hub fans row-change events out to table-scoped subscriptions. Events are
// delivered to each subscription in arrival order; no ordering holds across
// different subscriptions.
type Hub struct {
	logger *slog.Logger

	mu      sync.RWMutex
	subs    map[int64]*Subscription
	nextID  int64
	closed  bool
	dropped atomic.Int64
}

// Subscription is a live event feed for one table, optionally narrowed by a
// row filter. Consumers read from Events and must call Unsubscribe when
// done; an unreleased subscription keeps delivering (and duplicates events
// on resubscribe), which is the primary leak hazard here.
type Subscription struct {
	id     int64
	table  string
	filter *Filter
	events chan Event
	hub    *Hub
	once   sync.Once
}

// Events returns the subscription's event channel. The channel is closed
// by Unsubscribe and by Hub.Close.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Unsubscribe releases the subscription. No events are delivered after it
// returns. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.hub.remove(s.id)
		close(s.events)
	})
}

// NewHub creates a hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger: logger,
		subs:   make(map[int64]*Subscription),
	}
}

// Subscribe opens a subscription for the given table. A nil filter matches
// every event on the table.
func (h *Hub) Subscribe(table string, filter *Filter) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &Subscription{
		id:     h.nextID,
		table:  table,
		filter: filter,
		events: make(chan Event, subscriptionBuffer),
		hub:    h,
	}
	h.nextID++
	if !h.closed {
		h.subs[sub.id] = sub
	} else {
		close(sub.events)
	}
	return sub
}

// Publish delivers an event to every matching subscription. Subscriptions
// with a full buffer lose the event.
func (h *Hub) Publish(e Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return
	}

	for _, sub := range h.subs {
		if sub.table != e.Table || !sub.filter.Matches(e) {
			continue
		}
		select {
		case sub.events <- e:
		default:
			h.dropped.Add(1)
			h.logger.Warn("realtime subscription buffer full, dropping event",
				"table", e.Table, "op", e.Op, "row_id", e.RowID)
		}
	}
}

// Dropped returns the number of events lost to full subscriber buffers.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

// SubscriberCount returns the number of live subscriptions. Used by tests
// and the health endpoint.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close shuts the hub down, releasing every subscription.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	subs := make([]*Subscription, 0, len(h.subs))
	for _, sub := range h.subs {
		subs = append(subs, sub)
	}
	h.subs = make(map[int64]*Subscription)
	h.mu.Unlock()

	for _, sub := range subs {
		sub.once.Do(func() { close(sub.events) })
	}
	h.logger.Info("realtime hub closed", "released", len(subs))
}

func (h *Hub) remove(id int64) {
	h.mu.Lock()
	delete(h.subs, id)
	h.mu.Unlock()
}
