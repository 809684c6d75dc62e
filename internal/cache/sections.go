// Copyright (c) 2025-2026 Prosperity Leaders
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/prosperleaders/prosper-go/internal/model"
	"github.com/prosperleaders/prosper-go/internal/realtime"
)

// SectionData is the cached unit for one landing page section: the section
// row plus its ordered items.
type SectionData struct {
	Section model.Section       `json:"section"`
	Items   []model.SectionItem `json:"items"`
}

// SectionCache caches assembled sections and invalidates them when change
// events arrive. The page handlers read through it so repeat renders skip
// the store.
type SectionCache struct {
	inner Cache
	ttl   time.Duration

	mu    sync.Mutex
	names map[int64]string // section ID -> name, for item event invalidation
}

// NewSectionCache wraps a byte cache with section-typed access.
func NewSectionCache(inner Cache, ttl time.Duration) *SectionCache {
	return &SectionCache{
		inner: inner,
		ttl:   ttl,
		names: make(map[int64]string),
	}
}

func sectionKey(name string) string {
	return "section:" + name
}

// Get returns the cached section data, or ErrCacheMiss.
func (c *SectionCache) Get(ctx context.Context, name string) (SectionData, error) {
	raw, err := c.inner.Get(ctx, sectionKey(name))
	if err != nil {
		return SectionData{}, err
	}
	var data SectionData
	if err := json.Unmarshal(raw, &data); err != nil {
		// A corrupt entry behaves like a miss after being dropped.
		_ = c.inner.Delete(ctx, sectionKey(name))
		return SectionData{}, ErrCacheMiss
	}
	return data, nil
}

// Set stores section data under its section name.
func (c *SectionCache) Set(ctx context.Context, data SectionData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.names[data.Section.ID] = data.Section.SectionName
	c.mu.Unlock()
	return c.inner.Set(ctx, sectionKey(data.Section.SectionName), raw, c.ttl)
}

// Invalidate drops one section from the cache.
func (c *SectionCache) Invalidate(ctx context.Context, name string) error {
	err := c.inner.Delete(ctx, sectionKey(name))
	if errors.Is(err, ErrCacheClosed) {
		return nil
	}
	return err
}

// Watch subscribes to content change events and invalidates affected
// sections as they arrive. The returned stop function releases the
// subscriptions.
func (c *SectionCache) Watch(hub *realtime.Hub) func() {
	sections := hub.Subscribe(realtime.TableSections, nil)
	items := hub.Subscribe(realtime.TableItems, nil)

	go func() {
		for ev := range sections.Events() {
			if name, ok := ev.Row["section_name"].(string); ok {
				_ = c.Invalidate(context.Background(), name)
			}
		}
	}()
	go func() {
		for ev := range items.Events() {
			c.invalidateBySectionID(ev)
		}
	}()

	return func() {
		sections.Unsubscribe()
		items.Unsubscribe()
	}
}

func (c *SectionCache) invalidateBySectionID(ev realtime.Event) {
	var id int64
	switch n := ev.Row["section_id"].(type) {
	case int64:
		id = n
	case float64:
		id = int64(n)
	case string:
		id, _ = strconv.ParseInt(n, 10, 64)
	default:
		return
	}

	c.mu.Lock()
	name, ok := c.names[id]
	c.mu.Unlock()
	if ok {
		_ = c.Invalidate(context.Background(), name)
	}
}
