// Copyright (c) 2025-2026 Prosperity Leaders
// SPDX-License-Identifier: GPL-3.0-or-later

package realtime

import (
	"sort"
	"strconv"
	"sync"

	"github.com/prosperleaders/prosper-go/internal/model"
)

// SectionView holds the live state of a single content section. It is
// seeded with a fetched snapshot and then kept current by applying change
// events from its subscription in arrival order.
type SectionView struct {
	mu      sync.RWMutex
	section model.Section
	sub     *Subscription
	done    chan struct{}
}

// NewSectionView seeds a view with the given snapshot and starts consuming
// change events for the section's name. Call Close when done.
func NewSectionView(hub *Hub, snapshot model.Section) *SectionView {
	v := &SectionView{
		section: snapshot,
		sub:     hub.Subscribe(TableSections, &Filter{Column: "section_name", Equals: snapshot.SectionName}),
		done:    make(chan struct{}),
	}
	go v.consume()
	return v
}

// Section returns the current section state.
func (v *SectionView) Section() model.Section {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.section
}

// Close stops the view. No further state updates happen after Close returns.
func (v *SectionView) Close() {
	v.sub.Unsubscribe()
	<-v.done
}

func (v *SectionView) consume() {
	defer close(v.done)
	for ev := range v.sub.Events() {
		if ev.Op != OpUpdate && ev.Op != OpInsert {
			continue
		}
		v.mu.Lock()
		v.section = MergeSection(v.section, ev.Row)
		v.mu.Unlock()
	}
}

// ItemListView holds the live item list of one section, ordered by
// order_index. Inserts, updates and deletes from the subscription are
// applied in arrival order.
type ItemListView struct {
	mu    sync.RWMutex
	items []model.SectionItem
	sub   *Subscription
	done  chan struct{}
}

// NewItemListView seeds a view with the given snapshot and starts consuming
// change events for items of the given section. Call Close when done.
func NewItemListView(hub *Hub, sectionID int64, snapshot []model.SectionItem) *ItemListView {
	v := &ItemListView{
		items: append([]model.SectionItem(nil), snapshot...),
		sub:   hub.Subscribe(TableItems, &Filter{Column: "section_id", Equals: strconv.FormatInt(sectionID, 10)}),
		done:  make(chan struct{}),
	}
	sortItems(v.items)
	go v.consume()
	return v
}

// Items returns a copy of the current item list.
func (v *ItemListView) Items() []model.SectionItem {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]model.SectionItem(nil), v.items...)
}

// Close stops the view. No further state updates happen after Close returns.
func (v *ItemListView) Close() {
	v.sub.Unsubscribe()
	<-v.done
}

func (v *ItemListView) consume() {
	defer close(v.done)
	for ev := range v.sub.Events() {
		v.mu.Lock()
		switch ev.Op {
		case OpInsert:
			v.applyInsert(ev)
		case OpUpdate:
			v.applyUpdate(ev)
		case OpDelete:
			v.applyDelete(ev)
		}
		v.mu.Unlock()
	}
}

func (v *ItemListView) applyInsert(ev Event) {
	for i := range v.items {
		if v.items[i].ID == ev.RowID {
			v.items[i] = MergeItem(v.items[i], ev.Row)
			sortItems(v.items)
			return
		}
	}
	item := model.SectionItem{ID: ev.RowID}
	item = MergeItem(item, ev.Row)
	if sid, ok := ev.Row["section_id"]; ok {
		switch n := sid.(type) {
		case int64:
			item.SectionID = n
		case float64:
			item.SectionID = int64(n)
		}
	}
	v.items = append(v.items, item)
	sortItems(v.items)
}

func (v *ItemListView) applyUpdate(ev Event) {
	for i := range v.items {
		if v.items[i].ID == ev.RowID {
			v.items[i] = MergeItem(v.items[i], ev.Row)
			sortItems(v.items)
			return
		}
	}
}

func (v *ItemListView) applyDelete(ev Event) {
	for i := range v.items {
		if v.items[i].ID == ev.RowID {
			v.items = append(v.items[:i], v.items[i+1:]...)
			return
		}
	}
}

func sortItems(items []model.SectionItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].OrderIndex < items[j].OrderIndex
	})
}
