// Copyright (c) 2025-2026 Prosperity Leaders
// SPDX-License-Identifier: GPL-3.0-or-later

package realtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prosperleaders/prosper-go/internal/model"
)

func TestSectionView_AppliesPartialUpdates(t *testing.T) {
	h := NewHub(testLogger())
	defer h.Close()

	v := NewSectionView(h, model.Section{
		ID:          1,
		SectionName: model.SectionHero,
		Title:       "We Are Growing the Team",
		Subtitle:    "Original subtitle",
	})
	defer v.Close()

	h.Publish(NewEvent(TableSections, OpUpdate, 1, map[string]any{
		"section_name": model.SectionHero,
		"title":        "Updated Title",
	}))

	require.Eventually(t, func() bool {
		return v.Section().Title == "Updated Title"
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, "Original subtitle", v.Section().Subtitle)
}

func TestSectionView_IgnoresOtherSections(t *testing.T) {
	h := NewHub(testLogger())
	defer h.Close()

	v := NewSectionView(h, model.Section{ID: 1, SectionName: model.SectionHero, Title: "Hero"})
	defer v.Close()

	h.Publish(NewEvent(TableSections, OpUpdate, 2, map[string]any{
		"section_name": model.SectionBenefits,
		"title":        "Benefits Title",
	}))

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, "Hero", v.Section().Title)
}

func TestSectionView_CloseStopsUpdates(t *testing.T) {
	h := NewHub(testLogger())
	defer h.Close()

	v := NewSectionView(h, model.Section{ID: 1, SectionName: model.SectionHero, Title: "Before"})
	v.Close()

	h.Publish(NewEvent(TableSections, OpUpdate, 1, map[string]any{
		"section_name": model.SectionHero,
		"title":        "After",
	}))

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, "Before", v.Section().Title)
	assert.Equal(t, 0, h.SubscriberCount())
}

func TestItemListView_InsertUpdateDelete(t *testing.T) {
	h := NewHub(testLogger())
	defer h.Close()

	v := NewItemListView(h, 2, []model.SectionItem{
		{ID: 10, SectionID: 2, Title: "First", OrderIndex: 1},
		{ID: 11, SectionID: 2, Title: "Second", OrderIndex: 2},
	})
	defer v.Close()

	h.Publish(NewEvent(TableItems, OpInsert, 12, map[string]any{
		"section_id":  int64(2),
		"title":       "Zeroth",
		"order_index": int64(0),
	}))
	require.Eventually(t, func() bool { return len(v.Items()) == 3 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, "Zeroth", v.Items()[0].Title)

	h.Publish(NewEvent(TableItems, OpUpdate, 10, map[string]any{
		"section_id": int64(2),
		"title":      "First Renamed",
	}))
	require.Eventually(t, func() bool { return v.Items()[1].Title == "First Renamed" }, time.Second, 10*time.Millisecond)

	h.Publish(NewEvent(TableItems, OpDelete, 11, map[string]any{
		"section_id": int64(2),
	}))
	require.Eventually(t, func() bool { return len(v.Items()) == 2 }, time.Second, 10*time.Millisecond)
	for _, it := range v.Items() {
		assert.NotEqual(t, int64(11), it.ID)
	}
}

func TestItemListView_IgnoresOtherSectionItems(t *testing.T) {
	h := NewHub(testLogger())
	defer h.Close()

	v := NewItemListView(h, 2, nil)
	defer v.Close()

	h.Publish(NewEvent(TableItems, OpInsert, 20, map[string]any{
		"section_id": int64(3),
		"title":      "Elsewhere",
	}))

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, v.Items())
}
