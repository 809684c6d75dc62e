// Copyright (c) 2025-2026 Prosperity Leaders
// SPDX-License-Identifier: GPL-3.0-or-later

package realtime

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prosperleaders/prosper-go/internal/model"
)

func TestMergeSection_TitleOnlyKeepsOtherFields(t *testing.T) {
	cur := model.Section{
		ID:              1,
		SectionName:     model.SectionHero,
		Title:           "We Are Growing the Team",
		Subtitle:        "Opportunities in the financial industry",
		BackgroundImage: sql.NullString{String: "https://example.com/bg.jpg", Valid: true},
	}

	got := MergeSection(cur, map[string]any{"title": "Join Us Today"})

	assert.Equal(t, "Join Us Today", got.Title)
	assert.Equal(t, cur.Subtitle, got.Subtitle)
	assert.Equal(t, cur.BackgroundImage, got.BackgroundImage)
}

func TestMergeSection_EmptyValueKeepsPrevious(t *testing.T) {
	cur := model.Section{Title: "Keep", Subtitle: "Also keep"}

	got := MergeSection(cur, map[string]any{"title": "", "subtitle": "New subtitle"})

	assert.Equal(t, "Keep", got.Title)
	assert.Equal(t, "New subtitle", got.Subtitle)
}

func TestMergeSection_SetsNullableImage(t *testing.T) {
	cur := model.Section{Title: "Hero"}

	got := MergeSection(cur, map[string]any{"background_image": "https://example.com/new.jpg"})

	assert.True(t, got.BackgroundImage.Valid)
	assert.Equal(t, "https://example.com/new.jpg", got.BackgroundImage.String)
}

func TestMergeItem_PartialUpdate(t *testing.T) {
	cur := model.SectionItem{
		ID:          4,
		SectionID:   2,
		Title:       "Flexible Schedule",
		Description: "Work on your own terms",
		IconName:    "Clock",
		OrderIndex:  1,
	}

	got := MergeItem(cur, map[string]any{"description": "Set your own hours"})

	assert.Equal(t, "Flexible Schedule", got.Title)
	assert.Equal(t, "Set your own hours", got.Description)
	assert.Equal(t, "Clock", got.IconName)
	assert.Equal(t, int64(1), got.OrderIndex)
}

func TestMergeItem_OrderIndexNumericForms(t *testing.T) {
	cur := model.SectionItem{OrderIndex: 1}

	// Local publishers carry int64; JSON-decoded bridge payloads carry float64.
	assert.Equal(t, int64(5), MergeItem(cur, map[string]any{"order_index": int64(5)}).OrderIndex)
	assert.Equal(t, int64(6), MergeItem(cur, map[string]any{"order_index": float64(6)}).OrderIndex)
	assert.Equal(t, int64(1), MergeItem(cur, map[string]any{"order_index": "bad"}).OrderIndex)
}
