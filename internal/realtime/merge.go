// Copyright (c) 2025-2026 Prosperity Leaders
// SPDX-License-Identifier: GPL-3.0-or-later

package realtime

import (
	"database/sql"

	"github.com/prosperleaders/prosper-go/internal/model"
)

// The merge reducers fold a partial row image into current state: an
// incoming non-empty field value wins, and any field absent from the event
// keeps its previous value. This is a deliberate partial-update policy, not
// a full replace, so events carrying only a subset of columns are safe to
// apply.

// MergeSection returns cur with the event row's fields folded in.
func MergeSection(cur model.Section, row map[string]any) model.Section {
	next := cur
	next.Title = mergeString(cur.Title, row, "title")
	next.Subtitle = mergeString(cur.Subtitle, row, "subtitle")
	next.BackgroundImage = mergeNullString(cur.BackgroundImage, row, "background_image")
	next.FeaturedImage = mergeNullString(cur.FeaturedImage, row, "featured_image")
	return next
}

// MergeItem returns cur with the event row's fields folded in.
func MergeItem(cur model.SectionItem, row map[string]any) model.SectionItem {
	next := cur
	next.Title = mergeString(cur.Title, row, "title")
	next.Description = mergeString(cur.Description, row, "description")
	next.IconName = mergeString(cur.IconName, row, "icon_name")
	next.ImageURL = mergeNullString(cur.ImageURL, row, "image_url")
	next.OrderIndex = mergeInt(cur.OrderIndex, row, "order_index")
	return next
}

func mergeString(cur string, row map[string]any, key string) string {
	v, ok := row[key]
	if !ok {
		return cur
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return cur
	}
	return s
}

func mergeNullString(cur sql.NullString, row map[string]any, key string) sql.NullString {
	v, ok := row[key]
	if !ok {
		return cur
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return cur
	}
	return sql.NullString{String: s, Valid: true}
}

func mergeInt(cur int64, row map[string]any, key string) int64 {
	v, ok := row[key]
	if !ok {
		return cur
	}
	// JSON decoding yields float64 for numbers; local publishers use int64.
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return cur
	}
}
