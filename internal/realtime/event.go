// Copyright (c) 2025-2026 Prosperity Leaders
// SPDX-License-Identifier: GPL-3.0-or-later

// Package realtime keeps locally displayed content state consistent with
// store-originated changes. It provides a hub for row-change events,
// per-concern subscriptions, and pure merge reducers that fold partial row
// images into current state.
package realtime

import (
	"strconv"
	"time"
)

// Change operations.
const (
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Tables that emit change events.
const (
	TableSections = "content_sections"
	TableItems    = "section_items"
	TableSettings = "site_settings"
)

// Event is a row-change notification. Row holds the new row image and may
// carry only a subset of columns; consumers merge rather than replace.
type Event struct {
	Table     string         `json:"table"`
	Op        string         `json:"op"`
	RowID     int64          `json:"row_id"`
	Row       map[string]any `json:"row,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewEvent creates an event for the given table, operation and row image.
func NewEvent(table, op string, rowID int64, row map[string]any) Event {
	return Event{
		Table:     table,
		Op:        op,
		RowID:     rowID,
		Row:       row,
		Timestamp: time.Now().UTC(),
	}
}

// Filter narrows a subscription to rows whose column equals a value,
// mirroring a server-side row predicate such as section_name = 'hero'.
type Filter struct {
	Column string
	Equals string
}

// Matches reports whether the event's row satisfies the filter. Events
// lacking the filter column do not match. Numeric column values compare
// against the decimal rendering of the filter value.
func (f *Filter) Matches(e Event) bool {
	if f == nil {
		return true
	}
	v, ok := e.Row[f.Column]
	if !ok {
		return false
	}
	switch n := v.(type) {
	case string:
		return n == f.Equals
	case int64:
		return strconv.FormatInt(n, 10) == f.Equals
	case int:
		return strconv.Itoa(n) == f.Equals
	case float64:
		return strconv.FormatInt(int64(n), 10) == f.Equals
	default:
		return false
	}
}
