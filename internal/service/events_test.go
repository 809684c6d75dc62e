// Copyright (c) 2025-2026 Prosperity Leaders
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prosperleaders/prosper-go/internal/model"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level TEXT NOT NULL DEFAULT 'info',
			category TEXT NOT NULL DEFAULT 'system',
			message TEXT NOT NULL,
			user_id INTEGER,
			metadata TEXT NOT NULL DEFAULT '{}',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	require.NoError(t, err)
	return db
}

func TestEventService_LogAndList(t *testing.T) {
	db := testDB(t)
	svc := NewEventService(db)
	ctx := context.Background()

	userID := int64(7)
	require.NoError(t, svc.LogAuthEvent(ctx, model.EventLevelInfo, "admin login", &userID, map[string]any{"mock": true}))
	require.NoError(t, svc.LogContentEvent(ctx, model.EventLevelInfo, "hero section updated", &userID, nil))
	require.NoError(t, svc.LogLeadEvent(ctx, model.EventLevelInfo, "lead created", nil, nil))

	events, err := svc.RecentEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 3)

	// Newest first.
	assert.Equal(t, model.EventCategoryLead, events[0].Category)
	assert.False(t, events[0].UserID.Valid)

	var authEvent model.Event
	for _, ev := range events {
		if ev.Category == model.EventCategoryAuth {
			authEvent = ev
		}
	}
	assert.Equal(t, "admin login", authEvent.Message)
	assert.Equal(t, int64(7), authEvent.UserID.Int64)
	assert.Contains(t, authEvent.Metadata, `"mock":true`)
}

func TestEventService_PurgeEventsBefore(t *testing.T) {
	db := testDB(t)
	svc := NewEventService(db)
	ctx := context.Background()

	require.NoError(t, svc.LogInfo(ctx, model.EventCategorySystem, "old news", nil, nil))

	deleted, err := svc.PurgeEventsBefore(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	events, err := svc.RecentEvents(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}
