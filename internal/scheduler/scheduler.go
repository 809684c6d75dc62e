// Copyright (c) 2025-2026 Prosperity Leaders
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs recurring maintenance jobs: pruning old event log
// entries and expiring the persisted mock admin session.
package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/prosperleaders/prosper-go/internal/auth"
	"github.com/prosperleaders/prosper-go/internal/store"
)

// EventRetention is how long event log entries are kept.
const EventRetention = 90 * 24 * time.Hour

// MockSessionMaxAge is how long a persisted mock admin session stays valid.
const MockSessionMaxAge = 24 * time.Hour

// Scheduler handles recurring maintenance tasks.
type Scheduler struct {
	db        *sql.DB
	mockStore *auth.MockStore
	cron      *cron.Cron
	logger    *slog.Logger
}

// New creates a new scheduler instance.
func New(db *sql.DB, mockStore *auth.MockStore, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		db:        db,
		mockStore: mockStore,
		cron:      cron.New(),
		logger:    logger,
	}
}

// Start registers the maintenance jobs and begins the cron loop. Event
// pruning runs hourly; mock session expiry is checked every minute.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 * * * *", func() {
		if err := s.pruneEvents(); err != nil {
			s.logger.Error("failed to prune events", "error", err)
		}
	}); err != nil {
		return err
	}

	if _, err := s.cron.AddFunc("* * * * *", func() {
		if err := s.expireMockSession(); err != nil {
			s.logger.Error("failed to expire mock session", "error", err)
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// pruneEvents deletes event log entries older than the retention window.
func (s *Scheduler) pruneEvents() error {
	cutoff := time.Now().Add(-EventRetention)
	deleted, err := store.New(s.db).DeleteEventsBefore(context.Background(), cutoff)
	if err != nil {
		return err
	}
	if deleted > 0 {
		s.logger.Info("pruned old events", "deleted", deleted, "cutoff", cutoff)
	}
	return nil
}

// expireMockSession clears the persisted mock admin session once it is
// older than MockSessionMaxAge.
func (s *Scheduler) expireMockSession() error {
	if s.mockStore == nil {
		return nil
	}
	session, err := s.mockStore.Get()
	if err != nil || session == nil {
		return err
	}
	if session.CreatedAt.IsZero() || time.Since(session.CreatedAt) < MockSessionMaxAge {
		return nil
	}
	s.logger.Info("expiring stale mock admin session", "created_at", session.CreatedAt)
	return s.mockStore.Clear()
}
