// Copyright (c) 2025-2026 Prosperity Leaders
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/prosperleaders/prosper-go/internal/auth"
	"github.com/prosperleaders/prosper-go/internal/content"
	"github.com/prosperleaders/prosper-go/internal/editor"
	"github.com/prosperleaders/prosper-go/internal/middleware"
	"github.com/prosperleaders/prosper-go/internal/realtime"
	"github.com/prosperleaders/prosper-go/internal/render"
	"github.com/prosperleaders/prosper-go/internal/store"
	"github.com/prosperleaders/prosper-go/web"
)

const testSchema = `
	CREATE TABLE content_sections (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		section_name TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		subtitle TEXT NOT NULL DEFAULT '',
		background_image TEXT,
		featured_image TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE section_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		section_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		icon_name TEXT NOT NULL DEFAULT '',
		image_url TEXT,
		order_index INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (section_id) REFERENCES content_sections(id) ON DELETE CASCADE
	);
	CREATE TABLE site_settings (
		setting_key TEXT PRIMARY KEY,
		setting_value TEXT NOT NULL DEFAULT '',
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE leads (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		uuid TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT,
		interest TEXT NOT NULL DEFAULT '',
		message TEXT,
		status TEXT NOT NULL DEFAULT 'new'
			CHECK (status IN ('new', 'contacted', 'qualified', 'closed')),
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'user',
		name TEXT NOT NULL DEFAULT '',
		last_login_at DATETIME,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		level TEXT NOT NULL,
		category TEXT NOT NULL,
		message TEXT NOT NULL,
		user_id INTEGER,
		metadata TEXT NOT NULL DEFAULT '{}',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
`

// testApp bundles everything a handler test needs.
type testApp struct {
	db        *sql.DB
	queries   *store.Queries
	repo      *content.Repository
	workflow  *editor.Workflow
	hub       *realtime.Hub
	sm        *scs.SessionManager
	mockStore *auth.MockStore
	router    chi.Router
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	queries := store.New(db)
	require.NoError(t, content.SeedDefaults(context.Background(), queries, logger))

	hub := realtime.NewHub(logger)
	t.Cleanup(hub.Close)

	repo := content.NewRepository(queries, hub, logger)
	workflow := editor.NewWorkflow(repo, logger)
	mockStore := auth.NewMockStore(filepath.Join(t.TempDir(), "mock_session.json"))

	sm := scs.New()
	sm.Lifetime = time.Hour

	templatesFS, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)
	renderer, err := render.New(render.Config{TemplatesFS: templatesFS, SessionManager: sm})
	require.NoError(t, err)

	provider := auth.NewLocalProvider(db)
	frontend := NewFrontendHandler(db, repo, nil, renderer, sm)
	authHandler := NewAuthHandler(db, renderer, sm, nil, mockStore, provider)
	admin := NewAdminHandler(db, repo, workflow, renderer, sm)
	sse := NewSSEHandler(hub)
	health := NewHealthHandler(db)

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)

	r.Get(RouteRoot, frontend.Landing)
	r.Post(RouteJoin, frontend.JoinSubmit)
	r.Get(RouteOnboarding, frontend.Onboarding)
	r.Get(RouteSSE, sse.ContentEvents)
	r.Get("/health", health.Health)

	r.Get(RouteAdminLogin, authHandler.LoginForm)
	r.Post(RouteAdminLogin, authHandler.Login)
	r.Post("/admin/logout", authHandler.Logout)

	r.Route(RouteAdmin, func(r chi.Router) {
		r.Use(middleware.Auth(sm))
		r.Use(middleware.LoadUser(sm, db, mockStore))
		r.Use(middleware.RequireManager())

		r.Get("/", admin.Dashboard)
		r.Get("/sections/{name}", admin.SectionEditForm)
		r.Post("/sections/{name}", admin.SectionEditSubmit)
		r.Get("/sections/{name}/items/new", admin.ItemNewForm)
		r.Post("/sections/{name}/items", admin.ItemNewSubmit)
		r.Get("/items/{id}", admin.ItemEditForm)
		r.Post("/items/{id}", admin.ItemEditSubmit)
		r.Post("/items/{id}/delete", admin.ItemDelete)
		r.Get("/leads", admin.Leads)
		r.Post("/leads/{id}/status", admin.LeadStatus)
		r.Post("/leads/{id}/delete", admin.LeadDelete)
		r.Get("/settings", admin.Settings)
		r.Post("/settings", admin.SettingsSubmit)
		r.Get("/events", admin.Events)
	})

	return &testApp{
		db:        db,
		queries:   queries,
		repo:      repo,
		workflow:  workflow,
		hub:       hub,
		sm:        sm,
		mockStore: mockStore,
		router:    r,
	}
}

// createTestUser inserts a user with a hashed password.
func (a *testApp) createTestUser(t *testing.T, email, password, role string) int64 {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	res, err := a.db.Exec(
		`INSERT INTO users (email, password_hash, role, name) VALUES (?, ?, ?, ?)`,
		email, hash, role, "Test User")
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// testClient returns an http client that keeps cookies across requests
// and does not follow redirects, so tests can assert on them.
func testClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
