// Copyright (c) 2025-2026 Prosperity Leaders
// SPDX-License-Identifier: GPL-3.0-or-later

// Command prosper serves the Prosperity Leaders marketing site and its
// content admin panel.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/prosperleaders/prosper-go/internal/auth"
	"github.com/prosperleaders/prosper-go/internal/cache"
	"github.com/prosperleaders/prosper-go/internal/config"
	"github.com/prosperleaders/prosper-go/internal/content"
	"github.com/prosperleaders/prosper-go/internal/editor"
	"github.com/prosperleaders/prosper-go/internal/handler"
	"github.com/prosperleaders/prosper-go/internal/logging"
	"github.com/prosperleaders/prosper-go/internal/middleware"
	"github.com/prosperleaders/prosper-go/internal/model"
	"github.com/prosperleaders/prosper-go/internal/realtime"
	"github.com/prosperleaders/prosper-go/internal/render"
	"github.com/prosperleaders/prosper-go/internal/scheduler"
	"github.com/prosperleaders/prosper-go/internal/service"
	"github.com/prosperleaders/prosper-go/internal/session"
	"github.com/prosperleaders/prosper-go/internal/store"
	"github.com/prosperleaders/prosper-go/internal/version"
	"github.com/prosperleaders/prosper-go/web"
)

// Injected at build time via -ldflags.
var (
	appVersion   string
	appGitCommit string
	appBuildTime string
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	buildInfo := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
	slog.Info("starting", "version", buildInfo.String())

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("closing database", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// Upgrade logger to also write WARN and ERROR records to the events table
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)

	ctx := context.Background()
	queries := store.New(db)
	if cfg.DoSeed {
		if err := store.Seed(ctx, db); err != nil {
			return fmt.Errorf("seeding admin user: %w", err)
		}
		if err := content.SeedDefaults(ctx, queries, logger); err != nil {
			return fmt.Errorf("seeding default content: %w", err)
		}
	}

	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	hub := realtime.NewHub(logger)
	defer hub.Close()

	// When Redis is configured, content events fan out across processes
	// and the section cache is shared; otherwise both stay in-process.
	var publisher realtime.Publisher = hub
	innerCache, err := cache.New(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: time.Duration(cfg.CacheTTL) * time.Second,
		MaxSize:    cfg.CacheMaxSize,
	})
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() {
		if err := innerCache.Close(); err != nil {
			slog.Error("closing cache", "error", err)
		}
	}()

	if rc, ok := innerCache.(*cache.RedisCache); ok {
		bridge := realtime.NewBridge(rc.Client(), hub, cfg.CachePrefix+"content-events", logger)
		bridge.Start(ctx)
		defer bridge.Stop()
		publisher = bridge
		slog.Info("realtime redis bridge started")
	}

	sectionCache := cache.NewSectionCache(innerCache, time.Duration(cfg.CacheTTL)*time.Second)
	stopWatch := sectionCache.Watch(hub)
	defer stopWatch()

	repo := content.NewRepository(queries, publisher, logger)
	workflow := editor.NewWorkflow(repo, logger)
	mockStore := auth.NewMockStore(cfg.MockSessionPath)
	provider := auth.NewLocalProvider(db)
	eventService := service.NewEventService(db)

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	sched := scheduler.New(db, mockStore, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())

	frontendHandler := handler.NewFrontendHandler(db, repo, sectionCache, renderer, sessionManager)
	authHandler := handler.NewAuthHandler(db, renderer, sessionManager, loginProtection, mockStore, provider)
	adminHandler := handler.NewAdminHandler(db, repo, workflow, renderer, sessionManager)
	sseHandler := handler.NewSSEHandler(hub)
	healthHandler := handler.NewHealthHandler(db)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))

	csrfMiddleware := middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment()))

	// SSE stream: no gzip, no request timeout, lives as long as the client
	r.Group(func(r chi.Router) {
		r.Get(handler.RouteSSE, sseHandler.ContentEvents)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Compress(5))
		r.Use(middleware.Timeout(30 * time.Second))
		r.Use(csrfMiddleware)
		r.Use(sessionManager.LoadAndSave)
		r.Use(middleware.LoadSiteName(db))

		r.Get("/health", healthHandler.Health)
		r.Get(handler.RouteRoot, frontendHandler.Landing)
		r.Get(handler.RouteOnboarding, frontendHandler.Onboarding)
		r.Post(handler.RouteJoin, frontendHandler.JoinSubmit)

		r.Group(func(r chi.Router) {
			r.Use(loginProtection.Middleware())
			r.Get(handler.RouteAdminLogin, authHandler.LoginForm)
			r.Post(handler.RouteAdminLogin, authHandler.Login)
		})
		r.Get("/login", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, handler.RouteAdminLogin, http.StatusMovedPermanently)
		})
		r.Post("/admin/logout", authHandler.Logout)

		r.Route(handler.RouteAdmin, func(r chi.Router) {
			r.Use(middleware.Auth(sessionManager))
			r.Use(middleware.LoadUser(sessionManager, db, mockStore))
			r.Use(middleware.RequireRoleWithEventLog(model.RoleManager, eventService))

			r.Get("/", adminHandler.Dashboard)
			r.Get("/sections/{name}", adminHandler.SectionEditForm)
			r.Post("/sections/{name}", adminHandler.SectionEditSubmit)
			r.Get("/sections/{name}/items/new", adminHandler.ItemNewForm)
			r.Post("/sections/{name}/items", adminHandler.ItemNewSubmit)
			r.Get("/items/{id}", adminHandler.ItemEditForm)
			r.Post("/items/{id}", adminHandler.ItemEditSubmit)
			r.Post("/items/{id}/delete", adminHandler.ItemDelete)
			r.Get("/leads", adminHandler.Leads)
			r.Post("/leads/{id}/status", adminHandler.LeadStatus)
			r.Post("/leads/{id}/delete", adminHandler.LeadDelete)
			r.Get("/settings", adminHandler.Settings)
			r.Post("/settings", adminHandler.SettingsSubmit)
			r.Get("/events", adminHandler.Events)
		})
	})

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	staticHandler := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
	r.Handle("/static/*", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=86400")
		staticHandler.ServeHTTP(w, req)
	}))

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      0, // SSE connections stay open
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
