// Copyright (c) 2025-2026 Prosperity Leaders
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"

	"github.com/prosperleaders/prosper-go/internal/cache"
	"github.com/prosperleaders/prosper-go/internal/content"
	"github.com/prosperleaders/prosper-go/internal/middleware"
	"github.com/prosperleaders/prosper-go/internal/model"
	"github.com/prosperleaders/prosper-go/internal/render"
	"github.com/prosperleaders/prosper-go/internal/service"
	"github.com/prosperleaders/prosper-go/internal/store"
)

// FrontendHandler serves the public pages.
type FrontendHandler struct {
	repo           *content.Repository
	sections       *cache.SectionCache
	queries        *store.Queries
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
	eventService   *service.EventService
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(db *sql.DB, repo *content.Repository, sections *cache.SectionCache, renderer *render.Renderer, sm *scs.SessionManager) *FrontendHandler {
	return &FrontendHandler{
		repo:           repo,
		sections:       sections,
		queries:        store.New(db),
		renderer:       renderer,
		sessionManager: sm,
		eventService:   service.NewEventService(db),
	}
}

// landingData carries the four landing page sections.
type landingData struct {
	Hero          cache.SectionData
	Opportunities cache.SectionData
	Benefits      cache.SectionData
	Leadership    cache.SectionData
}

// loadSection returns a section with its items, preferring the cache and
// falling back to built-in defaults when no row exists yet.
func (h *FrontendHandler) loadSection(ctx context.Context, name string) cache.SectionData {
	if h.sections != nil {
		if data, err := h.sections.Get(ctx, name); err == nil {
			return data
		}
	}

	section, err := h.repo.FetchSection(ctx, name)
	if err != nil {
		if !errors.Is(err, content.ErrNotFound) {
			slog.Error("fetching section", "section", name, "error", err)
		}
		def, _ := content.DefaultSection(name)
		return cache.SectionData{Section: def, Items: content.DefaultItems(name)}
	}

	items, err := h.repo.FetchItems(ctx, section.ID)
	if err != nil {
		slog.Error("fetching section items", "section", name, "error", err)
	}

	data := cache.SectionData{Section: section, Items: items}
	if h.sections != nil {
		if err := h.sections.Set(ctx, data); err != nil {
			slog.Debug("caching section", "section", name, "error", err)
		}
	}
	return data
}

// Landing renders the landing page.
func (h *FrontendHandler) Landing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := landingData{
		Hero:          h.loadSection(ctx, model.SectionHero),
		Opportunities: h.loadSection(ctx, model.SectionOpportunities),
		Benefits:      h.loadSection(ctx, model.SectionBenefits),
		Leadership:    h.loadSection(ctx, model.SectionLeadership),
	}

	err := h.renderer.Render(w, r, "site/landing", render.TemplateData{
		SiteName:  middleware.GetSiteName(r),
		Data:      data,
		CSRFToken: h.sessionManager.Token(ctx),
	})
	if err != nil {
		slog.Error("rendering landing page", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Onboarding renders the post-signup onboarding page.
func (h *FrontendHandler) Onboarding(w http.ResponseWriter, r *http.Request) {
	err := h.renderer.Render(w, r, "site/onboarding", render.TemplateData{
		Title:    "Welcome",
		SiteName: middleware.GetSiteName(r),
	})
	if err != nil {
		slog.Error("rendering onboarding page", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// JoinSubmit handles the public lead-capture form.
func (h *FrontendHandler) JoinSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, RouteRoot, "Invalid form data.")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	phone := strings.TrimSpace(r.FormValue("phone"))
	interest := strings.TrimSpace(r.FormValue("interest"))
	message := strings.TrimSpace(r.FormValue("message"))

	if name == "" || email == "" {
		flashError(w, r, h.renderer, RouteRoot+"#lead-form", "Name and email are required.")
		return
	}
	if interest == "" {
		interest = "full-time"
	}

	now := time.Now().UTC()
	lead, err := h.queries.CreateLead(r.Context(), store.CreateLeadParams{
		UUID:      uuid.NewString(),
		Name:      name,
		Email:     email,
		Phone:     nullString(phone),
		Interest:  interest,
		Message:   nullString(message),
		Status:    model.LeadStatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		slog.Error("creating lead", "error", err)
		flashError(w, r, h.renderer, RouteRoot+"#lead-form", "Something went wrong. Please try again.")
		return
	}

	_ = h.eventService.LogLeadEvent(r.Context(), model.EventLevelInfo, "New lead received", nil,
		map[string]any{"lead_id": lead.ID, "interest": lead.Interest})

	http.Redirect(w, r, RouteOnboarding, http.StatusSeeOther)
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
