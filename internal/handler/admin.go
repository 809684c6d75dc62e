// Copyright (c) 2025-2026 Prosperity Leaders
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/prosperleaders/prosper-go/internal/cache"
	"github.com/prosperleaders/prosper-go/internal/content"
	"github.com/prosperleaders/prosper-go/internal/editor"
	"github.com/prosperleaders/prosper-go/internal/middleware"
	"github.com/prosperleaders/prosper-go/internal/model"
	"github.com/prosperleaders/prosper-go/internal/render"
	"github.com/prosperleaders/prosper-go/internal/service"
	"github.com/prosperleaders/prosper-go/internal/store"
)

// AdminHandler handles the content admin panel.
type AdminHandler struct {
	repo           *content.Repository
	workflow       *editor.Workflow
	queries        *store.Queries
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
	eventService   *service.EventService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(db *sql.DB, repo *content.Repository, workflow *editor.Workflow, renderer *render.Renderer, sm *scs.SessionManager) *AdminHandler {
	return &AdminHandler{
		repo:           repo,
		workflow:       workflow,
		queries:        store.New(db),
		renderer:       renderer,
		sessionManager: sm,
		eventService:   service.NewEventService(db),
	}
}

// render wraps renderer.Render with the shared admin template data.
func (h *AdminHandler) render(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	err := h.renderer.Render(w, r, name, render.TemplateData{
		Title:     title,
		SiteName:  middleware.GetSiteName(r),
		User:      middleware.GetUser(r),
		Data:      data,
		CSRFToken: h.sessionManager.Token(r.Context()),
	})
	if err != nil {
		slog.Error("rendering admin page", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// dashboardData lists every section with its items.
type dashboardData struct {
	Sections []cache.SectionData
}

// Dashboard renders the content overview.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sections, err := h.repo.FetchSections(ctx)
	if err != nil {
		slog.Error("listing sections", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := dashboardData{}
	for _, s := range sections {
		items, err := h.repo.FetchItems(ctx, s.ID)
		if err != nil {
			slog.Error("listing section items", "section", s.SectionName, "error", err)
		}
		data.Sections = append(data.Sections, cache.SectionData{Section: s, Items: items})
	}

	h.render(w, r, "admin/dashboard", "Content", data)
}

// sectionEditData carries the section under edit.
type sectionEditData struct {
	Section model.Section
}

// SectionEditForm opens an edit on a section and renders the form.
// Navigating here cancels any previously open edit.
func (h *AdminHandler) SectionEditForm(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	h.workflow.Cancel()
	draft, err := h.workflow.BeginSectionEdit(r.Context(), name)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.Error("opening section edit", "section", name, "error", err)
		flashError(w, r, h.renderer, RouteAdmin, "Could not open the section for editing.")
		return
	}

	h.render(w, r, "admin/section_edit", "Edit "+draft.Title, sectionEditData{
		Section: model.Section{
			SectionName:     draft.SectionName,
			Title:           draft.Title,
			Subtitle:        draft.Subtitle,
			BackgroundImage: nullString(draft.BackgroundImage),
			FeaturedImage:   nullString(draft.FeaturedImage),
		},
	})
}

// SectionEditSubmit commits a section edit.
func (h *AdminHandler) SectionEditSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")

	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, RouteAdmin, "Invalid form data.")
		return
	}

	// The form may arrive without an open edit, e.g. after a restart.
	if h.workflow.State() != editor.StateEditing {
		if _, err := h.workflow.BeginSectionEdit(ctx, name); err != nil {
			flashError(w, r, h.renderer, RouteAdmin, "Could not open the section for editing.")
			return
		}
	}

	result := h.workflow.CommitSection(ctx, editor.SectionDraft{
		SectionName:     name,
		Title:           strings.TrimSpace(r.FormValue("title")),
		Subtitle:        strings.TrimSpace(r.FormValue("subtitle")),
		BackgroundImage: strings.TrimSpace(r.FormValue("background_image")),
		FeaturedImage:   strings.TrimSpace(r.FormValue("featured_image")),
	})
	h.finishCommit(w, r, result, "Section saved.", "section", name)
}

// itemEditData carries the item form state.
type itemEditData struct {
	Item     model.SectionItem
	Creating bool
	Action   string
}

// ItemEditForm opens an edit on an item and renders the form.
func (h *AdminHandler) ItemEditForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := urlParamID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	item, err := h.queries.GetItemByID(ctx, id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	items, err := h.repo.FetchItems(ctx, item.SectionID)
	if err != nil {
		slog.Error("listing section items", "section_id", item.SectionID, "error", err)
		flashError(w, r, h.renderer, RouteAdmin, "Could not open the item for editing.")
		return
	}

	h.workflow.Cancel()
	draft, err := h.workflow.BeginItemEdit(ctx, items, id)
	if err != nil {
		flashError(w, r, h.renderer, RouteAdmin, "Could not open the item for editing.")
		return
	}

	h.render(w, r, "admin/item_edit", "Edit "+draft.Title, itemEditData{
		Item:   item,
		Action: "/admin/items/" + strconv.FormatInt(id, 10),
	})
}

// ItemEditSubmit commits an item edit.
func (h *AdminHandler) ItemEditSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := urlParamID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, RouteAdmin, "Invalid form data.")
		return
	}

	if h.workflow.State() != editor.StateEditing {
		if !h.reopenItemEdit(ctx, id) {
			flashError(w, r, h.renderer, RouteAdmin, "Could not open the item for editing.")
			return
		}
	}

	result := h.workflow.CommitItem(ctx, h.itemDraftFromForm(r, id, 0))
	h.finishCommit(w, r, result, "Item saved.", "item_id", id)
}

// ItemNewForm opens a create draft for a new item in a section.
func (h *AdminHandler) ItemNewForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")

	section, err := h.repo.FetchSection(ctx, name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	items, err := h.repo.FetchItems(ctx, section.ID)
	if err != nil {
		slog.Error("listing section items", "section", name, "error", err)
	}

	nextOrder := int64(1)
	for _, it := range items {
		if it.OrderIndex >= nextOrder {
			nextOrder = it.OrderIndex + 1
		}
	}

	h.workflow.Cancel()
	draft, err := h.workflow.BeginItemCreate(section.ID, nextOrder)
	if err != nil {
		flashError(w, r, h.renderer, RouteAdmin, "Could not start a new item.")
		return
	}

	h.render(w, r, "admin/item_edit", "New Item", itemEditData{
		Item: model.SectionItem{
			SectionID:  draft.SectionID,
			IconName:   model.IconStar,
			OrderIndex: draft.OrderIndex,
		},
		Creating: true,
		Action:   "/admin/sections/" + name + "/items",
	})
}

// ItemNewSubmit commits a new item draft.
func (h *AdminHandler) ItemNewSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")

	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, RouteAdmin, "Invalid form data.")
		return
	}

	if h.workflow.State() != editor.StateCreating {
		section, err := h.repo.FetchSection(ctx, name)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		if _, err := h.workflow.BeginItemCreate(section.ID, 0); err != nil {
			flashError(w, r, h.renderer, RouteAdmin, "Could not start a new item.")
			return
		}
	}

	result := h.workflow.CommitItem(ctx, h.itemDraftFromForm(r, 0, 0))
	h.finishCommit(w, r, result, "Item created.", "section", name)
}

// ItemDelete deletes an item. The form must carry confirmed=true or the
// delete is refused and nothing changes.
func (h *AdminHandler) ItemDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := urlParamID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, RouteAdmin, "Invalid form data.")
		return
	}

	confirmed := r.FormValue("confirmed") == "true"
	if err := h.workflow.DeleteItem(ctx, id, confirmed); err != nil {
		switch {
		case errors.Is(err, editor.ErrNotConfirmed):
			flashError(w, r, h.renderer, RouteAdmin, "Deletion was not confirmed.")
		case errors.Is(err, content.ErrNotFound):
			flashError(w, r, h.renderer, RouteAdmin, "Item no longer exists.")
		default:
			slog.Error("deleting item", "item_id", id, "error", err)
			flashError(w, r, h.renderer, RouteAdmin, "Could not delete the item.")
		}
		return
	}

	_ = h.eventService.LogContentEvent(ctx, model.EventLevelInfo, "Item deleted",
		middleware.GetUserIDPtr(r), map[string]any{"item_id": id})
	flashSuccess(w, r, h.renderer, RouteAdmin, "Item deleted.")
}

// itemDraftFromForm builds an item draft from form values.
func (h *AdminHandler) itemDraftFromForm(r *http.Request, id, sectionID int64) editor.ItemDraft {
	orderIndex, _ := strconv.ParseInt(r.FormValue("order_index"), 10, 64)
	return editor.ItemDraft{
		ID:          id,
		SectionID:   sectionID,
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
		IconName:    r.FormValue("icon_name"),
		ImageURL:    strings.TrimSpace(r.FormValue("image_url")),
		OrderIndex:  orderIndex,
	}
}

// reopenItemEdit re-establishes an item edit for a stateless form post.
func (h *AdminHandler) reopenItemEdit(ctx context.Context, id int64) bool {
	item, err := h.queries.GetItemByID(ctx, id)
	if err != nil {
		return false
	}
	items, err := h.repo.FetchItems(ctx, item.SectionID)
	if err != nil {
		return false
	}
	_, err = h.workflow.BeginItemEdit(ctx, items, id)
	return err == nil
}

// finishCommit turns a CommitResult into a flash and redirect. A commit
// that applied but failed to persist still reads as applied; the failure
// is reported, not rolled back.
func (h *AdminHandler) finishCommit(w http.ResponseWriter, r *http.Request, result editor.CommitResult, successMsg string, logKey string, logVal any) {
	ctx := r.Context()
	switch {
	case result.Persisted:
		_ = h.eventService.LogContentEvent(ctx, model.EventLevelInfo, successMsg,
			middleware.GetUserIDPtr(r), map[string]any{logKey: logVal})
		flashSuccess(w, r, h.renderer, RouteAdmin, successMsg)
	case result.Applied:
		slog.Warn("commit applied but not persisted", logKey, logVal, "error", result.Err)
		flashError(w, r, h.renderer, RouteAdmin, "Saved locally, but the change could not be stored.")
	case errors.Is(result.Err, content.ErrInvalidIcon):
		flashError(w, r, h.renderer, RouteAdmin, "Unknown icon name.")
	case errors.Is(result.Err, content.ErrNotFound):
		flashError(w, r, h.renderer, RouteAdmin, "The record no longer exists.")
	default:
		slog.Error("commit failed", logKey, logVal, "error", result.Err)
		flashError(w, r, h.renderer, RouteAdmin, "Save failed.")
	}
}

// leadsData carries leads plus the status options.
type leadsData struct {
	Leads    []model.Lead
	Statuses []string
}

// Leads renders the lead inbox.
func (h *AdminHandler) Leads(w http.ResponseWriter, r *http.Request) {
	leads, err := h.queries.ListLeads(r.Context())
	if err != nil {
		slog.Error("listing leads", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.render(w, r, "admin/leads", "Leads", leadsData{
		Leads:    leads,
		Statuses: model.ValidLeadStatuses(),
	})
}

// LeadStatus updates a lead's status.
func (h *AdminHandler) LeadStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := urlParamID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, "/admin/leads", "Invalid form data.")
		return
	}

	status := r.FormValue("status")
	if !model.IsValidLeadStatus(status) {
		flashError(w, r, h.renderer, "/admin/leads", "Unknown lead status.")
		return
	}

	if _, err := h.queries.UpdateLeadStatus(ctx, store.UpdateLeadStatusParams{
		Status:    status,
		UpdatedAt: time.Now().UTC(),
		ID:        id,
	}); err != nil {
		slog.Error("updating lead status", "lead_id", id, "error", err)
		flashError(w, r, h.renderer, "/admin/leads", "Could not update the lead.")
		return
	}

	_ = h.eventService.LogLeadEvent(ctx, model.EventLevelInfo, "Lead status changed",
		middleware.GetUserIDPtr(r), map[string]any{"lead_id": id, "status": status})
	http.Redirect(w, r, "/admin/leads", http.StatusSeeOther)
}

// LeadDelete deletes a lead, requiring the same confirmed flag as item
// deletion.
func (h *AdminHandler) LeadDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := urlParamID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, "/admin/leads", "Invalid form data.")
		return
	}
	if r.FormValue("confirmed") != "true" {
		flashError(w, r, h.renderer, "/admin/leads", "Deletion was not confirmed.")
		return
	}

	if err := h.queries.DeleteLead(ctx, id); err != nil {
		slog.Error("deleting lead", "lead_id", id, "error", err)
		flashError(w, r, h.renderer, "/admin/leads", "Could not delete the lead.")
		return
	}

	_ = h.eventService.LogLeadEvent(ctx, model.EventLevelInfo, "Lead deleted",
		middleware.GetUserIDPtr(r), map[string]any{"lead_id": id})
	flashSuccess(w, r, h.renderer, "/admin/leads", "Lead deleted.")
}

// settingsData carries the current settings list.
type settingsData struct {
	Settings []model.SiteSetting
}

// Settings renders the settings page.
func (h *AdminHandler) Settings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.repo.ListSettings(r.Context())
	if err != nil {
		slog.Error("listing settings", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.render(w, r, "admin/settings", "Settings", settingsData{Settings: settings})
}

// SettingsSubmit upserts a setting.
func (h *AdminHandler) SettingsSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, "/admin/settings", "Invalid form data.")
		return
	}

	key := strings.TrimSpace(r.FormValue("setting_key"))
	value := strings.TrimSpace(r.FormValue("setting_value"))
	if key == "" {
		flashError(w, r, h.renderer, "/admin/settings", "Setting key is required.")
		return
	}

	if _, err := h.repo.PutSetting(ctx, key, value); err != nil {
		slog.Error("saving setting", "key", key, "error", err)
		flashError(w, r, h.renderer, "/admin/settings", "Could not save the setting.")
		return
	}

	_ = h.eventService.LogSettingEvent(ctx, model.EventLevelInfo, "Setting saved",
		middleware.GetUserIDPtr(r), map[string]any{"key": key})
	flashSuccess(w, r, h.renderer, "/admin/settings", "Setting saved.")
}

// eventsData carries the recent event log.
type eventsData struct {
	Events []model.Event
}

// Events renders the recent event log.
func (h *AdminHandler) Events(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.RecentEvents(r.Context(), 100)
	if err != nil {
		slog.Error("listing events", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.render(w, r, "admin/events", "Events", eventsData{Events: events})
}
