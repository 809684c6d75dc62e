// Copyright (c) 2025-2026 Prosperity Leaders
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/alexedwards/scs/v2"

	"github.com/prosperleaders/prosper-go/internal/auth"
	"github.com/prosperleaders/prosper-go/internal/middleware"
	"github.com/prosperleaders/prosper-go/internal/model"
	"github.com/prosperleaders/prosper-go/internal/render"
	"github.com/prosperleaders/prosper-go/internal/service"
	"github.com/prosperleaders/prosper-go/internal/store"
)

// AuthHandler handles admin authentication routes.
type AuthHandler struct {
	queries         *store.Queries
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	eventService    *service.EventService
	loginProtection *middleware.LoginProtection
	mockStore       *auth.MockStore
	provider        auth.Provider
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager, lp *middleware.LoginProtection, mockStore *auth.MockStore, provider auth.Provider) *AuthHandler {
	return &AuthHandler{
		queries:         store.New(db),
		renderer:        renderer,
		sessionManager:  sm,
		eventService:    service.NewEventService(db),
		loginProtection: lp,
		mockStore:       mockStore,
		provider:        provider,
	}
}

// LoginForm renders the login page. Already-authenticated users go
// straight to the admin panel.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.sessionManager.GetInt64(ctx, middleware.SessionKeyUserID) > 0 ||
		h.sessionManager.GetBool(ctx, middleware.SessionKeyMock) {
		http.Redirect(w, r, RouteAdmin, http.StatusSeeOther)
		return
	}

	err := h.renderer.Render(w, r, "auth/login", render.TemplateData{
		Title:     "Sign In",
		SiteName:  middleware.GetSiteName(r),
		CSRFToken: h.sessionManager.Token(ctx),
	})
	if err != nil {
		slog.Error("rendering login page", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Login handles the login form submission. The demo credential pair
// creates a mock admin session without touching the users table; every
// other credential goes through the provider.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, RouteAdminLogin, "Invalid form data.")
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	if email == "" || password == "" {
		flashError(w, r, h.renderer, RouteAdminLogin, "Email and password are required.")
		return
	}

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			_ = h.eventService.LogAuthEvent(ctx, model.EventLevelWarning, "Login attempt on locked account", nil, map[string]any{"email": email})
			flashError(w, r, h.renderer, RouteAdminLogin, "Account temporarily locked. Try again in "+formatDuration(remaining)+".")
			return
		}
	}

	if auth.IsMockCredential(email, password) {
		if _, err := h.mockStore.CreateMockSession(email); err != nil {
			slog.Error("creating mock session", "error", err)
			flashError(w, r, h.renderer, RouteAdminLogin, "Sign in failed. Please try again.")
			return
		}
		if err := h.sessionManager.RenewToken(ctx); err != nil {
			slog.Error("renewing session token", "error", err)
		}
		h.sessionManager.Put(ctx, middleware.SessionKeyMock, true)
		if h.loginProtection != nil {
			h.loginProtection.RecordSuccessfulLogin(email)
		}
		_ = h.eventService.LogAuthEvent(ctx, model.EventLevelInfo, "Demo admin signed in", nil, map[string]any{"mock": true})
		http.Redirect(w, r, RouteAdmin, http.StatusSeeOther)
		return
	}

	session, err := h.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		slog.Debug("login failed", "email", email)
		_ = h.eventService.LogAuthEvent(ctx, model.EventLevelWarning, "Login failed", nil, map[string]any{"email": email})
		if h.loginProtection != nil {
			if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
				flashError(w, r, h.renderer, RouteAdminLogin, "Too many failed attempts. Account locked for "+formatDuration(lockDuration)+".")
				return
			}
		}
		flashError(w, r, h.renderer, RouteAdminLogin, "Invalid email or password.")
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}

	userID, err := strconv.ParseInt(session.User.ID, 10, 64)
	if err != nil {
		slog.Error("parsing session user id", "id", session.User.ID, "error", err)
		flashError(w, r, h.renderer, RouteAdminLogin, "Sign in failed. Please try again.")
		return
	}

	if err := h.sessionManager.RenewToken(ctx); err != nil {
		slog.Error("renewing session token", "error", err)
	}
	h.sessionManager.Put(ctx, middleware.SessionKeyUserID, userID)

	_ = h.eventService.LogAuthEvent(ctx, model.EventLevelInfo, "User signed in", &userID, map[string]any{"email": email})
	http.Redirect(w, r, RouteAdmin, http.StatusSeeOther)
}

// Logout destroys the session, clearing any mock session on the way out.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.sessionManager.GetBool(ctx, middleware.SessionKeyMock) {
		if err := h.mockStore.Clear(); err != nil {
			slog.Error("clearing mock session", "error", err)
		}
	}
	if userID := middleware.GetUserIDPtr(r); userID != nil {
		_ = h.eventService.LogAuthEvent(ctx, model.EventLevelInfo, "User signed out", userID, nil)
	}

	if err := h.sessionManager.Destroy(ctx); err != nil {
		slog.Error("destroying session", "error", err)
	}
	http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
}
