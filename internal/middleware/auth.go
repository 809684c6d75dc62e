// Copyright (c) 2025-2026 Prosperity Leaders
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, and request context handling.
package middleware

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/prosperleaders/prosper-go/internal/auth"
	"github.com/prosperleaders/prosper-go/internal/model"
	"github.com/prosperleaders/prosper-go/internal/service"
	"github.com/prosperleaders/prosper-go/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for request-scoped data.
const (
	ContextKeyUser     ContextKey = "user"
	ContextKeySiteName ContextKey = "site_name"
)

// Session keys for storing user data.
const (
	SessionKeyUserID = "user_id"
	SessionKeyMock   = "mock_session"
)

// LoginPath is where unauthenticated admin requests are sent.
const LoginPath = "/admin/login"

// Auth creates middleware that requires authentication. It accepts either a
// database-backed user session or an active mock admin session and
// redirects to the login page otherwise.
func Auth(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sm.GetInt64(r.Context(), SessionKeyUserID)
			if userID == 0 && !sm.GetBool(r.Context(), SessionKeyMock) {
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoadUser creates middleware that loads the current user into the request
// context. Mock sessions resolve from the mock store without touching the
// users table. Should run after Auth.
func LoadUser(sm *scs.SessionManager, db *sql.DB, mockStore *auth.MockStore) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sm.GetBool(r.Context(), SessionKeyMock) {
				user := mockUser(mockStore)
				if user == nil {
					_ = sm.Destroy(r.Context())
					http.Redirect(w, r, LoginPath, http.StatusSeeOther)
					return
				}
				ctx := context.WithValue(r.Context(), ContextKeyUser, *user)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			userID := sm.GetInt64(r.Context(), SessionKeyUserID)
			if userID == 0 {
				next.ServeHTTP(w, r)
				return
			}

			user, err := queries.GetUserByID(r.Context(), userID)
			if err != nil {
				// Stale session; clear it and start over.
				_ = sm.Destroy(r.Context())
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalLoadUser loads the current user into context when present but
// never redirects. For public routes where user context is useful.
func OptionalLoadUser(sm *scs.SessionManager, db *sql.DB, mockStore *auth.MockStore) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sm.GetBool(r.Context(), SessionKeyMock) {
				if user := mockUser(mockStore); user != nil {
					ctx := context.WithValue(r.Context(), ContextKeyUser, *user)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			userID := sm.GetInt64(r.Context(), SessionKeyUserID)
			if userID == 0 {
				next.ServeHTTP(w, r)
				return
			}
			user, err := queries.GetUserByID(r.Context(), userID)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// mockUser builds a synthetic admin user from the persisted mock session.
func mockUser(mockStore *auth.MockStore) *model.User {
	if mockStore == nil {
		return nil
	}
	session, err := mockStore.Get()
	if err != nil || session == nil {
		return nil
	}
	return &model.User{
		Email: session.User.Email,
		Name:  "Demo Admin",
		Role:  session.User.Role,
	}
}

// GetUser retrieves the current user from the request context. Returns nil
// if no user is in context.
func GetUser(r *http.Request) *model.User {
	user, ok := r.Context().Value(ContextKeyUser).(model.User)
	if !ok {
		return nil
	}
	return &user
}

// GetUserID returns the current user's ID from context, or 0 if not found.
func GetUserID(r *http.Request) int64 {
	if user := GetUser(r); user != nil {
		return user.ID
	}
	return 0
}

// GetUserIDPtr returns a pointer to the current user's ID, or nil. Useful
// for optional user ID parameters in event logging.
func GetUserIDPtr(r *http.Request) *int64 {
	if user := GetUser(r); user != nil && user.ID != 0 {
		id := user.ID
		return &id
	}
	return nil
}

// GetUserEmail returns the current user's email, or empty string.
func GetUserEmail(r *http.Request) string {
	if user := GetUser(r); user != nil {
		return user.Email
	}
	return ""
}

// LoadSiteName creates middleware that resolves the site name from settings
// into context.
func LoadSiteName(db *sql.DB) func(http.Handler) http.Handler {
	var queries *store.Queries
	if db != nil {
		queries = store.New(db)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			siteName := "Prosperity Leaders"
			if queries != nil {
				if setting, err := queries.GetSetting(r.Context(), model.SettingKeySiteName); err == nil && setting.SettingValue != "" {
					siteName = setting.SettingValue
				}
			}
			ctx := context.WithValue(r.Context(), ContextKeySiteName, siteName)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSiteName retrieves the site name from the request context.
func GetSiteName(r *http.Request) string {
	siteName, ok := r.Context().Value(ContextKeySiteName).(string)
	if !ok || siteName == "" {
		return "Prosperity Leaders"
	}
	return siteName
}

// roleLevel returns a numeric level for role hierarchy. Higher level means
// more permissions; unknown roles have no admin access.
func roleLevel(role string) int {
	switch role {
	case model.RoleAdmin:
		return 3
	case model.RoleManager:
		return 2
	case model.RoleUser:
		return 1
	default:
		return 0
	}
}

// RequireRole creates middleware that requires a minimum user role. Roles
// are hierarchical: admin > manager > user.
func RequireRole(minRole string) func(http.Handler) http.Handler {
	return RequireRoleWithEventLog(minRole, nil)
}

// RequireRoleWithEventLog is RequireRole with denied requests recorded in
// the event log.
func RequireRoleWithEventLog(minRole string, eventService *service.EventService) func(http.Handler) http.Handler {
	minLevel := roleLevel(minRole)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r)
			if user == nil {
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			if roleLevel(user.Role) < minLevel {
				slog.Warn("access denied",
					"status", http.StatusForbidden,
					"method", r.Method,
					"path", r.URL.Path,
					"user_id", user.ID,
					"user_role", user.Role,
					"required_role", minRole,
					"remote_addr", r.RemoteAddr,
				)
				if eventService != nil {
					_ = eventService.LogAuthEvent(r.Context(), model.EventLevelWarning,
						"Access denied: insufficient permissions", GetUserIDPtr(r), map[string]any{
							"method":        r.Method,
							"path":          r.URL.Path,
							"user_role":     user.Role,
							"required_role": minRole,
						})
				}
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin requires the admin role.
func RequireAdmin() func(http.Handler) http.Handler {
	return RequireRole(model.RoleAdmin)
}

// RequireManager requires at least the manager role.
func RequireManager() func(http.Handler) http.Handler {
	return RequireRole(model.RoleManager)
}
