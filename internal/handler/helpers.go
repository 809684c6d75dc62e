// Copyright (c) 2025-2026 Prosperity Leaders
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler contains HTTP handlers for the public site and the
// admin panel.
package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/prosperleaders/prosper-go/internal/render"
)

// Common routes.
const (
	RouteRoot       = "/"
	RouteJoin       = "/join"
	RouteOnboarding = "/onboarding"
	RouteAdmin      = "/admin"
	RouteAdminLogin = "/admin/login"
	RouteSSE        = "/events/content"
)

// flashError sets an error flash message and redirects.
func flashError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, redirect, message string) {
	renderer.SetFlash(r, message, "error")
	http.Redirect(w, r, redirect, http.StatusSeeOther)
}

// flashSuccess sets a success flash message and redirects.
func flashSuccess(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, redirect, message string) {
	renderer.SetFlash(r, message, "success")
	http.Redirect(w, r, redirect, http.StatusSeeOther)
}

// urlParamID extracts a numeric {id} route parameter.
func urlParamID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// formatDuration renders a lockout duration for flash messages.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	return fmt.Sprintf("%d minutes", int(d.Minutes()+0.5))
}
