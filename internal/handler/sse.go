// Copyright (c) 2025-2026 Prosperity Leaders
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prosperleaders/prosper-go/internal/realtime"
)

// sseKeepAlive is how often a comment line is written to hold idle
// connections open through proxies.
const sseKeepAlive = 30 * time.Second

// SSEHandler streams content change events to browsers.
type SSEHandler struct {
	hub *realtime.Hub
}

// NewSSEHandler creates a new SSEHandler.
func NewSSEHandler(hub *realtime.Hub) *SSEHandler {
	return &SSEHandler{hub: hub}
}

// ContentEvents subscribes the client to all section and item changes and
// streams them as server-sent events until the client disconnects.
func (h *SSEHandler) ContentEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sectionSub := h.hub.Subscribe(realtime.TableSections, nil)
	defer sectionSub.Unsubscribe()
	itemSub := h.hub.Subscribe(realtime.TableItems, nil)
	defer itemSub.Unsubscribe()

	keepAlive := time.NewTicker(sseKeepAlive)
	defer keepAlive.Stop()

	write := func(ev realtime.Event) bool {
		payload, err := json.Marshal(ev)
		if err != nil {
			slog.Error("marshaling sse event", "error", err)
			return true
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Table, payload); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-sectionSub.Events():
			if !ok || !write(ev) {
				return
			}
		case ev, ok := <-itemSub.Events():
			if !ok || !write(ev) {
				return
			}
		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
