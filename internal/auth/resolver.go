// Copyright (c) 2025-2026 Prosperity Leaders
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"sync"

	"github.com/prosperleaders/prosper-go/internal/model"
)

// Resolver states.
const (
	StateResolving = "resolving"
	StateResolved  = "resolved"
)

// Resolver resolves the current session exactly once and then tracks auth
// state changes. Resolution order: the persisted mock session wins and
// short-circuits the provider entirely; otherwise the provider's current
// session is adopted and every subsequent auth state change replaces it.
//
// Role checks against a Resolver are only meaningful once it has reached
// the resolved state.
type Resolver struct {
	mockStore *MockStore
	provider  Provider

	mu          sync.RWMutex
	state       string
	resolving   bool
	session     *model.Session
	unsubscribe func()
}

// NewResolver creates a resolver in the resolving state.
func NewResolver(mockStore *MockStore, provider Provider) *Resolver {
	return &Resolver{
		mockStore: mockStore,
		provider:  provider,
		state:     StateResolving,
	}
}

// Resolve performs session resolution. It is idempotent: calling it on an
// already-resolved resolver is a no-op, and only one caller resolves at a
// time, so the provider is subscribed to at most once.
func (r *Resolver) Resolve(ctx context.Context) error {
	r.mu.Lock()
	if r.state == StateResolved || r.resolving {
		r.mu.Unlock()
		return nil
	}
	r.resolving = true
	r.mu.Unlock()

	// Mock session wins and never contacts the provider.
	if r.mockStore != nil {
		mock, err := r.mockStore.Get()
		if err != nil {
			return r.fail(err)
		}
		if mock != nil {
			r.setResolved(mock)
			return nil
		}
	}

	session, err := r.provider.GetSession(ctx)
	if err != nil {
		return r.fail(err)
	}

	unsub := r.provider.OnAuthStateChange(func(s *model.Session) {
		r.mu.Lock()
		r.session = s
		r.state = StateResolved
		r.mu.Unlock()
	})

	r.mu.Lock()
	r.unsubscribe = unsub
	r.mu.Unlock()

	r.setResolved(session)
	return nil
}

// fail reopens resolution after an error so a later call can retry.
func (r *Resolver) fail(err error) error {
	r.mu.Lock()
	r.resolving = false
	r.mu.Unlock()
	return err
}

// State returns the resolver state: resolving or resolved.
func (r *Resolver) State() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Session returns the resolved session, or nil while resolving or when
// signed out.
func (r *Resolver) Session() *model.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.session
}

// HasRole reports whether the resolved session satisfies the required role.
// Always false before resolution completes.
func (r *Resolver) HasRole(required string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.state != StateResolved {
		return false
	}
	return HasRole(r.session, required)
}

// Close releases the provider subscription, if any. Further auth state
// changes no longer update the resolver.
func (r *Resolver) Close() {
	r.mu.Lock()
	unsub := r.unsubscribe
	r.unsubscribe = nil
	r.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

func (r *Resolver) setResolved(session *model.Session) {
	r.mu.Lock()
	r.session = session
	r.state = StateResolved
	r.resolving = false
	r.mu.Unlock()
}
