// Copyright (c) 2025-2026 Prosperity Leaders
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/prosperleaders/prosper-go/internal/model"
	"github.com/prosperleaders/prosper-go/internal/store"
)

// ErrInvalidCredentials is returned by SignInWithPassword when the email or
// password does not match a stored user.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Provider is the auth backend contract: session retrieval, state-change
// notification, password sign-in and sign-out.
type Provider interface {
	// GetSession returns the current session, or nil if signed out.
	GetSession(ctx context.Context) (*model.Session, error)

	// OnAuthStateChange registers a callback invoked with the new session
	// (nil on sign-out) after every auth state transition. The returned
	// function unsubscribes the callback.
	OnAuthStateChange(fn func(*model.Session)) (unsubscribe func())

	// SignInWithPassword authenticates the credential pair and establishes
	// a session.
	SignInWithPassword(ctx context.Context, email, password string) (*model.Session, error)

	// SignOut clears the current session.
	SignOut(ctx context.Context) error
}

// LocalProvider implements Provider against the users table. It keeps the
// current session in memory and fans auth state changes out to listeners.
type LocalProvider struct {
	queries *store.Queries

	mu        sync.RWMutex
	current   *model.Session
	listeners map[int64]func(*model.Session)
	nextID    int64
}

// NewLocalProvider creates a provider backed by the given database handle.
func NewLocalProvider(db *sql.DB) *LocalProvider {
	return &LocalProvider{
		queries:   store.New(db),
		listeners: make(map[int64]func(*model.Session)),
	}
}

// GetSession returns the current session, or nil if signed out.
func (p *LocalProvider) GetSession(_ context.Context) (*model.Session, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current, nil
}

// OnAuthStateChange registers a state-change listener.
func (p *LocalProvider) OnAuthStateChange(fn func(*model.Session)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

// SignInWithPassword verifies the credentials against the users table and
// establishes a new session on success.
func (p *LocalProvider) SignInWithPassword(ctx context.Context, email, password string) (*model.Session, error) {
	user, err := p.queries.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	valid, err := CheckPassword(password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, ErrInvalidCredentials
	}

	_ = p.queries.UpdateUserLastLogin(ctx, store.UpdateUserLastLoginParams{
		LastLoginAt: sql.NullTime{Time: time.Now(), Valid: true},
		ID:          user.ID,
	})

	session := &model.Session{
		User: model.SessionUser{
			ID:    strconv.FormatInt(user.ID, 10),
			Email: user.Email,
			Role:  user.Role,
		},
		AccessToken: uuid.NewString(),
		CreatedAt:   time.Now().UTC(),
	}

	p.setSession(session)
	return session, nil
}

// SignOut clears the current session and notifies listeners.
func (p *LocalProvider) SignOut(_ context.Context) error {
	p.setSession(nil)
	return nil
}

// setSession swaps the current session and notifies listeners outside the
// lock.
func (p *LocalProvider) setSession(session *model.Session) {
	p.mu.Lock()
	p.current = session
	listeners := make([]func(*model.Session), 0, len(p.listeners))
	for _, fn := range p.listeners {
		listeners = append(listeners, fn)
	}
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(session)
	}
}
