// Copyright (c) 2025-2026 Prosperity Leaders
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/prosperleaders/prosper-go/internal/model"
)

// Demo admin credentials. Logging in with this exact pair establishes a
// persisted mock session with role admin without contacting the auth
// provider. Any other credentials go through the provider.
const (
	MockAdminEmail    = "Jennyrodmin+prosper@gmail.com"
	MockAdminPassword = "Admin$2025"
)

// MockStore persists a single mock session as a JSON file. The entry is
// process-wide and last-writer-wins: login and logout mutate it, and every
// resolver created afterward reads the latest value.
type MockStore struct {
	path string
	mu   sync.Mutex
}

// NewMockStore creates a mock session store backed by the given file path.
func NewMockStore(path string) *MockStore {
	return &MockStore{path: path}
}

// Get returns the persisted mock session, or nil if none exists.
func (s *MockStore) Get() (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading mock session: %w", err)
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decoding mock session: %w", err)
	}
	session.Mock = true
	return &session, nil
}

// Put persists the given session, replacing any previous entry.
func (s *MockStore) Put(session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating mock session directory: %w", err)
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encoding mock session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing mock session: %w", err)
	}
	return nil
}

// Clear removes the persisted mock session if present.
func (s *MockStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing mock session: %w", err)
	}
	return nil
}

// CreateMockSession builds and persists an admin mock session for the given
// email.
func (s *MockStore) CreateMockSession(email string) (*model.Session, error) {
	session := &model.Session{
		User: model.SessionUser{
			ID:    "mock-" + uuid.NewString(),
			Email: email,
			Role:  model.RoleAdmin,
		},
		AccessToken: "mock-" + uuid.NewString(),
		Mock:        true,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.Put(session); err != nil {
		return nil, err
	}
	return session, nil
}

// IsMockCredential reports whether the email/password pair is the demo
// admin credential.
func IsMockCredential(email, password string) bool {
	return email == MockAdminEmail && password == MockAdminPassword
}
