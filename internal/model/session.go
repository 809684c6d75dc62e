// Copyright (c) 2025-2026 Prosperity Leaders
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// SessionUser is the user payload carried by a resolved session.
type SessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Session is a resolved authentication session: either issued by the auth
// provider against the users table, or a locally persisted mock stand-in
// for the demo credential. Mock sessions never touch the provider.
type Session struct {
	User        SessionUser `json:"user"`
	AccessToken string      `json:"access_token"`
	Mock        bool        `json:"mock,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}
