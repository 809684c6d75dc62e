// Copyright (c) 2025-2026 Prosperity Leaders
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"github.com/prosperleaders/prosper-go/internal/model"
)

// roleRank returns a numeric rank for the role hierarchy.
// Higher rank = more permissions. Unknown roles have rank 0.
func roleRank(role string) int {
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

// HasRole reports whether the session satisfies the required role.
// Returns false if the session or its role is absent; otherwise the
// session's rank must be at least the required rank. The check is
// monotonic over the admin > manager > user hierarchy.
func HasRole(session *model.Session, required string) bool {
	if session == nil || session.User.Role == "" {
		return false
	}
	reqRank := roleRank(required)
	if reqRank == 0 {
		return false
	}
	return roleRank(session.User.Role) >= reqRank
}
