// Copyright (c) 2025-2026 Prosperity Leaders
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth provides password hashing, the role hierarchy and session
// resolution against either the local auth provider or a persisted mock
// session.
package auth

import (
	"github.com/prosperleaders/prosper-go/internal/passwordhash"
)

// Argon2 parameters (OWASP recommended second choice: m=19456, t=2, p=1)
const (
	Argon2Time    = passwordhash.Argon2Time
	Argon2Memory  = passwordhash.Argon2Memory
	Argon2Threads = passwordhash.Argon2Threads
	Argon2KeyLen  = passwordhash.Argon2KeyLen
	Argon2SaltLen = passwordhash.Argon2SaltLen
)

// NeedsRehash checks whether an encoded hash uses different parameters than
// the current defaults. Returns true if the hash should be re-created.
func NeedsRehash(encodedHash string) bool {
	return passwordhash.NeedsRehash(encodedHash)
}

// HashPassword creates an Argon2id hash of the password.
// Returns encoded hash in format: $argon2id$v=19$m=19456,t=2,p=1$salt$hash
func HashPassword(password string) (string, error) {
	return passwordhash.HashPassword(password)
}

// CheckPassword verifies a password against an Argon2id hash.
// Uses constant-time comparison to prevent timing attacks.
func CheckPassword(password, encodedHash string) (bool, error) {
	return passwordhash.CheckPassword(password, encodedHash)
}
