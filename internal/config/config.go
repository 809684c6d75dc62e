// Copyright (c) 2025-2026 Prosperity Leaders
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"PROSPER_DB_PATH" envDefault:"./data/prosper.db"`
	SessionSecret string `env:"PROSPER_SESSION_SECRET,required"`
	ServerHost    string `env:"PROSPER_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"PROSPER_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"PROSPER_ENV" envDefault:"development"`
	LogLevel      string `env:"PROSPER_LOG_LEVEL" envDefault:"info"`

	// MockSessionPath is where the demo admin session is persisted. The
	// entry is process-wide and last-writer-wins.
	MockSessionPath string `env:"PROSPER_MOCK_SESSION_PATH" envDefault:"./data/mock_session.json"`

	// Cache configuration
	RedisURL     string `env:"PROSPER_REDIS_URL"`                          // Optional Redis URL for settings cache and realtime fan-out
	CachePrefix  string `env:"PROSPER_CACHE_PREFIX" envDefault:"prosper:"` // Redis key prefix
	CacheTTL     int    `env:"PROSPER_CACHE_TTL" envDefault:"3600"`        // Default cache TTL in seconds
	CacheMaxSize int    `env:"PROSPER_CACHE_MAX_SIZE" envDefault:"10000"`  // Max memory cache entries

	// Seeding configuration
	DoSeed bool `env:"PROSPER_DO_SEED" envDefault:"true"` // Seed default sections and admin user
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedis returns true if Redis is configured.
func (c Config) UseRedis() bool {
	return c.RedisURL != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Validate session secret length
	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("PROSPER_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	// Reject known weak/default secrets
	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("PROSPER_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("PROSPER_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
