// Copyright (c) 2025-2026 Prosperity Leaders
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cache provides caching for rendered content. A memory backend
// serves single-instance deployments; a Redis backend is used when a Redis
// URL is configured.
package cache

import (
	"context"
	"time"
)

// Cache is the byte-value cache contract. Implementations must be safe for
// concurrent use.
type Cache interface {
	// Get returns the value for key, or ErrCacheMiss when absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key. A zero ttl uses the backend default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key.
	Delete(ctx context.Context, key string) error

	// Clear removes all entries owned by this cache.
	Clear(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// Error is the error type for cache operations.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrCacheMiss indicates the key was not found or has expired.
	ErrCacheMiss Error = "cache miss"

	// ErrCacheClosed indicates the cache has been closed.
	ErrCacheClosed Error = "cache closed"
)

// Config holds cache construction settings.
type Config struct {
	RedisURL   string // empty selects the memory backend
	Prefix     string
	DefaultTTL time.Duration
	MaxSize    int // memory backend entry limit, 0 = unlimited
}

// New creates a cache from the config: Redis when a URL is set, memory
// otherwise.
func New(cfg Config) (Cache, error) {
	if cfg.RedisURL != "" {
		return NewRedisCache(RedisOptions{
			URL:        cfg.RedisURL,
			Prefix:     cfg.Prefix,
			DefaultTTL: cfg.DefaultTTL,
		})
	}
	return NewMemoryCache(MemoryOptions{
		DefaultTTL:      cfg.DefaultTTL,
		MaxSize:         cfg.MaxSize,
		CleanupInterval: time.Minute,
	}), nil
}
