// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cache provides a small TTL cache for derived listing data such as
// category counts and the front-page ad listing. It is an optimization only:
// every value is recomputable from the store, and entries are invalidated on
// any ad write.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys with a TTL.
type Cache interface {
	// Get returns the cached value and whether it was present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	// Delete removes key. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string)
}

// New selects a cache backend: Redis when a URL is configured, otherwise the
// in-process memory cache.
func New(redisURL, prefix string) (Cache, error) {
	if redisURL == "" {
		return NewMemory(), nil
	}
	return NewRedis(redisURL, prefix)
}
