// Package cache stores computed results (trees, layouts, rendered artifacts)
// keyed by content hashes.
//
// Three backends implement [Cache]: [FileCache] for the CLI, [RedisCache] for
// the server, and [NullCache] when caching is disabled. Keys come from a
// [Keyer] so that every consumer derives identical keys for identical input.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get reports a miss with ok=false and a nil error. Errors are reserved for
// backend failures; callers typically treat them as misses.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default expiry per entry kind. Trees and layouts are pure functions of
// their keys and could live forever; the TTLs only bound disk usage.
const (
	TTLTree     = 7 * 24 * time.Hour
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)
