// Package cache provides the key/value stores behind the catalog caching
// decorator. Values are opaque byte slices with a per-entry expiration.
package cache

import (
	"context"
	"time"
)

// Store is a key/value store with per-entry expiration
type Store interface {
	// Get returns the value for key. found is false when the key is
	// absent or its entry has expired.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// DeletePrefix evicts every key starting with prefix and returns how
	// many entries were removed.
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}
