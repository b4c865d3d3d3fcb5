// Package cache is the durable local store for the two collection blobs.
// It is a plain key-value surface: callers serialize, the cache persists.
// A missing key reads back as (nil, nil), never an error.
package cache

import "context"

// Cache persists opaque blobs under fixed logical keys.
type Cache interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, blob []byte) error
}
