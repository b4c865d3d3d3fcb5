package cache

import (
	"context"
	"fmt"

	"github.com/avmartell/stockroom-backend/pkg/redis"
)

// RedisStore keeps the collection blobs in redis, no TTL.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an established redis client.
func NewRedisStore(client *redis.Client) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisStore{client: client}, nil
}

// Load returns the blob stored under key, nil when absent.
func (s *RedisStore) Load(ctx context.Context, key string) ([]byte, error) {
	return s.client.GetBytes(ctx, s.client.CacheKey(key))
}

// Save writes the blob under key.
func (s *RedisStore) Save(ctx context.Context, key string, blob []byte) error {
	return s.client.Set(ctx, s.client.CacheKey(key), string(blob), 0)
}
