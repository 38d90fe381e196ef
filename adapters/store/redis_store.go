package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/bloodlink/dashboard/core"
	"github.com/bloodlink/dashboard/ports"
)

// RedisStore is a Redis implementation of the Store interface.
// Keys live under prefix, which scopes one dashboard deployment.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a new Redis store
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: normalisePrefix(prefix),
	}
}

var _ ports.Store = (*RedisStore)(nil)

// Get retrieves a value by key
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, prefixedKey(s.prefix, key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", core.ErrNotFound
		}
		return "", fmt.Errorf("executing get command: %w", errors.Join(err, core.ErrStoreOperationFailed))
	}
	return value, nil
}

// Set writes all entries with a single MSET
func (s *RedisStore) Set(ctx context.Context, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}

	pairs := make([]any, 0, 2*len(entries))
	for _, k := range sortedKeys(entries) {
		pairs = append(pairs, prefixedKey(s.prefix, k), entries[k])
	}

	if err := s.client.MSet(ctx, pairs...).Err(); err != nil {
		return fmt.Errorf("executing mset command: %w", errors.Join(err, core.ErrStoreOperationFailed))
	}
	return nil
}

// Delete removes the keys with a single DEL
func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, prefixedKey(s.prefix, k))
	}

	if err := s.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("executing del command: %w", errors.Join(err, core.ErrStoreOperationFailed))
	}
	return nil
}

// Client returns the Redis client.
// It is shared with the redisstream event publisher.
func (s *RedisStore) Client() *redis.Client {
	return s.client
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
