package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisDedupeStore claims listing ids with SETNX.
type RedisDedupeStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisDedupeStore(addr, prefix string) *RedisDedupeStore {
	return NewRedisDedupeStoreWithClient(redis.NewClient(&redis.Options{Addr: addr}), prefix)
}

func NewRedisDedupeStoreWithClient(client redis.UniversalClient, prefix string) *RedisDedupeStore {
	return &RedisDedupeStore{client: client, prefix: prefix}
}

func (s *RedisDedupeStore) Close() error {
	return s.client.Close()
}

// SetNX returns true when key was not claimed before.
func (s *RedisDedupeStore) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, s.prefix+key, value, ttl).Result()
}

// Del releases claimed keys, e.g. when the downstream write failed.
func (s *RedisDedupeStore) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = s.prefix + k
	}
	return s.client.Del(ctx, prefixed...).Err()
}
