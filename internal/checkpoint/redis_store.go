package checkpoint

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps streams as plain keys under prefix, without expiry.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore connects to addr.
func NewRedisStore(addr, prefix string) *RedisStore {
	return NewRedisStoreWithClient(redis.NewClient(&redis.Options{Addr: addr}), prefix)
}

// NewRedisStoreWithClient wraps an existing client (tests, shared pools).
func NewRedisStoreWithClient(client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// Close closes the Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Save(ctx context.Context, stream string, payload []byte) error {
	return s.client.Set(ctx, s.prefix+stream, payload, 0).Err()
}

func (s *RedisStore) Load(ctx context.Context, stream string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, s.prefix+stream).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return val, true, nil
}
