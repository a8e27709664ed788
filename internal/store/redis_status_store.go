package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"relentless-househunter/internal/models"
)

// RedisStatusStore stores crawl run status in Redis.
type RedisStatusStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisStatusStore initializes a Redis-backed StatusStore.
func NewRedisStatusStore(addr, prefix string, ttl time.Duration) *RedisStatusStore {
	return NewRedisStatusStoreWithClient(redis.NewClient(&redis.Options{Addr: addr}), prefix, ttl)
}

// NewRedisStatusStoreWithClient wraps an existing client (tests, shared pools).
func NewRedisStatusStoreWithClient(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisStatusStore {
	return &RedisStatusStore{client: client, prefix: prefix, ttl: ttl}
}

// Close closes the Redis client.
func (s *RedisStatusStore) Close() error {
	return s.client.Close()
}

// SetStatus writes the status record to Redis.
func (s *RedisStatusStore) SetStatus(ctx context.Context, status models.CrawlStatus) error {
	payload, err := json.Marshal(status)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.prefix+status.RunID, payload, s.ttl).Err()
}

// GetStatus reads the status record for runID.
func (s *RedisStatusStore) GetStatus(ctx context.Context, runID string) (models.CrawlStatus, bool, error) {
	val, err := s.client.Get(ctx, s.prefix+runID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.CrawlStatus{}, false, nil
		}
		return models.CrawlStatus{}, false, err
	}

	var status models.CrawlStatus
	if err := json.Unmarshal(val, &status); err != nil {
		return models.CrawlStatus{}, false, err
	}
	return status, true, nil
}
