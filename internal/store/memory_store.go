package store

import (
	"context"
	"sync"
	"time"

	"relentless-househunter/internal/models"
)

// MemoryStatusStore keeps status in process. Used when no Redis is configured.
type MemoryStatusStore struct {
	mu       sync.RWMutex
	statuses map[string]models.CrawlStatus
}

func NewMemoryStatusStore() *MemoryStatusStore {
	return &MemoryStatusStore{statuses: make(map[string]models.CrawlStatus)}
}

func (s *MemoryStatusStore) SetStatus(_ context.Context, status models.CrawlStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[status.RunID] = status
	return nil
}

func (s *MemoryStatusStore) GetStatus(_ context.Context, runID string) (models.CrawlStatus, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status, ok := s.statuses[runID]
	return status, ok, nil
}

// MemoryDedupeStore is the in-process DedupeStore. TTLs are ignored.
type MemoryDedupeStore struct {
	mu   sync.Mutex
	keys map[string]string
}

func NewMemoryDedupeStore() *MemoryDedupeStore {
	return &MemoryDedupeStore{keys: make(map[string]string)}
}

func (s *MemoryDedupeStore) SetNX(_ context.Context, key, value string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.keys[key]; ok {
		return false, nil
	}
	s.keys[key] = value
	return true, nil
}

func (s *MemoryDedupeStore) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.keys, k)
	}
	return nil
}
