package store

import (
	"context"
	"time"

	"relentless-househunter/internal/models"
)

// StatusStore persists crawl run status.
type StatusStore interface {
	SetStatus(ctx context.Context, status models.CrawlStatus) error
	GetStatus(ctx context.Context, runID string) (models.CrawlStatus, bool, error)
}

// DedupeStore claims keys so the same listing id is only written once per dataset.
type DedupeStore interface {
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
}
