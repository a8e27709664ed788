package crawler

import (
	"context"

	"github.com/segmentio/kafka-go"

	"relentless-househunter/internal/models"
)

// MessageWriter abstracts kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Session is one browser tab owned by a single worker.
type Session interface {
	Navigate(ctx context.Context, url string) error
	// WaitReady blocks until selector is present; ErrPageNotReady on timeout.
	WaitReady(ctx context.Context, selector string) error
	HTML(ctx context.Context) (string, error)
	CurrentURL(ctx context.Context) (string, error)
	Refresh(ctx context.Context) error
	Close() error
}

// SessionFactory opens browser sessions.
type SessionFactory interface {
	NewSession(ctx context.Context) (Session, error)
}

// PageExtractor turns site pages into crawl data. Implementations navigate
// the session themselves.
type PageExtractor interface {
	ExtractListing(ctx context.Context, session Session, url string) (models.ListingRecord, error)
	ExtractNavigationPage(ctx context.Context, session Session, url string) (models.NavigationPage, error)
	ExtractRegions(ctx context.Context, session Session, indexURL string) ([]models.Region, error)
}

// Unblocker detects and clears anti-bot challenges.
type Unblocker interface {
	Challenged(ctx context.Context, session Session) (bool, error)
	Unblock(ctx context.Context, session Session) error
}

// StatusChecker reports the HTTP status a URL answers with outside the browser.
type StatusChecker interface {
	Status(ctx context.Context, url string) (int, error)
}

// Sink receives flushed batches of records.
type Sink interface {
	Write(ctx context.Context, records []models.ListingRecord) error
}

// FailurePublisher records dropped tasks (DLQ).
type FailurePublisher interface {
	PublishFailure(ctx context.Context, failure models.CrawlFailure) error
}
