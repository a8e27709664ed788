package models

import "time"

// CrawlStatus tracks the progress of a crawl run.
type CrawlStatus struct {
	RunID             string    `json:"run_id"`
	Phase             string    `json:"phase"`
	Restored          bool      `json:"restored"`
	PendingNavigation int       `json:"pending_navigation"`
	PendingListings   int       `json:"pending_listings"`
	BufferedRecords   int       `json:"buffered_records"`
	RecordsFlushed    int       `json:"records_flushed"`
	Checkpoints       int       `json:"checkpoints"`
	NavigationDone    bool      `json:"navigation_done"`
	ListingDone       bool      `json:"listing_done"`
	StartedAt         time.Time `json:"started_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
