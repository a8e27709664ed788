package models

import "time"

// Task kinds carried by CrawlFailure.
const (
	TaskKindNavigation = "navigation"
	TaskKindListing    = "listing"
	TaskKindDiscovery  = "discovery"
)

// CrawlFailure captures a dropped crawl task for the DLQ.
type CrawlFailure struct {
	RunID    string    `json:"run_id"`
	Kind     string    `json:"kind"`
	URL      string    `json:"url"`
	Priority int       `json:"priority,omitempty"`
	Outcome  string    `json:"outcome"`
	Error    string    `json:"error"`
	FailedAt time.Time `json:"failed_at"`
}
