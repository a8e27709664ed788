package models

// CrawlState is the persisted aggregate of one crawl run.
type CrawlState struct {
	NavigationQueue  []NavigationTask `json:"navigation_queue"`
	ListingQueue     []ListingTask    `json:"listing_queue"`
	CollectedRecords []ListingRecord  `json:"collected_records"`
	NavigationDone   bool             `json:"navigation_done"`
	ListingDone      bool             `json:"listing_done"`
}

// Empty reports whether there is nothing to resume.
func (s CrawlState) Empty() bool {
	return len(s.NavigationQueue) == 0 && len(s.ListingQueue) == 0 && len(s.CollectedRecords) == 0
}
