package models

// ListingTask is a detail page waiting to be extracted.
type ListingTask struct {
	URL string `json:"url"`
}
