package models

// NavigationTask is a search-results page waiting to be walked.
// Lower Priority values are served first.
type NavigationTask struct {
	Priority int    `json:"priority"`
	URL      string `json:"url"`
}

// NavigationPage is what a results page yields: listing links and an optional next page.
type NavigationPage struct {
	ListingURLs []string `json:"listing_urls"`
	NextPageURL string   `json:"next_page_url,omitempty"`
}

// Region is one entry of the site index used in discovery mode.
type Region struct {
	URL          string `json:"url"`
	ListingCount int    `json:"listing_count"`
}
