package models

import (
	"strconv"
	"strings"
	"unicode"
)

// ListingRecord is one extracted property. ID is the dataset dedup key.
type ListingRecord struct {
	ID          int64    `json:"id"`
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Location    string   `json:"location"`
	Price       int      `json:"price"`
	Area        int      `json:"m2"`
	Rooms       int      `json:"rooms"`
	Floor       string   `json:"floor"`
	NumPhotos   int      `json:"num-photos"`
	FloorPlan   bool     `json:"floor-plan"`
	View3D      bool     `json:"view3d"`
	Video       bool     `json:"video"`
	HomeStaging bool     `json:"home-staging"`
	Description string   `json:"description"`
	PhotoURLs   []string `json:"photo_urls"`
}

// ListingIDFromURL returns the first run of digits in rawURL.
func ListingIDFromURL(rawURL string) (int64, bool) {
	start := strings.IndexFunc(rawURL, unicode.IsDigit)
	if start < 0 {
		return 0, false
	}
	end := start
	for end < len(rawURL) && rawURL[end] >= '0' && rawURL[end] <= '9' {
		end++
	}
	id, err := strconv.ParseInt(rawURL[start:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
