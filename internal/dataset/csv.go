package dataset

import (
	"encoding/json"
	"fmt"
	"strconv"

	"relentless-househunter/internal/models"
)

// Columns is the dataset header, in file order.
var Columns = []string{
	"id", "url", "title", "location", "price",
	"m2", "rooms", "floor", "num-photos", "floor-plan", "view3d", "video",
	"home-staging", "description", "photo_urls",
}

// ToRow renders a record in Columns order. Photo URLs are a JSON array.
func ToRow(r models.ListingRecord) ([]string, error) {
	photos := r.PhotoURLs
	if photos == nil {
		photos = []string{}
	}
	encoded, err := json.Marshal(photos)
	if err != nil {
		return nil, err
	}
	return []string{
		strconv.FormatInt(r.ID, 10),
		r.URL,
		r.Title,
		r.Location,
		strconv.Itoa(r.Price),
		strconv.Itoa(r.Area),
		strconv.Itoa(r.Rooms),
		r.Floor,
		strconv.Itoa(r.NumPhotos),
		strconv.FormatBool(r.FloorPlan),
		strconv.FormatBool(r.View3D),
		strconv.FormatBool(r.Video),
		strconv.FormatBool(r.HomeStaging),
		r.Description,
		string(encoded),
	}, nil
}

// FromRow parses a row written by ToRow. Numeric fields that fail to parse are zero.
func FromRow(row []string) (models.ListingRecord, error) {
	if len(row) != len(Columns) {
		return models.ListingRecord{}, fmt.Errorf("expected %d columns, got %d", len(Columns), len(row))
	}
	id, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return models.ListingRecord{}, fmt.Errorf("invalid id %q: %w", row[0], err)
	}
	r := models.ListingRecord{
		ID:          id,
		URL:         row[1],
		Title:       row[2],
		Location:    row[3],
		Price:       atoi(row[4]),
		Area:        atoi(row[5]),
		Rooms:       atoi(row[6]),
		Floor:       row[7],
		NumPhotos:   atoi(row[8]),
		FloorPlan:   parseBool(row[9]),
		View3D:      parseBool(row[10]),
		Video:       parseBool(row[11]),
		HomeStaging: parseBool(row[12]),
		Description: row[13],
	}
	if row[14] != "" {
		if err := json.Unmarshal([]byte(row[14]), &r.PhotoURLs); err != nil {
			return models.ListingRecord{}, fmt.Errorf("invalid photo_urls: %w", err)
		}
	}
	return r, nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func parseBool(s string) bool {
	b, _ := strconv.ParseBool(s)
	return b
}
