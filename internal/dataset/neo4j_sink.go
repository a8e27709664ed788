package dataset

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"relentless-househunter/internal/graph"
	"relentless-househunter/internal/logging"
	"relentless-househunter/internal/models"
)

// Neo4jSink merges listings and their locations into the graph.
type Neo4jSink struct {
	driver graph.DriverSessioner
	logger logging.Logger
}

func NewNeo4jSink(driver graph.DriverSessioner, logger logging.Logger) *Neo4jSink {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Neo4jSink{driver: driver, logger: logger}
}

func (s *Neo4jSink) Write(ctx context.Context, records []models.ListingRecord) error {
	if len(records) == 0 {
		return nil
	}
	query, params := buildListingQuery(records)

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer func() {
		if err := session.Close(ctx); err != nil {
			s.logger.WithError(err).Warn("neo4j session close error")
		}
	}()

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, query, params)
		return nil, err
	})
	return err
}

// buildListingQuery batches the records into one UNWIND. Listings without a
// location get no LOCATED_IN edge.
func buildListingQuery(records []models.ListingRecord) (string, map[string]any) {
	query := "UNWIND $rows AS row " +
		"MERGE (l:Listing {id: row.id}) " +
		"SET l.url = row.url, " +
		"l.title = coalesce(row.title, l.title), " +
		"l.price = row.price, l.m2 = row.m2, l.rooms = row.rooms, " +
		"l.floor = coalesce(row.floor, l.floor), " +
		"l.num_photos = row.num_photos " +
		"FOREACH (_ IN CASE WHEN row.location IS NULL THEN [] ELSE [1] END | " +
		"MERGE (loc:Location {name: row.location}) " +
		"MERGE (l)-[:LOCATED_IN]->(loc))"

	rows := make([]map[string]any, 0, len(records))
	for _, r := range records {
		rows = append(rows, map[string]any{
			"id":         r.ID,
			"url":        r.URL,
			"title":      nullIfEmpty(r.Title),
			"location":   nullIfEmpty(r.Location),
			"price":      r.Price,
			"m2":         r.Area,
			"rooms":      r.Rooms,
			"floor":      nullIfEmpty(r.Floor),
			"num_photos": r.NumPhotos,
		})
	}
	return query, map[string]any{"rows": rows}
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
