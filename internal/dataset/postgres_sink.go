package dataset

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"relentless-househunter/internal/models"
)

const upsertListing = `
	INSERT INTO listings (id, url, title, location, price, m2, rooms, floor, num_photos,
		floor_plan, view3d, video, home_staging, description, photo_urls)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	ON CONFLICT (id) DO UPDATE
	SET
		url = EXCLUDED.url,
		title = EXCLUDED.title,
		location = EXCLUDED.location,
		price = EXCLUDED.price,
		m2 = EXCLUDED.m2,
		rooms = EXCLUDED.rooms,
		floor = EXCLUDED.floor,
		num_photos = EXCLUDED.num_photos,
		floor_plan = EXCLUDED.floor_plan,
		view3d = EXCLUDED.view3d,
		video = EXCLUDED.video,
		home_staging = EXCLUDED.home_staging,
		description = EXCLUDED.description,
		photo_urls = EXCLUDED.photo_urls,
		updated_at = NOW()`

// PostgresSink upserts listings keyed by id.
type PostgresSink struct {
	db *sql.DB
}

// NewPostgresSink connects through the pgx stdlib driver and ensures the schema.
func NewPostgresSink(ctx context.Context, dsn string) (*PostgresSink, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	sink := NewPostgresSinkWithDB(db)
	if err := sink.EnsureSchema(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return sink, nil
}

// NewPostgresSinkWithDB wraps an open handle (tests).
func NewPostgresSinkWithDB(db *sql.DB) *PostgresSink {
	return &PostgresSink{db: db}
}

func (s *PostgresSink) Close() error {
	return s.db.Close()
}

func (s *PostgresSink) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS listings (
			id BIGINT PRIMARY KEY,
			url TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			price INTEGER NOT NULL DEFAULT 0,
			m2 INTEGER NOT NULL DEFAULT 0,
			rooms INTEGER NOT NULL DEFAULT 0,
			floor TEXT NOT NULL DEFAULT '',
			num_photos INTEGER NOT NULL DEFAULT 0,
			floor_plan BOOLEAN NOT NULL DEFAULT FALSE,
			view3d BOOLEAN NOT NULL DEFAULT FALSE,
			video BOOLEAN NOT NULL DEFAULT FALSE,
			home_staging BOOLEAN NOT NULL DEFAULT FALSE,
			description TEXT NOT NULL DEFAULT '',
			photo_urls JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_listings_location ON listings(location);
	`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Write upserts the batch in one transaction.
func (s *PostgresSink) Write(ctx context.Context, records []models.ListingRecord) (err error) {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, upsertListing)
	if err != nil {
		return fmt.Errorf("prepare upsert statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		photos := r.PhotoURLs
		if photos == nil {
			photos = []string{}
		}
		var encoded []byte
		if encoded, err = json.Marshal(photos); err != nil {
			return fmt.Errorf("encode photos of listing %d: %w", r.ID, err)
		}
		if _, err = stmt.ExecContext(ctx,
			r.ID, r.URL, r.Title, r.Location, r.Price, r.Area, r.Rooms, r.Floor, r.NumPhotos,
			r.FloorPlan, r.View3D, r.Video, r.HomeStaging, r.Description, string(encoded),
		); err != nil {
			return fmt.Errorf("upsert listing %d: %w", r.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
