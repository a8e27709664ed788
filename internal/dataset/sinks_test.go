package dataset

import (
	"context"
	"database/sql/driver"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang/mock/gomock"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"relentless-househunter/internal/graph"
	"relentless-househunter/internal/models"
	"relentless-househunter/internal/store"
	"relentless-househunter/mocks"
)

func TestPostgresSinkUpsertsBatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	records := []models.ListingRecord{listing(1, 100), listing(2, 200)}
	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO listings")
	for _, r := range records {
		args := make([]driver.Value, 15)
		for i := range args {
			args[i] = sqlmock.AnyArg()
		}
		args[0] = r.ID
		args[4] = int64(r.Price)
		prep.ExpectExec().WithArgs(args...).WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	if err := NewPostgresSinkWithDB(db).Write(context.Background(), records); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresSinkRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectPrepare("INSERT INTO listings").ExpectExec().WillReturnError(errors.New("constraint"))
	mock.ExpectRollback()

	if err := NewPostgresSinkWithDB(db).Write(context.Background(), []models.ListingRecord{listing(1, 1)}); err == nil {
		t.Fatal("expected error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresSinkEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS listings").WillReturnResult(sqlmock.NewResult(0, 0))
	if err := NewPostgresSinkWithDB(db).EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBuildListingQuery(t *testing.T) {
	r := listing(5, 500)
	r.Title = ""
	query, params := buildListingQuery([]models.ListingRecord{r})
	if !strings.Contains(query, "MERGE (l:Listing {id: row.id})") || !strings.Contains(query, "LOCATED_IN") {
		t.Fatalf("unexpected query: %s", query)
	}
	rows, ok := params["rows"].([]map[string]any)
	if !ok || len(rows) != 1 {
		t.Fatalf("unexpected params: %+v", params)
	}
	if rows[0]["id"] != int64(5) || rows[0]["title"] != nil || rows[0]["location"] != r.Location {
		t.Fatalf("unexpected row params: %+v", rows[0])
	}
}

func TestNeo4jSinkWritesInOneTransaction(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	driver := mocks.NewMockDriverSessioner(ctrl)
	session := mocks.NewMockSessionRunner(ctrl)
	driver.EXPECT().NewSession(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cfg neo4j.SessionConfig) graph.SessionRunner {
			if cfg.AccessMode != neo4j.AccessModeWrite {
				t.Fatalf("expected write session, got %v", cfg.AccessMode)
			}
			return session
		})
	session.EXPECT().ExecuteWrite(gomock.Any(), gomock.Any()).Return(nil, nil).Times(1)
	session.EXPECT().Close(gomock.Any()).Return(nil)

	sink := NewNeo4jSink(driver, nil)
	if err := sink.Write(context.Background(), []models.ListingRecord{listing(1, 1), listing(2, 2)}); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
}

func TestNeo4jSinkSkipsEmptyBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	driver := mocks.NewMockDriverSessioner(ctrl)
	driver.EXPECT().NewSession(gomock.Any(), gomock.Any()).Times(0)
	if err := NewNeo4jSink(driver, nil).Write(context.Background(), nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

type recordingSink struct {
	batches [][]models.ListingRecord
	err     error
}

func (r *recordingSink) Write(_ context.Context, records []models.ListingRecord) error {
	r.batches = append(r.batches, records)
	return r.err
}

func TestDedupeSinkForwardsOnlyNewIDs(t *testing.T) {
	next := &recordingSink{}
	sink := NewDedupeSink(next, store.NewMemoryDedupeStore(), 0, "run-1", nil)
	ctx := context.Background()

	if err := sink.Write(ctx, []models.ListingRecord{listing(1, 1), listing(2, 2)}); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := sink.Write(ctx, []models.ListingRecord{listing(2, 2), listing(3, 3)}); err != nil {
		t.Fatalf("second write: %v", err)
	}
	if len(next.batches) != 2 || len(next.batches[1]) != 1 || next.batches[1][0].ID != 3 {
		t.Fatalf("unexpected downstream batches: %+v", next.batches)
	}
}

func TestDedupeSinkReleasesClaimsOnFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	dedupe := mocks.NewMockDedupeStore(ctrl)
	dedupe.EXPECT().SetNX(gomock.Any(), "listing:1", "run-1", gomock.Any()).Return(true, nil)
	dedupe.EXPECT().SetNX(gomock.Any(), "listing:2", "run-1", gomock.Any()).Return(false, nil)
	dedupe.EXPECT().Del(gomock.Any(), "listing:1").Return(nil)

	next := &recordingSink{err: errors.New("disk full")}
	sink := NewDedupeSink(next, dedupe, 0, "run-1", nil)
	if err := sink.Write(context.Background(), []models.ListingRecord{listing(1, 1), listing(2, 2)}); err == nil {
		t.Fatal("expected downstream error")
	}
}

func TestMultiSinkJoinsErrors(t *testing.T) {
	ok := &recordingSink{}
	boom := errors.New("broker down")
	failing := &recordingSink{err: boom}
	err := MultiSink{failing, ok}.Write(context.Background(), []models.ListingRecord{listing(1, 1)})
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if len(ok.batches) != 1 {
		t.Fatal("expected healthy sink to still receive the batch")
	}
}
