package checkpoint

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"relentless-househunter/internal/models"
)

func sampleState() models.CrawlState {
	return models.CrawlState{
		NavigationQueue: []models.NavigationTask{
			{Priority: 0, URL: "https://www.idealista.com/venta-viviendas/a/"},
			{Priority: 3, URL: "https://www.idealista.com/venta-viviendas/b/"},
			{Priority: 3, URL: "https://www.idealista.com/venta-viviendas/c/"},
		},
		ListingQueue: []models.ListingTask{
			{URL: "https://www.idealista.com/inmueble/1/"},
			{URL: "https://www.idealista.com/inmueble/2/"},
		},
		CollectedRecords: []models.ListingRecord{
			{ID: 7, URL: "https://www.idealista.com/inmueble/7/", Price: 120000, PhotoURLs: []string{"a.jpg", "b.jpg"}},
		},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	m := NewManager(store, nil)
	ctx := context.Background()

	want := sampleState()
	if err := m.Snapshot(ctx, want); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	got, ok, err := m.Restore(ctx)
	if err != nil || !ok {
		t.Fatalf("restore: ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("restore mismatch:\nwant %+v\ngot  %+v", want, got)
	}
}

func TestRestoreMissingStreamsIsEmpty(t *testing.T) {
	store, _ := NewFileStore(t.TempDir())
	m := NewManager(store, nil)
	state, ok, err := m.Restore(context.Background())
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if ok || !state.Empty() {
		t.Fatalf("expected nothing to restore, got ok=%v %+v", ok, state)
	}
}

func TestRestorePartialStreams(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewFileStore(dir)
	if err := store.Save(context.Background(), StreamListings, []byte(`[{"url":"u1"}]`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	state, ok, err := NewManager(store, nil).Restore(context.Background())
	if err != nil || !ok {
		t.Fatalf("restore: ok=%v err=%v", ok, err)
	}
	if len(state.ListingQueue) != 1 || len(state.NavigationQueue) != 0 || len(state.CollectedRecords) != 0 {
		t.Fatalf("unexpected state %+v", state)
	}
}

func TestRestoreCorruptStreamTreatedAsEmpty(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewFileStore(dir)
	ctx := context.Background()
	_ = store.Save(ctx, StreamNavigation, []byte(`[{"priority":1,"url":"n1"}]`))
	if err := os.WriteFile(filepath.Join(dir, StreamRecords+".json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	state, ok, err := NewManager(store, nil).Restore(ctx)
	if err != nil || !ok {
		t.Fatalf("restore: ok=%v err=%v", ok, err)
	}
	if len(state.CollectedRecords) != 0 || len(state.NavigationQueue) != 1 {
		t.Fatalf("unexpected state %+v", state)
	}
}

func TestSaveRecordsClearsOnlyRecords(t *testing.T) {
	store, _ := NewFileStore(t.TempDir())
	m := NewManager(store, nil)
	ctx := context.Background()
	_ = m.Snapshot(ctx, sampleState())
	if err := m.SaveRecords(ctx, nil); err != nil {
		t.Fatalf("save records: %v", err)
	}
	state, _, _ := m.Restore(ctx)
	if len(state.CollectedRecords) != 0 || len(state.ListingQueue) != 2 {
		t.Fatalf("unexpected state after clearing records: %+v", state)
	}
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewFileStore(dir)
	_ = NewManager(store, nil).Snapshot(context.Background(), sampleState())
	matches, _ := filepath.Glob(filepath.Join(dir, "*.tmp"))
	if len(matches) != 0 {
		t.Fatalf("expected no temp files, got %v", matches)
	}
}

type failingStore struct{ err error }

func (f failingStore) Save(context.Context, string, []byte) error { return f.err }

func (f failingStore) Load(context.Context, string) ([]byte, bool, error) {
	return nil, false, f.err
}

func TestManagerPropagatesStoreErrors(t *testing.T) {
	boom := errors.New("disk full")
	m := NewManager(failingStore{err: boom}, nil)
	if err := m.Snapshot(context.Background(), sampleState()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if _, _, err := m.Restore(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped load error, got %v", err)
	}
}
