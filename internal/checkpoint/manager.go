package checkpoint

import (
	"context"
	"encoding/json"
	"fmt"

	"relentless-househunter/internal/logging"
	"relentless-househunter/internal/models"
)

// Stream names. Each is persisted independently; a missing one restores as empty.
const (
	StreamNavigation = "navigation"
	StreamListings   = "listings"
	StreamRecords    = "records"
)

// Manager snapshots and restores CrawlState over a Store.
type Manager struct {
	store  Store
	logger logging.Logger
}

// NewManager returns a Manager writing through store.
func NewManager(store Store, logger logging.Logger) *Manager {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Manager{store: store, logger: logger}
}

// Snapshot overwrites all three streams. The done flags are not persisted:
// they describe a live run, and a restored run recomputes them.
func (m *Manager) Snapshot(ctx context.Context, state models.CrawlState) error {
	if err := m.save(ctx, StreamNavigation, nonNil(state.NavigationQueue)); err != nil {
		return err
	}
	if err := m.save(ctx, StreamListings, nonNil(state.ListingQueue)); err != nil {
		return err
	}
	return m.SaveRecords(ctx, state.CollectedRecords)
}

// SaveRecords overwrites only the records stream, e.g. to clear it after a flush.
func (m *Manager) SaveRecords(ctx context.Context, records []models.ListingRecord) error {
	return m.save(ctx, StreamRecords, nonNil(records))
}

// Restore loads the three streams. ok is false when all of them are empty
// or missing. A stream that fails to decode is logged and treated as empty.
func (m *Manager) Restore(ctx context.Context) (models.CrawlState, bool, error) {
	var state models.CrawlState
	if err := m.load(ctx, StreamNavigation, &state.NavigationQueue); err != nil {
		return models.CrawlState{}, false, err
	}
	if err := m.load(ctx, StreamListings, &state.ListingQueue); err != nil {
		return models.CrawlState{}, false, err
	}
	if err := m.load(ctx, StreamRecords, &state.CollectedRecords); err != nil {
		return models.CrawlState{}, false, err
	}
	return state, !state.Empty(), nil
}

func (m *Manager) save(ctx context.Context, stream string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s checkpoint: %w", stream, err)
	}
	if err := m.store.Save(ctx, stream, payload); err != nil {
		return fmt.Errorf("save %s checkpoint: %w", stream, err)
	}
	return nil
}

func (m *Manager) load(ctx context.Context, stream string, into any) error {
	payload, ok, err := m.store.Load(ctx, stream)
	if err != nil {
		return fmt.Errorf("load %s checkpoint: %w", stream, err)
	}
	if !ok || len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, into); err != nil {
		m.logger.WithError(err).WithField("stream", stream).Error("corrupted checkpoint stream, starting it empty")
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
