package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"relentless-househunter/internal/models"
)

// CSVSink appends batches to a CSV dataset. The header is written when the
// file is created. Duplicate ids are left in place for Compact to merge.
type CSVSink struct {
	mu   sync.Mutex
	path string
}

func NewCSVSink(path string) *CSVSink {
	return &CSVSink{path: path}
}

func (s *CSVSink) Path() string { return s.path }

func (s *CSVSink) Write(_ context.Context, records []models.ListingRecord) error {
	if len(records) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dataset dir: %w", err)
		}
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat dataset: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(Columns); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	for _, record := range records {
		row, err := ToRow(record)
		if err != nil {
			return fmt.Errorf("encode listing %d: %w", record.ID, err)
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write listing %d: %w", record.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush dataset: %w", err)
	}
	return f.Sync()
}
