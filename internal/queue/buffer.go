package queue

import (
	"sync"

	"relentless-househunter/internal/models"
)

// RecordBuffer collects extracted records between flushes.
type RecordBuffer struct {
	mu      sync.Mutex
	records []models.ListingRecord
}

// NewRecordBuffer returns an empty buffer.
func NewRecordBuffer() *RecordBuffer {
	return &RecordBuffer{}
}

func (b *RecordBuffer) Append(records ...models.ListingRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = append(b.records, records...)
}

// Drain empties the buffer and returns what it held.
func (b *RecordBuffer) Drain() []models.ListingRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.records
	b.records = nil
	return out
}

// Requeue puts a drained batch back ahead of anything appended since.
func (b *RecordBuffer) Requeue(batch []models.ListingRecord) {
	if len(batch) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	merged := make([]models.ListingRecord, 0, len(batch)+len(b.records))
	merged = append(merged, batch...)
	merged = append(merged, b.records...)
	b.records = merged
}

func (b *RecordBuffer) Snapshot() []models.ListingRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.ListingRecord, len(b.records))
	copy(out, b.records)
	return out
}

func (b *RecordBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.records)
}
