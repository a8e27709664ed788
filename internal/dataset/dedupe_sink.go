package dataset

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"relentless-househunter/internal/crawler"
	"relentless-househunter/internal/logging"
	"relentless-househunter/internal/models"
	"relentless-househunter/internal/store"
)

// DedupeSink forwards only listing ids not claimed before. Claims are
// released when the downstream write fails so a retried flush goes through.
type DedupeSink struct {
	next   crawler.Sink
	store  store.DedupeStore
	ttl    time.Duration
	owner  string
	logger logging.Logger
}

// NewDedupeSink wraps next. owner is stored as the claim value (the run id).
func NewDedupeSink(next crawler.Sink, dedupe store.DedupeStore, ttl time.Duration, owner string, logger logging.Logger) *DedupeSink {
	if logger == nil {
		logger = logging.Discard()
	}
	return &DedupeSink{next: next, store: dedupe, ttl: ttl, owner: owner, logger: logger}
}

func dedupeKey(id int64) string {
	return "listing:" + strconv.FormatInt(id, 10)
}

func (s *DedupeSink) Write(ctx context.Context, records []models.ListingRecord) error {
	fresh := make([]models.ListingRecord, 0, len(records))
	var claimed []string
	for _, r := range records {
		key := dedupeKey(r.ID)
		ok, err := s.store.SetNX(ctx, key, s.owner, s.ttl)
		if err != nil {
			s.release(ctx, claimed)
			return fmt.Errorf("claim listing %d: %w", r.ID, err)
		}
		if !ok {
			continue
		}
		claimed = append(claimed, key)
		fresh = append(fresh, r)
	}
	if skipped := len(records) - len(fresh); skipped > 0 {
		s.logger.WithField("skipped", skipped).Info("dropping already written listings")
	}
	if len(fresh) == 0 {
		return nil
	}
	if err := s.next.Write(ctx, fresh); err != nil {
		s.release(ctx, claimed)
		return err
	}
	return nil
}

func (s *DedupeSink) release(ctx context.Context, keys []string) {
	if len(keys) == 0 {
		return
	}
	if err := s.store.Del(context.WithoutCancel(ctx), keys...); err != nil {
		s.logger.WithError(err).Warn("failed to release dedupe claims")
	}
}
