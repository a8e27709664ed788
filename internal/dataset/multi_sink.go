package dataset

import (
	"context"
	"errors"

	"relentless-househunter/internal/crawler"
	"relentless-househunter/internal/models"
)

// MultiSink writes each batch to every sink. All sinks are attempted; the
// errors are joined.
type MultiSink []crawler.Sink

func (m MultiSink) Write(ctx context.Context, records []models.ListingRecord) error {
	var errs []error
	for _, sink := range m {
		if err := sink.Write(ctx, records); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
