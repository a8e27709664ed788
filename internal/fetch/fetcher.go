package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"

	"relentless-househunter/internal/crawler"
	"relentless-househunter/internal/logging"
	"relentless-househunter/internal/metrics"
	"relentless-househunter/internal/pacing"
)

// Status is the resolved result of a fetch attempt.
type Status int

const (
	Found Status = iota
	NotFound
	Failed
	ExtractionFailed
	Cancelled
)

func (s Status) String() string {
	switch s {
	case Found:
		return "found"
	case NotFound:
		return "not_found"
	case Failed:
		return "failed"
	case ExtractionFailed:
		return "extraction_failed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Outcome carries the value on Found and the last error otherwise.
type Outcome[T any] struct {
	Status   Status
	Value    T
	Err      error
	Attempts int
}

// Config controls the retry budget and the pause between transient retries.
type Config struct {
	// MaxRetries is the total number of counted attempts; values below 1 mean 1.
	MaxRetries int
	Backoff    pacing.Range
}

// DefaultConfig mirrors the pacing used against the live site.
func DefaultConfig() Config {
	return Config{
		MaxRetries: 5,
		Backoff:    pacing.Range{Min: 60 * time.Second, Max: 120 * time.Second},
	}
}

// Fetcher runs page actions under the blocked/not-found/transient policy.
type Fetcher struct {
	checker   crawler.StatusChecker
	unblocker crawler.Unblocker
	cfg       Config
	logger    logging.Logger
	metrics   *metrics.Metrics
}

// NewFetcher builds a Fetcher. logger and m may be nil.
func NewFetcher(checker crawler.StatusChecker, unblocker crawler.Unblocker, cfg Config, logger logging.Logger, m *metrics.Metrics) *Fetcher {
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Fetcher{
		checker:   checker,
		unblocker: unblocker,
		cfg:       cfg,
		logger:    logger,
		metrics:   m,
	}
}

func retryPolicy[T any](cfg Config, onRetry func(failsafe.ExecutionEvent[T])) retrypolicy.RetryPolicy[T] {
	builder := retrypolicy.NewBuilder[T]().
		HandleIf(func(_ T, err error) bool {
			return errors.Is(err, crawler.ErrTransient)
		}).
		WithMaxAttempts(cfg.MaxRetries).
		ReturnLastFailure().
		OnRetry(onRetry)

	lo, hi := cfg.Backoff.Min, cfg.Backoff.Max
	switch {
	case lo >= 0 && hi > lo:
		builder = builder.WithRandomDelay(lo, hi)
	case lo > 0:
		builder = builder.WithDelay(lo)
	}
	return builder.Build()
}

// Attempt runs action against session until it succeeds, the page is gone,
// or the retry budget runs out. Challenge pages are handed to the unblocker
// and retried without spending budget. The page is refreshed before every
// counted retry.
func Attempt[T any](ctx context.Context, f *Fetcher, session crawler.Session, url string, action func(context.Context) (T, error)) Outcome[T] {
	attempts := 0
	policy := retryPolicy(f.cfg, func(e failsafe.ExecutionEvent[T]) {
		f.metrics.Retry("transient")
		f.logger.WithFields(logging.Fields{
			"url":     url,
			"attempt": e.Attempts(),
			"error":   e.LastError(),
		}).Warn("transient page failure, retrying")
	})

	value, err := failsafe.With(policy).WithContext(ctx).Get(func() (T, error) {
		if attempts > 0 {
			if rerr := session.Refresh(ctx); rerr != nil {
				f.logger.WithError(rerr).WithField("url", url).Debug("refresh before retry failed")
			}
		}
		attempts++
		return runUnblocked(ctx, f, session, url, action)
	})

	out := Outcome[T]{Value: value, Err: err, Attempts: attempts}
	switch {
	case err == nil:
		out.Status = Found
	case ctx.Err() != nil:
		out.Status = Cancelled
	case errors.Is(err, crawler.ErrNotFound):
		out.Status = NotFound
	case errors.Is(err, crawler.ErrExtraction):
		out.Status = ExtractionFailed
	default:
		out.Status = Failed
	}
	return out
}

// runUnblocked retries action for as long as the failure classifies as Blocked.
func runUnblocked[T any](ctx context.Context, f *Fetcher, session crawler.Session, url string, action func(context.Context) (T, error)) (T, error) {
	var zero T
	for {
		value, err := action(ctx)
		if err == nil {
			return value, nil
		}
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		if errors.Is(err, crawler.ErrExtraction) || errors.Is(err, crawler.ErrNotFound) {
			return zero, err
		}

		class := f.classify(ctx, session, url)
		if !errors.Is(class, crawler.ErrBlocked) {
			return zero, fmt.Errorf("%w: %v", class, err)
		}

		f.metrics.Unblock()
		f.logger.WithField("url", url).Warn("challenge detected, unblocking")
		if uerr := f.unblocker.Unblock(ctx, session); uerr != nil {
			if ctx.Err() != nil {
				return zero, ctx.Err()
			}
			f.logger.WithError(uerr).WithField("url", url).Warn("unblock did not clear the challenge")
		}
	}
}

// classify decides why a page action failed: a challenge or 403 is Blocked,
// 404 is NotFound, anything else (including a failed check) is Transient.
func (f *Fetcher) classify(ctx context.Context, session crawler.Session, url string) error {
	target := url
	if current, err := session.CurrentURL(ctx); err == nil && current != "" {
		target = current
	}

	if challenged, err := f.unblocker.Challenged(ctx, session); err == nil && challenged {
		f.metrics.StatusCheck("challenge")
		return crawler.ErrBlocked
	}

	code, err := f.checker.Status(ctx, target)
	switch {
	case err != nil:
		f.metrics.StatusCheck("error")
		return crawler.ErrTransient
	case code == http.StatusForbidden:
		f.metrics.StatusCheck("forbidden")
		return crawler.ErrBlocked
	case code == http.StatusNotFound:
		f.metrics.StatusCheck("not_found")
		return crawler.ErrNotFound
	default:
		f.metrics.StatusCheck("other")
		return crawler.ErrTransient
	}
}
