// Package unblock detects anti-bot challenge pages and waits for them to be
// cleared in the visible browser.
package unblock

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"relentless-househunter/internal/crawler"
	"relentless-househunter/internal/logging"
)

// DefaultChallengeSelector matches the DataDome captcha iframe.
const DefaultChallengeSelector = `iframe[src*="geo.captcha-delivery.com"]`

// ErrTimeout is returned when the challenge is still present after the timeout.
var ErrTimeout = errors.New("challenge not cleared before timeout")

// Config for ManualUnblocker. Zero values take defaults.
type Config struct {
	Selector     string
	PollInterval time.Duration
	Timeout      time.Duration
}

// ManualUnblocker waits for a human (or a solver extension loaded in the
// profile) to clear the challenge, polling the page until it is gone.
type ManualUnblocker struct {
	cfg    Config
	logger logging.Logger
}

func NewManualUnblocker(cfg Config, logger logging.Logger) *ManualUnblocker {
	if cfg.Selector == "" {
		cfg.Selector = DefaultChallengeSelector
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Minute
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &ManualUnblocker{cfg: cfg, logger: logger}
}

// Challenged reports whether the session currently shows a challenge page.
func (u *ManualUnblocker) Challenged(ctx context.Context, session crawler.Session) (bool, error) {
	html, err := session.HTML(ctx)
	if err != nil {
		return false, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false, err
	}
	return doc.Find(u.cfg.Selector).Length() > 0, nil
}

// Unblock blocks until the challenge disappears, the timeout elapses or ctx ends.
func (u *ManualUnblocker) Unblock(ctx context.Context, session crawler.Session) error {
	location, _ := session.CurrentURL(ctx)
	u.logger.WithFields(logging.Fields{
		"url":     location,
		"timeout": u.cfg.Timeout.String(),
	}).Warn("challenge page detected, waiting for it to be solved in the browser")

	deadline := time.NewTimer(u.cfg.Timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(u.cfg.PollInterval)
	defer ticker.Stop()

	for {
		challenged, err := u.Challenged(ctx, session)
		if err == nil && !challenged {
			u.logger.WithField("url", location).Info("challenge cleared")
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return ErrTimeout
		case <-ticker.C:
		}
	}
}
