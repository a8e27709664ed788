package unblock

import (
	"context"
	"errors"
	"testing"
	"time"
)

const challengeHTML = `<html><body><iframe src="https://geo.captcha-delivery.com/captcha/?initialCid=x"></iframe></body></html>`

// scriptedSession returns the pages in order, repeating the last one.
type scriptedSession struct {
	pages []string
	calls int
}

func (s *scriptedSession) HTML(context.Context) (string, error) {
	i := s.calls
	if i >= len(s.pages) {
		i = len(s.pages) - 1
	}
	s.calls++
	return s.pages[i], nil
}

func (s *scriptedSession) Navigate(context.Context, string) error  { return nil }
func (s *scriptedSession) WaitReady(context.Context, string) error { return nil }
func (s *scriptedSession) CurrentURL(context.Context) (string, error) {
	return "https://www.idealista.com/", nil
}
func (s *scriptedSession) Refresh(context.Context) error { return nil }
func (s *scriptedSession) Close() error                  { return nil }

func TestChallenged(t *testing.T) {
	u := NewManualUnblocker(Config{}, nil)
	got, err := u.Challenged(context.Background(), &scriptedSession{pages: []string{challengeHTML}})
	if err != nil || !got {
		t.Fatalf("expected challenge detected, got %v (%v)", got, err)
	}
	got, _ = u.Challenged(context.Background(), &scriptedSession{pages: []string{"<html><body>listing</body></html>"}})
	if got {
		t.Fatal("expected regular page not to be a challenge")
	}
}

func TestUnblockWaitsUntilCleared(t *testing.T) {
	session := &scriptedSession{pages: []string{challengeHTML, challengeHTML, "<html></html>"}}
	u := NewManualUnblocker(Config{PollInterval: time.Millisecond, Timeout: time.Second}, nil)
	if err := u.Unblock(context.Background(), session); err != nil {
		t.Fatalf("expected cleared challenge, got %v", err)
	}
	if session.calls != 3 {
		t.Fatalf("expected 3 probes, got %d", session.calls)
	}
}

func TestUnblockTimeout(t *testing.T) {
	u := NewManualUnblocker(Config{PollInterval: time.Millisecond, Timeout: 20 * time.Millisecond}, nil)
	err := u.Unblock(context.Background(), &scriptedSession{pages: []string{challengeHTML}})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected timeout, got %v", err)
	}
}

func TestUnblockCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	u := NewManualUnblocker(Config{PollInterval: time.Hour, Timeout: time.Hour}, nil)
	if err := u.Unblock(ctx, &scriptedSession{pages: []string{challengeHTML}}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}
