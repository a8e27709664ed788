package pacing

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRangeDrawWithinBounds(t *testing.T) {
	r := Range{Min: 10 * time.Millisecond, Max: 30 * time.Millisecond}
	for i := 0; i < 500; i++ {
		d := r.Draw()
		if d < r.Min || d > r.Max {
			t.Fatalf("draw %s outside [%s, %s]", d, r.Min, r.Max)
		}
	}
}

func TestRangeDrawDegenerate(t *testing.T) {
	if got := (Range{Min: 5, Max: 5}).Draw(); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
	if got := (Range{}).Draw(); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if got := (Range{Min: 9, Max: 3}).Draw(); got < 3 || got > 9 {
		t.Fatalf("expected swapped bounds, got %d", got)
	}
}

func TestTiersChanceExtremes(t *testing.T) {
	tiers := Tiers{
		Long:   Range{Min: 100, Max: 100},
		Medium: Range{Min: 50, Max: 50},
		Short:  Range{Min: 1, Max: 1},
	}
	tiers.Chance = 1
	if got := tiers.Draw(); got != 100 {
		t.Fatalf("expected long tier, got %d", got)
	}
	tiers.Chance = 0
	if got := tiers.Draw(); got != 1 {
		t.Fatalf("expected short tier, got %d", got)
	}
}

func TestSleepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSleepZero(t *testing.T) {
	if err := Sleep(context.Background(), 0); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
