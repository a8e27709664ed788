// Package pacing draws the randomized pauses placed between page loads.
package pacing

import (
	"context"
	"math/rand"
	"time"
)

// Range is a uniform interval [Min, Max].
type Range struct {
	Min time.Duration
	Max time.Duration
}

// Draw returns a uniform duration from the range. Inverted bounds are swapped.
func (r Range) Draw() time.Duration {
	lo, hi := r.Min, r.Max
	if hi < lo {
		lo, hi = hi, lo
	}
	if lo < 0 {
		lo = 0
	}
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(rand.Int63n(int64(hi-lo+1)))
}

// Tiers picks Long with probability Chance, otherwise Medium with
// probability Chance, otherwise Short.
type Tiers struct {
	Long   Range
	Medium Range
	Short  Range
	Chance float64
}

func (t Tiers) Draw() time.Duration {
	switch {
	case flip(t.Chance):
		return t.Long.Draw()
	case flip(t.Chance):
		return t.Medium.Draw()
	default:
		return t.Short.Draw()
	}
}

func flip(chance float64) bool {
	return rand.Float64() < chance
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
