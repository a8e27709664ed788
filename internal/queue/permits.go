package queue

import (
	"context"
	"sync"
)

// Permits is the checkpoint trigger shared by all workers. Every dequeue
// spends one permit; when none are left the first waiter raises Signal and
// everyone blocks until Replenish. A capacity below one disables the gate.
type Permits struct {
	mu        sync.Mutex
	capacity  int
	available int
	requested bool
	signal    chan struct{}
	refilled  chan struct{}
}

// NewPermits returns a full counter.
func NewPermits(capacity int) *Permits {
	return &Permits{
		capacity:  capacity,
		available: capacity,
		signal:    make(chan struct{}, 1),
		refilled:  make(chan struct{}),
	}
}

// Signal fires when workers are waiting for a checkpoint.
func (p *Permits) Signal() <-chan struct{} {
	return p.signal
}

// Acquire takes a permit, waiting for Replenish if none are left.
func (p *Permits) Acquire(ctx context.Context) error {
	if p.capacity < 1 {
		return ctx.Err()
	}
	for {
		p.mu.Lock()
		if p.available > 0 {
			p.available--
			p.mu.Unlock()
			return nil
		}
		if !p.requested {
			p.requested = true
			select {
			case p.signal <- struct{}{}:
			default:
			}
		}
		refilled := p.refilled
		p.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-refilled:
		}
	}
}

// Release refunds a permit that bought no work.
func (p *Permits) Release() {
	if p.capacity < 1 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.available < p.capacity {
		p.available++
	}
	if p.requested && p.available > 0 {
		close(p.refilled)
		p.refilled = make(chan struct{})
	}
}

// Replenish restores full capacity after a checkpoint.
func (p *Permits) Replenish() {
	if p.capacity < 1 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.available = p.capacity
	p.requested = false
	close(p.refilled)
	p.refilled = make(chan struct{})
}

// Available reports the permits left before the next forced checkpoint.
func (p *Permits) Available() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.available
}
