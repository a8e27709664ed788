package queue

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"relentless-househunter/internal/models"
)

var (
	// ErrTimeout is returned by Pop when nothing arrived in time.
	ErrTimeout = errors.New("queue: pop timed out")
	// ErrSealed is returned by Pop once the queue is sealed and empty.
	ErrSealed = errors.New("queue: sealed")
)

type listingEntry struct {
	task models.ListingTask
	seq  uint64
}

// ListingQueue is a FIFO with a blocking Pop. Producers Seal it when no more
// tasks will arrive so idle consumers can leave without waiting out a timeout.
type ListingQueue struct {
	mu       sync.Mutex
	items    []listingEntry
	inFlight map[Ticket]listingEntry
	seq      uint64
	sealed   bool
	// closed and replaced on every push or seal to wake waiters
	wake chan struct{}
}

// NewListingQueue returns an empty queue.
func NewListingQueue() *ListingQueue {
	return &ListingQueue{
		inFlight: make(map[Ticket]listingEntry),
		wake:     make(chan struct{}),
	}
}

func (q *ListingQueue) broadcastLocked() {
	close(q.wake)
	q.wake = make(chan struct{})
}

// Push appends tasks in order.
func (q *ListingQueue) Push(tasks ...models.ListingTask) {
	if len(tasks) == 0 {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, task := range tasks {
		q.seq++
		q.items = append(q.items, listingEntry{task: task, seq: q.seq})
	}
	q.broadcastLocked()
}

// Seal marks the end of production.
func (q *ListingQueue) Seal() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.sealed {
		return
	}
	q.sealed = true
	q.broadcastLocked()
}

// Pop waits up to timeout for a task.
func (q *ListingQueue) Pop(ctx context.Context, timeout time.Duration) (Ticket, models.ListingTask, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			e := q.items[0]
			q.items[0] = listingEntry{}
			q.items = q.items[1:]
			ticket := Ticket(e.seq)
			q.inFlight[ticket] = e
			q.mu.Unlock()
			return ticket, e.task, nil
		}
		if q.sealed {
			q.mu.Unlock()
			return 0, models.ListingTask{}, ErrSealed
		}
		wake := q.wake
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return 0, models.ListingTask{}, ctx.Err()
		case <-timer.C:
			return 0, models.ListingTask{}, ErrTimeout
		case <-wake:
		}
	}
}

// Done acknowledges a dequeued task.
func (q *ListingQueue) Done(ticket Ticket) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.inFlight, ticket)
}

// Len counts queued tasks, excluding in-flight ones.
func (q *ListingQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// InFlight counts dequeued tasks not yet acknowledged.
func (q *ListingQueue) InFlight() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.inFlight)
}

// Snapshot copies in-flight and queued tasks in arrival order.
func (q *ListingQueue) Snapshot() []models.ListingTask {
	q.mu.Lock()
	entries := make([]listingEntry, 0, len(q.items)+len(q.inFlight))
	for _, e := range q.inFlight {
		entries = append(entries, e)
	}
	entries = append(entries, q.items...)
	q.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	out := make([]models.ListingTask, len(entries))
	for i, e := range entries {
		out[i] = e.task
	}
	return out
}
