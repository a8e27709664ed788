package queue

import (
	"container/heap"
	"sort"
	"sync"

	"relentless-househunter/internal/models"
)

// Ticket identifies a dequeued task until it is acknowledged with Done.
type Ticket uint64

type navEntry struct {
	task models.NavigationTask
	seq  uint64
}

type navHeap []navEntry

func (h navHeap) Len() int { return len(h) }

func (h navHeap) Less(i, j int) bool {
	if h[i].task.Priority != h[j].task.Priority {
		return h[i].task.Priority < h[j].task.Priority
	}
	return h[i].seq < h[j].seq
}

func (h navHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *navHeap) Push(x any) { *h = append(*h, x.(navEntry)) }

func (h *navHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// NavigationQueue serves tasks by ascending priority, FIFO among equals.
// Dequeued tasks stay visible to Snapshot until Done is called.
type NavigationQueue struct {
	mu       sync.Mutex
	items    navHeap
	inFlight map[Ticket]navEntry
	seq      uint64
}

// NewNavigationQueue returns an empty queue.
func NewNavigationQueue() *NavigationQueue {
	return &NavigationQueue{inFlight: make(map[Ticket]navEntry)}
}

// Push adds a task behind every queued task of the same priority.
func (q *NavigationQueue) Push(task models.NavigationTask) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.seq++
	heap.Push(&q.items, navEntry{task: task, seq: q.seq})
}

// Pop never blocks; ok is false when nothing is queued.
func (q *NavigationQueue) Pop() (Ticket, models.NavigationTask, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.items.Len() == 0 {
		return 0, models.NavigationTask{}, false
	}
	e := heap.Pop(&q.items).(navEntry)
	ticket := Ticket(e.seq)
	q.inFlight[ticket] = e
	return ticket, e.task, true
}

// Done acknowledges a dequeued task.
func (q *NavigationQueue) Done(ticket Ticket) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.inFlight, ticket)
}

// Len counts queued tasks, excluding in-flight ones.
func (q *NavigationQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}

// InFlight counts dequeued tasks not yet acknowledged.
func (q *NavigationQueue) InFlight() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.inFlight)
}

// Snapshot copies queued and in-flight tasks in service order. Pushing the
// result into an empty queue reproduces that order.
func (q *NavigationQueue) Snapshot() []models.NavigationTask {
	q.mu.Lock()
	entries := make(navHeap, 0, len(q.items)+len(q.inFlight))
	entries = append(entries, q.items...)
	for _, e := range q.inFlight {
		entries = append(entries, e)
	}
	q.mu.Unlock()

	sort.Slice(entries, entries.Less)
	out := make([]models.NavigationTask, len(entries))
	for i, e := range entries {
		out[i] = e.task
	}
	return out
}
