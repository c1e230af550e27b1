package service

import (
	"context"
	"sync"
	"time"
)

// JobQueue hands order ids from submitters to the single fulfillment worker.
// It is unbounded and strictly FIFO; Enqueue never blocks.
type JobQueue struct {
	mu       sync.Mutex
	ids      []int
	inFlight int
	closed   bool
	signal   chan struct{} // buffered, size 1
}

func NewJobQueue() *JobQueue {
	return &JobQueue{
		ids:    make([]int, 0, 16),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue appends id. Returns false once the queue is closed.
func (q *JobQueue) Enqueue(id int) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.ids = append(q.ids, id)

	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

// Dequeue waits up to timeout for the next id. It returns false on timeout,
// on context cancellation, or when the queue is closed and drained.
func (q *JobQueue) Dequeue(ctx context.Context, timeout time.Duration) (int, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		if id, ok, closed := q.tryDequeue(); ok {
			return id, true
		} else if closed {
			return 0, false
		}

		select {
		case <-ctx.Done():
			return 0, false
		case <-timer.C:
			id, ok, _ := q.tryDequeue()
			return id, ok
		case <-q.signal:
		}
	}
}

func (q *JobQueue) tryDequeue() (id int, ok, closed bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.ids) == 0 {
		return 0, false, q.closed
	}
	id = q.ids[0]
	if len(q.ids) == 1 {
		q.ids = q.ids[:0]
	} else {
		q.ids = q.ids[1:]
		// more work is waiting; keep the next waiter awake
		if !q.closed {
			select {
			case q.signal <- struct{}{}:
			default:
			}
		}
	}
	q.inFlight++
	return id, true, false
}

// Ack marks one dequeued item as finished.
func (q *JobQueue) Ack() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.inFlight > 0 {
		q.inFlight--
	}
}

// Pending is the number of ids not yet dequeued.
func (q *JobQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ids)
}

// InFlight is the number of ids dequeued but not yet acknowledged.
func (q *JobQueue) InFlight() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.inFlight
}

// Closed reports whether Close has been called.
func (q *JobQueue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Close stops accepting ids and wakes a blocked Dequeue.
func (q *JobQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.signal)
}
