package store

import (
	"sync"

	"github.com/roach88/cakeledger/internal/model"
)

// syncJob is one unit of work for the sync worker.
//
// A push job carries its own copies of all three collections, taken at
// enqueue time, so later mutations never change what it sends. A job with
// a non-nil done channel and no snapshot is a barrier used by Flush.
type syncJob struct {
	token    string
	revision int64
	snapshot model.Collections
	done     chan struct{}
}

func (j syncJob) isBarrier() bool {
	return j.done != nil
}

// syncQueue is a thread-safe, unbounded FIFO of sync jobs.
//
// Mutations enqueue from any goroutine; the sync worker dequeues. The
// signal channel lets the worker wait without polling and is closed by
// Close to wake it for shutdown.
type syncQueue struct {
	mu     sync.Mutex
	jobs   []syncJob
	closed bool
	signal chan struct{} // buffered, size 1
}

func newSyncQueue() *syncQueue {
	return &syncQueue{
		jobs:   make([]syncJob, 0, 16),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue adds a job to the back of the queue.
// Returns false if the queue is closed.
func (q *syncQueue) Enqueue(j syncJob) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.jobs = append(q.jobs, j)

	// Non-blocking: the size-1 buffer coalesces signals
	select {
	case q.signal <- struct{}{}:
	default:
	}

	return true
}

// TryDequeue removes the front job without blocking.
func (q *syncQueue) TryDequeue() (syncJob, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.jobs) == 0 {
		return syncJob{}, false
	}

	j := q.jobs[0]
	// Drop the slot's reference so the snapshot can be collected
	q.jobs[0] = syncJob{}

	if len(q.jobs) == 1 {
		q.jobs = q.jobs[:0]
	} else {
		q.jobs = q.jobs[1:]
	}

	return j, true
}

// TryDequeueLatest is TryDequeue with coalescing: when the front job is a
// push followed directly by more pushes, all but the last are discarded
// and counted in superseded. Every push carries full tables, so only the
// newest of a run changes what the remote ends up holding. Barriers are
// never skipped.
func (q *syncQueue) TryDequeueLatest() (j syncJob, superseded int, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.jobs) == 0 {
		return syncJob{}, 0, false
	}

	n := 1
	if !q.jobs[0].isBarrier() {
		for n < len(q.jobs) && !q.jobs[n].isBarrier() {
			n++
		}
	}
	j = q.jobs[n-1]
	for i := 0; i < n; i++ {
		q.jobs[i] = syncJob{}
	}

	if len(q.jobs) == n {
		q.jobs = q.jobs[:0]
	} else {
		q.jobs = q.jobs[n:]
	}

	return j, n - 1, true
}

// Wait returns a channel that fires when jobs may be available, and is
// closed once the queue is closed.
func (q *syncQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the number of queued jobs.
func (q *syncQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

// Drained reports whether the queue is closed and empty.
func (q *syncQueue) Drained() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed && len(q.jobs) == 0
}

// Close stops further enqueues and wakes the worker. Jobs already queued
// are still drained.
func (q *syncQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	close(q.signal)
}
