// Package worker persists finished quiz sessions to the leaderboard off the
// gameplay path.
package worker

import (
	"sync"

	"capitals-quiz/internal/domain"
	"capitals-quiz/internal/metrics"
)

const defaultQueueCapacity = 1024

// ResultQueue is a bounded in-memory queue of finished sessions. It
// implements app.ResultPublisher.
type ResultQueue struct {
	results chan domain.SessionResult

	mu     sync.RWMutex
	closed bool
}

// NewResultQueue creates a queue holding up to capacity results.
func NewResultQueue(capacity int) *ResultQueue {
	if capacity <= 0 {
		capacity = defaultQueueCapacity
	}
	metrics.WriterQueueDepth(0)
	return &ResultQueue{results: make(chan domain.SessionResult, capacity)}
}

// Publish enqueues without blocking. It returns false when the queue is full
// or closed.
func (q *ResultQueue) Publish(result domain.SessionResult) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.WriterDropped()
		return false
	}
	select {
	case q.results <- result:
		metrics.WriterQueueDepth(len(q.results))
		return true
	default:
		metrics.WriterDropped()
		return false
	}
}

// Results is drained by the writer; it is closed by Close.
func (q *ResultQueue) Results() <-chan domain.SessionResult {
	return q.results
}

// Len returns the number of queued results.
func (q *ResultQueue) Len() int {
	return len(q.results)
}

// Close stops accepting results. Queued results remain readable.
func (q *ResultQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	close(q.results)
	q.closed = true
	return nil
}
