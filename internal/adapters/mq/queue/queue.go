// Package queue defines the contract for enqueuing and consuming
// generation jobs.
//
// Implementations may use channels or more advanced structures. The
// in-memory bounded queue below is the default.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/sideout/sideout/internal/domain/model"
	"github.com/sideout/sideout/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 10_000
	defaultBufferSize    = 10_000
)

// Job is one queued generation request. The pool is already filtered
// to available players by the enqueuing side.
type Job struct {
	ID             string
	Players        []model.Player
	NumTeams       int
	PlayersPerTeam int
	Weights        model.SkillWeights
	EnqueuedAt     time.Time
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a job to the queue.
	// Returns false if the queue is full and the job was not enqueued.
	Enqueue(ctx context.Context, j Job) bool

	// Dequeue returns a channel that will receive jobs as they become available.
	// The channel will be closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Job

	// Len returns the current number of queued jobs.
	Len(ctx context.Context) int

	// Close gracefully shuts down the queue.
	// After closing, no new jobs can be enqueued and the dequeue channel will be closed.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	jobs       chan Job
	capacity   int
	bufferSize int
	mu         sync.RWMutex
	closed     bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity:   defaultQueueCapacity,
		bufferSize: defaultBufferSize,
	}

	for _, opt := range opts {
		opt(q)
	}

	q.jobs = make(chan Job, q.bufferSize)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueDepth(0)
	metrics.UpdateQueueUtilization(0.0)

	return q
}

// Enqueue adds a job to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, j Job) bool { //nolint:gocritic // hugeParam: Job travels by value through the channel
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueRejection()
		return false
	}

	if len(q.jobs) >= q.capacity {
		metrics.RecordQueueRejection()
		return false
	}

	select {
	case q.jobs <- j:
		metrics.RecordQueueEnqueue()
		q.updateDepth()
		return true
	case <-ctx.Done():
		metrics.RecordQueueRejection()
		return false
	default:
		metrics.RecordQueueRejection()
		return false
	}
}

// Dequeue returns a channel that will receive jobs as they become available.
// Delivery is at-most-once: a job already taken off the internal buffer is
// dropped if ctx is canceled before a consumer receives it.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Job {
	// Wrap the channel to track dequeue metrics
	out := make(chan Job)
	go func() {
		defer close(out)
		for job := range q.jobs {
			select {
			case out <- job:
				metrics.RecordQueueDequeue()
				q.updateDepth()
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued jobs.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	q.updateDepth()
	return len(q.jobs)
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil // already closed
	}

	close(q.jobs)
	q.closed = true

	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

func (q *InMemoryQueue) updateDepth() {
	depth := len(q.jobs)
	metrics.UpdateQueueDepth(depth)
	metrics.UpdateQueueUtilization(float64(depth) / float64(q.capacity))
}
