package queue

import (
	"context"

	"github.com/ksoliman/banksim/pkg/queue"
)

// MemoryQueue implements queue.Queue and queue.Consumer on a buffered
// channel. Used in tests and single-process development setups; delivery
// order is enqueue order.
type MemoryQueue struct {
	jobs chan queue.Job
}

// NewMemoryQueue creates a queue with the given buffer size.
func NewMemoryQueue(size int) *MemoryQueue {
	return &MemoryQueue{jobs: make(chan queue.Job, size)}
}

// Enqueue adds a job, blocking if the buffer is full.
func (q *MemoryQueue) Enqueue(ctx context.Context, job queue.Job) error {
	select {
	case q.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume delivers jobs to the handler until ctx is cancelled. A handler
// error re-queues the job, matching the at-least-once contract.
func (q *MemoryQueue) Consume(ctx context.Context, handler func(ctx context.Context, job queue.Job) error) error {
	for {
		select {
		case job := <-q.jobs:
			if err := handler(ctx, job); err != nil {
				select {
				case q.jobs <- job:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Len reports the number of pending jobs.
func (q *MemoryQueue) Len() int { return len(q.jobs) }

var (
	_ queue.Queue    = (*MemoryQueue)(nil)
	_ queue.Consumer = (*MemoryQueue)(nil)
)
