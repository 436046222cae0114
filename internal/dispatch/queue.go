package dispatch

import (
	"context"

	"webhook-gateway/internal/model"
)

// MemoryQueue is a bounded channel-backed queue. Backpressure is explicit:
// Enqueue fails fast with ErrQueueFull rather than blocking a webhook
// request on a saturated worker pool.
type MemoryQueue struct {
	jobs chan model.Job
}

func NewMemoryQueue(size int) *MemoryQueue {
	return &MemoryQueue{jobs: make(chan model.Job, size)}
}

func (q *MemoryQueue) Enqueue(ctx context.Context, job model.Job) error {
	select {
	case q.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

func (q *MemoryQueue) Jobs() <-chan model.Job {
	return q.jobs
}

var _ Queue = (*MemoryQueue)(nil)
