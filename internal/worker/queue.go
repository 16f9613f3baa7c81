package worker

import (
	"context"

	"github.com/ohare93/immich-auto-uploader/internal/candidate"
)

// Queue is the bounded channel between the watcher and the worker pool.
// Its capacity is the backpressure mechanism: when workers fall behind,
// Push blocks instead of buffering unbounded memory.
type Queue struct {
	ch chan candidate.Candidate
}

func NewQueue(size int) *Queue {
	return &Queue{ch: make(chan candidate.Candidate, size)}
}

// Push enqueues a candidate, blocking while the queue is full. It returns
// false when ctx is cancelled before the candidate could be handed off.
func (q *Queue) Push(ctx context.Context, c candidate.Candidate) bool {
	select {
	case q.ch <- c:
		return true
	case <-ctx.Done():
		return false
	}
}

// Pop dequeues the next candidate, blocking until one arrives or ctx is
// cancelled.
func (q *Queue) Pop(ctx context.Context) (candidate.Candidate, bool) {
	select {
	case c := <-q.ch:
		return c, true
	case <-ctx.Done():
		return candidate.Candidate{}, false
	}
}

// Len reports how many candidates are currently buffered.
func (q *Queue) Len() int {
	return len(q.ch)
}
