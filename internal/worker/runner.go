package worker

import (
	"context"
	"sync"

	"github.com/ohare93/immich-auto-uploader/internal/candidate"
	"github.com/ohare93/immich-auto-uploader/internal/logging"
)

// Pool runs a fixed number of workers draining one shared queue.
type Pool struct {
	queue   *Queue
	worker  *Worker
	stats   *Stats
	workers int
	log     logging.Logger

	wg sync.WaitGroup
}

func NewPool(queue *Queue, w *Worker, stats *Stats, workers int, log logging.Logger) *Pool {
	return &Pool{
		queue:   queue,
		worker:  w,
		stats:   stats,
		workers: workers,
		log:     log,
	}
}

// Enqueue hands a candidate to the pool, blocking on backpressure. It
// returns false during shutdown.
func (p *Pool) Enqueue(ctx context.Context, c candidate.Candidate) bool {
	if !p.queue.Push(ctx, c) {
		return false
	}
	p.stats.Discovered()
	return true
}

// Start launches the worker goroutines. They exit when ctx is cancelled;
// the candidate a worker already holds is finished first.
func (p *Pool) Start(ctx context.Context) {
	p.log.Info("starting worker pool", "workers", p.workers)
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			p.runLoop(ctx, id)
		}(i)
	}
}

// Wait blocks until every worker goroutine has returned.
func (p *Pool) Wait() {
	p.wg.Wait()
}

func (p *Pool) runLoop(ctx context.Context, id int) {
	log := p.log.With("worker", id)
	for {
		cand, ok := p.queue.Pop(ctx)
		if !ok {
			log.Debug("worker stopping")
			return
		}
		p.worker.Process(ctx, cand)
	}
}
