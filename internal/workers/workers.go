package workers

import (
	"context"
	"sync"
)

// Workers runs a fixed set of workers, each in its own goroutine.
type Workers struct {
	workers []Worker
	wg      sync.WaitGroup
}

// New returns an aggregate of the given workers. Nil workers are skipped.
func New(workers ...Worker) *Workers {
	ws := &Workers{}
	for _, w := range workers {
		if w != nil {
			ws.workers = append(ws.workers, w)
		}
	}
	return ws
}

// Run starts every worker with ctx and returns immediately.
func (w *Workers) Run(ctx context.Context) {
	for _, worker := range w.workers {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			worker.Run(ctx)
		}()
	}
}

// Wait blocks until every started worker has returned.
func (w *Workers) Wait() {
	w.wg.Wait()
}

// Len returns the number of workers in the aggregate.
func (w *Workers) Len() int {
	return len(w.workers)
}
