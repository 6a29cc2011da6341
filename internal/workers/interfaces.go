// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that starts
// several workers together and waits for all of them to finish.
package workers

import "context"

// Worker is the interface that must be implemented by any background worker.
// It defines a single Run method that executes the worker's loop.
//
// Implementations are expected to block until ctx is cancelled or their
// work runs out, and to return once they have released their resources.
//
// Example implementation:
//
//	type MyWorker struct{ jobs chan string }
//
//	func (w *MyWorker) Run(ctx context.Context) {
//	    for {
//	        select {
//	        case <-ctx.Done():
//	            return
//	        case job := <-w.jobs:
//	            process(job)
//	        }
//	    }
//	}
type Worker interface {
	Run(ctx context.Context)
}
