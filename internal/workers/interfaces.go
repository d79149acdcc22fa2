// Package workers provides the background jobs of the main app process and
// a Workers aggregate that runs them in a unified way.
//
// Each job is idle until Run is called, spawns its goroutine internally and
// exits when the passed context is cancelled or Stop is called.
package workers

import "context"

// Worker is the interface implemented by every background job.
//
// Run starts the job's goroutine and returns immediately. Stop cancels the
// goroutine and blocks until it has fully exited; it is safe to call when the
// job is not running.
type Worker interface {
	Run(ctx context.Context)
	Stop()
}
