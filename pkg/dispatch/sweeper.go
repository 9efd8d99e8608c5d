package dispatch

import (
	"context"
	"time"

	"github.com/emberdb/ember/pkg/queue"
)

// runSweeper periodically enqueues the synthetic expiration-check job onto the same queue client
// commands flow through, so the single dispatcher goroutine remains the Store's sole mutator. It exits
// when ctx is cancelled.
func runSweeper(ctx context.Context, interval time.Duration, jobs queue.JobQueue[Job]) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			jobs.Enqueue(sweepJob())
		}
	}
}
