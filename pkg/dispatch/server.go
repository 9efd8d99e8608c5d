package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/emberdb/ember/pkg/metrics"
	"github.com/emberdb/ember/pkg/queue"
	"github.com/emberdb/ember/pkg/store"
)

// Options configures a running server. See pkg/config for the flags these are populated from.
type Options struct {
	Interface       string
	Port            int
	AcceptorThreads int
	QueueImpl       string
	DisruptorSize   int
	SweepInterval   time.Duration
}

func newJobQueue(opts Options) (queue.JobQueue[Job], string, error) {
	switch opts.QueueImpl {
	case "condvar", "":
		return queue.NewCondvarQueue[Job](), "condvar", nil
	case "channel":
		return queue.NewChannelQueue[Job](opts.DisruptorSize), "channel", nil
	case "disruptor":
		return queue.NewDisruptorQueue[Job](opts.DisruptorSize), "disruptor", nil
	default:
		return nil, "", fmt.Errorf("unknown queue implementation %q", opts.QueueImpl)
	}
}

// sampleQueueDepth periodically exports the queue backlog. All three implementations expose a
// best-effort Len; the reading is advisory, so once a second is plenty.
func sampleQueueDepth(ctx context.Context, impl string, q interface{ Len() int }) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.QueueDepth.WithLabelValues(impl).Set(float64(q.Len()))
		}
	}
}

// Run binds the listener, starts the dispatcher, sweeper, and acceptor goroutines, and blocks until ctx
// is cancelled or an acceptor reports a fatal error. It returns a non-nil error on bind failure, per the
// "nonzero on bind failure" exit-code contract.
func Run(ctx context.Context, opts Options) error {
	jobs, impl, err := newJobQueue(opts)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", opts.Interface, opts.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", addr, err)
	}
	slog.Info("Listening for connections.", "address", addr)

	s := store.New()
	dispatcher := NewDispatcher(s, jobs)
	go dispatcher.Run()

	sweepCtx, cancelSweep := context.WithCancel(ctx)
	defer cancelSweep()
	go runSweeper(sweepCtx, opts.SweepInterval, jobs)
	if depth, ok := jobs.(interface{ Len() int }); ok {
		go sampleQueueDepth(sweepCtx, impl, depth)
	}

	acceptorErrs := make(chan error, opts.AcceptorThreads)
	for i := 0; i < opts.AcceptorThreads; i++ {
		go func() { acceptorErrs <- runAcceptor(listener, jobs) }()
	}

	select {
	case <-ctx.Done():
		slog.Info("Server context cancelled, closing listener.", "error", ctx.Err())
		if closeErr := listener.Close(); closeErr != nil && !errors.Is(closeErr, net.ErrClosed) {
			return fmt.Errorf("failed to close listener: %w", closeErr)
		}
		return nil
	case acceptorErr := <-acceptorErrs:
		if acceptorErr != nil {
			return fmt.Errorf("acceptor stopped unexpectedly: %w", acceptorErr)
		}
		return nil
	}
}
