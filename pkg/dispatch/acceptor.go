package dispatch

import (
	"errors"
	"log/slog"
	"net"

	"github.com/emberdb/ember/pkg/queue"
)

// runAcceptor binds no socket of its own: it loops on Accept against an already-bound listener and
// spawns a handler goroutine per accepted connection. Several acceptor goroutines may share the same
// listener (the design calls for this to mitigate thundering-herd wakeups); the Go runtime's listener
// already serializes concurrent Accept calls safely.
func runAcceptor(listener net.Listener, jobs queue.JobQueue[Job]) error {
	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		slog.Debug("Accepted connection.", "remote", conn.RemoteAddr())
		go handleConnection(conn, jobs)
	}
}
