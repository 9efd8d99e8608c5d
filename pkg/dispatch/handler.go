package dispatch

import (
	"errors"
	"io"
	"log/slog"
	"net"

	"github.com/emberdb/ember/pkg/metrics"
	"github.com/emberdb/ember/pkg/queue"
	"github.com/emberdb/ember/pkg/resp"
)

// handleConnection owns conn for its lifetime: it builds a CommandStream over the read half, and for
// every command parsed, enqueues a Job, blocks on its reply, and writes the encoded response. A framing
// failure or a clean EOF ends the loop and closes the connection; a semantic error (wrong arity, unknown
// command, WrongType, NotInteger) is written back as a RESP Error and the loop continues.
func handleConnection(conn net.Conn, jobs queue.JobQueue[Job]) {
	metrics.ConnectionsActive.Inc()
	defer metrics.ConnectionsActive.Dec()
	defer func() {
		if err := conn.Close(); err != nil {
			slog.Debug("Failed to close connection.", "error", err)
		}
	}()

	commands := resp.NewCommandStream(resp.NewTokenStream(conn))
	for {
		cmd, err := commands.Next()
		if err != nil {
			if isTerminal(err) {
				if !errors.Is(err, io.EOF) {
					slog.Debug("Connection ended on framing error.", "error", err)
				}
				return
			}
			// Semantic errors (wrong arity, unknown command, NotInteger on a malformed INCRBY/EXPIRE/
			// count argument) are reported as a RESP Error; the connection keeps going.
			if !writeResponse(conn, resp.ErrorFromErr(err)) {
				return
			}
			continue
		}

		job := newJob(cmd)
		jobs.Enqueue(job)
		response := <-job.Reply
		if !writeResponse(conn, response) {
			return
		}
	}
}

// isTerminal reports whether err ends the connection outright: a framing failure or a clean EOF.
// Everything else (wrong arity, unknown command, WrongType, NotInteger) is a semantic error the
// connection survives, per the error-handling design's protocol/semantic split.
func isTerminal(err error) bool {
	if errors.Is(err, io.EOF) {
		return true
	}
	var frameErr *resp.FrameError
	return errors.As(err, &frameErr)
}

func writeResponse(conn net.Conn, r resp.Response) bool {
	if _, err := conn.Write(resp.Encode(r)); err != nil {
		slog.Debug("Failed to write response, closing connection.", "error", err)
		return false
	}
	return true
}
