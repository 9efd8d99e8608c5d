// Package dispatch wires the RESP and store layers into the running server: the single dispatcher
// goroutine that owns the Store, the per-connection handlers that feed it through a job queue, the
// acceptor(s) that fan connections out to handlers, and the periodic sweeper.
package dispatch

import (
	"fmt"
	"time"

	"github.com/emberdb/ember/pkg/invariant"
	"github.com/emberdb/ember/pkg/metrics"
	"github.com/emberdb/ember/pkg/queue"
	"github.com/emberdb/ember/pkg/resp"
	"github.com/emberdb/ember/pkg/store"
)

// Dispatcher is the single goroutine that owns the Store. Every mutation and read of the Store happens
// on the goroutine that calls Run; the Store itself needs no internal locking as a result.
type Dispatcher struct {
	store *store.Store
	jobs  queue.JobQueue[Job]
}

// NewDispatcher builds a Dispatcher over s, pulling jobs from jobs.
func NewDispatcher(s *store.Store, jobs queue.JobQueue[Job]) *Dispatcher {
	return &Dispatcher{store: s, jobs: jobs}
}

// Run repeatedly dequeues a Job, executes it against the Store, and replies. It never returns; the
// protocol has no cancellation or graceful-shutdown path (process exit takes the goroutine with it).
func (d *Dispatcher) Run() {
	for {
		job := d.jobs.Dequeue()
		start := time.Now()
		response := execute(d.store, job.Cmd)
		metrics.ObserveDispatch(start)
		metrics.CommandsTotal.WithLabelValues(string(job.Cmd.Kind)).Inc()
		select {
		case job.Reply <- response:
		default:
			// The reply channel is buffered at capacity one and sent to once, so the send above always
			// lands in the buffer, even when the submitting handler is already gone; an unread reply is
			// dropped along with its channel.
		}
	}
}

// execute invokes the Store operation cmd.Kind names and encodes the result as a Response. The
// dispatcher never fails: every branch produces a Response, turning Store errors into RESP Error
// responses rather than propagating them.
func execute(s *store.Store, cmd resp.Command) resp.Response {
	switch cmd.Kind {
	case resp.CmdGet:
		v, found, err := s.Get(cmd.Key)
		if err != nil {
			return resp.ErrorFromErr(err)
		}
		if !found {
			return resp.Null()
		}
		return resp.BulkString(v)

	case resp.CmdSet:
		s.Set(cmd.Key, cmd.Value)
		return resp.SimpleString("OK")

	case resp.CmdSetNX:
		if s.SetNX(cmd.Key, cmd.Value) {
			return resp.Integer(1)
		}
		return resp.Integer(0)

	case resp.CmdGetSet:
		prev, has, err := s.GetSet(cmd.Key, cmd.Value)
		if err != nil {
			return resp.ErrorFromErr(err)
		}
		if !has {
			return resp.Null()
		}
		return resp.BulkString(prev)

	case resp.CmdGetDel:
		prev, has, err := s.GetDel(cmd.Key)
		if err != nil {
			return resp.ErrorFromErr(err)
		}
		if !has {
			return resp.Null()
		}
		return resp.BulkString(prev)

	case resp.CmdMGet:
		values := s.MGet(cmd.Keys)
		items := make([]resp.Response, len(values))
		for i, v := range values {
			if v == nil {
				items[i] = resp.Null()
			} else {
				// Found members come back as simple strings, unlike GETSET/GETDEL's bulk replies.
				items[i] = resp.SimpleString(string(v))
			}
		}
		return resp.Array(items)

	case resp.CmdMSet:
		s.MSet(cmd.Keys, cmd.Values)
		return resp.SimpleString("OK")

	case resp.CmdDel:
		return resp.Integer(int64(s.Del(cmd.Keys)))

	case resp.CmdExists:
		return resp.Integer(int64(s.Exists(cmd.Keys)))

	case resp.CmdIncr:
		return incrResponse(s, cmd.Key, 1)

	case resp.CmdDecr:
		return incrResponse(s, cmd.Key, -1)

	case resp.CmdIncrBy, resp.CmdDecrBy:
		return incrResponse(s, cmd.Key, cmd.Delta)

	case resp.CmdExpire:
		return resp.Integer(int64(s.Expire(cmd.Key, cmd.TTLSeconds)))

	case resp.CmdTTL:
		return resp.Integer(s.TTL(cmd.Key))

	case resp.CmdLPush:
		n, err := s.LPush(cmd.Key, cmd.Values)
		if err != nil {
			return resp.ErrorFromErr(err)
		}
		return resp.Integer(int64(n))

	case resp.CmdRPush:
		n, err := s.RPush(cmd.Key, cmd.Values)
		if err != nil {
			return resp.ErrorFromErr(err)
		}
		return resp.Integer(int64(n))

	case resp.CmdLPop:
		popped, ok, err := s.LPop(cmd.Key, cmd.Count)
		return popResponse(popped, ok, err, cmd.HasCount)

	case resp.CmdRPop:
		popped, ok, err := s.RPop(cmd.Key, cmd.Count)
		return popResponse(popped, ok, err, cmd.HasCount)

	case resp.CmdFlushAll:
		s.Flush()
		return resp.SimpleString("OK")

	case sweepKind:
		s.SweepExpired()
		return resp.Response{}

	default:
		invariant.Raise("dispatch", "unreachable_command_kind",
			"execute received a command kind CommandStream should never produce.", "kind", cmd.Kind)
		return resp.ErrorFromErr(fmt.Errorf("ERR unknown command '%s'", cmd.Kind))
	}
}

func incrResponse(s *store.Store, key []byte, delta int64) resp.Response {
	n, err := s.IncrBy(key, delta)
	if err != nil {
		return resp.ErrorFromErr(err)
	}
	return resp.Integer(n)
}

// popResponse renders an LPOP/RPOP result. When the caller supplied no explicit count (HasCount is
// false, so count implicitly defaulted to 1), a successful pop returns a single BulkString rather than
// a one-element Array, matching LPOP/RPOP's documented count=1 behavior.
func popResponse(popped [][]byte, ok bool, err error, hasCount bool) resp.Response {
	if err != nil {
		return resp.ErrorFromErr(err)
	}
	if !ok {
		return resp.Null()
	}
	if !hasCount {
		return resp.BulkString(popped[0])
	}
	items := make([]resp.Response, len(popped))
	for i, v := range popped {
		items[i] = resp.BulkString(v)
	}
	return resp.Array(items)
}
