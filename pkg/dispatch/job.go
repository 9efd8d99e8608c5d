package dispatch

import "github.com/emberdb/ember/pkg/resp"

// Job couples a parsed command with the one-shot reply channel its encoded response is delivered on.
// The channel is buffered with capacity one so the dispatcher's send never blocks even if the
// connection handler that submitted the job has already gone away.
type Job struct {
	Cmd   resp.Command
	Reply chan resp.Response
}

// newJob allocates a Job with a ready-to-receive reply channel for cmd.
func newJob(cmd resp.Command) Job {
	return Job{Cmd: cmd, Reply: make(chan resp.Response, 1)}
}

// sweepKind is an internal command kind the wire parser can never produce (buildCommand's switch has
// no case for it, so a client sending this literal command name falls through to the "unknown command"
// default instead). The sweeper uses it to ask the dispatcher to run an expiration sweep without
// introducing a second mutator of the Store.
const sweepKind resp.CommandKind = "__EXP_INTERVAL_CHECK__"

// sweepJob returns a Job whose reply nobody reads; it still carries a reply channel so the dispatcher's
// reply send doesn't need a special case for "no one is listening".
func sweepJob() Job {
	return newJob(resp.Command{Kind: sweepKind})
}
