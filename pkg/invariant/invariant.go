// Package invariant introduces a way to handle unexpected bugs / conditions in code.
// Invariants are conditions in code that must be true; otherwise, there is a bug in code.
// Think of what you'd `panic()` on (equivalent to `assert` in other languages),
// but you don't want to crash the server just because of that violation. If an invariant is violated,
// a log error is recorded, and a monitoring counter is incremented that will trigger an alert.
// Bear in mind that it is still up to you (the caller) to handle the erroneous case in your code and, for example,
// do an early return and skip the following computations.
//
// Do not use invariants for conditions that depend on external factors; a client sending a malformed
// command is a protocol/semantic error, never an invariant violation. But a heap entry with no backing
// table slot at a point the code assumed one exists, or a queue implementation handed a value it cannot
// type-assert, is the kind of thing that belongs here.
package invariant

import (
	"log/slog"

	"github.com/emberdb/ember/pkg/buildinfo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	promclient "github.com/prometheus/client_model/go"
)

var invariantsMetric = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "invariants_total",
	Help: "The total number of invariant violations",
}, []string{
	"module", // The module in which this invariant occurred.
	"kind",   // The kind of invariant that occurred.
})

// Raise records an invariant violation: it increments invariants_total, logs at error level, and
// panics only under buildinfo.IsTestMode so production keeps serving instead of crashing the whole
// process over one connection's bookkeeping slip.
func Raise(module, kind, msg string, args ...any) {
	invariantsMetric.WithLabelValues(module, kind).Inc()
	slog.With("invariant", kind, "module", module).Error(msg, args...)
	if buildinfo.IsTestMode {
		panic("invariant violated: " + kind)
	}
}

// MetricValue returns the current value of the invariants_total counter for the given module/kind pair.
func MetricValue(module, kind string) int {
	metric := &promclient.Metric{}
	if err := invariantsMetric.WithLabelValues(module, kind).Write(metric); err != nil {
		slog.Error(err.Error())
		return 0
	}
	return int(metric.Counter.GetValue())
}
