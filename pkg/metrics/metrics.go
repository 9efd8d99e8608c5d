// Package metrics registers ember's Prometheus instrumentation: one counter per command, a queue-depth
// gauge, a dispatch-latency histogram, and a connections gauge. cmd/emberd exposes these on -metrics_addr.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ember_commands_total",
		Help: "Total number of commands dispatched to the store, by command name.",
	}, []string{"command"})

	QueueDepth = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ember_queue_depth",
		Help: "Approximate number of jobs waiting in the job queue.",
	}, []string{"impl"})

	DispatchSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ember_dispatch_seconds",
		Help:    "Time spent executing a single command against the store.",
		Buckets: prometheus.DefBuckets,
	})

	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ember_connections_active",
		Help: "Number of currently open client connections.",
	})
)

// ObserveDispatch records how long a store invocation took.
func ObserveDispatch(start time.Time) {
	DispatchSeconds.Observe(time.Since(start).Seconds())
}
