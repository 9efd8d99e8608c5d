// Package config defines ember's flat, flags-only configuration surface: a network interface, a port,
// the number of acceptor goroutines, the job queue implementation to run, and the expiration sweep
// interval. There is no config file and no environment-variable layer: the surface is a handful of
// scalars with no nested or repeated structure, so there is nothing for a config-file parser to buy us.
package config

import (
	"errors"
	"flag"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// QueueImpl names one of the three interchangeable job queue implementations.
type QueueImpl string

const (
	QueueImplCondvar    QueueImpl = "condvar"
	QueueImplChannel    QueueImpl = "channel"
	QueueImplDisruptor  QueueImpl = "disruptor"
	defaultDisruptorLog           = 10 // 2^10 = 1024 slots.
)

var (
	Interface       = flag.String("interface", "0.0.0.0", "Network interface to listen on.")
	Port            = flag.Int("port", 6399, "TCP port to listen on.")
	AcceptorThreads = flag.Int("acceptor_threads", 1, "Number of acceptor goroutines sharing the listener.")
	QueueImplFlag   = flag.String("queue_impl", string(QueueImplCondvar),
		"Job queue implementation: condvar/channel/disruptor.")
	DisruptorSize = flag.Int("disruptor_size", 1<<defaultDisruptorLog,
		"Ring buffer size for the disruptor queue implementation, also used as the channel queue's buffer capacity; must be a power of two.")
	SweepInterval = flag.Duration("sweep_interval", 250*time.Millisecond,
		"How often the expiration sweeper checks the expiration heap.")
	PrintVersion = flag.Bool("print_version", false, "Print the version and exit.")
	MetricsAddr  = flag.String("metrics_addr", "", "If non-empty, address to serve Prometheus metrics on.")
)

// InitFlags parses flags and validates the cross-flag constraints that flag.Parse alone cannot enforce.
func InitFlags() error {
	flag.Parse()
	return Validate()
}

// Validate checks the parsed flag values for consistency. Call after flag.Parse().
func Validate() error {
	if *Port <= 0 || *Port > 65535 {
		return fmt.Errorf("invalid port %d: must be in (0, 65535]", *Port)
	}
	if *AcceptorThreads < 1 {
		return fmt.Errorf("invalid acceptor_threads %d: must be >= 1", *AcceptorThreads)
	}
	switch QueueImpl(*QueueImplFlag) {
	case QueueImplCondvar, QueueImplChannel, QueueImplDisruptor:
	default:
		return fmt.Errorf("unknown queue_impl %q", *QueueImplFlag)
	}
	if *DisruptorSize <= 0 || *DisruptorSize&(*DisruptorSize-1) != 0 {
		return fmt.Errorf("invalid disruptor_size %d: must be a power of two", *DisruptorSize)
	}
	if *SweepInterval <= 0 {
		return errors.New("sweep_interval must be positive")
	}
	return nil
}

// SetTestFlag sets a flag to a specific value for the duration of the test, restoring it on cleanup.
func SetTestFlag(t *testing.T, name, value string) {
	t.Helper()
	flagHolder := flag.Lookup(name)
	require.NotNil(t, flagHolder, "Flag %s not found", name)
	if flagHolder != nil {
		prevValue := flagHolder.Value.String()
		t.Cleanup(func() { require.NoError(t, flag.Set(name, prevValue)) })
	}
	require.NoError(t, flag.Set(name, value))
}
