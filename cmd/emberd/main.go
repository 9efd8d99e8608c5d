// Spins up the ember server, a tiny in-memory key-value store speaking a subset of the Redis protocol.

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"github.com/emberdb/ember/pkg/buildinfo"
	"github.com/emberdb/ember/pkg/config"
	"github.com/emberdb/ember/pkg/dispatch"
	"github.com/emberdb/ember/pkg/logging"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := config.InitFlags(); err != nil {
		slog.Error("Invalid flags.", "error", err)
		os.Exit(1)
	}
	logging.Init()

	if *config.PrintVersion {
		slog.Info("Ember build info.", "version", buildinfo.Version, "commit", buildinfo.Commit,
			"build", buildinfo.BuildTime)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, os.Kill)
	go func() { // Listen for OS interrupts in the background.
		sig := <-signals
		slog.Info("Received termination signal, cancelling server context.", "signal", sig)
		cancel()
	}()

	if *config.MetricsAddr != "" {
		go serveMetrics(*config.MetricsAddr)
	}

	opts := dispatch.Options{
		Interface:       *config.Interface,
		Port:            *config.Port,
		AcceptorThreads: *config.AcceptorThreads,
		QueueImpl:       *config.QueueImplFlag,
		DisruptorSize:   *config.DisruptorSize,
		SweepInterval:   *config.SweepInterval,
	}
	if err := dispatch.Run(ctx, opts); err != nil {
		slog.Error("Ember server stopped.", "error", err)
		os.Exit(1)
	}
}

// serveMetrics runs a Prometheus-scrape HTTP endpoint until it fails; a failure here doesn't take the
// key-value server down with it, so it's only logged.
func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	slog.Info("Serving metrics.", "address", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("Metrics server stopped.", "error", err)
	}
}
