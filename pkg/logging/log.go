package logging

import (
	"flag"
	"log/slog"
	"os"
	"strings"

	"github.com/emberdb/ember/pkg/invariant"
)

type HandlerType string

const (
	HandlerTypeText HandlerType = "text"
	HandlerTypeJSON HandlerType = "json"
)

type Level string

const (
	LevelError Level = "error"
	LevelWarn  Level = "warn"
	LevelInfo  Level = "info"
	LevelDebug Level = "debug"
)

var (
	handlerTypeFlag = flag.String("log_handler_type", string(HandlerTypeJSON), "Log handler type: json/text")
	logLevelFlag    = flag.String("log_level", string(LevelInfo), "Log level: debug/info/warn/error")
)

// initWith configures the default slog logger with the given arguments.
func initWith(handlerType HandlerType, level Level) {
	slogLevel := slog.LevelInfo
	switch level {
	case LevelDebug:
		slogLevel = slog.LevelDebug
	case LevelInfo:
		slogLevel = slog.LevelInfo
	case LevelWarn:
		slogLevel = slog.LevelWarn
	case LevelError:
		slogLevel = slog.LevelError
	default:
		invariant.Raise("logging", "unsupported_log_level", "Got an unsupported log level.", "level", level)
	}

	handlerOptions := slog.HandlerOptions{Level: slogLevel}
	var handler slog.Handler
	switch handlerType {
	case HandlerTypeJSON:
		handler = slog.NewJSONHandler(os.Stdout, &handlerOptions)
	case HandlerTypeText:
		handler = slog.NewTextHandler(os.Stdout, &handlerOptions)
	default:
		invariant.Raise("logging", "unsupported_handler_type", "Got an unsupported handler type.",
			"handlerType", handlerType)
		handler = slog.NewJSONHandler(os.Stdout, &handlerOptions)
	}

	// SetDefault happens atomically and doesn't panic when called from multiple goroutines.
	slog.SetDefault(slog.New(handler))
	slog.Debug("Log handler configured successfully.", "type", handlerType, "level", level)
}

// Init configures the default slog logger from flags. Must be called after flag.Parse().
func Init() {
	initWith(HandlerType(strings.ToLower(*handlerTypeFlag)), Level(strings.ToLower(*logLevelFlag)))
}
