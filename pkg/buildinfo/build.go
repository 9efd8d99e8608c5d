// Package buildinfo holds linker-injected build metadata and process start time.
// CAUTION: this file shouldn't be removed or else flags wouldn't be set properly.
package buildinfo

import (
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/mod/semver"
)

var (
	TestMode   string // Should be "true" when running tests, set via -ldflags.
	IsTestMode bool
	Version    string
	Commit     string
	BuildTime  string
	StartTime  time.Time
)

func init() {
	StartTime = time.Now()

	if Version == "" {
		Version = "unknown"
	}
	if Commit == "" {
		Commit = "unknown"
	}
	if BuildTime == "" {
		BuildTime = "unknown"
	}
	if Version != "unknown" && !semver.IsValid(Version) {
		slog.Warn("Version is not a valid semantic version.", "version", Version)
	}
	if len(TestMode) > 0 {
		if isTestMode, err := strconv.ParseBool(TestMode); err == nil {
			IsTestMode = isTestMode
		} else {
			slog.Warn("Failed to parse TestMode build flag, defaulting to false.", "error", err)
		}
	}
}
