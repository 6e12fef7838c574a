// Package logger wires slog for the CLI. Diagnostics go to stderr so
// command output on stdout stays pipeable, and the HTTP client's own
// logging is routed through the same handler.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// Setup initializes logging and returns the root logger. verbose forces
// the debug level regardless of the configured one.
func Setup(level string, verbose bool) (*slog.Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	return SetupWriter(os.Stderr, lvl), nil
}

// SetupWriter builds the logger on an explicit writer and installs it as
// the default for both slog and the HTTP client library.
func SetupWriter(w io.Writer, lvl slog.Level) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	log := slog.New(handler)
	slog.SetDefault(log)
	hlog.SetLogger(newHlogAdapter(log))
	// The client library is chatty at info; only surface it when debugging.
	if lvl > slog.LevelDebug {
		hlog.SetLevel(hlog.LevelWarn)
	}
	return log
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", level)
	}
}
