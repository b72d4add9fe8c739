package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ParseLevel converts a spawn --log-level flag value into an slog.Level,
// accepting TRACE/DEBUG/INFO/WARN/ERROR/FATAL (case-insensitive, with
// WARNING as an alias for WARN).
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToUpper(level) {
	case "TRACE":
		return slog.LevelDebug - 4, nil
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	case "FATAL":
		return slog.LevelError + 4, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s", level)
	}
}

// NewDiagnostic builds the slog.Logger spawn's internal components
// (fetcher, resolver) use for structured, machine-readable diagnostic
// traces — separate from the Reporter's six user-facing prefixes. format
// is "json" or "text" (default).
func NewDiagnostic(level slog.Level, format string, out io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	return slog.New(handler)
}
