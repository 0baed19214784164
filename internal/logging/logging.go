// Package logging builds the structured loggers used by long-running commands.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options configures a Logger.
type Options struct {
	Level  string    // debug, info, warn or error
	Format string    // text or json
	Output io.Writer // defaults to stderr
}

// Logger wraps slog.Logger with anomalyplot defaults.
// All methods are safe for concurrent use.
type Logger struct {
	*slog.Logger
}

// New creates a Logger tagged with the service name and version.
// Output goes to stderr unless opts.Output is set so stdout stays free for
// chart output and the MCP stdio transport.
func New(opts Options, version string) *Logger {
	output := opts.Output
	if output == nil {
		output = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{Level: parseLevel(opts.Level)}

	var handler slog.Handler
	switch strings.ToLower(opts.Format) {
	case "json":
		handler = slog.NewJSONHandler(output, handlerOpts)
	default:
		handler = slog.NewTextHandler(output, handlerOpts)
	}

	handler = handler.WithAttrs([]slog.Attr{
		slog.String("service", "anomalyplot"),
		slog.String("version", version),
	})

	return &Logger{Logger: slog.New(handler)}
}

// parseLevel converts a level name to slog.Level, defaulting to info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With returns a new Logger with additional default attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// Discard returns a Logger that drops everything, for tests.
func Discard() *Logger {
	return New(Options{Output: io.Discard}, "test")
}
