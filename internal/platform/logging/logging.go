// Package logging configures the structured logger shared by every module.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config selects the level and output format of the logger.
type Config struct {
	Level  string
	Format string
	Output io.Writer
}

// New builds a slog logger. Unknown levels fall back to info and unknown
// formats fall back to text.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	return slog.New(handler)
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// For tags logger with the owning component. A nil logger yields a discard
// logger so adapters can be constructed without one in tests.
func For(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		return Discard()
	}
	return logger.With(slog.String("component", component))
}

func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
