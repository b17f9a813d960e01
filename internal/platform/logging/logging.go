package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New logs to stdout as JSON in prod and as text elsewhere.
func New(env, level string) *slog.Logger {
	return NewTo(os.Stdout, env, level)
}

func NewTo(w io.Writer, env, level string) *slog.Logger {
	var handler slog.Handler

	switch env {
	case "prod", "production":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     ParseLevel(level, slog.LevelInfo),
			AddSource: true,
		})
	default:
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{
			Level:     ParseLevel(level, slog.LevelDebug),
			AddSource: true,
		})
	}

	return slog.New(handler).With("service", "renewals")
}

// ParseLevel returns fallback for an empty or unrecognised level.
func ParseLevel(s string, fallback slog.Level) slog.Level {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return fallback
	}
	return lvl
}
