package logger

import (
	"log/slog"
	"os"
)

// New returns a JSON slog logger writing to stdout.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// ForComponent returns a child logger tagged with the component name.
func ForComponent(log *slog.Logger, name string) *slog.Logger {
	return log.With("component", name)
}
