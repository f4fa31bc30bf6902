package logging

import (
	"log/slog"
	"os"
	"strings"
)

// SetupLogger returns a JSON logger writing to stdout at the given level
// (debug, info, warn, error). Unknown levels fall back to info.
func SetupLogger(level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: ParseLevel(level)}))
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
