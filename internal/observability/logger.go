package observability

import (
	"log/slog"
	"os"
	"strings"
)

// LogSettings selects the handler and level for the process logger.
type LogSettings struct {
	Level  string // debug, info, warn, error
	Format string // json or text
}

// NewLogger builds the process-wide slog logger.
func NewLogger(s LogSettings) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(s.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.ToLower(s.Format) == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
