package util

import (
	"log/slog"
	"os"
	"strings"
)

// ParseLogLevel maps a case-insensitive level name to a slog.Level,
// defaulting to Info for anything unrecognized.
func ParseLogLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds a slog.Logger writing to stderr, as text or JSON, at
// the given level. format "json" selects slog.NewJSONHandler; anything
// else selects the text handler.
func NewLogger(level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// InitSlog configures the default slog.Logger from the LOG_LEVEL
// environment variable, for code paths (tests, library use) that run
// outside the CLI's own flag parsing.
func InitSlog() {
	if level, ok := os.LookupEnv("LOG_LEVEL"); ok {
		slog.SetDefault(NewLogger(ParseLogLevel(level), "text"))
	}
}
