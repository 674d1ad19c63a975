package util

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLogLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel("nonsense"))
}

func TestNewLoggerReturnsNonNilLogger(t *testing.T) {
	assert.NotNil(t, NewLogger(slog.LevelInfo, "text"))
	assert.NotNil(t, NewLogger(slog.LevelInfo, "json"))
}
