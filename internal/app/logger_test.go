package app

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLoggerPicksHandlerByFormat(t *testing.T) {
	jsonLogger := NewLogger(&Config{LogFormat: "json"})
	_, isJSON := jsonLogger.Handler().(*slog.JSONHandler)
	assert.True(t, isJSON)

	for _, cfg := range []*Config{nil, {LogFormat: "pretty"}, {LogFormat: ""}} {
		logger := NewLogger(cfg)
		_, isText := logger.Handler().(*slog.TextHandler)
		assert.True(t, isText, "format %+v must fall back to text", cfg)
	}
}
