package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the portal's slog.Logger. LOG_FORMAT=json selects the
// JSON handler for log shippers; the default "pretty" keeps the readable
// text handler used during development.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{AddSource: true}
	if cfg != nil && cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
