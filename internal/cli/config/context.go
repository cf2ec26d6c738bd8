package config

import (
	"context"
	"log/slog"
)

// currentConfig stores the loaded config for access by commands.
var currentConfig *Config

// SetCurrentConfig stores the active configuration.
func SetCurrentConfig(cfg *Config) {
	currentConfig = cfg
}

// GetCurrentConfig returns the active configuration, or nil before load.
func GetCurrentConfig() *Config {
	return currentConfig
}

// loggerKey is used to store the logger in a command context.
type loggerKey struct{}

// WithLogger stores a logger in the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger returns the context's logger, or a discard logger.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.New(slog.DiscardHandler)
}
