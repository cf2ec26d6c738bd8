// Package commands implements the Tradespace CLI subcommands.
package commands

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/firelinelabs/tradespace/internal/cli/config"
	"github.com/firelinelabs/tradespace/internal/engine"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
	Engine *engine.Engine
}

// NewCommandContext creates a CommandContext with a discovered engine.
// Returns the context and a cleanup function that must be called
// (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	eng, err := createEngine(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		_ = eng.Close()
	}

	return &CommandContext{Cfg: cfg, Logger: logger, Engine: eng}, cleanup, nil
}

// getConfig returns the current configuration, falling back to
// environment variables when the root command has not loaded one
// (direct command construction in tests).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	return &config.Config{
		CataloguesDir: getEnvOrDefault("TRADESPACE_CATALOGUES_DIR", config.DefaultCataloguesDir),
		ModelPath:     os.Getenv("TRADESPACE_MODEL"),
		StatePath:     getEnvOrDefault("TRADESPACE_STATE_PATH", config.DefaultStateFile),
		Environment:   getEnvOrDefault("TRADESPACE_ENVIRONMENT", config.DefaultEnv),
		Workers:       config.DefaultWorkers,
		Verbose:       os.Getenv("TRADESPACE_VERBOSE") == "true",
		OutputFormat:  getEnvOrDefault("TRADESPACE_OUTPUT", config.DefaultOutput),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func createEngine(cfg *config.Config, logger *slog.Logger) (*engine.Engine, error) {
	// Ensure state directory exists
	if cfg.StatePath != "" && cfg.StatePath != ":memory:" {
		stateDir := filepath.Dir(cfg.StatePath)
		if stateDir != "." && stateDir != "" {
			if err := os.MkdirAll(stateDir, 0o750); err != nil {
				return nil, err
			}
		}
	}

	eng, err := engine.New(engine.Config{
		CataloguesDir: cfg.CataloguesDir,
		ModelPath:     cfg.ModelPath,
		StatePath:     cfg.StatePath,
		Environment:   cfg.Environment,
		Logger:        logger,
	})
	if err != nil {
		return nil, err
	}

	if err := eng.Discover(); err != nil {
		_ = eng.Close()
		return nil, err
	}
	return eng, nil
}
