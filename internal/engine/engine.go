// Package engine orchestrates tradespace computation: it loads the design
// model and catalogues, enumerates feasible system designs, filters them
// to the nondominated antichain, and records run history.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/firelinelabs/tradespace/internal/catalogue"
	"github.com/firelinelabs/tradespace/internal/compose"
	"github.com/firelinelabs/tradespace/internal/model"
	"github.com/firelinelabs/tradespace/internal/state"
	"github.com/firelinelabs/tradespace/pkg/core"
)

// Engine coordinates one decision-step computation: load, enumerate,
// filter, export. No shared mutable state crosses invocations.
type Engine struct {
	logger *slog.Logger

	cataloguesDir string
	modelPath     string
	environment   string

	runs core.RunStore

	designModel *core.DesignModel
	store       *catalogue.Store
	composer    *compose.Composer
	discovered  bool
}

// Config holds engine configuration.
type Config struct {
	// CataloguesDir is the path to the catalogue YAML files
	CataloguesDir string
	// ModelPath is the path to the design-model file (empty uses the
	// built-in wildfire model)
	ModelPath string
	// StatePath is the path to the SQLite run-history database
	// (empty disables history)
	StatePath string
	// Environment is the current environment (dev, staging, prod)
	Environment string
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New creates a new engine. The run-history store is opened and migrated
// eagerly so integrity problems surface before any computation starts.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	logger.Debug("initializing engine",
		"catalogues_dir", cfg.CataloguesDir, "environment", cfg.Environment)

	env := cfg.Environment
	if env == "" {
		env = "dev"
	}

	var runs core.RunStore
	if cfg.StatePath != "" {
		store := state.NewSQLiteStore(logger)
		if err := store.Open(cfg.StatePath); err != nil {
			return nil, fmt.Errorf("failed to open state store: %w", err)
		}
		if err := store.Migrate(); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to migrate state store: %w", err)
		}
		runs = store
	}

	return &Engine{
		logger:        logger,
		cataloguesDir: cfg.CataloguesDir,
		modelPath:     cfg.ModelPath,
		environment:   env,
		runs:          runs,
	}, nil
}

// Discover loads the design model and all role catalogues. It must be
// called before Solve, Query, or ComposeSelection.
func (e *Engine) Discover() error {
	var m *core.DesignModel
	if e.modelPath != "" {
		loaded, err := model.Load(e.modelPath)
		if err != nil {
			return err
		}
		m = loaded
	} else {
		m = model.Default()
	}
	if err := m.Validate(); err != nil {
		return err
	}

	store := catalogue.NewStore(m)
	if err := store.LoadDir(e.cataloguesDir); err != nil {
		return err
	}

	e.designModel = m
	e.store = store
	e.composer = compose.New(m)
	e.discovered = true

	for _, role := range m.RoleNames() {
		cat, _ := store.Get(role)
		e.logger.Debug("catalogue loaded", "role", role, "implementations", cat.Len())
	}
	return nil
}

// Close releases the run-history store.
func (e *Engine) Close() error {
	e.logger.Debug("closing engine")
	if e.runs != nil {
		return e.runs.Close()
	}
	return nil
}

// Model returns the loaded design model.
func (e *Engine) Model() *core.DesignModel {
	return e.designModel
}

// Store returns the loaded catalogue store.
func (e *Engine) Store() *catalogue.Store {
	return e.store
}

// Runs returns the run-history store, or nil when history is disabled.
func (e *Engine) Runs() core.RunStore {
	return e.runs
}

// Environment returns the engine's environment name.
func (e *Engine) Environment() string {
	return e.environment
}

// ensureDiscovered guards operations that need loaded catalogues.
func (e *Engine) ensureDiscovered() error {
	if !e.discovered {
		return fmt.Errorf("catalogues not loaded: call Discover first")
	}
	return nil
}

// roleCatalogues returns catalogues in model role order.
func (e *Engine) roleCatalogues() ([]*core.Catalogue, error) {
	roles := e.designModel.RoleNames()
	cats := make([]*core.Catalogue, len(roles))
	for i, role := range roles {
		cat, err := e.store.Get(role)
		if err != nil {
			return nil, err
		}
		cats[i] = cat
	}
	return cats, nil
}
