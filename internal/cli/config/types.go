// Package config provides configuration management for the Tradespace CLI.
package config

// Config holds all CLI configuration options.
type Config struct {
	// CataloguesDir is the path to the catalogue YAML files
	CataloguesDir string `koanf:"catalogues_dir"`
	// ModelPath is the path to the design-model file (empty uses the
	// built-in wildfire model)
	ModelPath string `koanf:"model"`
	// StatePath is the path to the solve-run history database
	StatePath string `koanf:"state_path"`
	// Environment is the current environment name
	Environment string `koanf:"environment"`
	// Epsilon is the dominance comparison tolerance (0 = exact)
	Epsilon float64 `koanf:"epsilon"`
	// Workers is the enumeration parallelism (1 = serial)
	Workers int  `koanf:"workers"`
	Verbose bool `koanf:"verbose"`
	// OutputFormat selects solve/query rendering: table, yaml, json
	OutputFormat string `koanf:"output"`

	// ProjectRoot is the resolved project directory (not a config key)
	ProjectRoot string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultCataloguesDir = "catalogues"
	DefaultStateFile     = ".tradespace/state.db"
	DefaultEnv           = "dev"
	DefaultOutput        = "table"
	DefaultWorkers       = 1
)
