package config

import "fmt"

// Validate checks the configuration for values the engine cannot accept.
func (c *Config) Validate() error {
	if c.CataloguesDir == "" {
		return fmt.Errorf("catalogues_dir is required")
	}
	if c.Epsilon < 0 {
		return fmt.Errorf("epsilon must be >= 0, got %g", c.Epsilon)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	}
	switch c.OutputFormat {
	case "table", "yaml", "json":
	default:
		return fmt.Errorf("output must be one of table|yaml|json, got %q", c.OutputFormat)
	}
	return nil
}
