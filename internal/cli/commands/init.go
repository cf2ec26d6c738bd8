package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/firelinelabs/tradespace/internal/catalogue"
	"github.com/firelinelabs/tradespace/internal/cli/config"
	"github.com/firelinelabs/tradespace/internal/model"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Dir      string
	Seed     int64
	Aircraft int
	Crews    int
	Supply   int
	Force    bool
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	defaults := catalogue.DefaultGenerateOptions()
	opts := &InitOptions{}

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Scaffold a tradespace project",
		Long: `Create a project skeleton: a tradespace.yaml config file, the wildfire
design model, and generated role catalogues. The generator is seeded,
so the same seed always produces the same catalogues.`,
		Example: `  tradespace init
  tradespace init my-project --seed 42 --aircraft 50`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Dir = "."
			if len(args) == 1 {
				opts.Dir = args[0]
			}
			return runInit(cmd, opts)
		},
	}

	cmd.Flags().Int64Var(&opts.Seed, "seed", defaults.Seed, "Catalogue generator seed")
	cmd.Flags().IntVar(&opts.Aircraft, "aircraft", defaults.Aircraft, "Generated air implementations")
	cmd.Flags().IntVar(&opts.Crews, "crews", defaults.Crews, "Generated ground implementations")
	cmd.Flags().IntVar(&opts.Supply, "supply", defaults.Supply, "Generated supply implementations")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite existing files")

	return cmd
}

func runInit(cmd *cobra.Command, opts *InitOptions) error {
	out := cmd.OutOrStdout()

	cataloguesDir := filepath.Join(opts.Dir, config.DefaultCataloguesDir)
	if err := os.MkdirAll(cataloguesDir, 0o750); err != nil {
		return fmt.Errorf("failed to create %s: %w", cataloguesDir, err)
	}

	configPath := filepath.Join(opts.Dir, config.ConfigFileName)
	if err := writeNewFile(configPath, defaultConfigYAML, opts.Force); err != nil {
		return err
	}
	fmt.Fprintf(out, "Created %s\n", configPath)

	modelPath := filepath.Join(opts.Dir, "model.yaml")
	if !opts.Force {
		if _, err := os.Stat(modelPath); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", modelPath)
		}
	}
	if err := model.Write(modelPath, model.Default()); err != nil {
		return fmt.Errorf("failed to write design model: %w", err)
	}
	fmt.Fprintf(out, "Created %s\n", modelPath)

	catalogues := catalogue.GenerateWildfire(catalogue.GenerateOptions{
		Seed:     opts.Seed,
		Aircraft: opts.Aircraft,
		Crews:    opts.Crews,
		Supply:   opts.Supply,
	})
	roles := make([]string, 0, len(catalogues))
	for role := range catalogues {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	for _, role := range roles {
		path := filepath.Join(cataloguesDir, role+".yaml")
		if !opts.Force {
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
		}
		if err := catalogue.WriteFile(path, role, catalogues[role]); err != nil {
			return fmt.Errorf("failed to write catalogue for %s: %w", role, err)
		}
		fmt.Fprintf(out, "Created %s (%d implementations)\n", path, len(catalogues[role]))
	}

	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "  tradespace doctor")
	fmt.Fprintln(out, "  tradespace solve")
	return nil
}

func writeNewFile(path, content string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

const defaultConfigYAML = `# Tradespace project configuration
catalogues_dir: catalogues
model: model.yaml
state_path: .tradespace/state.db
environment: dev

# Dominance comparison tolerance; 0 means exact
epsilon: 0

# Enumeration parallelism
workers: 1
`
