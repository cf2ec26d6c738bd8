package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/firelinelabs/tradespace/internal/catalogue"
	"github.com/firelinelabs/tradespace/internal/cli/config"
	"github.com/firelinelabs/tradespace/internal/compose"
	"github.com/firelinelabs/tradespace/internal/model"
	"github.com/firelinelabs/tradespace/internal/state"
	"github.com/firelinelabs/tradespace/pkg/core"
)

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the project configuration, model, and catalogues",
		Long: `Run each setup step in isolation and report what passes and what
fails: configuration, design model, catalogue loading, state database,
and the resulting tradespace size.`,
		Example: `  tradespace doctor`,
		RunE:    runDoctor,
	}
}

type doctorCheck struct {
	name string
	fn   func(*config.Config, *doctorState) error
}

type doctorState struct {
	model *core.DesignModel
	store *catalogue.Store
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	cfg := getConfig()
	out := cmd.OutOrStdout()
	ds := &doctorState{}

	checks := []doctorCheck{
		{"configuration", checkConfig},
		{"design model", checkModel},
		{"catalogues", checkCatalogues},
		{"state database", checkState},
		{"tradespace size", checkSize},
	}

	failures := 0
	for _, check := range checks {
		if err := check.fn(cfg, ds); err != nil {
			failures++
			fmt.Fprintf(out, "FAIL  %-16s %v\n", check.name, err)
			continue
		}
		fmt.Fprintf(out, "ok    %s\n", check.name)
	}

	if failures > 0 {
		return fmt.Errorf("%d check(s) failed", failures)
	}
	fmt.Fprintln(out, "All checks passed")
	return nil
}

func checkConfig(cfg *config.Config, _ *doctorState) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if _, err := os.Stat(cfg.CataloguesDir); err != nil {
		return fmt.Errorf("catalogues directory %s: %w", cfg.CataloguesDir, err)
	}
	return nil
}

func checkModel(cfg *config.Config, ds *doctorState) error {
	m, err := loadModel(cfg)
	if err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		return err
	}
	ds.model = m
	return nil
}

func checkCatalogues(cfg *config.Config, ds *doctorState) error {
	if ds.model == nil {
		return fmt.Errorf("skipped: design model failed")
	}
	store := catalogue.NewStore(ds.model)
	if err := store.LoadDir(cfg.CataloguesDir); err != nil {
		return err
	}
	ds.store = store
	return nil
}

func checkState(cfg *config.Config, _ *doctorState) error {
	if cfg.StatePath == "" {
		return nil // history disabled
	}
	st := state.NewSQLiteStore(nil)
	if err := st.Open(cfg.StatePath); err != nil {
		return err
	}
	defer st.Close()
	return st.Migrate()
}

func checkSize(cfg *config.Config, ds *doctorState) error {
	if ds.store == nil {
		return fmt.Errorf("skipped: catalogues failed")
	}
	cats := make([]*core.Catalogue, 0, len(ds.model.RoleNames()))
	for _, role := range ds.model.RoleNames() {
		cat, err := ds.store.Get(role)
		if err != nil {
			return err
		}
		cats = append(cats, cat)
	}
	total := compose.NewEnumerator(compose.New(ds.model), cats).Total()
	if total == 0 {
		return fmt.Errorf("cross product is empty")
	}
	return nil
}

func loadModel(cfg *config.Config) (*core.DesignModel, error) {
	if cfg.ModelPath == "" {
		return model.Default(), nil
	}
	return model.Load(cfg.ModelPath)
}
