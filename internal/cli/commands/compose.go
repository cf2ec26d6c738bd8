package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/firelinelabs/tradespace/pkg/core"
)

// ComposeOptions holds options for the compose command.
type ComposeOptions struct {
	Select map[string]string
}

// NewComposeCommand creates the compose command.
func NewComposeCommand() *cobra.Command {
	opts := &ComposeOptions{}

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Compose one explicit selection into a system design",
		Long: `Pick one implementation per role and compose them into a single
system design. Constraints are checked first; a selection whose supply
capacity falls short of demand fails with the exact shortfall.`,
		Example: `  # Compose one candidate and inspect its aggregates
  tradespace compose --select air=heli-A --select ground=crew-1 --select supply=depot-1

  # Same selection as YAML
  tradespace compose -o yaml --select air=heli-A --select ground=crew-1 --select supply=depot-1`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompose(cmd, opts)
		},
	}

	cmd.Flags().StringToStringVar(&opts.Select, "select", nil, "Implementation per role as role=name (repeatable)")
	_ = cmd.MarkFlagRequired("select")

	return cmd
}

func runCompose(cmd *cobra.Command, opts *ComposeOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	design, err := cmdCtx.Engine.ComposeSelection(opts.Select)
	if err != nil {
		return err
	}

	switch cmdCtx.Cfg.OutputFormat {
	case "yaml":
		return writeDesignYAML(cmd.OutOrStdout(), design)
	case "json":
		return writeDesignJSON(cmd.OutOrStdout(), design)
	default:
		writeDesignTable(cmd.OutOrStdout(), design)
		return nil
	}
}

type designOutput struct {
	Selection map[string]string  `yaml:"selection" json:"selection"`
	Provides  map[string]float64 `yaml:"provides" json:"provides"`
	Requires  map[string]float64 `yaml:"requires" json:"requires"`
}

func writeDesignJSON(w io.Writer, design *core.SystemDesign) error {
	out := designOutput{
		Selection: design.Selection.Names(),
		Provides:  design.Provides.ToMap(),
		Requires:  design.Requires.ToMap(),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeDesignYAML(w io.Writer, design *core.SystemDesign) error {
	out := designOutput{
		Selection: design.Selection.Names(),
		Provides:  design.Provides.ToMap(),
		Requires:  design.Requires.ToMap(),
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(out)
}

func writeDesignTable(w io.Writer, design *core.SystemDesign) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Kind", "Name", "Value"})

	roles := design.Selection.Roles()
	for _, role := range roles {
		t.AppendRow(table.Row{"role", role, design.Selection[role].Name})
	}
	t.AppendSeparator()
	for _, q := range design.Provides.Quantities() {
		v, _ := design.Provides.Get(q)
		t.AppendRow(table.Row{"provides", q, fmt.Sprintf("%g", v)})
	}
	for _, q := range design.Requires.Quantities() {
		v, _ := design.Requires.Get(q)
		t.AppendRow(table.Row{"requires", q, fmt.Sprintf("%g", v)})
	}
	t.Render()
}

