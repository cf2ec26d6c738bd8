package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/firelinelabs/tradespace/internal/engine"
	"github.com/firelinelabs/tradespace/internal/export"
	"github.com/firelinelabs/tradespace/pkg/core"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	AtLeast map[string]string
	Epsilon float64
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{Epsilon: -1}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Find nondominated designs meeting a functionality threshold",
		Long: `Filter feasible designs to those whose provided quantities meet every
given threshold, then reduce the survivors to their Pareto frontier.
Fails when no design qualifies.`,
		Example: `  # Cheapest nondominated ways to control at least 12 ha
  tradespace query --at-least area_controlled=12

  # Tighter coverage threshold, exported as YAML
  tradespace query -o yaml --at-least area_controlled=25`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runQuery(cmd, opts)
		},
	}

	cmd.Flags().StringToStringVar(&opts.AtLeast, "at-least", nil, "Minimum provided quantity as name=value (repeatable)")
	cmd.Flags().Float64Var(&opts.Epsilon, "epsilon", -1, "Dominance comparison tolerance (default from config)")
	_ = cmd.MarkFlagRequired("at-least")

	return cmd
}

func runQuery(cmd *cobra.Command, opts *QueryOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	values := make(map[string]float64, len(opts.AtLeast))
	for name, raw := range opts.AtLeast {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid threshold for %s: %q is not a number", name, raw)
		}
		values[name] = v
	}
	atLeast := core.NewVector(values)

	epsilon := cmdCtx.Cfg.Epsilon
	if opts.Epsilon >= 0 {
		epsilon = opts.Epsilon
	}

	designs, err := cmdCtx.Engine.Query(cmd.Context(), atLeast, engine.QueryOptions{Epsilon: epsilon})
	if err != nil {
		return err
	}

	m := cmdCtx.Engine.Model()
	doc := export.New(m, designs)
	return writeDoc(cmd.OutOrStdout(), cmdCtx.Cfg.OutputFormat, m, doc)
}
