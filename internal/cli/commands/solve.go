package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/firelinelabs/tradespace/internal/engine"
	"github.com/firelinelabs/tradespace/internal/export"
	"github.com/firelinelabs/tradespace/internal/pareto"
	"github.com/firelinelabs/tradespace/pkg/core"
)

// SolveOptions holds options for the solve command.
type SolveOptions struct {
	OutputFile string
	TimeMax    float64
	AreaBucket float64
	Workers    int
	Epsilon    float64
}

// NewSolveCommand creates the solve command.
func NewSolveCommand() *cobra.Command {
	opts := &SolveOptions{TimeMax: -1}

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Compute the tradespace and its Pareto frontier",
		Long: `Enumerate the cross product of role catalogues, skip infeasible
combinations, reduce the survivors to the nondominated antichain, and
export the tradespace.

Dominance is computed over the model's objective aggregates only; area
controlled is a context dimension. Use --area-bucket to partition
candidates by achieved area and compute one frontier per bucket.`,
		Example: `  # Solve and print the frontier as a table
  tradespace solve

  # Write the tradespace as YAML for the plotting layer
  tradespace solve -o yaml --output-file out/tradespace.yaml

  # Keep only points with response_time <= 20 min
  tradespace solve --time-max 20

  # One frontier per 25 ha of area controlled, four workers
  tradespace solve --area-bucket 25 --workers 4`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSolve(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.OutputFile, "output-file", "", "Write the tradespace to a file instead of stdout")
	cmd.Flags().Float64Var(&opts.TimeMax, "time-max", -1, "Keep only points with response_time <= time-max")
	cmd.Flags().Float64Var(&opts.AreaBucket, "area-bucket", 0, "Partition by area_controlled buckets of this width")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "Enumeration parallelism (default from config)")
	cmd.Flags().Float64Var(&opts.Epsilon, "epsilon", -1, "Dominance comparison tolerance (default from config)")

	return cmd
}

func runSolve(cmd *cobra.Command, opts *SolveOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	eng := cmdCtx.Engine
	cfg := cmdCtx.Cfg

	workers := cfg.Workers
	if opts.Workers > 0 {
		workers = opts.Workers
	}
	epsilon := cfg.Epsilon
	if opts.Epsilon >= 0 {
		epsilon = opts.Epsilon
	}

	solveOpts := engine.SolveOptions{Epsilon: epsilon, Workers: workers}
	if opts.AreaBucket > 0 {
		solveOpts.PartitionQuantity = "area_controlled"
		solveOpts.PartitionWidth = opts.AreaBucket
	}

	startTime := time.Now()
	result, err := eng.Solve(cmd.Context(), solveOpts)
	if err != nil {
		return fmt.Errorf("solve failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if opts.OutputFile != "" {
		f, err := os.Create(opts.OutputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	m := eng.Model()
	if opts.AreaBucket > 0 {
		if err := writeBuckets(out, cfg.OutputFormat, m, result.Buckets, opts.AreaBucket, opts.TimeMax); err != nil {
			return err
		}
	} else {
		members := result.Set.Members()
		if opts.TimeMax >= 0 {
			members = export.LimitRequired(members, "response_time", opts.TimeMax)
		}
		doc := export.New(m, members)
		if err := writeDoc(out, cfg.OutputFormat, m, doc); err != nil {
			return err
		}
	}

	if opts.OutputFile != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", opts.OutputFile)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Candidates: %d  Feasible: %d  Frontier: %d  (%s)\n",
		result.Candidates, result.Feasible, result.Set.Len(),
		time.Since(startTime).Round(time.Millisecond))
	return nil
}

// writeBuckets exports one frontier per area bucket. The buckets come
// from partitioning the feasible candidate pool inside the solve, so a
// bucket-optimal design survives even when the global frontier drops it.
func writeBuckets(w io.Writer, format string, m *core.DesignModel, buckets map[float64]*pareto.Set, width, timeMax float64) error {
	for _, key := range pareto.PartitionKeys(buckets) {
		members := buckets[key].Members()
		if timeMax >= 0 {
			members = export.LimitRequired(members, "response_time", timeMax)
		}
		fmt.Fprintf(w, "# area_controlled [%g, %g)\n", key, key+width)
		doc := export.New(m, members)
		if err := writeDoc(w, format, m, doc); err != nil {
			return err
		}
	}
	return nil
}

func writeDoc(w io.Writer, format string, m *core.DesignModel, doc *export.Document) error {
	switch format {
	case "yaml":
		return doc.WriteYAML(w)
	case "json":
		return doc.WriteJSON(w)
	default:
		doc.WriteTable(w, m)
		return nil
	}
}
