package commands

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// RunsOptions holds options for the runs command.
type RunsOptions struct {
	Limit int
}

// NewRunsCommand creates the runs command.
func NewRunsCommand() *cobra.Command {
	opts := &RunsOptions{Limit: 20}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show solve run history",
		Long: `List recorded solve runs, newest first. History lives in the local
state database and is disabled when the state path is empty.`,
		Example: `  tradespace runs
  tradespace runs --limit 5`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRuns(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "Maximum runs to show (0 for all)")

	return cmd
}

func runRuns(cmd *cobra.Command, opts *RunsOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	runs := cmdCtx.Engine.Runs()
	if runs == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Run history is disabled (no state path configured)")
		return nil
	}

	history, err := runs.ListSolveRuns(opts.Limit)
	if err != nil {
		return fmt.Errorf("failed to list solve runs: %w", err)
	}
	if len(history) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No solve runs recorded")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Run ID", "Env", "Model", "Status", "Candidates", "Feasible", "Frontier", "Started", "Duration"})
	for _, run := range history {
		duration := "-"
		if run.CompletedAt != nil {
			duration = run.CompletedAt.Sub(run.StartedAt).Round(time.Millisecond).String()
		}
		t.AppendRow(table.Row{
			shortID(run.ID),
			run.Environment,
			run.Model,
			string(run.Status),
			run.Candidates,
			run.Feasible,
			run.Frontier,
			run.StartedAt.Format("2006-01-02 15:04:05"),
			duration,
		})
	}
	t.Render()
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
