package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version, buildDate, gitCommit string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display Tradespace version and build information.`,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Tradespace v%s\n", version)
			if gitCommit != "" {
				_, _ = fmt.Fprintf(out, "Commit: %s\n", gitCommit)
			}
			if buildDate != "" {
				_, _ = fmt.Fprintf(out, "Built:  %s\n", buildDate)
			}
			_, _ = fmt.Fprintln(out, "Wildfire response tradespace and Pareto frontier engine")
		},
	}
}
