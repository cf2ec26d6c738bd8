package commands

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/firelinelabs/tradespace/pkg/core"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [role]",
		Short: "List catalogue roles and their implementations",
		Long: `Without arguments, list every role with its implementation count.
With a role name, list that role's implementations and their provided
and required quantities.`,
		Example: `  tradespace list
  tradespace list air`,
		Args: cobra.MaximumNArgs(1),
		RunE: runList,
	}

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	store := cmdCtx.Engine.Store()
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		cat, err := store.Get(args[0])
		if err != nil {
			return err
		}
		writeCatalogueTable(out, cat)
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Role", "Implementations"})
	for _, role := range store.Roles() {
		cat, err := store.Get(role)
		if err != nil {
			return err
		}
		t.AppendRow(table.Row{role, cat.Len()})
	}
	t.Render()
	return nil
}

func writeCatalogueTable(w io.Writer, cat *core.Catalogue) {
	header := table.Row{"Name"}
	var provides, requires []string
	if cat.Len() > 0 {
		provides = cat.Implementations[0].Provides.Quantities()
		requires = cat.Implementations[0].Requires.Quantities()
	}
	for _, q := range provides {
		header = append(header, q+" (provides)")
	}
	for _, q := range requires {
		header = append(header, q+" (requires)")
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	// Keep the implementation-count footer verbatim instead of
	// StyleLight's uppercasing.
	t.Style().Format.Footer = text.FormatDefault
	t.AppendHeader(header)
	for _, impl := range cat.Implementations {
		row := table.Row{impl.Name}
		for _, q := range provides {
			v, _ := impl.Provides.Get(q)
			row = append(row, fmt.Sprintf("%g", v))
		}
		for _, q := range requires {
			v, _ := impl.Requires.Get(q)
			row = append(row, fmt.Sprintf("%g", v))
		}
		t.AppendRow(row)
	}
	t.AppendFooter(table.Row{fmt.Sprintf("(%d implementations)", cat.Len())})
	t.Render()
}
