// Package export serializes computed tradespaces for downstream
// visualization. Each point carries the aggregated quantities plus the
// originating per-role implementation names, enough for a plotting layer
// to reconstruct axes, color-encode a third objective, and label points.
// No scaling or normalization happens here; presentation is out of scope.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/firelinelabs/tradespace/pkg/core"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"
)

// Point is one tradespace record.
type Point struct {
	// Aggregates holds every system-level quantity of the design
	Aggregates map[string]float64 `yaml:"aggregates" json:"aggregates"`
	// Selection maps role to the chosen implementation name
	Selection map[string]string `yaml:"selection" json:"selection"`
}

// Document is a complete tradespace export.
type Document struct {
	Model string `yaml:"model" json:"model"`
	// Bound is always "exact": the engine enumerates the catalogue
	// product directly instead of interval-approximating it
	Bound      string   `yaml:"bound" json:"bound"`
	Objectives []string `yaml:"objectives" json:"objectives"`
	Minimals   []Point  `yaml:"minimals" json:"minimals"`
}

// New builds a tradespace document from antichain members. Points are
// sorted by objective values (then selection names) so exports are
// deterministic regardless of insertion order.
func New(m *core.DesignModel, members []*core.SystemDesign) *Document {
	doc := &Document{
		Model:      m.Name,
		Bound:      "exact",
		Objectives: append([]string{}, m.Objectives...),
		Minimals:   make([]Point, 0, len(members)),
	}

	for _, d := range members {
		doc.Minimals = append(doc.Minimals, Point{
			Aggregates: aggregateValues(d),
			Selection:  d.Selection.Names(),
		})
	}

	sort.Slice(doc.Minimals, func(i, j int) bool {
		a, b := doc.Minimals[i], doc.Minimals[j]
		for _, obj := range doc.Objectives {
			if a.Aggregates[obj] != b.Aggregates[obj] {
				return a.Aggregates[obj] < b.Aggregates[obj]
			}
		}
		return lessSelection(a.Selection, b.Selection)
	})

	return doc
}

// WriteYAML writes the document as YAML.
func (d *Document) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("failed to encode tradespace YAML: %w", err)
	}
	return enc.Close()
}

// WriteJSON writes the document as indented JSON.
func (d *Document) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("failed to encode tradespace JSON: %w", err)
	}
	return nil
}

// WriteTable renders the document as a terminal table: one column per
// role selection, then the aggregates with objectives first.
func (d *Document) WriteTable(w io.Writer, m *core.DesignModel) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	// Quantity names are identifiers the plotting layer matches on;
	// keep them verbatim instead of StyleLight's uppercasing.
	t.Style().Format.Header = text.FormatDefault

	roles := m.RoleNames()
	aggs := aggregateOrder(m)

	header := make(table.Row, 0, len(roles)+len(aggs))
	for _, role := range roles {
		header = append(header, role)
	}
	for _, agg := range aggs {
		header = append(header, agg)
	}
	t.AppendHeader(header)

	for _, p := range d.Minimals {
		row := make(table.Row, 0, len(header))
		for _, role := range roles {
			row = append(row, p.Selection[role])
		}
		for _, agg := range aggs {
			row = append(row, fmt.Sprintf("%g", p.Aggregates[agg]))
		}
		t.AppendRow(row)
	}

	t.Render()
	fmt.Fprintf(w, "(%d nondominated points)\n", len(d.Minimals))
}

// LimitRequired filters designs to those whose required value for the
// quantity is <= limit (the plotting layer's time-slice operation).
func LimitRequired(members []*core.SystemDesign, quantity string, limit float64) []*core.SystemDesign {
	var kept []*core.SystemDesign
	for _, d := range members {
		if v, ok := d.Requires.Get(quantity); ok && v <= limit {
			kept = append(kept, d)
		}
	}
	return kept
}

// aggregateValues flattens both design vectors into one map.
func aggregateValues(d *core.SystemDesign) map[string]float64 {
	values := d.Requires.ToMap()
	for q, v := range d.Provides.ToMap() {
		values[q] = v
	}
	return values
}

// aggregateOrder lists aggregates objectives-first, then the rest in
// declaration order.
func aggregateOrder(m *core.DesignModel) []string {
	isObjective := make(map[string]bool, len(m.Objectives))
	order := append([]string{}, m.Objectives...)
	for _, name := range m.Objectives {
		isObjective[name] = true
	}
	for _, agg := range m.Aggregates {
		if !isObjective[agg.Name] {
			order = append(order, agg.Name)
		}
	}
	return order
}

func lessSelection(a, b map[string]string) bool {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if a[k] != b[k] {
			return a[k] < b[k]
		}
	}
	return false
}
