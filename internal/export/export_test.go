package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/firelinelabs/tradespace/pkg/core"
)

func design(air string, cost, time, load, area float64) *core.SystemDesign {
	return &core.SystemDesign{
		Provides: core.NewVector(map[string]float64{"area_controlled": area}),
		Requires: core.NewVector(map[string]float64{
			"total_cost":     cost,
			"response_time":  time,
			"logistics_load": load,
		}),
		Selection: core.Selection{
			"air":    &core.Implementation{Name: air},
			"ground": &core.Implementation{Name: "crew-1"},
			"supply": &core.Implementation{Name: "depot-1"},
		},
	}
}

func TestNewSortsByObjectives(t *testing.T) {
	m := core.WildfireModel()
	members := []*core.SystemDesign{
		design("dear", 900, 10, 80, 20),
		design("cheap", 300, 40, 60, 10),
		design("mid", 600, 20, 70, 15),
	}

	doc := New(m, members)

	require.Len(t, doc.Minimals, 3)
	assert.Equal(t, "cheap", doc.Minimals[0].Selection["air"])
	assert.Equal(t, "mid", doc.Minimals[1].Selection["air"])
	assert.Equal(t, "dear", doc.Minimals[2].Selection["air"])

	assert.Equal(t, "wildfire", doc.Model)
	assert.Equal(t, "exact", doc.Bound)
	assert.Equal(t, []string{"total_cost", "logistics_load", "response_time"}, doc.Objectives)
}

func TestNewDeterministicAcrossOrder(t *testing.T) {
	m := core.WildfireModel()
	members := []*core.SystemDesign{
		design("a", 300, 40, 60, 10),
		design("b", 600, 20, 70, 15),
	}
	reversed := []*core.SystemDesign{members[1], members[0]}

	assert.Equal(t, New(m, members), New(m, reversed))
}

func TestPointCarriesAllAggregates(t *testing.T) {
	doc := New(core.WildfireModel(), []*core.SystemDesign{design("a", 300, 40, 60, 10)})

	p := doc.Minimals[0]
	assert.Equal(t, 300.0, p.Aggregates["total_cost"])
	assert.Equal(t, 10.0, p.Aggregates["area_controlled"], "context aggregates are exported too")
	assert.Equal(t, "crew-1", p.Selection["ground"])
}

func TestWriteYAML(t *testing.T) {
	doc := New(core.WildfireModel(), []*core.SystemDesign{design("a", 300, 40, 60, 10)})

	var buf bytes.Buffer
	require.NoError(t, doc.WriteYAML(&buf))

	var decoded Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, *doc, decoded)
}

func TestWriteJSON(t *testing.T) {
	doc := New(core.WildfireModel(), []*core.SystemDesign{design("a", 300, 40, 60, 10)})

	var buf bytes.Buffer
	require.NoError(t, doc.WriteJSON(&buf))

	var decoded Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, *doc, decoded)
}

func TestWriteTable(t *testing.T) {
	m := core.WildfireModel()
	doc := New(m, []*core.SystemDesign{design("heli-A", 300, 40, 60, 10)})

	var buf bytes.Buffer
	doc.WriteTable(&buf, m)

	out := buf.String()
	assert.Contains(t, out, "heli-A")
	assert.Contains(t, out, "total_cost")
	assert.Contains(t, out, "(1 nondominated points)")
	assert.True(t, strings.Index(out, "total_cost") < strings.Index(out, "area_controlled"),
		"objectives come before context aggregates")
}

func TestLimitRequired(t *testing.T) {
	members := []*core.SystemDesign{
		design("fast", 900, 10, 80, 20),
		design("slow", 300, 40, 60, 10),
		design("edge", 600, 20, 70, 15),
	}

	kept := LimitRequired(members, "response_time", 20)
	require.Len(t, kept, 2)
	for _, d := range kept {
		v, _ := d.Requires.Get("response_time")
		assert.LessOrEqual(t, v, 20.0)
	}

	assert.Empty(t, LimitRequired(members, "response_time", 5))
	assert.Empty(t, LimitRequired(members, "absent_quantity", 100))
}
