// Package model loads declarative design-model files. The model file is
// the data handed over by the modeling layer: quantities with directions,
// roles with mandatory vectors, aggregation rules, capacity constraints,
// and the objective list. The engine consumes it as data and hard-codes
// nothing; the built-in wildfire model is the shipped default.
package model

import (
	"bytes"
	"fmt"
	"os"

	"github.com/firelinelabs/tradespace/pkg/core"
	"gopkg.in/yaml.v3"
)

type modelYAML struct {
	Name        string           `yaml:"name"`
	Quantities  []quantityYAML   `yaml:"quantities"`
	Roles       []roleYAML       `yaml:"roles"`
	Aggregates  []aggregateYAML  `yaml:"aggregates"`
	Constraints []constraintYAML `yaml:"constraints"`
	Objectives  []string         `yaml:"objectives"`
}

type quantityYAML struct {
	Name      string `yaml:"name"`
	Direction string `yaml:"direction"`
}

type roleYAML struct {
	Name     string   `yaml:"name"`
	Provides []string `yaml:"provides"`
	Requires []string `yaml:"requires"`
}

type aggregateYAML struct {
	Name   string   `yaml:"name"`
	Op     string   `yaml:"op"`
	Into   string   `yaml:"into"`
	Inputs []string `yaml:"inputs"`
}

type constraintYAML struct {
	Name     string `yaml:"name"`
	Kind     string `yaml:"kind"`
	Capacity string `yaml:"capacity"`
	Demand   string `yaml:"demand"`
}

// Default returns the built-in wildfire model.
func Default() *core.DesignModel {
	return core.WildfireModel()
}

// Load parses and validates a design-model YAML file.
func Load(path string) (*core.DesignModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}
	return Parse(path, data)
}

// Parse parses and validates design-model YAML. Unknown fields are
// rejected so a misspelled rule fails instead of vanishing.
func Parse(path string, data []byte) (*core.DesignModel, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f modelYAML
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("invalid model YAML in %s: %w", path, err)
	}

	m := &core.DesignModel{Name: f.Name, Objectives: f.Objectives}

	for _, q := range f.Quantities {
		dir, ok := core.ParseDirection(q.Direction)
		if !ok {
			return nil, fmt.Errorf("quantity %q has invalid direction %q", q.Name, q.Direction)
		}
		m.Quantities = append(m.Quantities, core.QuantitySpec{Name: q.Name, Direction: dir})
	}

	for _, r := range f.Roles {
		m.Roles = append(m.Roles, core.RoleSpec{Name: r.Name, Provides: r.Provides, Requires: r.Requires})
	}

	for _, a := range f.Aggregates {
		agg := core.AggregateSpec{
			Name: a.Name,
			Op:   core.AggregateOp(a.Op),
			Into: core.Side(a.Into),
		}
		for _, in := range a.Inputs {
			ref, err := core.ParseValueRef(in)
			if err != nil {
				return nil, fmt.Errorf("aggregate %q: %w", a.Name, err)
			}
			agg.Inputs = append(agg.Inputs, ref)
		}
		m.Aggregates = append(m.Aggregates, agg)
	}

	for _, c := range f.Constraints {
		if c.Kind != "" && c.Kind != "at_least" {
			return nil, fmt.Errorf("constraint %q has unsupported kind %q", c.Name, c.Kind)
		}
		capacity, err := core.ParseValueRef(c.Capacity)
		if err != nil {
			return nil, fmt.Errorf("constraint %q: %w", c.Name, err)
		}
		demand, err := core.ParseValueRef(c.Demand)
		if err != nil {
			return nil, fmt.Errorf("constraint %q: %w", c.Name, err)
		}
		m.Constraints = append(m.Constraints, core.ConstraintSpec{Name: c.Name, Capacity: capacity, Demand: demand})
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model in %s: %w", path, err)
	}
	return m, nil
}

// Write serializes a design model to a YAML file (used by project
// scaffolding to materialize the default model).
func Write(path string, m *core.DesignModel) error {
	f := modelYAML{Name: m.Name, Objectives: m.Objectives}
	for _, q := range m.Quantities {
		f.Quantities = append(f.Quantities, quantityYAML{Name: q.Name, Direction: q.Direction.String()})
	}
	for _, r := range m.Roles {
		f.Roles = append(f.Roles, roleYAML{Name: r.Name, Provides: r.Provides, Requires: r.Requires})
	}
	for _, a := range m.Aggregates {
		ay := aggregateYAML{Name: a.Name, Op: string(a.Op), Into: string(a.Into)}
		for _, in := range a.Inputs {
			ay.Inputs = append(ay.Inputs, in.String())
		}
		f.Aggregates = append(f.Aggregates, ay)
	}
	for _, c := range m.Constraints {
		f.Constraints = append(f.Constraints, constraintYAML{
			Name:     c.Name,
			Kind:     "at_least",
			Capacity: c.Capacity.String(),
			Demand:   c.Demand.String(),
		})
	}

	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("failed to marshal model: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write model file: %w", err)
	}
	return nil
}
