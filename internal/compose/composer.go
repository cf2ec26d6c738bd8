// Package compose turns per-role implementation selections into
// system-level designs by applying a design model's declared aggregation
// rules and capacity constraints.
package compose

import (
	"fmt"
	"sort"

	"github.com/firelinelabs/tradespace/pkg/core"
)

// Composer applies a design model's composition rules. The rule table is
// data from the model declaration; nothing here hard-codes a domain.
type Composer struct {
	model *core.DesignModel
}

// New creates a composer for a validated design model.
func New(model *core.DesignModel) *Composer {
	return &Composer{model: model}
}

// Model returns the design model driving the composer.
func (c *Composer) Model() *core.DesignModel {
	return c.model
}

// Compose combines one implementation per role into a system design.
// Fails with *core.IncompleteSelectionError when a role is missing and
// *core.InfeasibleSelectionError when a capacity constraint is violated.
// Infeasible selections never yield a partial design.
func (c *Composer) Compose(sel core.Selection) (*core.SystemDesign, error) {
	var missing []string
	for _, role := range c.model.RoleNames() {
		if sel[role] == nil {
			missing = append(missing, role)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &core.IncompleteSelectionError{Missing: missing}
	}

	for _, con := range c.model.Constraints {
		capacity, err := c.resolve(sel, con.Capacity)
		if err != nil {
			return nil, err
		}
		demand, err := c.resolve(sel, con.Demand)
		if err != nil {
			return nil, err
		}
		if capacity < demand {
			return nil, &core.InfeasibleSelectionError{
				Constraint: con.Name,
				Capacity:   capacity,
				Demand:     demand,
			}
		}
	}

	provides := make(map[string]float64)
	requires := make(map[string]float64)
	for i := range c.model.Aggregates {
		agg := &c.model.Aggregates[i]
		value, err := c.aggregate(sel, agg)
		if err != nil {
			return nil, err
		}
		if agg.Into == core.SideProvides {
			provides[agg.Name] = value
		} else {
			requires[agg.Name] = value
		}
	}

	chosen := make(core.Selection, len(sel))
	for role, impl := range sel {
		chosen[role] = impl
	}

	return &core.SystemDesign{
		Provides:  core.NewVector(provides),
		Requires:  core.NewVector(requires),
		Selection: chosen,
	}, nil
}

// aggregate evaluates one rule over the selection.
func (c *Composer) aggregate(sel core.Selection, agg *core.AggregateSpec) (float64, error) {
	var acc float64
	for i, ref := range agg.Inputs {
		v, err := c.resolve(sel, ref)
		if err != nil {
			return 0, fmt.Errorf("aggregate %q: %w", agg.Name, err)
		}
		switch {
		case i == 0:
			acc = v
		case agg.Op == core.OpSum:
			acc += v
		case agg.Op == core.OpMax:
			if v > acc {
				acc = v
			}
		case agg.Op == core.OpMin:
			if v < acc {
				acc = v
			}
		}
	}
	return acc, nil
}

// resolve reads one per-role value. Model validation plus catalogue
// mandatory checks make this total for store-loaded implementations.
func (c *Composer) resolve(sel core.Selection, ref core.ValueRef) (float64, error) {
	impl := sel[ref.Role]
	if impl == nil {
		return 0, &core.IncompleteSelectionError{Missing: []string{ref.Role}}
	}
	vec := impl.Requires
	if ref.Side == core.SideProvides {
		vec = impl.Provides
	}
	v, ok := vec.Get(ref.Quantity)
	if !ok {
		return 0, fmt.Errorf("implementation %q has no %s value for %q", impl.Name, ref.Side, ref.Quantity)
	}
	return v, nil
}
