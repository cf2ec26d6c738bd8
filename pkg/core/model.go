package core

import (
	"fmt"
	"strings"
)

// Side distinguishes the provided (functionality) and required (resource)
// halves of an implementation or design vector.
type Side string

const (
	// SideProvides is the functionality side (more is better).
	SideProvides Side = "provides"
	// SideRequires is the resource side (less is better).
	SideRequires Side = "requires"
)

// AggregateOp names a composition rule's aggregation function.
type AggregateOp string

const (
	// OpSum adds the input values (additive quantities like cost, area).
	OpSum AggregateOp = "sum"
	// OpMax takes the largest input (a system is as slow as its slowest part).
	OpMax AggregateOp = "max"
	// OpMin takes the smallest input.
	OpMin AggregateOp = "min"
)

// ValueRef addresses one per-role value: role, side, and quantity name.
// The textual form is "role.side.quantity", e.g. "air.requires.cost_usd".
type ValueRef struct {
	Role     string
	Side     Side
	Quantity string
}

// String returns the canonical "role.side.quantity" form.
func (r ValueRef) String() string {
	return fmt.Sprintf("%s.%s.%s", r.Role, r.Side, r.Quantity)
}

// ParseValueRef parses the "role.side.quantity" form.
func ParseValueRef(s string) (ValueRef, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return ValueRef{}, fmt.Errorf("invalid value reference %q: want role.side.quantity", s)
	}
	side := Side(parts[1])
	if side != SideProvides && side != SideRequires {
		return ValueRef{}, fmt.Errorf("invalid value reference %q: side must be %q or %q",
			s, SideProvides, SideRequires)
	}
	return ValueRef{Role: parts[0], Side: side, Quantity: parts[2]}, nil
}

// QuantitySpec declares a scalar quantity and its improvement direction.
type QuantitySpec struct {
	Name      string
	Direction Direction
}

// RoleSpec declares a subsystem role and the quantities every catalogue
// entry for the role must carry.
type RoleSpec struct {
	Name string
	// Provides lists mandatory provided quantities
	Provides []string
	// Requires lists mandatory required quantities
	Requires []string
}

// Mandatory returns the mandatory quantity list for a side.
func (r *RoleSpec) Mandatory(side Side) []string {
	if side == SideProvides {
		return r.Provides
	}
	return r.Requires
}

// AggregateSpec declares one system-level quantity as a pure function of
// per-role values. Declared once, applied per candidate.
type AggregateSpec struct {
	// Name is the system-level quantity name (e.g., "total_cost")
	Name string
	// Op is the aggregation function
	Op AggregateOp
	// Inputs are the per-role values being aggregated
	Inputs []ValueRef
	// Into selects which design vector receives the result
	Into Side
}

// Direction returns the improvement direction of the aggregate: provided
// aggregates are maximized, required aggregates minimized.
func (a *AggregateSpec) Direction() Direction {
	if a.Into == SideProvides {
		return Maximize
	}
	return Minimize
}

// ConstraintSpec declares an at-least capacity constraint: the capacity
// value must be >= the demand value or the selection is infeasible.
type ConstraintSpec struct {
	Name     string
	Capacity ValueRef
	Demand   ValueRef
}

// DesignModel is the declarative description of a composition problem:
// quantities with directions, roles with mandatory vectors, aggregation
// rules, capacity constraints, and the objective triple used for dominance.
// Supplied as data by the modeling layer; the engine never hard-codes one.
type DesignModel struct {
	Name        string
	Quantities  []QuantitySpec
	Roles       []RoleSpec
	Aggregates  []AggregateSpec
	Constraints []ConstraintSpec
	// Objectives names the required-side aggregates dominance is computed
	// over. Provided aggregates (area controlled) are context dimensions,
	// not objectives; callers partition by them explicitly.
	Objectives []string
}

// Quantity looks up a declared quantity by name.
func (m *DesignModel) Quantity(name string) (QuantitySpec, bool) {
	for _, q := range m.Quantities {
		if q.Name == name {
			return q, true
		}
	}
	return QuantitySpec{}, false
}

// Role looks up a declared role by name.
func (m *DesignModel) Role(name string) (*RoleSpec, bool) {
	for i := range m.Roles {
		if m.Roles[i].Name == name {
			return &m.Roles[i], true
		}
	}
	return nil, false
}

// Aggregate looks up a declared aggregate by name.
func (m *DesignModel) Aggregate(name string) (*AggregateSpec, bool) {
	for i := range m.Aggregates {
		if m.Aggregates[i].Name == name {
			return &m.Aggregates[i], true
		}
	}
	return nil, false
}

// RoleNames returns the declared role names in declaration order.
func (m *DesignModel) RoleNames() []string {
	names := make([]string, len(m.Roles))
	for i, r := range m.Roles {
		names[i] = r.Name
	}
	return names
}

// ObjectiveDirections returns the improvement direction per objective.
func (m *DesignModel) ObjectiveDirections() map[string]Direction {
	dirs := make(map[string]Direction, len(m.Objectives))
	for _, name := range m.Objectives {
		if agg, ok := m.Aggregate(name); ok {
			dirs[name] = agg.Direction()
		}
	}
	return dirs
}

// Validate checks the model's internal consistency. Every aggregate input
// and constraint endpoint must reference a quantity that is mandatory for
// its role and side, so composition lookups are total.
func (m *DesignModel) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("model name is required")
	}
	if len(m.Roles) == 0 {
		return fmt.Errorf("model %q declares no roles", m.Name)
	}

	seenQ := make(map[string]bool, len(m.Quantities))
	for _, q := range m.Quantities {
		if q.Name == "" {
			return fmt.Errorf("model %q declares a quantity without a name", m.Name)
		}
		if seenQ[q.Name] {
			return fmt.Errorf("model %q declares quantity %q twice", m.Name, q.Name)
		}
		seenQ[q.Name] = true
	}

	seenR := make(map[string]bool, len(m.Roles))
	for _, r := range m.Roles {
		if seenR[r.Name] {
			return fmt.Errorf("model %q declares role %q twice", m.Name, r.Name)
		}
		seenR[r.Name] = true
		for _, q := range append(append([]string{}, r.Provides...), r.Requires...) {
			if !seenQ[q] {
				return fmt.Errorf("role %q references undeclared quantity %q", r.Name, q)
			}
		}
	}

	seenA := make(map[string]bool, len(m.Aggregates))
	for i := range m.Aggregates {
		a := &m.Aggregates[i]
		if seenA[a.Name] {
			return fmt.Errorf("model %q declares aggregate %q twice", m.Name, a.Name)
		}
		seenA[a.Name] = true
		switch a.Op {
		case OpSum, OpMax, OpMin:
		default:
			return fmt.Errorf("aggregate %q has unknown op %q", a.Name, a.Op)
		}
		if a.Into != SideProvides && a.Into != SideRequires {
			return fmt.Errorf("aggregate %q has invalid side %q", a.Name, a.Into)
		}
		if len(a.Inputs) == 0 {
			return fmt.Errorf("aggregate %q has no inputs", a.Name)
		}
		for _, ref := range a.Inputs {
			if err := m.checkRef(ref); err != nil {
				return fmt.Errorf("aggregate %q: %w", a.Name, err)
			}
		}
	}

	for _, c := range m.Constraints {
		if c.Name == "" {
			return fmt.Errorf("model %q declares a constraint without a name", m.Name)
		}
		if err := m.checkRef(c.Capacity); err != nil {
			return fmt.Errorf("constraint %q: %w", c.Name, err)
		}
		if err := m.checkRef(c.Demand); err != nil {
			return fmt.Errorf("constraint %q: %w", c.Name, err)
		}
		if c.Capacity.Side != SideProvides {
			return fmt.Errorf("constraint %q: capacity %s must be a provided value", c.Name, c.Capacity)
		}
		if c.Demand.Side != SideRequires {
			return fmt.Errorf("constraint %q: demand %s must be a required value", c.Name, c.Demand)
		}
	}

	if len(m.Objectives) == 0 {
		return fmt.Errorf("model %q declares no objectives", m.Name)
	}
	for _, name := range m.Objectives {
		agg, ok := m.Aggregate(name)
		if !ok {
			return fmt.Errorf("objective %q does not name a declared aggregate", name)
		}
		if agg.Into != SideRequires {
			return fmt.Errorf("objective %q must be a required-side aggregate; provided aggregates are context, not objectives", name)
		}
	}

	return nil
}

// checkRef verifies a value reference resolves to a mandatory quantity.
func (m *DesignModel) checkRef(ref ValueRef) error {
	role, ok := m.Role(ref.Role)
	if !ok {
		return fmt.Errorf("reference %s names undeclared role %q", ref, ref.Role)
	}
	for _, q := range role.Mandatory(ref.Side) {
		if q == ref.Quantity {
			return nil
		}
	}
	return fmt.Errorf("reference %s: quantity %q is not mandatory for role %q side %q",
		ref, ref.Quantity, ref.Role, ref.Side)
}
