package core

import "fmt"

// DuplicateNameError is returned when two catalogue entries share a name
// within the same role. Catalogue integrity errors abort the whole run.
type DuplicateNameError struct {
	Role string
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate implementation name %q in catalogue for role %q", e.Name, e.Role)
}

// MissingQuantityError is returned when a catalogue entry omits a quantity
// declared mandatory for its role.
type MissingQuantityError struct {
	Role     string
	Name     string
	Quantity string
	Side     string // "provides" or "requires"
}

func (e *MissingQuantityError) Error() string {
	return fmt.Sprintf("implementation %q in role %q is missing mandatory %s quantity %q",
		e.Name, e.Role, e.Side, e.Quantity)
}

// UnknownRoleError is returned when a role has no loaded catalogue.
type UnknownRoleError struct {
	Role      string
	Available []string
}

func (e *UnknownRoleError) Error() string {
	return fmt.Sprintf("unknown role %q (available roles: %v)", e.Role, e.Available)
}

// UnknownImplementationError is returned when a named implementation is
// not present in its role's catalogue.
type UnknownImplementationError struct {
	Role string
	Name string
}

func (e *UnknownImplementationError) Error() string {
	return fmt.Sprintf("no implementation named %q in catalogue for role %q", e.Name, e.Role)
}

// IncompleteSelectionError is returned when a composition is requested
// without an implementation for every declared role.
type IncompleteSelectionError struct {
	Missing []string
}

func (e *IncompleteSelectionError) Error() string {
	return fmt.Sprintf("selection is missing implementations for roles %v", e.Missing)
}

// InfeasibleSelectionError is returned when a capacity constraint is
// violated by a selection (e.g., supply logistics capacity below air
// logistics demand). Bulk enumeration skips infeasible selections
// silently; an explicit Compose surfaces this error.
type InfeasibleSelectionError struct {
	Constraint string
	Capacity   float64
	Demand     float64
}

func (e *InfeasibleSelectionError) Error() string {
	return fmt.Sprintf("constraint %q violated: capacity %g < demand %g", e.Constraint, e.Capacity, e.Demand)
}

// NoFeasibleDesignError is returned when a feasibility query's constraints
// admit no candidate. Deterministic for a fixed catalogue, so never retried.
type NoFeasibleDesignError struct {
	AtLeast Vector
}

func (e *NoFeasibleDesignError) Error() string {
	return fmt.Sprintf("no design provides at least %s", e.AtLeast)
}
