package core

import "sort"

// Selection maps each role to the implementation chosen for it.
type Selection map[string]*Implementation

// Names returns the chosen implementation name per role.
func (s Selection) Names() map[string]string {
	names := make(map[string]string, len(s))
	for role, impl := range s {
		names[role] = impl.Name
	}
	return names
}

// Roles returns the selected roles in sorted order.
func (s Selection) Roles() []string {
	roles := make([]string, 0, len(s))
	for role := range s {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	return roles
}

// SystemDesign is the result of composing one implementation per role.
// It carries the aggregated provided and required vectors plus a
// back-reference (not ownership) to the chosen implementations for
// traceability. Created by the composition engine; consumed read-only
// by the dominance engine.
type SystemDesign struct {
	// Provides holds the aggregated functionality vector
	Provides Vector
	// Requires holds the aggregated resource vector
	Requires Vector
	// Selection records which implementation produced each role's share
	Selection Selection
}
