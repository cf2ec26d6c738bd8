// Package catalogue provides loading and lookup of subsystem catalogues.
// A catalogue is a finite ordered collection of named implementations for
// one role; catalogues are built once and read-only during solving.
package catalogue

import (
	"fmt"
	"sort"

	"github.com/firelinelabs/tradespace/pkg/core"
)

// Entry is one catalogue record before validation.
type Entry struct {
	Name     string
	Provides map[string]float64
	Requires map[string]float64
}

// Store holds the loaded catalogues for a design model's roles.
// Load validates entries against the model's mandatory quantities;
// no mutation API is exposed after a role is loaded.
type Store struct {
	model      *core.DesignModel
	catalogues map[string]*core.Catalogue
}

// NewStore creates an empty store bound to a design model.
func NewStore(model *core.DesignModel) *Store {
	return &Store{
		model:      model,
		catalogues: make(map[string]*core.Catalogue),
	}
}

// Load builds and registers the catalogue for a role from validated entries.
// Fails with *core.UnknownRoleError for roles the model does not declare,
// *core.DuplicateNameError for repeated names within the role, and
// *core.MissingQuantityError when an entry omits a mandatory quantity.
func (s *Store) Load(role string, entries []Entry) error {
	spec, ok := s.model.Role(role)
	if !ok {
		return &core.UnknownRoleError{Role: role, Available: s.model.RoleNames()}
	}
	if _, loaded := s.catalogues[role]; loaded {
		return fmt.Errorf("catalogue for role %q already loaded", role)
	}
	if len(entries) == 0 {
		return fmt.Errorf("catalogue for role %q is empty", role)
	}

	impls := make([]*core.Implementation, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			return fmt.Errorf("catalogue for role %q has an entry without a name", role)
		}
		if seen[e.Name] {
			return &core.DuplicateNameError{Role: role, Name: e.Name}
		}
		seen[e.Name] = true

		if err := s.checkEntry(role, spec, &e); err != nil {
			return err
		}

		impls = append(impls, &core.Implementation{
			Name:     e.Name,
			Provides: core.NewVector(e.Provides),
			Requires: core.NewVector(e.Requires),
		})
	}

	s.catalogues[role] = &core.Catalogue{Role: role, Implementations: impls}
	return nil
}

// checkEntry validates mandatory coverage and quantity declarations.
func (s *Store) checkEntry(role string, spec *core.RoleSpec, e *Entry) error {
	for _, q := range spec.Provides {
		if _, ok := e.Provides[q]; !ok {
			return &core.MissingQuantityError{Role: role, Name: e.Name, Quantity: q, Side: string(core.SideProvides)}
		}
	}
	for _, q := range spec.Requires {
		if _, ok := e.Requires[q]; !ok {
			return &core.MissingQuantityError{Role: role, Name: e.Name, Quantity: q, Side: string(core.SideRequires)}
		}
	}
	for q := range e.Provides {
		if _, ok := s.model.Quantity(q); !ok {
			return fmt.Errorf("implementation %q in role %q provides undeclared quantity %q", e.Name, role, q)
		}
	}
	for q := range e.Requires {
		if _, ok := s.model.Quantity(q); !ok {
			return fmt.Errorf("implementation %q in role %q requires undeclared quantity %q", e.Name, role, q)
		}
	}
	return nil
}

// Get returns the catalogue for a role.
// Fails with *core.UnknownRoleError if the role has no loaded catalogue.
func (s *Store) Get(role string) (*core.Catalogue, error) {
	cat, ok := s.catalogues[role]
	if !ok {
		return nil, &core.UnknownRoleError{Role: role, Available: s.Roles()}
	}
	return cat, nil
}

// Roles returns the loaded role names (sorted).
func (s *Store) Roles() []string {
	roles := make([]string, 0, len(s.catalogues))
	for role := range s.catalogues {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	return roles
}

// Complete verifies every role declared by the model has a catalogue.
func (s *Store) Complete() error {
	var missing []string
	for _, role := range s.model.RoleNames() {
		if _, ok := s.catalogues[role]; !ok {
			missing = append(missing, role)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing catalogues for roles %v", missing)
	}
	return nil
}

// Model returns the design model the store validates against.
func (s *Store) Model() *core.DesignModel {
	return s.model
}
