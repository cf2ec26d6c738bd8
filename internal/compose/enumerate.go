package compose

import (
	"errors"
	"fmt"

	"github.com/firelinelabs/tradespace/pkg/core"
)

// Enumerator walks the cross product of role catalogues in lexicographic
// index order over the model's role declaration order, skipping infeasible
// combinations. The sequence is finite, restartable via Reset, and
// deterministic for a fixed catalogue ordering.
type Enumerator struct {
	composer   *Composer
	roles      []string
	catalogues []*core.Catalogue
	idx        []int
	done       bool
	invalid    bool
	err        error
}

// NewEnumerator creates an enumerator over one catalogue per model role,
// given in the model's role declaration order.
func NewEnumerator(composer *Composer, catalogues []*core.Catalogue) *Enumerator {
	roles := composer.Model().RoleNames()
	e := &Enumerator{
		composer:   composer,
		roles:      roles,
		catalogues: catalogues,
		idx:        make([]int, len(roles)),
	}
	switch {
	case len(catalogues) < len(roles):
		e.invalid = true
		e.done = true
		e.err = &core.IncompleteSelectionError{Missing: roles[len(catalogues):]}
	case len(catalogues) > len(roles):
		e.invalid = true
		e.done = true
		e.err = fmt.Errorf("%d catalogues given for %d declared roles %v", len(catalogues), len(roles), roles)
	}
	e.Reset()
	return e
}

// Total returns the size of the full cross product, before filtering.
func (e *Enumerator) Total() int64 {
	if e.err != nil {
		return 0
	}
	total := int64(1)
	for _, cat := range e.catalogues {
		total *= int64(cat.Len())
	}
	return total
}

// Next returns the next feasible system design, or false when the sequence
// is exhausted or an error occurred (see Err). Individually infeasible
// combinations are skipped, not surfaced: infeasibility is an expected
// filtering outcome during bulk enumeration.
func (e *Enumerator) Next() (*core.SystemDesign, bool) {
	for !e.done {
		sel := make(core.Selection, len(e.roles))
		for i, role := range e.roles {
			sel[role] = e.catalogues[i].Implementations[e.idx[i]]
		}
		e.advance()

		design, err := e.composer.Compose(sel)
		if err != nil {
			var infeasible *core.InfeasibleSelectionError
			if errors.As(err, &infeasible) {
				continue
			}
			e.err = err
			e.done = true
			return nil, false
		}
		return design, true
	}
	return nil, false
}

// Err returns the first non-filtering error encountered, if any.
func (e *Enumerator) Err() error {
	return e.err
}

// Reset restarts the sequence from the first combination.
func (e *Enumerator) Reset() {
	if e.invalid {
		return
	}
	for i := range e.idx {
		e.idx[i] = 0
	}
	e.done = false
	e.err = nil
	for _, cat := range e.catalogues {
		if cat.Len() == 0 {
			e.done = true
		}
	}
}

// advance increments the index vector in lexicographic order, with the
// last role as the fastest-moving digit.
func (e *Enumerator) advance() {
	for i := len(e.idx) - 1; i >= 0; i-- {
		e.idx[i]++
		if e.idx[i] < e.catalogues[i].Len() {
			return
		}
		e.idx[i] = 0
	}
	e.done = true
}
