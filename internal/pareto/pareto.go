// Package pareto maintains nondominated antichains of system designs.
//
// Dominance is computed over the design model's objective aggregates
// (for the wildfire model: total_cost, logistics_load, response_time, all
// minimized). Provided aggregates such as area controlled are context
// dimensions, not objectives: callers wanting area-aware frontiers must
// partition candidates explicitly (PartitionBy) before computing, since
// folding area into the dominance relation silently changes results.
package pareto

import (
	"github.com/firelinelabs/tradespace/pkg/core"
)

// Objective is one dominance dimension.
type Objective struct {
	Name      string
	Direction core.Direction
}

// Options tunes dominance comparison.
type Options struct {
	// Epsilon treats objective values within epsilon as equal. Zero (the
	// default) means exact comparison; tolerance changes antichain
	// membership, so it is only ever set explicitly.
	Epsilon float64
}

// ObjectivesFromModel derives the dominance dimensions from a model's
// declared objective list.
func ObjectivesFromModel(m *core.DesignModel) []Objective {
	objs := make([]Objective, 0, len(m.Objectives))
	dirs := m.ObjectiveDirections()
	for _, name := range m.Objectives {
		objs = append(objs, Objective{Name: name, Direction: dirs[name]})
	}
	return objs
}

// Set is a collection of system designs maintained as a minimal antichain:
// after every insertion no member dominates another.
type Set struct {
	objectives []Objective
	eps        float64
	members    []*core.SystemDesign
}

// NewSet creates an empty antichain over the given objectives.
func NewSet(objectives []Objective, opts Options) *Set {
	return &Set{objectives: objectives, eps: opts.Epsilon}
}

// Objectives returns the dominance dimensions of the set.
func (s *Set) Objectives() []Objective {
	return s.objectives
}

// Len returns the number of members.
func (s *Set) Len() int {
	return len(s.members)
}

// Members returns the current antichain. The slice is shared; callers
// must not mutate it.
func (s *Set) Members() []*core.SystemDesign {
	return s.members
}

// Insert adds a candidate, keeping the set a minimal antichain: a
// candidate dominated by any member is discarded (no mutation), otherwise
// it is added and every member it dominates is evicted. The resulting set
// is independent of insertion order.
func (s *Set) Insert(candidate *core.SystemDesign) bool {
	for _, m := range s.members {
		if s.dominates(m, candidate) {
			return false
		}
	}

	kept := s.members[:0]
	for _, m := range s.members {
		if !s.dominates(candidate, m) {
			kept = append(kept, m)
		}
	}
	s.members = append(kept, candidate)
	return true
}

// Merge inserts every member of other, preserving the antichain invariant.
// Used to reduce per-worker partial antichains into one frontier.
func (s *Set) Merge(other *Set) {
	for _, m := range other.members {
		s.Insert(m)
	}
}

// Compute folds Insert over candidates starting from an empty set.
// O(n·frontier) comparisons; catalogue-scale inputs stay in the low
// thousands, so no sub-quadratic structure is warranted.
func Compute(objectives []Objective, opts Options, candidates []*core.SystemDesign) *Set {
	s := NewSet(objectives, opts)
	for _, c := range candidates {
		s.Insert(c)
	}
	return s
}

// dominates reports whether a dominates b: no worse on every objective
// and strictly better on at least one.
func (s *Set) dominates(a, b *core.SystemDesign) bool {
	strict := false
	for _, obj := range s.objectives {
		av, aok := objectiveValue(a, obj.Name)
		bv, bok := objectiveValue(b, obj.Name)
		if !aok || !bok {
			return false
		}
		switch core.CompareEps(obj.Direction, av, bv, s.eps) {
		case core.Worse:
			return false
		case core.Better:
			strict = true
		}
	}
	return strict
}

// objectiveValue reads an objective from a design's required vector,
// falling back to the provided vector for maximize-direction aggregates.
func objectiveValue(d *core.SystemDesign, name string) (float64, bool) {
	if v, ok := d.Requires.Get(name); ok {
		return v, true
	}
	return d.Provides.Get(name)
}
