package pareto

import (
	"math"
	"sort"

	"github.com/firelinelabs/tradespace/pkg/core"
)

// MinimalFor returns the nondominated subset of candidates whose provided
// vector is component-wise at least atLeast: a feasibility query rather
// than a full tradespace dump. Fails with *core.NoFeasibleDesignError if
// no candidate satisfies the requirement.
func MinimalFor(objectives []Objective, opts Options, candidates []*core.SystemDesign, atLeast core.Vector) ([]*core.SystemDesign, error) {
	var feasible []*core.SystemDesign
	for _, c := range candidates {
		if c.Provides.AtLeast(atLeast) {
			feasible = append(feasible, c)
		}
	}
	if len(feasible) == 0 {
		return nil, &core.NoFeasibleDesignError{AtLeast: atLeast}
	}
	return Compute(objectives, opts, feasible).Members(), nil
}

// BucketKey returns the partition key for a value: the lower edge of its
// bucket (floor(v/width)*width). Width <= 0 means exact-value partitions.
func BucketKey(v, width float64) float64 {
	if width <= 0 {
		return v
	}
	return math.Floor(v/width) * width
}

// PartitionBy groups candidates by bucketed value of one provided quantity.
// This is the explicit policy for area-aware frontiers: compute the
// antichain per partition of the candidate pool, never across partitions
// and never from an already-reduced global frontier.
func PartitionBy(candidates []*core.SystemDesign, quantity string, width float64) map[float64][]*core.SystemDesign {
	parts := make(map[float64][]*core.SystemDesign)
	for _, c := range candidates {
		v, ok := c.Provides.Get(quantity)
		if !ok {
			continue
		}
		key := BucketKey(v, width)
		parts[key] = append(parts[key], c)
	}
	return parts
}

// PartitionKeys returns the partition keys in ascending order.
func PartitionKeys[T any](parts map[float64]T) []float64 {
	keys := make([]float64, 0, len(parts))
	for k := range parts {
		keys = append(keys, k)
	}
	sort.Float64s(keys)
	return keys
}
