package pareto

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firelinelabs/tradespace/pkg/core"
)

var minCostTime = []Objective{
	{Name: "total_cost", Direction: core.Minimize},
	{Name: "response_time", Direction: core.Minimize},
}

func design(name string, cost, response float64) *core.SystemDesign {
	return &core.SystemDesign{
		Provides: core.NewVector(nil),
		Requires: core.NewVector(map[string]float64{
			"total_cost":    cost,
			"response_time": response,
		}),
		Selection: core.Selection{"air": &core.Implementation{Name: name}},
	}
}

func memberNames(members []*core.SystemDesign) []string {
	names := make([]string, 0, len(members))
	for _, m := range members {
		names = append(names, m.Selection["air"].Name)
	}
	sort.Strings(names)
	return names
}

func TestInsertDiscardsDominated(t *testing.T) {
	s := NewSet(minCostTime, Options{})

	require.True(t, s.Insert(design("good", 100, 10)))
	assert.False(t, s.Insert(design("worse", 200, 20)), "dominated candidate must be discarded")
	assert.Equal(t, 1, s.Len())
}

func TestInsertEvictsDominated(t *testing.T) {
	s := NewSet(minCostTime, Options{})

	s.Insert(design("a", 200, 20))
	s.Insert(design("b", 300, 30))
	require.True(t, s.Insert(design("best", 100, 10)))

	assert.Equal(t, []string{"best"}, memberNames(s.Members()))
}

func TestInsertKeepsIncomparable(t *testing.T) {
	s := NewSet(minCostTime, Options{})

	s.Insert(design("cheap-slow", 100, 50))
	s.Insert(design("fast-dear", 500, 10))

	assert.Equal(t, 2, s.Len(), "trade-offs are incomparable and both survive")
}

func TestEqualDesignsAreIncomparable(t *testing.T) {
	s := NewSet(minCostTime, Options{})

	s.Insert(design("a", 100, 10))
	s.Insert(design("b", 100, 10))

	assert.Equal(t, 2, s.Len(), "dominance is strict; ties are kept")
}

func TestAntichainInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	s := NewSet(minCostTime, Options{})
	for i := 0; i < 500; i++ {
		s.Insert(design("d", float64(rng.Intn(100)), float64(rng.Intn(100))))
	}

	members := s.Members()
	for i, a := range members {
		for j, b := range members {
			if i == j {
				continue
			}
			require.False(t, s.dominates(a, b), "antichain violated: member dominates member")
		}
	}
}

func TestComputeDiscardsOnlyDominated(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	candidates := make([]*core.SystemDesign, 400)
	for i := range candidates {
		candidates[i] = design(fmt.Sprintf("d%d", i),
			float64(rng.Intn(60)), float64(rng.Intn(60)))
	}

	set := Compute(minCostTime, Options{}, candidates)
	member := make(map[*core.SystemDesign]bool, set.Len())
	for _, m := range set.Members() {
		member[m] = true
	}

	// Every candidate the computation dropped must be dominated by some
	// member of the final frontier.
	for _, c := range candidates {
		if member[c] {
			continue
		}
		dominated := false
		for _, m := range set.Members() {
			if set.dominates(m, c) {
				dominated = true
				break
			}
		}
		require.True(t, dominated,
			"%s was discarded but no frontier member dominates it",
			c.Selection["air"].Name)
	}
}

func TestInsertionOrderInvariance(t *testing.T) {
	designs := []*core.SystemDesign{
		design("a", 100, 50),
		design("b", 500, 10),
		design("c", 200, 20),
		design("d", 600, 60),
		design("e", 100, 50),
	}

	want := memberNames(Compute(minCostTime, Options{}, designs).Members())

	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 20; trial++ {
		shuffled := append([]*core.SystemDesign(nil), designs...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got := memberNames(Compute(minCostTime, Options{}, shuffled).Members())
		require.Equal(t, want, got, "frontier must not depend on insertion order")
	}
}

func TestEpsilonDominance(t *testing.T) {
	// Within eps on cost, strictly better on time: dominates under eps,
	// incomparable exactly.
	a := design("a", 100.0, 10)
	b := design("b", 99.9, 20)

	exact := NewSet(minCostTime, Options{})
	exact.Insert(a)
	exact.Insert(b)
	assert.Equal(t, 2, exact.Len())

	tolerant := NewSet(minCostTime, Options{Epsilon: 0.5})
	tolerant.Insert(a)
	tolerant.Insert(b)
	assert.Equal(t, []string{"a"}, memberNames(tolerant.Members()))
}

func TestMergeEqualsSequentialInsert(t *testing.T) {
	designs := []*core.SystemDesign{
		design("a", 100, 50),
		design("b", 500, 10),
		design("c", 50, 90),
		design("d", 400, 40),
	}

	whole := Compute(minCostTime, Options{}, designs)

	left := Compute(minCostTime, Options{}, designs[:2])
	right := Compute(minCostTime, Options{}, designs[2:])
	left.Merge(right)

	assert.Equal(t, memberNames(whole.Members()), memberNames(left.Members()))
}

func TestMissingObjectiveNeverDominates(t *testing.T) {
	s := NewSet(minCostTime, Options{})

	full := design("full", 100, 10)
	partial := &core.SystemDesign{
		Provides:  core.NewVector(nil),
		Requires:  core.NewVector(map[string]float64{"total_cost": 1}),
		Selection: core.Selection{"air": &core.Implementation{Name: "partial"}},
	}

	s.Insert(full)
	s.Insert(partial)
	assert.Equal(t, 2, s.Len(), "designs missing an objective are incomparable")
}

func TestMinimalFor(t *testing.T) {
	mk := func(name string, area, cost float64) *core.SystemDesign {
		return &core.SystemDesign{
			Provides:  core.NewVector(map[string]float64{"area_controlled": area}),
			Requires:  core.NewVector(map[string]float64{"total_cost": cost, "response_time": 10}),
			Selection: core.Selection{"air": &core.Implementation{Name: name}},
		}
	}
	candidates := []*core.SystemDesign{
		mk("small", 8, 100),
		mk("mid", 15, 300),
		mk("big", 20, 300),
		mk("dear", 15, 900),
	}

	got, err := MinimalFor(minCostTime, Options{}, candidates, core.NewVector(map[string]float64{"area_controlled": 12}))
	require.NoError(t, err)

	// "small" misses the threshold; "dear" is dominated by "mid"; "mid"
	// and "big" tie on both objectives.
	assert.ElementsMatch(t, []string{"mid", "big"}, memberNames(got))
}

func TestMinimalForNoFeasibleDesign(t *testing.T) {
	candidates := []*core.SystemDesign{
		{
			Provides:  core.NewVector(map[string]float64{"area_controlled": 5}),
			Requires:  core.NewVector(map[string]float64{"total_cost": 100, "response_time": 10}),
			Selection: core.Selection{},
		},
	}

	_, err := MinimalFor(minCostTime, Options{}, candidates, core.NewVector(map[string]float64{"area_controlled": 50}))
	require.Error(t, err)

	var nfd *core.NoFeasibleDesignError
	assert.True(t, errors.As(err, &nfd))
}

func TestPartitionBy(t *testing.T) {
	mk := func(area float64) *core.SystemDesign {
		return &core.SystemDesign{
			Provides: core.NewVector(map[string]float64{"area_controlled": area}),
			Requires: core.NewVector(nil),
		}
	}
	candidates := []*core.SystemDesign{mk(3), mk(7), mk(12), mk(14), mk(25)}

	parts := PartitionBy(candidates, "area_controlled", 10)
	assert.Equal(t, []float64{0, 10, 20}, PartitionKeys(parts))
	assert.Len(t, parts[0], 2)
	assert.Len(t, parts[10], 2)
	assert.Len(t, parts[20], 1)

	exact := PartitionBy(candidates, "area_controlled", 0)
	assert.Len(t, exact, 5)
}
