package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firelinelabs/tradespace/internal/catalogue"
	"github.com/firelinelabs/tradespace/pkg/core"
)

// writeCatalogues materializes generated catalogues in a temp directory.
func writeCatalogues(t *testing.T, opts catalogue.GenerateOptions) string {
	t.Helper()
	dir := t.TempDir()
	for role, entries := range catalogue.GenerateWildfire(opts) {
		path := filepath.Join(dir, role+".yaml")
		if err := catalogue.WriteFile(path, role, entries); err != nil {
			t.Fatalf("failed to write %s catalogue: %v", role, err)
		}
	}
	return dir
}

func newTestEngine(t *testing.T, opts catalogue.GenerateOptions) *Engine {
	t.Helper()
	eng, err := New(Config{
		CataloguesDir: writeCatalogues(t, opts),
		StatePath:     ":memory:",
		Environment:   "test",
	})
	require.NoError(t, err)
	t.Cleanup(func() { eng.Close() })
	require.NoError(t, eng.Discover())
	return eng
}

func smallOpts() catalogue.GenerateOptions {
	return catalogue.GenerateOptions{Seed: 7, Aircraft: 8, Crews: 8, Supply: 6}
}

// newFixedEngine builds an engine over hand-written catalogue files so
// tests can pin exact aggregate values.
func newFixedEngine(t *testing.T, files map[string]string) *Engine {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	eng, err := New(Config{
		CataloguesDir: dir,
		StatePath:     ":memory:",
		Environment:   "test",
	})
	require.NoError(t, err)
	t.Cleanup(func() { eng.Close() })
	require.NoError(t, eng.Discover())
	return eng
}

// bucketCatalogues holds a design that loses the global frontier on cost
// yet is alone in its area bucket.
func bucketCatalogues() map[string]string {
	return map[string]string{
		"air.yaml": `role: air
implementations:
  - name: heli-small
    provides: {area_ha: 10}
    requires: {cost_usd: 100000, logistics_kg: 100, response_min: 30}
  - name: heli-big
    provides: {area_ha: 100}
    requires: {cost_usd: 200000, logistics_kg: 100, response_min: 30}
`,
		"ground.yaml": `role: ground
implementations:
  - name: crew
    provides: {area_ha: 5}
    requires: {cost_usd: 50000, response_min: 20}
`,
		"supply.yaml": `role: supply
implementations:
  - name: depot
    provides: {logistics_kg: 200}
    requires: {cost_usd: 10000}
`,
	}
}

func TestEngineSolve(t *testing.T) {
	eng := newTestEngine(t, smallOpts())

	result, err := eng.Solve(context.Background(), SolveOptions{})
	require.NoError(t, err)

	assert.Equal(t, int64(10*10*8), result.Candidates)
	assert.Greater(t, result.Feasible, int64(0))
	assert.LessOrEqual(t, int64(result.Set.Len()), result.Feasible)
	assert.Nil(t, result.Buckets, "no partitioning was requested")

	// Every recorded member must satisfy the logistics constraint.
	for _, d := range result.Set.Members() {
		load, _ := d.Requires.Get("logistics_load")
		supply := d.Selection[core.RoleSupply]
		capacity, _ := supply.Provides.Get("logistics_kg")
		assert.GreaterOrEqual(t, capacity, load)
	}

	require.NotNil(t, result.Run)
	recorded, err := eng.Runs().GetSolveRun(result.Run.ID)
	require.NoError(t, err)
	assert.Equal(t, core.SolveRunStatusCompleted, recorded.Status)
	assert.Equal(t, result.Candidates, recorded.Candidates)
	assert.Equal(t, int64(result.Set.Len()), recorded.Frontier)
}

func TestEngineSolveParallelMatchesSerial(t *testing.T) {
	eng := newTestEngine(t, smallOpts())

	serial, err := eng.Solve(context.Background(), SolveOptions{Workers: 1})
	require.NoError(t, err)

	parallel, err := eng.Solve(context.Background(), SolveOptions{Workers: 4})
	require.NoError(t, err)

	assert.Equal(t, serial.Feasible, parallel.Feasible)
	assert.Equal(t, frontierKeys(serial.Set.Members()), frontierKeys(parallel.Set.Members()))
}

func frontierKeys(members []*core.SystemDesign) []string {
	keys := make([]string, 0, len(members))
	for _, d := range members {
		names := d.Selection.Names()
		keys = append(keys, fmt.Sprintf("%s/%s/%s",
			names[core.RoleAir], names[core.RoleGround], names[core.RoleSupply]))
	}
	sort.Strings(keys)
	return keys
}

func TestEngineSolveCancelled(t *testing.T) {
	eng := newTestEngine(t, catalogue.GenerateOptions{Seed: 7, Aircraft: 60, Crews: 60, Supply: 30})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := eng.Solve(ctx, SolveOptions{})
	require.ErrorIs(t, err, context.Canceled, "a cancelled run must not yield a partial frontier")

	latest, err := eng.Runs().GetLatestSolveRun("test")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, core.SolveRunStatusCancelled, latest.Status)
}

func TestEngineSolveAreaBuckets(t *testing.T) {
	eng := newFixedEngine(t, bucketCatalogues())

	result, err := eng.Solve(context.Background(), SolveOptions{
		PartitionQuantity: "area_controlled",
		PartitionWidth:    50,
	})
	require.NoError(t, err)

	// heli-big is globally dominated: same logistics and response, higher
	// cost. The bucket frontiers partition the candidate pool, so it must
	// still win its own area band.
	require.Equal(t, 1, result.Set.Len())
	assert.Equal(t, "heli-small", result.Set.Members()[0].Selection[core.RoleAir].Name)

	require.Len(t, result.Buckets, 2)
	require.Contains(t, result.Buckets, 0.0)
	require.Contains(t, result.Buckets, 100.0)

	big := result.Buckets[100.0].Members()
	require.Len(t, big, 1)
	assert.Equal(t, "heli-big", big[0].Selection[core.RoleAir].Name)
}

func TestEngineSolveAreaBucketsParallelMatchesSerial(t *testing.T) {
	eng := newFixedEngine(t, bucketCatalogues())

	opts := SolveOptions{PartitionQuantity: "area_controlled", PartitionWidth: 50}
	serial, err := eng.Solve(context.Background(), opts)
	require.NoError(t, err)

	opts.Workers = 2
	parallel, err := eng.Solve(context.Background(), opts)
	require.NoError(t, err)

	require.Len(t, parallel.Buckets, len(serial.Buckets))
	for key, set := range serial.Buckets {
		require.Contains(t, parallel.Buckets, key)
		assert.Equal(t, frontierKeys(set.Members()), frontierKeys(parallel.Buckets[key].Members()))
	}
}

func TestEngineQuery(t *testing.T) {
	eng := newTestEngine(t, smallOpts())

	designs, err := eng.Query(context.Background(), core.NewVector(map[string]float64{"area_controlled": 30}), QueryOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, designs)

	for _, d := range designs {
		area, _ := d.Provides.Get("area_controlled")
		assert.GreaterOrEqual(t, area, 30.0)
	}
}

func TestEngineQueryEpsilon(t *testing.T) {
	eng := newFixedEngine(t, map[string]string{
		"air.yaml": `role: air
implementations:
  - name: heli-A
    provides: {area_ha: 10}
    requires: {cost_usd: 100, logistics_kg: 10, response_min: 30}
  - name: heli-B
    provides: {area_ha: 10}
    requires: {cost_usd: 100.4, logistics_kg: 10, response_min: 30}
`,
		"ground.yaml": `role: ground
implementations:
  - name: crew
    provides: {area_ha: 5}
    requires: {cost_usd: 50, response_min: 20}
`,
		"supply.yaml": `role: supply
implementations:
  - name: depot
    provides: {logistics_kg: 20}
    requires: {cost_usd: 10}
`,
	})

	atLeast := core.NewVector(map[string]float64{"area_controlled": 12})

	exact, err := eng.Query(context.Background(), atLeast, QueryOptions{})
	require.NoError(t, err)
	require.Len(t, exact, 1, "heli-A strictly beats heli-B on cost")

	tolerant, err := eng.Query(context.Background(), atLeast, QueryOptions{Epsilon: 0.5})
	require.NoError(t, err)
	assert.Len(t, tolerant, 2, "within tolerance the costs tie and both designs are kept")
}

func TestEngineQueryNoFeasibleDesign(t *testing.T) {
	eng := newTestEngine(t, smallOpts())

	_, err := eng.Query(context.Background(), core.NewVector(map[string]float64{"area_controlled": 1e9}), QueryOptions{})
	require.Error(t, err)

	var nfd *core.NoFeasibleDesignError
	assert.True(t, errors.As(err, &nfd))
}

func TestEngineComposeSelection(t *testing.T) {
	eng := newTestEngine(t, smallOpts())

	// model8/model9 are the generator's anchor entries.
	design, err := eng.ComposeSelection(map[string]string{
		core.RoleAir:    "model8",
		core.RoleGround: "model8",
		core.RoleSupply: "model7",
	})
	require.NoError(t, err)

	cost, ok := design.Requires.Get("total_cost")
	require.True(t, ok)
	assert.Equal(t, 250_000.0+150_000.0+50_000.0, cost)
}

func TestEngineComposeSelectionUnknownImplementation(t *testing.T) {
	eng := newTestEngine(t, smallOpts())

	_, err := eng.ComposeSelection(map[string]string{
		core.RoleAir:    "no-such-heli",
		core.RoleGround: "model0",
		core.RoleSupply: "model0",
	})
	require.Error(t, err)

	var unknown *core.UnknownImplementationError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "no-such-heli", unknown.Name)
}

func TestEngineRequiresDiscover(t *testing.T) {
	eng, err := New(Config{CataloguesDir: t.TempDir()})
	require.NoError(t, err)
	defer eng.Close()

	_, err = eng.Solve(context.Background(), SolveOptions{})
	assert.ErrorContains(t, err, "Discover")
}

func TestEngineDiscoverMissingCatalogues(t *testing.T) {
	eng, err := New(Config{CataloguesDir: filepath.Join(t.TempDir(), "nowhere")})
	require.NoError(t, err)
	defer eng.Close()

	err = eng.Discover()
	assert.ErrorContains(t, err, "catalogues directory")
}

func TestEngineHistoryDisabled(t *testing.T) {
	eng, err := New(Config{
		CataloguesDir: writeCatalogues(t, smallOpts()),
		StatePath:     "",
	})
	require.NoError(t, err)
	defer eng.Close()
	require.NoError(t, eng.Discover())

	result, err := eng.Solve(context.Background(), SolveOptions{})
	require.NoError(t, err)
	assert.Nil(t, result.Run)
	assert.Nil(t, eng.Runs())
}
