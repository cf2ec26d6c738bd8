package catalogue

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Synthetic wildfire catalogue generation. More area and faster response
// both drive cost and logistics load up; a couple of anchor entries shape
// the extremes of the front. Deterministic for a fixed seed.

// GenerateOptions controls synthetic catalogue generation.
type GenerateOptions struct {
	Seed     int64
	Aircraft int
	Crews    int
	Supply   int
}

// DefaultGenerateOptions mirrors the published wildfire catalogue sizes.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{Seed: 7, Aircraft: 100, Crews: 100, Supply: 40}
}

// GenerateWildfire produces the three wildfire role catalogues keyed by role.
func GenerateWildfire(opts GenerateOptions) map[string][]Entry {
	rng := rand.New(rand.NewSource(opts.Seed))
	return map[string][]Entry{
		"air":    generateAircraft(rng, opts.Aircraft),
		"ground": generateCrews(rng, opts.Crews),
		"supply": generateSupply(rng, opts.Supply),
	}
}

func generateAircraft(rng *rand.Rand, n int) []Entry {
	areaBins := []float64{10, 15, 20, 25, 30, 35, 40, 45, 50}
	timeBins := []float64{6, 8, 10, 12, 15, 18, 22, 26, 30}

	entries := make([]Entry, 0, n+2)
	for i := 0; i < n; i++ {
		area := pick(rng, areaBins)
		t := pick(rng, timeBins)

		cost := 150_000 + area*25_000 + maxf(0, 22-t)*40_000 + jitter(rng, 25_000)
		load := 1_200 + area*55 + maxf(0, 22-t)*95 + jitter(rng, 200)

		entries = append(entries, Entry{
			Name:     fmt.Sprintf("model%d", i),
			Provides: map[string]float64{"area_ha": area},
			Requires: map[string]float64{
				"cost_usd":     maxf(float64(int(cost)), 120_000),
				"logistics_kg": maxf(float64(int(load)), 500),
				"response_min": t,
			},
		})
	}

	// Anchors: a slow cheap option and a fast expensive heavy one.
	entries = append(entries,
		Entry{
			Name:     fmt.Sprintf("model%d", n),
			Provides: map[string]float64{"area_ha": 10},
			Requires: map[string]float64{"cost_usd": 250_000, "logistics_kg": 1_500, "response_min": 30},
		},
		Entry{
			Name:     fmt.Sprintf("model%d", n+1),
			Provides: map[string]float64{"area_ha": 50},
			Requires: map[string]float64{"cost_usd": 2_000_000, "logistics_kg": 7_000, "response_min": 6},
		},
	)
	return entries
}

func generateCrews(rng *rand.Rand, n int) []Entry {
	areaBins := []float64{20, 30, 40, 50, 60, 70, 80, 90, 100, 110, 120}
	timeBins := []float64{10, 15, 18, 20, 25, 30, 35, 40, 45, 60}

	entries := make([]Entry, 0, n+2)
	for i := 0; i < n; i++ {
		area := pick(rng, areaBins)
		t := pick(rng, timeBins)

		cost := 80_000 + area*6_500 + maxf(0, 45-t)*8_000 + jitter(rng, 12_000)

		entries = append(entries, Entry{
			Name:     fmt.Sprintf("model%d", i),
			Provides: map[string]float64{"area_ha": area},
			Requires: map[string]float64{
				"cost_usd":     maxf(float64(int(cost)), 60_000),
				"response_min": t,
			},
		})
	}

	entries = append(entries,
		Entry{
			Name:     fmt.Sprintf("model%d", n),
			Provides: map[string]float64{"area_ha": 20},
			Requires: map[string]float64{"cost_usd": 150_000, "response_min": 60},
		},
		Entry{
			Name:     fmt.Sprintf("model%d", n+1),
			Provides: map[string]float64{"area_ha": 120},
			Requires: map[string]float64{"cost_usd": 1_050_000, "response_min": 10},
		},
	)
	return entries
}

func generateSupply(rng *rand.Rand, n int) []Entry {
	loadBins := []float64{1_000, 1_500, 2_000, 2_500, 3_000, 4_000, 5_000, 6_000, 7_000}

	entries := make([]Entry, 0, n+2)
	for i := 0; i < n; i++ {
		load := pick(rng, loadBins)
		cost := 20_000 + load*18 + jitter(rng, 3_000)

		entries = append(entries, Entry{
			Name:     fmt.Sprintf("model%d", i),
			Provides: map[string]float64{"logistics_kg": load},
			Requires: map[string]float64{"cost_usd": maxf(float64(int(cost)), 10_000)},
		})
	}

	entries = append(entries,
		Entry{
			Name:     fmt.Sprintf("model%d", n),
			Provides: map[string]float64{"logistics_kg": 2_000},
			Requires: map[string]float64{"cost_usd": 50_000},
		},
		Entry{
			Name:     fmt.Sprintf("model%d", n+1),
			Provides: map[string]float64{"logistics_kg": 6_000},
			Requires: map[string]float64{"cost_usd": 50_000},
		},
	)
	return entries
}

// WriteFile writes a role's catalogue to a YAML file in the on-disk schema.
func WriteFile(path, role string, entries []Entry) error {
	f := catalogueFileYAML{Role: role, Implementations: make([]entryYAML, len(entries))}
	for i, e := range entries {
		f.Implementations[i] = entryYAML{Name: e.Name, Provides: e.Provides, Requires: e.Requires}
	}

	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("failed to marshal catalogue: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create catalogues directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write catalogue file: %w", err)
	}
	return nil
}

func pick(rng *rand.Rand, bins []float64) float64 {
	return bins[rng.Intn(len(bins))]
}

// jitter returns a uniform integer offset in [-n, n].
func jitter(rng *rand.Rand, n int) float64 {
	return float64(rng.Intn(2*n+1) - n)
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
