package catalogue

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firelinelabs/tradespace/pkg/core"
)

func TestGenerateWildfireDeterministic(t *testing.T) {
	opts := GenerateOptions{Seed: 7, Aircraft: 10, Crews: 10, Supply: 5}

	first := GenerateWildfire(opts)
	second := GenerateWildfire(opts)
	assert.Equal(t, first, second, "same seed must reproduce the same catalogues")

	other := GenerateWildfire(GenerateOptions{Seed: 8, Aircraft: 10, Crews: 10, Supply: 5})
	assert.NotEqual(t, first["air"], other["air"])
}

func TestGenerateWildfireShape(t *testing.T) {
	opts := DefaultGenerateOptions()
	cats := GenerateWildfire(opts)

	// Each role carries its anchor pair beyond the requested count.
	assert.Len(t, cats["air"], opts.Aircraft+2)
	assert.Len(t, cats["ground"], opts.Crews+2)
	assert.Len(t, cats["supply"], opts.Supply+2)
}

func TestGeneratedCataloguesValidate(t *testing.T) {
	cats := GenerateWildfire(GenerateOptions{Seed: 7, Aircraft: 20, Crews: 20, Supply: 10})

	s := NewStore(core.WildfireModel())
	for role, entries := range cats {
		require.NoError(t, s.Load(role, entries), "generated catalogue for %s must validate", role)
	}
	assert.NoError(t, s.Complete())
}

func TestWriteFileRoundTrip(t *testing.T) {
	cats := GenerateWildfire(GenerateOptions{Seed: 7, Aircraft: 5, Crews: 5, Supply: 3})
	path := filepath.Join(t.TempDir(), "air.yaml")

	require.NoError(t, WriteFile(path, "air", cats["air"]))

	role, entries, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "air", role)
	assert.Equal(t, cats["air"], entries)
}
