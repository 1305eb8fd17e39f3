package selector

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-sun/exhibit/internal/engine/taxonomy"
	"github.com/crimson-sun/exhibit/internal/model"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func defaultTaxonomy(t *testing.T) *taxonomy.Taxonomy {
	t.Helper()
	tax, err := taxonomy.Default()
	require.NoError(t, err)
	return tax
}

func TestSelectDistinctAndBounded(t *testing.T) {
	tax := defaultTaxonomy(t)

	bounds := map[model.PoolKind][2]int{
		model.PoolFact:     {2, 3},
		model.PoolItem:     {3, 5},
		model.PoolFarewell: {1, 1},
	}

	for seed := uint64(0); seed < 50; seed++ {
		s := New(tax, seeded(seed))
		for _, c := range tax.Categories() {
			for kind, b := range bounds {
				sel, err := s.Select(c, kind, b[0], b[1])
				require.NoError(t, err)

				size, _ := tax.PoolSize(sel.Source, kind)
				lo, hi := min(b[0], size), min(b[1], size)
				n := len(sel.Indices)
				assert.GreaterOrEqual(t, n, lo, "%s/%s", c, kind)
				assert.LessOrEqual(t, n, hi, "%s/%s", c, kind)

				seen := map[int]bool{}
				for _, idx := range sel.Indices {
					require.False(t, seen[idx], "%s/%s: duplicate index %d", c, kind, idx)
					seen[idx] = true
				}
			}
		}
	}
}

func TestSelectFallsBackToGeneral(t *testing.T) {
	tax := defaultTaxonomy(t)
	s := New(tax, seeded(1))

	sel, err := s.Select(model.Portable, model.PoolItem, 3, 5)
	require.NoError(t, err)
	assert.Equal(t, model.General, sel.Source)
	assert.True(t, sel.Fallback)

	sel, err = s.Select(model.General, model.PoolItem, 3, 5)
	require.NoError(t, err)
	assert.Equal(t, model.General, sel.Source)
	assert.False(t, sel.Fallback, "a general classification is not a fallback")

	sel, err = s.Select("zx_spectrum", model.PoolFact, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, model.General, sel.Source)
	assert.True(t, sel.Fallback)
}

func TestSelectClampsToPoolSize(t *testing.T) {
	tax, err := taxonomy.New([]model.TaxonomyEntry{
		{Category: model.Club, Keywords: []string{"club"}, Facts: []string{"a", "b"}},
		{
			Category:  model.General,
			Facts:     []string{"g"},
			Items:     []model.ItemTemplate{{Name: "i"}},
			Farewells: []string{"bye"},
		},
	})
	require.NoError(t, err)

	s := New(tax, seeded(7))
	facts, sel, err := s.Facts(model.Club, 3, 5)
	require.NoError(t, err)
	assert.Len(t, facts, 2)
	assert.ElementsMatch(t, []string{"a", "b"}, facts)
	assert.False(t, sel.Fallback)
}

func TestSelectNormalisesBounds(t *testing.T) {
	tax := defaultTaxonomy(t)
	s := New(tax, seeded(3))

	sel, err := s.Select(model.Amiga, model.PoolFact, 4, 2)
	require.NoError(t, err)
	assert.Len(t, sel.Indices, 4)

	sel, err = s.Select(model.Amiga, model.PoolFact, -3, 0)
	require.NoError(t, err)
	assert.Empty(t, sel.Indices)
}

func TestFarewellDrawsOne(t *testing.T) {
	tax := defaultTaxonomy(t)
	s := New(tax, seeded(11))

	entry, _ := tax.Entry(model.Commodore)
	line, sel, err := s.Farewell(model.Commodore)
	require.NoError(t, err)
	assert.Contains(t, entry.Farewells, line)
	assert.Len(t, sel.Indices, 1)

	// amiga has no farewell pool of its own
	line, sel, err = s.Farewell(model.Amiga)
	require.NoError(t, err)
	general, _ := tax.Entry(model.General)
	assert.Contains(t, general.Farewells, line)
	assert.True(t, sel.Fallback)
}

func TestFactsComeFromOwnPool(t *testing.T) {
	tax := defaultTaxonomy(t)
	amiga, _ := tax.Entry(model.Amiga)
	commodore, _ := tax.Entry(model.Commodore)

	for seed := uint64(0); seed < 20; seed++ {
		facts, _, err := New(tax, seeded(seed)).Facts(model.Amiga, 2, 3)
		require.NoError(t, err)
		for _, f := range facts {
			assert.Contains(t, amiga.Facts, f)
			assert.NotContains(t, commodore.Facts, f)
		}
	}
}

func TestSelectReproducibleWithSeed(t *testing.T) {
	tax := defaultTaxonomy(t)

	a, _, err := New(tax, seeded(42)).Items(model.Atari, 3, 5)
	require.NoError(t, err)
	b, _, err := New(tax, seeded(42)).Items(model.Atari, 3, 5)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSelectHugeBounds(t *testing.T) {
	tax := defaultTaxonomy(t)
	size, _ := tax.PoolSize(model.Amiga, model.PoolFact)

	tests := []struct {
		name       string
		kMin, kMax int
		wantMin    int
	}{
		{"max upper bound", 0, math.MaxInt, 0},
		{"both max", math.MaxInt, math.MaxInt, size},
		{"min above pool", size + 1, math.MaxInt, size},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := uint64(0); seed < 20; seed++ {
				sel, err := New(tax, seeded(seed)).Select(model.Amiga, model.PoolFact, tt.kMin, tt.kMax)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, len(sel.Indices), tt.wantMin)
				assert.LessOrEqual(t, len(sel.Indices), size)
			}
		})
	}
}
