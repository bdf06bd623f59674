package optimizer

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/formulary/internal/domain"
)

func testCatalog() *domain.Catalog {
	c := domain.NewCatalog()
	c.Add("桂枝湯", domain.Composition{"桂枝": 0.6, "白芍": 0.6, "生薑": 0.6, "大棗": 0.5, "炙甘草": 0.4})
	c.Add("桂枝去芍藥湯", domain.Composition{"桂枝": 0.6, "生薑": 0.6, "大棗": 0.5, "炙甘草": 0.4})
	return c
}

func TestBoundsFor_ClassifiesSingleVsComplex(t *testing.T) {
	catalog := domain.NewCatalog()
	catalog.Add("single", domain.Composition{"桂枝": 1})
	catalog.Add("complex", domain.Composition{"桂枝": 1, "白芍": 1})
	opts := domain.DefaultOptions()

	bounds := BoundsFor(domain.Combination{"single", "complex"}, catalog, opts)
	assert.Equal(t, opts.MinSFormulaDose, bounds.Lower[0])
	assert.Equal(t, opts.MaxSFormulaDose, bounds.Upper[0])
	assert.Equal(t, opts.MinCFormulaDose, bounds.Lower[1])
	assert.Equal(t, opts.MaxCFormulaDose, bounds.Upper[1])
}

func TestProject_ClampsToBounds(t *testing.T) {
	b := Bounds{Lower: []float64{0, 1}, Upper: []float64{10, 5}}
	got := project([]float64{-1, 20}, b)
	assert.Equal(t, []float64{0, 5}, got)
}

func TestFindBestDosages_EmptyCombinationReturnsImmediately(t *testing.T) {
	target := domain.Composition{"桂枝": 1.2}
	dosages, delta, err := FindBestDosages(nil, testCatalog(), target, 2.0, Bounds{}, nil, 1, zerolog.Nop())
	require.NoError(t, err)
	assert.Nil(t, dosages)
	assert.InDelta(t, 1.2, delta, 1e-9)
}

func TestFindBestDosages_ConvergesOnExactMatch(t *testing.T) {
	catalog := testCatalog()
	target := domain.Composition{"桂枝": 1.2, "白芍": 1.2, "生薑": 1.2, "大棗": 1.0, "炙甘草": 0.8}
	combo := domain.Combination{"桂枝湯"}
	opts := domain.DefaultOptions()
	bounds := BoundsFor(combo, catalog, opts)

	dosages, delta, err := FindBestDosages(combo, catalog, target, opts.PenaltyFactor, bounds, nil, opts.Places, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, dosages, 1)
	assert.InDelta(t, 2.0, dosages[0], 0.05)
	assert.Less(t, delta, 0.1)
}
