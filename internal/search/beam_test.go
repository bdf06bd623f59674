package search

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/formulary/internal/catalogview"
	"github.com/aristath/formulary/internal/domain"
)

func TestBeamGenerator_YieldsEmptyThenExtensions(t *testing.T) {
	catalog := smallCatalog()
	target := domain.Composition{"桂枝": 1.2, "白芍": 1.2, "生薑": 1.2, "大棗": 1.0, "炙甘草": 0.8}
	opts := domain.DefaultOptions()
	opts.MaxCFormulas = 2

	view := catalogview.New(catalog, target, nil)
	ctx := NewSearchContext(view, opts, zerolog.Nop())

	var sawEmpty bool
	var maxLen int
	for m := range (BeamGenerator{}).Generate(ctx) {
		if len(m.Combination) == 0 {
			sawEmpty = true
		}
		if len(m.Combination) > maxLen {
			maxLen = len(m.Combination)
		}
		require.Len(t, m.Dosages, len(m.Combination))
	}
	assert.True(t, sawEmpty)
	assert.LessOrEqual(t, maxLen, opts.MaxCFormulas)
}

func TestBeamGenerator_RetainsTopBeamWidthBetweenLayers(t *testing.T) {
	catalog := smallCatalog()
	target := domain.Composition{"桂枝": 1.2, "白芍": 1.2, "生薑": 1.2, "大棗": 1.0, "炙甘草": 0.8}
	opts := domain.DefaultOptions()
	opts.MaxCFormulas = 2
	opts.TopN = 1
	opts.BeamWidthFactor = 1.0 // beam_width = 1

	view := catalogview.New(catalog, target, nil)
	ctx := NewSearchContext(view, opts, zerolog.Nop())

	var depthOneCount int
	for m := range (BeamGenerator{}).Generate(ctx) {
		if len(m.Combination) == 1 {
			depthOneCount++
		}
	}
	// beam_width=1 means only the single best depth-1 candidate survives
	// the first layer's pruning; depth-1 candidates are yielded only as
	// next-layer survivors, so exactly one reaches the output.
	assert.Equal(t, 1, depthOneCount)
}

func TestBeamGenerator_DedupesWithinLayer(t *testing.T) {
	catalog := smallCatalog()
	target := domain.Composition{"桂枝": 1.2, "白芍": 1.2, "生薑": 1.2, "大棗": 1.0, "炙甘草": 0.8}
	opts := domain.DefaultOptions()
	opts.MaxCFormulas = 2

	view := catalogview.New(catalog, target, nil)
	ctx := NewSearchContext(view, opts, zerolog.Nop())

	seen := make(map[string]int)
	for m := range (BeamGenerator{}).Generate(ctx) {
		seen[domain.MembershipKey(m.Combination)]++
	}
	for key, count := range seen {
		assert.Equal(t, 1, count, "combination %q emitted more than once", key)
	}
}

func TestBeamGenerator_ZeroMaxCFormulasStillYieldsEmptySeed(t *testing.T) {
	catalog := smallCatalog()
	target := domain.Composition{"桂枝": 1.2}
	opts := domain.DefaultOptions()
	opts.MaxCFormulas = 0

	view := catalogview.New(catalog, target, nil)
	ctx := NewSearchContext(view, opts, zerolog.Nop())

	var combos []domain.Combination
	for m := range (BeamGenerator{}).Generate(ctx) {
		combos = append(combos, m.Combination)
	}
	require.Len(t, combos, 1)
	assert.Empty(t, combos[0])
}

func TestExtendGuess_AppendsOne(t *testing.T) {
	got := extendGuess([]float64{2.0, 3.0})
	assert.Equal(t, []float64{2.0, 3.0, 1.0}, got)
}

func TestTopByMatchPct_StableOnTies(t *testing.T) {
	candidates := []beamCandidate{
		{combo: domain.Combination{"a"}, matchPct: 50},
		{combo: domain.Combination{"b"}, matchPct: 50},
		{combo: domain.Combination{"c"}, matchPct: 90},
	}
	top := topByMatchPct(candidates, 2)
	require.Len(t, top, 2)
	assert.Equal(t, domain.Combination{"c"}, top[0].combo)
	assert.Equal(t, domain.Combination{"a"}, top[1].combo)
}
