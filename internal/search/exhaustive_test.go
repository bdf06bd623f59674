package search

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/formulary/internal/catalogview"
	"github.com/aristath/formulary/internal/domain"
)

func smallCatalog() *domain.Catalog {
	c := domain.NewCatalog()
	c.Add("桂枝湯", domain.Composition{"桂枝": 0.6, "白芍": 0.6, "生薑": 0.6, "大棗": 0.5, "炙甘草": 0.4})
	c.Add("桂枝去芍藥湯", domain.Composition{"桂枝": 0.6, "生薑": 0.6, "大棗": 0.5, "炙甘草": 0.4})
	c.Add("麻黃湯", domain.Composition{"麻黃": 0.9, "桂枝": 0.6, "炙甘草": 0.3, "杏仁": 0.5})
	return c
}

func TestExhaustiveGenerator_EnumeratesEveryKUpToMax(t *testing.T) {
	catalog := smallCatalog()
	target := domain.Composition{"桂枝": 1.2, "白芍": 1.2, "生薑": 1.2, "大棗": 1.0, "炙甘草": 0.8}
	opts := domain.DefaultOptions()
	opts.MaxCFormulas = 2

	view := catalogview.New(catalog, target, nil)
	ctx := NewSearchContext(view, opts, zerolog.Nop())

	var sizes []int
	for m := range (ExhaustiveGenerator{}).Generate(ctx) {
		sizes = append(sizes, len(m.Combination))
	}

	// k=0 (empty), k=1 (3 singles-of-cformulas), k=2 (3 pairs) = 7 total,
	// minus any that fail to converge.
	require.NotEmpty(t, sizes)
	hasEmpty := false
	for _, s := range sizes {
		if s == 0 {
			hasEmpty = true
		}
		assert.LessOrEqual(t, s, 2)
	}
	assert.True(t, hasEmpty, "exhaustive must yield the empty combination at k=0")
}

func TestExhaustiveGenerator_HonorsExcludes(t *testing.T) {
	catalog := smallCatalog()
	target := domain.Composition{"桂枝": 1.2, "白芍": 1.2, "生薑": 1.2, "大棗": 1.0, "炙甘草": 0.8}
	opts := domain.DefaultOptions()
	opts.MaxCFormulas = 1
	opts.Excludes = map[string]bool{"桂枝湯": true}

	view := catalogview.New(catalog, target, opts.Excludes)
	ctx := NewSearchContext(view, opts, zerolog.Nop())

	for m := range (ExhaustiveGenerator{}).Generate(ctx) {
		for _, id := range m.Combination {
			assert.NotEqual(t, "桂枝湯", id)
		}
	}
}

func TestEachCombination_SizeZeroYieldsOnlyEmpty(t *testing.T) {
	count := 0
	cont := eachCombination([]string{"a", "b"}, 0, func(c domain.Combination) bool {
		count++
		assert.Empty(t, c)
		return true
	})
	assert.True(t, cont)
	assert.Equal(t, 1, count)
}

func TestEachCombination_EnumeratesAllPairs(t *testing.T) {
	var combos []domain.Combination
	eachCombination([]string{"a", "b", "c"}, 2, func(c domain.Combination) bool {
		combos = append(combos, c.Clone())
		return true
	})
	assert.Len(t, combos, 3)
}
