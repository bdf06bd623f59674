package search

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/formulary/internal/catalogview"
	"github.com/aristath/formulary/internal/domain"
)

func TestEvaluator_EmptyComboReturnsZeroDosages(t *testing.T) {
	catalog := smallCatalog()
	target := domain.Composition{"桂枝": 1.2}
	view := catalogview.New(catalog, target, nil)
	ev := NewEvaluator(view, domain.DefaultOptions(), zerolog.Nop())

	combo, dosages, matchPct, err := ev.Evaluate(domain.Combination{}, nil)
	require.NoError(t, err)
	assert.Empty(t, combo)
	assert.Nil(t, dosages)
	assert.Less(t, matchPct, 100.0)
}

func TestEvaluator_StripsZeroDosageMembers(t *testing.T) {
	catalog := domain.NewCatalog()
	catalog.Add("桂枝湯", domain.Composition{"桂枝": 0.6, "白芍": 0.6, "生薑": 0.6, "大棗": 0.5, "炙甘草": 0.4})
	// Off-target herb that the optimizer should drive to (near) zero dose.
	catalog.Add("無關方", domain.Composition{"無關herb": 1.0})
	target := domain.Composition{"桂枝": 1.2, "白芍": 1.2, "生薑": 1.2, "大棗": 1.0, "炙甘草": 0.8}

	view := catalogview.New(catalog, target, nil)
	opts := domain.DefaultOptions()
	opts.MinSFormulaDose = 0.001
	ev := NewEvaluator(view, opts, zerolog.Nop())

	combo, dosages, _, err := ev.Evaluate(domain.Combination{"桂枝湯", "無關方"}, nil)
	require.NoError(t, err)
	require.Len(t, combo, len(dosages))
	for _, id := range combo {
		assert.NotEqual(t, "無關方", id, "off-target recipe should have been stripped at zero dosage")
	}
}

func TestEvaluator_MemoizesByUnorderedMembership(t *testing.T) {
	catalog := smallCatalog()
	target := domain.Composition{"桂枝": 1.2, "白芍": 1.2, "生薑": 1.2, "大棗": 1.0, "炙甘草": 0.8}
	view := catalogview.New(catalog, target, nil)
	ev := NewEvaluator(view, domain.DefaultOptions(), zerolog.Nop())

	_, _, pct1, err1 := ev.Evaluate(domain.Combination{"桂枝湯", "桂枝去芍藥湯"}, nil)
	require.NoError(t, err1)

	_, _, pct2, err2 := ev.Evaluate(domain.Combination{"桂枝去芍藥湯", "桂枝湯"}, nil)
	require.NoError(t, err2)
	assert.Equal(t, pct1, pct2)
	assert.Len(t, ev.cache, 1)
}

func TestEvaluator_DosagesAlignWithCombination(t *testing.T) {
	catalog := smallCatalog()
	target := domain.Composition{"桂枝": 1.2, "白芍": 1.2, "生薑": 1.2, "大棗": 1.0, "炙甘草": 0.8}
	view := catalogview.New(catalog, target, nil)
	ev := NewEvaluator(view, domain.DefaultOptions(), zerolog.Nop())

	combo, dosages, _, err := ev.Evaluate(domain.Combination{"桂枝湯"}, nil)
	require.NoError(t, err)
	assert.Len(t, dosages, len(combo))
}
