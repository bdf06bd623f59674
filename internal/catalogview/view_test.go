package catalogview

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aristath/formulary/internal/domain"
)

func fixtureCatalog() *domain.Catalog {
	c := domain.NewCatalog()
	c.Add("桂枝湯", domain.Composition{"桂枝": 0.6, "白芍": 0.6, "生薑": 0.6, "大棗": 0.5, "炙甘草": 0.4})
	c.Add("桂枝去芍藥湯", domain.Composition{"桂枝": 0.6, "生薑": 0.6, "大棗": 0.5, "炙甘草": 0.4})
	c.Add("麻黃湯", domain.Composition{"麻黃": 0.9, "桂枝": 0.6, "炙甘草": 0.3, "杏仁": 0.5})
	c.Add("桂枝", domain.Composition{"桂枝": 1})
	c.Add("白芍", domain.Composition{"白芍": 1})
	c.Add("無關", domain.Composition{"無關herb": 1})
	return c
}

func TestView_CFormulas_FiltersSingleAndUnrelated(t *testing.T) {
	target := domain.Composition{"桂枝": 1.2, "白芍": 1.2, "生薑": 1.2, "大棗": 1.0, "炙甘草": 0.8}
	v := New(fixtureCatalog(), target, nil)

	var ids []string
	for _, r := range v.CFormulas() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"桂枝湯", "桂枝去芍藥湯", "麻黃湯"}, ids)
}

func TestView_CFormulas_HonorsExcludes(t *testing.T) {
	target := domain.Composition{"桂枝": 1.2, "白芍": 1.2, "生薑": 1.2, "大棗": 1.0, "炙甘草": 0.8}
	excludes := map[string]bool{"桂枝湯": true}
	v := New(fixtureCatalog(), target, excludes)

	for _, r := range v.CFormulas() {
		assert.NotEqual(t, "桂枝湯", r.ID)
	}
}

func TestView_SFormulas_OnlySingleSharingTarget(t *testing.T) {
	target := domain.Composition{"桂枝": 1.2, "白芍": 1.2}
	v := New(fixtureCatalog(), target, nil)

	var ids []string
	for _, r := range v.SFormulas() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"桂枝", "白芍"}, ids)
}

func TestView_HerbSFormulas_IndexesBySoleComponent(t *testing.T) {
	target := domain.Composition{"桂枝": 1.2, "白芍": 1.2}
	v := New(fixtureCatalog(), target, nil)

	idx := v.HerbSFormulas()
	_, ok := idx["桂枝"]
	assert.True(t, ok)
	assert.Equal(t, "桂枝", idx["桂枝"][0].ID)
}

func TestView_Variance_MatchesL2Norm(t *testing.T) {
	target := domain.Composition{"a": 3, "b": 4}
	v := New(domain.NewCatalog(), target, nil)
	assert.InDelta(t, 5.0, v.Variance(), 1e-9)
}

func TestView_EmptyTargetYieldsEmptyViews(t *testing.T) {
	v := New(fixtureCatalog(), domain.Composition{}, nil)
	assert.Empty(t, v.CFormulas())
	assert.Empty(t, v.SFormulas())
	assert.Equal(t, 0.0, v.Variance())
}

func TestView_MemoizesAcrossCalls(t *testing.T) {
	target := domain.Composition{"桂枝": 1.2}
	v := New(fixtureCatalog(), target, nil)
	first := v.CFormulas()
	second := v.CFormulas()
	assert.Equal(t, len(first), len(second))
}
