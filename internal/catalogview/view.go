// Package catalogview derives, once per query, the recipe partitions and
// cached scalar properties the search strategies need: complex recipes,
// single recipes, the per-herb single-recipe index, and the target's
// variance. Everything here is computed lazily and memoized on first call
// with plain init-once fields rather than sync.Once (a View belongs to
// exactly one query, one goroutine).
package catalogview

import (
	"github.com/aristath/formulary/internal/domain"
	"github.com/aristath/formulary/internal/scoring"
)

// View derives the recipe partitions relevant to one query's target and
// excludes set. It is built once per query and discarded afterward.
type View struct {
	catalog  *domain.Catalog
	target   domain.Composition
	excludes map[string]bool

	cformulas     []domain.Recipe
	cformulasDone bool

	sformulas     []domain.Recipe
	sformulasDone bool

	herbSformulas     map[string][]domain.Recipe
	herbSformulasDone bool

	variance     float64
	varianceDone bool
}

// New builds a View over catalog for the given target and excludes set.
// excludes may be nil.
func New(catalog *domain.Catalog, target domain.Composition, excludes map[string]bool) *View {
	return &View{catalog: catalog, target: target, excludes: excludes}
}

func (v *View) isExcluded(id string) bool {
	return v.excludes != nil && v.excludes[id]
}

// sharesComponent reports whether comp has at least one key present in the
// view's target composition.
func (v *View) sharesComponent(comp domain.Composition) bool {
	for herb := range comp {
		if _, ok := v.target[herb]; ok {
			return true
		}
	}
	return false
}

// CFormulas returns complex recipes (>1 component) that are not excluded
// and share at least one component with the target, in catalog order.
func (v *View) CFormulas() []domain.Recipe {
	if v.cformulasDone {
		return v.cformulas
	}
	for _, recipe := range v.catalog.Recipes() {
		if recipe.IsSingle() {
			continue
		}
		if v.isExcluded(recipe.ID) {
			continue
		}
		if !v.sharesComponent(recipe.Composition) {
			continue
		}
		v.cformulas = append(v.cformulas, recipe)
	}
	v.cformulasDone = true
	return v.cformulas
}

// SFormulas returns single recipes (exactly 1 component) that are not
// excluded and share that component with the target, in catalog order.
func (v *View) SFormulas() []domain.Recipe {
	if v.sformulasDone {
		return v.sformulas
	}
	for _, recipe := range v.catalog.Recipes() {
		if !recipe.IsSingle() {
			continue
		}
		if v.isExcluded(recipe.ID) {
			continue
		}
		if !v.sharesComponent(recipe.Composition) {
			continue
		}
		v.sformulas = append(v.sformulas, recipe)
	}
	v.sformulasDone = true
	return v.sformulas
}

// HerbSFormulas maps a component to the ordered list of single recipes
// whose sole component equals it, restricted to SFormulas.
func (v *View) HerbSFormulas() map[string][]domain.Recipe {
	if v.herbSformulasDone {
		return v.herbSformulas
	}
	v.herbSformulas = make(map[string][]domain.Recipe)
	for _, recipe := range v.SFormulas() {
		for herb := range recipe.Composition {
			v.herbSformulas[herb] = append(v.herbSformulas[herb], recipe)
			break
		}
	}
	v.herbSformulasDone = true
	return v.herbSformulas
}

// Variance is the L2 norm of the target composition, cached for the life
// of the view.
func (v *View) Variance() float64 {
	if v.varianceDone {
		return v.variance
	}
	v.variance = scoring.Variance(v.target)
	v.varianceDone = true
	return v.variance
}

// Target returns the query's target composition.
func (v *View) Target() domain.Composition {
	return v.target
}

// Catalog returns the underlying catalog.
func (v *View) Catalog() *domain.Catalog {
	return v.catalog
}
