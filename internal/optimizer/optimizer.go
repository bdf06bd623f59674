// Package optimizer solves the per-combination bound-constrained nonlinear
// least-distance problem: find dosages that minimize delta against a target
// composition. It runs a two-tier solve — a gradient-based solver first,
// a gradient-free fallback second — so a bad Hessian estimate on one
// combination doesn't cost the whole search.
package optimizer

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/optimize"

	"github.com/aristath/formulary/internal/domain"
	"github.com/aristath/formulary/internal/scoring"
	"github.com/aristath/formulary/internal/utils"
)

var successStatuses = map[optimize.Status]bool{
	optimize.Success:             true,
	optimize.GradientThreshold:   true,
	optimize.FunctionConvergence: true,
}

// Bounds holds the per-index lower/upper dose limits for a combination.
type Bounds struct {
	Lower []float64
	Upper []float64
}

// BoundsFor builds a Bounds for combo, classifying each member single vs
// complex against catalog and applying the matching dose range from opts.
func BoundsFor(combo domain.Combination, catalog *domain.Catalog, opts domain.Options) Bounds {
	lower := make([]float64, len(combo))
	upper := make([]float64, len(combo))
	for i, id := range combo {
		comp, _ := catalog.Get(id)
		if len(comp) == 1 {
			lower[i] = opts.MinSFormulaDose
			upper[i] = opts.MaxSFormulaDose
		} else {
			lower[i] = opts.MinCFormulaDose
			upper[i] = opts.MaxCFormulaDose
		}
	}
	return Bounds{Lower: lower, Upper: upper}
}

// project clamps x into bounds. gonum's BFGS and Nelder-Mead are both
// unconstrained, so bounds are enforced by projecting before every
// objective/gradient evaluation rather than passed to the solver.
func project(x []float64, b Bounds) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		switch {
		case v < b.Lower[i]:
			out[i] = b.Lower[i]
		case v > b.Upper[i]:
			out[i] = b.Upper[i]
		default:
			out[i] = v
		}
	}
	return out
}

// FindBestDosages minimizes delta(x) over x ∈ Π[lower_i, upper_i] for the
// given combination, starting from initial (or a ones vector if initial is
// nil or the wrong length). Returns the optimized dosages and resulting
// delta, or ErrOptimizerNonConvergent if neither solver tier converges.
func FindBestDosages(
	combo domain.Combination,
	catalog *domain.Catalog,
	target domain.Composition,
	penaltyFactor float64,
	bounds Bounds,
	initial []float64,
	places int,
	log zerolog.Logger,
) ([]float64, float64, error) {
	n := len(combo)
	if n == 0 {
		return nil, scoring.DeltaFromComposition(domain.Composition{}, target, penaltyFactor), nil
	}

	defer utils.OperationTimer("optimizer.find_best_dosages", log)()

	start := make([]float64, n)
	if len(initial) == n {
		copy(start, initial)
	} else {
		for i := range start {
			start[i] = 1.0
		}
	}
	start = project(start, bounds)

	objective := func(x []float64) float64 {
		px := project(x, bounds)
		combined := scoring.Combine(px, combo, catalog)
		d := scoring.DeltaFromComposition(combined, target, penaltyFactor)
		return d * d
	}

	gradient := func(grad, x []float64) {
		px := project(x, bounds)
		combined := scoring.Combine(px, combo, catalog)
		for i, id := range combo {
			comp, _ := catalog.Get(id)
			grad[i] = partialDerivative(combined, target, comp, penaltyFactor)
			if px[i] != x[i] {
				// clamped at this coordinate
				grad[i] = 0
			}
		}
	}

	problem := optimize.Problem{Func: objective, Grad: gradient}

	ftol := math.Pow(10, -float64(places)-2)
	settings := &optimize.Settings{
		GradientThreshold: ftol,
	}

	result, err := optimize.Minimize(problem, start, settings, &optimize.BFGS{})
	if err == nil && result != nil && successStatuses[result.Status] {
		px := project(result.X, bounds)
		delta := scoring.Delta(px, combo, catalog, target, penaltyFactor)
		return px, delta, nil
	}

	log.Debug().
		Str("component", "optimizer").
		Strs("combination", combo).
		Msg("BFGS did not converge, retrying with Nelder-Mead")

	result, err = optimize.Minimize(problem, start, settings, &optimize.NelderMead{})
	if err == nil && result != nil && successStatuses[result.Status] {
		px := project(result.X, bounds)
		delta := scoring.Delta(px, combo, catalog, target, penaltyFactor)
		return px, delta, nil
	}

	log.Debug().
		Str("component", "optimizer").
		Strs("combination", combo).
		Msg("optimizer did not converge")
	return nil, 0, fmt.Errorf("%w: combination %v", domain.ErrOptimizerNonConvergent, combo)
}

// partialDerivative computes ∂(delta²)/∂x_i analytically via the chain
// rule: delta² is a sum of squared linear terms in x_i through the
// combined composition, so each herb's contribution differentiates to a
// simple linear term scaled by that recipe's amount of the herb.
func partialDerivative(combined, target, recipeComp domain.Composition, penaltyFactor float64) float64 {
	d := 0.0
	for herb, amount := range recipeComp {
		if amount == 0 {
			continue
		}
		if t, inTarget := target[herb]; inTarget {
			diff := t - combined[herb]
			d += -2 * diff * amount
		} else {
			penalized := penaltyFactor * combined[herb]
			d += 2 * penalized * penaltyFactor * amount
		}
	}
	return d
}
