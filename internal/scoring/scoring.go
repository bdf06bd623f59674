// Package scoring implements the combined-composition delta and match
// ratio formulas: the numerical heart of the matching engine. Every other
// package treats these functions as pure, stateless, and side-effect free.
package scoring

import (
	"math"

	"github.com/aristath/formulary/internal/domain"
)

// Combine computes the combined composition C = Σᵢ xᵢ · recipe_composition
// for the recipes named by combo, looked up in catalog.
func Combine(x []float64, combo domain.Combination, catalog *domain.Catalog) domain.Composition {
	combined := make(domain.Composition)
	for i, id := range combo {
		comp, ok := catalog.Get(id)
		if !ok {
			continue
		}
		dose := x[i]
		for herb, amount := range comp {
			combined[herb] += dose * amount
		}
	}
	return combined
}

// Delta computes the Euclidean distance, with off-target penalty, between
// the dosage-weighted combination of combo and target:
//
//	delta² = Σ_{h∈target} (target[h] − C[h])²  +  Σ_{h∉target, h∈C} (penaltyFactor·C[h])²
//	delta  = √delta²
//
// The second sum squares the whole penalized amount, not the amount alone:
// a herb absent from the target contributes (penaltyFactor*C[h])², so
// doubling the penalty factor quadruples that herb's contribution to delta².
func Delta(x []float64, combo domain.Combination, catalog *domain.Catalog, target domain.Composition, penaltyFactor float64) float64 {
	combined := Combine(x, combo, catalog)
	return DeltaFromComposition(combined, target, penaltyFactor)
}

// DeltaFromComposition is Delta given an already-combined composition; the
// optimizer's objective/gradient recompute the combination once per
// evaluation and call this directly to avoid doing it twice.
func DeltaFromComposition(combined, target domain.Composition, penaltyFactor float64) float64 {
	return math.Sqrt(deltaSquared(combined, target, penaltyFactor))
}

func deltaSquared(combined, target domain.Composition, penaltyFactor float64) float64 {
	sum := 0.0
	for herb, t := range target {
		diff := t - combined[herb]
		sum += diff * diff
	}
	for herb, c := range combined {
		if _, inTarget := target[herb]; inTarget {
			continue
		}
		penalized := penaltyFactor * c
		sum += penalized * penalized
	}
	return sum
}

// Variance is the L2 norm of the target composition, used as delta's
// normalizer: √Σ tᵢ².
func Variance(target domain.Composition) float64 {
	sum := 0.0
	for _, t := range target {
		sum += t * t
	}
	return math.Sqrt(sum)
}

// MatchRatio returns 1 − delta/variance, or 1 when variance is 0 (an empty
// target matches trivially). The ratio may be negative.
func MatchRatio(delta, variance float64) float64 {
	if variance > 0 {
		return 1 - delta/variance
	}
	return 1
}

// MatchPercentage scales MatchRatio by 100.
func MatchPercentage(delta, variance float64) float64 {
	return 100 * MatchRatio(delta, variance)
}
