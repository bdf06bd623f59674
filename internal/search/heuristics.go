package search

import (
	"sort"

	"github.com/aristath/formulary/internal/domain"
	"github.com/aristath/formulary/internal/scoring"
)

// remainingComposition computes target − combined, rounds each amount to
// places decimals, and keeps only strictly positive entries — the shared
// "deficit" calculation used by both beam's heuristic pool and the
// single-recipe supplement stage.
func remainingComposition(target, combined domain.Composition, places int) domain.Composition {
	remaining := make(domain.Composition)
	for herb, t := range target {
		r := roundOne(t-combined[herb], places)
		if r > 0 {
			remaining[herb] = r
		}
	}
	return remaining
}

func roundOne(v float64, places int) float64 {
	out := roundAll([]float64{v}, places)
	return out[0]
}

// rankedHerbs sorts remaining's keys by descending amount. Ties keep an
// arbitrary-but-stable order (herb name) so results are reproducible.
func rankedHerbs(remaining domain.Composition) []string {
	herbs := make([]string, 0, len(remaining))
	for h := range remaining {
		herbs = append(herbs, h)
	}
	sort.Slice(herbs, func(i, j int) bool {
		if remaining[herbs[i]] != remaining[herbs[j]] {
			return remaining[herbs[i]] > remaining[herbs[j]]
		}
		return herbs[i] < herbs[j]
	})
	return herbs
}

// mainHerbs picks the minimal descending-sorted prefix of rankedHerbs whose
// cumulative weight divided by the total weight is >= threshold.
func mainHerbs(ranked []string, remaining domain.Composition, threshold float64) map[string]bool {
	total := 0.0
	for _, h := range ranked {
		total += remaining[h]
	}
	main := make(map[string]bool)
	if total <= 0 {
		return main
	}
	cumulative := 0.0
	for _, h := range ranked {
		cumulative += remaining[h]
		main[h] = true
		if cumulative/total >= threshold {
			break
		}
	}
	return main
}

// heuristicPool scores each candidate recipe by the fraction of its amount
// that falls on main herbs, and keeps the top poolSize by that score
// (stable on ties, preserving candidates' natural catalog order).
func heuristicPool(candidates []domain.Recipe, main map[string]bool, poolSize int) []domain.Recipe {
	type scored struct {
		recipe domain.Recipe
		score  float64
		order  int
	}
	scoredRecipes := make([]scored, len(candidates))
	for i, r := range candidates {
		var onMain, totalAmount float64
		for herb, amount := range r.Composition {
			totalAmount += amount
			if main[herb] {
				onMain += amount
			}
		}
		score := 0.0
		if totalAmount > 0 {
			score = onMain / totalAmount
		}
		scoredRecipes[i] = scored{recipe: r, score: score, order: i}
	}
	sort.SliceStable(scoredRecipes, func(i, j int) bool {
		return scoredRecipes[i].score > scoredRecipes[j].score
	})
	if poolSize > len(scoredRecipes) {
		poolSize = len(scoredRecipes)
	}
	out := make([]domain.Recipe, poolSize)
	for i := 0; i < poolSize; i++ {
		out[i] = scoredRecipes[i].recipe
	}
	return out
}

// combinedComposition is a thin re-export of scoring.Combine so callers in
// this package don't need to reach into internal/scoring for the common
// (dosages, combo) -> composition step.
func combinedComposition(dosages []float64, combo domain.Combination, catalog *domain.Catalog) domain.Composition {
	return scoring.Combine(dosages, combo, catalog)
}
