package search

import (
	"iter"

	"github.com/aristath/formulary/internal/domain"
)

// Supplement extends an already-evaluated (combo, dosages) pair with up to
// max_sformulas single-component recipes, chosen to cover the largest
// remaining deficits in the target. It never re-emits the seed combo
// itself (the generator already yielded that); it only emits combinations
// that gained at least one single-recipe member.
func Supplement(ctx *SearchContext, seedCombo domain.Combination, seedDosages []float64) iter.Seq[domain.Match] {
	return func(yield func(domain.Match) bool) {
		if ctx.Opts.MaxSFormulas <= 0 {
			return
		}

		catalog := ctx.View.Catalog()
		target := ctx.View.Target()

		combined := combinedComposition(seedDosages, seedCombo, catalog)
		remaining := remainingComposition(target, combined, ctx.Opts.Places)
		ranked := rankedHerbs(remaining)

		herbIndex := ctx.View.HerbSFormulas()
		var candidateHerbs []string
		for _, h := range ranked {
			if len(herbIndex[h]) > 0 {
				candidateHerbs = append(candidateHerbs, h)
			}
		}

		supplementDFS(ctx, seedCombo, seedDosages, candidateHerbs, 0, yield)
	}
}

func supplementDFS(ctx *SearchContext, combo domain.Combination, dosages []float64, herbs []string, depth int, yield func(domain.Match) bool) bool {
	if depth >= ctx.Opts.MaxSFormulas || depth >= len(herbs) {
		return true
	}

	herbIndex := ctx.View.HerbSFormulas()
	recipes := herbIndex[herbs[depth]]

	for _, r := range recipes {
		if contains(combo, r.ID) {
			continue
		}

		newCombo := append(combo.Clone(), r.ID)
		guess := extendGuess(dosages)
		finalCombo, newDosages, matchPct, err := ctx.Evaluator.Evaluate(newCombo, guess)
		if err != nil {
			ctx.Log.Debug().Err(err).Strs("combination", newCombo).Msg("skipping non-convergent supplement")
			continue
		}

		if !yield(domain.Match{MatchPercentage: matchPct, Combination: finalCombo, Dosages: newDosages}) {
			return false
		}

		if !supplementDFS(ctx, finalCombo, newDosages, herbs, depth+1, yield) {
			return false
		}
	}

	return true
}

func contains(combo domain.Combination, id string) bool {
	for _, existing := range combo {
		if existing == id {
			return true
		}
	}
	return false
}
