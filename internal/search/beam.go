package search

import (
	"iter"
	"math"
	"sort"

	"github.com/aristath/formulary/internal/domain"
)

// BeamGenerator is a layered best-first expansion of cformulas, pruned at
// each layer first by a heuristic "main herbs" pool (which candidate
// recipes are even worth trying) and then by match percentage (which
// extended combinations survive to the next layer). It is an efficient
// heuristic approximation; exhaustive remains the correctness oracle.
type BeamGenerator struct{}

type beamCandidate struct {
	combo    domain.Combination
	dosages  []float64
	matchPct float64
}

// Generate implements Generator.
func (BeamGenerator) Generate(ctx *SearchContext) iter.Seq[domain.Match] {
	return func(yield func(domain.Match) bool) {
		recipes := ctx.View.CFormulas()
		catalog := ctx.View.Catalog()
		target := ctx.View.Target()
		opts := ctx.Opts

		beamWidth := opts.BeamWidth()
		poolSize := int(math.Ceil(float64(beamWidth) * opts.BeamMultiplier))

		frontier := []beamCandidate{{combo: domain.Combination{}, dosages: nil, matchPct: 100.0}}

		// No complex layers to expand: still surface the empty seed so the
		// supplement stage downstream has something to extend.
		if opts.MaxCFormulas == 0 {
			yield(domain.Match{MatchPercentage: 100.0, Combination: domain.Combination{}, Dosages: nil})
			return
		}

		for depth := 0; depth < opts.MaxCFormulas; depth++ {
			isFinalDepth := depth == opts.MaxCFormulas-1

			var extended []beamCandidate
			layerSeen := make(map[string]bool)

			for _, cand := range frontier {
				if !yield(domain.Match{MatchPercentage: cand.matchPct, Combination: cand.combo, Dosages: cand.dosages}) {
					return
				}

				candidates := candidateRecipes(recipes, cand.combo)
				if opts.BeamMultiplier > 0 {
					combined := combinedComposition(cand.dosages, cand.combo, catalog)
					remaining := remainingComposition(target, combined, opts.Places)
					ranked := rankedHerbs(remaining)
					main := mainHerbs(ranked, remaining, opts.MainHerbThreshold)
					candidates = heuristicPool(candidates, main, poolSize)
				}

				for _, r := range candidates {
					newCombo := append(cand.combo.Clone(), r.ID)
					key := domain.MembershipKey(newCombo)
					if layerSeen[key] {
						continue
					}
					layerSeen[key] = true

					guess := extendGuess(cand.dosages)
					finalCombo, dosages, matchPct, err := ctx.Evaluator.Evaluate(newCombo, guess)
					if err != nil {
						ctx.Log.Debug().Err(err).Strs("combination", newCombo).Msg("skipping non-convergent combination")
						continue
					}
					extended = append(extended, beamCandidate{combo: finalCombo, dosages: dosages, matchPct: matchPct})
				}
			}

			if isFinalDepth {
				for _, c := range extended {
					if !yield(domain.Match{MatchPercentage: c.matchPct, Combination: c.combo, Dosages: c.dosages}) {
						return
					}
				}
				return
			}

			frontier = topByMatchPct(extended, beamWidth)
		}
	}
}

// candidateRecipes returns recipes not already present in combo.
func candidateRecipes(recipes []domain.Recipe, combo domain.Combination) []domain.Recipe {
	present := make(map[string]bool, len(combo))
	for _, id := range combo {
		present[id] = true
	}
	out := make([]domain.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if !present[r.ID] {
			out = append(out, r)
		}
	}
	return out
}

// extendGuess extends a parent dosage vector with 1.0 for a newly added
// member, matching the optimizer's documented initial-guess convention.
func extendGuess(parent []float64) []float64 {
	guess := make([]float64, len(parent)+1)
	copy(guess, parent)
	guess[len(parent)] = 1.0
	return guess
}

// topByMatchPct keeps the top n candidates by descending match_pct, stable
// on ties so equal-score candidates retain their emission order.
func topByMatchPct(candidates []beamCandidate, n int) []beamCandidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].matchPct > candidates[j].matchPct
	})
	if n > len(candidates) {
		n = len(candidates)
	}
	return candidates[:n]
}
