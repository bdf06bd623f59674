package search

import (
	"iter"

	"github.com/aristath/formulary/internal/domain"
)

// ExhaustiveGenerator enumerates every subset of cformulas of size 0..
// max_cformulas, in lexicographic catalog order, evaluating each through
// the shared Evaluator. It is the correctness oracle: beam is only ever
// an efficient approximation of what this finds.
type ExhaustiveGenerator struct{}

// Generate implements Generator.
func (ExhaustiveGenerator) Generate(ctx *SearchContext) iter.Seq[domain.Match] {
	return func(yield func(domain.Match) bool) {
		recipes := ctx.View.CFormulas()
		ids := make([]string, len(recipes))
		for i, r := range recipes {
			ids[i] = r.ID
		}

		maxK := ctx.Opts.MaxCFormulas
		if maxK > len(ids) {
			maxK = len(ids)
		}

		for k := 0; k <= maxK; k++ {
			cont := eachCombination(ids, k, func(combo domain.Combination) bool {
				finalCombo, dosages, matchPct, err := ctx.Evaluator.Evaluate(combo, nil)
				if err != nil {
					ctx.Log.Debug().Err(err).Strs("combination", combo).Msg("skipping non-convergent combination")
					return true
				}
				return yield(domain.Match{MatchPercentage: matchPct, Combination: finalCombo, Dosages: dosages})
			})
			if !cont {
				return
			}
		}
	}
}

// eachCombination visits every size-k subset of ids in lexicographic index
// order (standard combinatorial "odometer" generation), calling visit for
// each. visit returns false to stop iteration early; eachCombination then
// also returns false so the caller's own loop (over k) stops too.
func eachCombination(ids []string, k int, visit func(domain.Combination) bool) bool {
	n := len(ids)
	if k == 0 {
		return visit(domain.Combination{})
	}
	if k > n {
		return true
	}

	indices := make([]int, k)
	for i := range indices {
		indices[i] = i
	}

	for {
		combo := make(domain.Combination, k)
		for i, idx := range indices {
			combo[i] = ids[idx]
		}
		if !visit(combo) {
			return false
		}

		i := k - 1
		for i >= 0 && indices[i] == i+n-k {
			i--
		}
		if i < 0 {
			return true
		}
		indices[i]++
		for j := i + 1; j < k; j++ {
			indices[j] = indices[j-1] + 1
		}
	}
}
