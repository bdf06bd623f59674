// Package search implements the combination generators (exhaustive, beam),
// the single-recipe supplement stage, the shared evaluator, and the final
// de-duplication/top-N selection. All four pipeline stages after the
// catalog view live here so they can share the evaluator's memoization
// cache and the SearchContext passed between them.
package search

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/aristath/formulary/internal/catalogview"
	"github.com/aristath/formulary/internal/domain"
	"github.com/aristath/formulary/internal/optimizer"
	"github.com/aristath/formulary/internal/scoring"
)

type evalResult struct {
	combo    domain.Combination
	dosages  []float64
	matchPct float64
	err      error
}

// Evaluator solves dosages for a combination, strips zero-dosage members
// and re-solves until stable, and memoizes both successful and failed
// results by unordered-membership key. One Evaluator is owned by one
// query's SearchContext.
type Evaluator struct {
	view          *catalogview.View
	catalog       *domain.Catalog
	target        domain.Composition
	penaltyFactor float64
	opts          domain.Options
	log           zerolog.Logger
	cache         map[string]evalResult
}

// NewEvaluator builds an Evaluator bound to one query's view and options.
func NewEvaluator(view *catalogview.View, opts domain.Options, log zerolog.Logger) *Evaluator {
	return &Evaluator{
		view:          view,
		catalog:       view.Catalog(),
		target:        view.Target(),
		penaltyFactor: opts.PenaltyFactor,
		opts:          opts,
		log:           log.With().Str("component", "evaluator").Logger(),
		cache:         make(map[string]evalResult),
	}
}

// Evaluate solves dosages for combo (optionally seeded with initialGuess),
// strips any member whose rounded dosage is zero and re-solves until
// stable, and returns the stabilized combination, its rounded dosages, and
// its match percentage. Results are memoized by unordered membership; a
// cached OptimizerNonConvergent error is returned again without re-solving.
func (e *Evaluator) Evaluate(combo domain.Combination, initialGuess []float64) (domain.Combination, []float64, float64, error) {
	key := domain.MembershipKey(combo)
	if cached, ok := e.cache[key]; ok {
		return cached.combo, cached.dosages, cached.matchPct, cached.err
	}
	finalCombo, dosages, matchPct, err := e.evaluateUncached(combo, initialGuess)
	e.cache[key] = evalResult{combo: finalCombo, dosages: dosages, matchPct: matchPct, err: err}
	return finalCombo, dosages, matchPct, err
}

func (e *Evaluator) evaluateUncached(combo domain.Combination, initialGuess []float64) (domain.Combination, []float64, float64, error) {
	current := combo
	guess := initialGuess

	for {
		if len(current) == 0 {
			delta := scoring.DeltaFromComposition(domain.Composition{}, e.target, e.penaltyFactor)
			return domain.Combination{}, nil, scoring.MatchPercentage(delta, e.view.Variance()), nil
		}

		bounds := optimizer.BoundsFor(current, e.catalog, e.opts)
		dosages, delta, err := optimizer.FindBestDosages(current, e.catalog, e.target, e.penaltyFactor, bounds, guess, e.opts.Places, e.log)
		if err != nil {
			return nil, nil, 0, err
		}

		rounded := roundAll(dosages, e.opts.Places)

		stripped := false
		var keptCombo domain.Combination
		var keptDosages []float64
		for i, d := range rounded {
			if d == 0 {
				stripped = true
				continue
			}
			keptCombo = append(keptCombo, current[i])
			keptDosages = append(keptDosages, rounded[i])
		}

		if !stripped {
			matchPct := scoring.MatchPercentage(delta, e.view.Variance())
			return current, rounded, matchPct, nil
		}

		current = keptCombo
		guess = keptDosages
	}
}

func roundAll(x []float64, places int) []float64 {
	out := make([]float64, len(x))
	scale := math.Pow(10, float64(places))
	for i, v := range x {
		out[i] = math.Round(v*scale) / scale
	}
	return out
}
