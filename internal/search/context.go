package search

import (
	"iter"

	"github.com/rs/zerolog"

	"github.com/aristath/formulary/internal/catalogview"
	"github.com/aristath/formulary/internal/domain"
)

// SearchContext is the immutable bundle passed to a Generator and the
// supplement stage. It carries no mutable shared state of its own; the
// Evaluator's cache and the View's lazily memoized partitions are the only
// things mutated during a query, and both are owned by the context so
// every stage shares one memoization table.
type SearchContext struct {
	View      *catalogview.View
	Opts      domain.Options
	Evaluator *Evaluator
	Log       zerolog.Logger
}

// NewSearchContext builds a SearchContext for one query.
func NewSearchContext(view *catalogview.View, opts domain.Options, log zerolog.Logger) *SearchContext {
	return &SearchContext{
		View:      view,
		Opts:      opts,
		Evaluator: NewEvaluator(view, opts, log),
		Log:       log,
	}
}

// Generator produces candidate combinations of complex recipes. Exhaustive
// and beam share the evaluator, scoring, and supplement machinery and
// differ only in this one operation — expressed as an interface rather
// than a class hierarchy with protected shared state, per the engine's
// dynamic-dispatch design.
type Generator interface {
	Generate(ctx *SearchContext) iter.Seq[domain.Match]
}

// ForAlgorithm resolves the configured algorithm name to its Generator.
func ForAlgorithm(algorithm domain.Algorithm) (Generator, error) {
	switch algorithm {
	case domain.AlgorithmExhaustive:
		return ExhaustiveGenerator{}, nil
	case domain.AlgorithmBeam:
		return BeamGenerator{}, nil
	default:
		return nil, unsupportedAlgorithm(algorithm)
	}
}
