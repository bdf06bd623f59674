// Package formulary is a combinatorial mixture-matching engine: given a
// target composition and a catalog of recipes, it finds the small number
// of recipes and continuous dosages whose weighted sum best approximates
// the target, returning the top-N distinct combinations ranked by match
// percentage.
package formulary

import (
	"github.com/rs/zerolog/log"

	"github.com/aristath/formulary/internal/catalogview"
	"github.com/aristath/formulary/internal/domain"
	"github.com/aristath/formulary/internal/search"
)

// Re-exported core types: callers of this library interact exclusively
// through this package, never internal/domain directly.
type (
	Composition = domain.Composition
	Recipe      = domain.Recipe
	Catalog     = domain.Catalog
	Combination = domain.Combination
	Dosages     = domain.Dosages
	Match       = domain.Match
	Options     = domain.Options
	Algorithm   = domain.Algorithm
)

const (
	AlgorithmBeam       = domain.AlgorithmBeam
	AlgorithmExhaustive = domain.AlgorithmExhaustive
)

// Sentinel errors, errors.Is-compatible.
var (
	ErrUnsupportedAlgorithm   = domain.ErrUnsupportedAlgorithm
	ErrOptimizerNonConvergent = domain.ErrOptimizerNonConvergent
	ErrInvalidParameter       = domain.ErrInvalidParameter
)

// NewCatalog returns an empty catalog ready for Add.
func NewCatalog() *Catalog {
	return domain.NewCatalog()
}

// DefaultOptions returns the documented parameter defaults.
func DefaultOptions() Options {
	return domain.DefaultOptions()
}

// FindBestMatches is the engine's single library-level operation: given a
// catalog, a target composition, and options, it returns the top_n
// distinct recipe combinations (by unordered membership) ranked by match
// percentage, each with dosages optimized against the target.
//
// The catalog is read-only for the duration of the call; all derived
// state (the catalog view, the evaluation cache) is owned by this call
// and discarded when it returns. FindBestMatches never blocks on I/O and
// performs no internal parallelism — one call is one logical thread of
// control.
func FindBestMatches(catalog *Catalog, target Composition, opts Options) ([]Match, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	generator, err := search.ForAlgorithm(opts.Algorithm)
	if err != nil {
		return nil, err
	}

	logger := log.Logger.With().Str("component", "formulary").Logger()
	view := catalogview.New(catalog, target, opts.Excludes)
	ctx := search.NewSearchContext(view, opts, logger)

	var all []Match
	for base := range generator.Generate(ctx) {
		all = append(all, base)
		for supplemented := range search.Supplement(ctx, base.Combination, base.Dosages) {
			all = append(all, supplemented)
		}
	}

	return search.SelectTopN(all, opts.TopN), nil
}
