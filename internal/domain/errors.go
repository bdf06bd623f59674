package domain

import "errors"

// Sentinel errors for the taxonomy named in the external interface contract.
// Wrap these with fmt.Errorf("%w: ...", ...) so callers can test with
// errors.Is instead of string matching.
var (
	// ErrUnsupportedAlgorithm is returned when the Algorithm option names an
	// unknown search strategy. Raised eagerly, fatal to the query.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")

	// ErrOptimizerNonConvergent is returned by the optimizer when the
	// underlying minimizer fails to reach an acceptable solution. The
	// evaluator catches this internally; it must never reach a caller of
	// FindBestMatches.
	ErrOptimizerNonConvergent = errors.New("optimizer did not converge")

	// ErrInvalidParameter is returned when an Options field is outside its
	// permitted range. Raised eagerly, fatal to the query.
	ErrInvalidParameter = errors.New("invalid parameter")
)
