package domain

import (
	"fmt"
	"math"
)

// Algorithm names the combination-generation strategy.
type Algorithm string

const (
	AlgorithmBeam       Algorithm = "beam"
	AlgorithmExhaustive Algorithm = "exhaustive"
)

// Options carries every tunable parameter of a find-best-matches query.
// Zero-value Options is not valid; use DefaultOptions and override fields.
type Options struct {
	TopN              int
	Excludes          map[string]bool
	MaxCFormulas      int
	MaxSFormulas      int
	PenaltyFactor     float64
	Algorithm         Algorithm
	BeamWidthFactor   float64
	BeamMultiplier    float64
	MinCFormulaDose   float64
	MaxCFormulaDose   float64
	MinSFormulaDose   float64
	MaxSFormulaDose   float64
	Places            int
	MainHerbThreshold float64
}

// DefaultOptions returns the parameter defaults named in the external
// interface contract.
func DefaultOptions() Options {
	return Options{
		TopN:              5,
		Excludes:          nil,
		MaxCFormulas:      2,
		MaxSFormulas:      2,
		PenaltyFactor:     2.0,
		Algorithm:         AlgorithmBeam,
		BeamWidthFactor:   2.0,
		BeamMultiplier:    3.0,
		MinCFormulaDose:   1.0,
		MaxCFormulaDose:   50.0,
		MinSFormulaDose:   0.3,
		MaxSFormulaDose:   50.0,
		Places:            1,
		MainHerbThreshold: 0.6,
	}
}

// Validate checks every parameter against its permitted range, returning an
// InvalidParameter-wrapped error for the first violation found, or an
// UnsupportedAlgorithm-wrapped error when Algorithm names an unknown strategy.
func (o Options) Validate() error {
	switch {
	case o.TopN < 0:
		return invalidParameterf("top_n must be >= 0, got %d", o.TopN)
	case o.MaxCFormulas < 0:
		return invalidParameterf("max_cformulas must be >= 0, got %d", o.MaxCFormulas)
	case o.MaxSFormulas < 0:
		return invalidParameterf("max_sformulas must be >= 0, got %d", o.MaxSFormulas)
	case o.PenaltyFactor < 0:
		return invalidParameterf("penalty_factor must be >= 0, got %v", o.PenaltyFactor)
	case o.Algorithm != AlgorithmBeam && o.Algorithm != AlgorithmExhaustive:
		return unsupportedAlgorithmf(string(o.Algorithm))
	case o.BeamWidthFactor <= 0:
		return invalidParameterf("beam_width_factor must be > 0, got %v", o.BeamWidthFactor)
	case o.BeamMultiplier < 0:
		return invalidParameterf("beam_multiplier must be >= 0, got %v", o.BeamMultiplier)
	case o.MinCFormulaDose <= 0 || o.MaxCFormulaDose <= 0:
		return invalidParameterf("cformula dose bounds must be > 0, got [%v, %v]", o.MinCFormulaDose, o.MaxCFormulaDose)
	case o.MinSFormulaDose <= 0 || o.MaxSFormulaDose <= 0:
		return invalidParameterf("sformula dose bounds must be > 0, got [%v, %v]", o.MinSFormulaDose, o.MaxSFormulaDose)
	case o.MinCFormulaDose > o.MaxCFormulaDose:
		return invalidParameterf("min_cformula_dose (%v) exceeds max_cformula_dose (%v)", o.MinCFormulaDose, o.MaxCFormulaDose)
	case o.MinSFormulaDose > o.MaxSFormulaDose:
		return invalidParameterf("min_sformula_dose (%v) exceeds max_sformula_dose (%v)", o.MinSFormulaDose, o.MaxSFormulaDose)
	case o.Places < 0:
		return invalidParameterf("places must be >= 0, got %d", o.Places)
	}
	return nil
}

// BeamWidth derives the per-layer retention count:
// max(ceil(BeamWidthFactor * TopN), 1).
func (o Options) BeamWidth() int {
	width := int(math.Ceil(o.BeamWidthFactor * float64(o.TopN)))
	if width < 1 {
		width = 1
	}
	return width
}

func invalidParameterf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidParameter}, args...)...)
}

func unsupportedAlgorithmf(name string) error {
	return fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, name)
}
