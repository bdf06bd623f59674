package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultOptions_IsValid(t *testing.T) {
	assert.NoError(t, DefaultOptions().Validate())
}

func TestValidate_NegativeTopN(t *testing.T) {
	o := DefaultOptions()
	o.TopN = -1
	assert.ErrorIs(t, o.Validate(), ErrInvalidParameter)
}

func TestValidate_UnsupportedAlgorithm(t *testing.T) {
	o := DefaultOptions()
	o.Algorithm = "genetic"
	err := o.Validate()
	assert.True(t, errors.Is(err, ErrUnsupportedAlgorithm))
}

func TestValidate_MinExceedsMaxCFormulaDose(t *testing.T) {
	o := DefaultOptions()
	o.MinCFormulaDose = 10
	o.MaxCFormulaDose = 5
	assert.ErrorIs(t, o.Validate(), ErrInvalidParameter)
}

func TestValidate_ZeroBeamWidthFactorRejected(t *testing.T) {
	o := DefaultOptions()
	o.BeamWidthFactor = 0
	assert.ErrorIs(t, o.Validate(), ErrInvalidParameter)
}

func TestBeamWidth_CeilsAndFloorsAtOne(t *testing.T) {
	o := DefaultOptions()
	o.TopN = 5
	o.BeamWidthFactor = 2.0
	assert.Equal(t, 10, o.BeamWidth())

	o.TopN = 0
	assert.Equal(t, 1, o.BeamWidth())

	o.TopN = 3
	o.BeamWidthFactor = 1.5
	assert.Equal(t, 5, o.BeamWidth()) // ceil(4.5) = 5
}
