package search

import (
	"fmt"

	"github.com/aristath/formulary/internal/domain"
)

func unsupportedAlgorithm(algorithm domain.Algorithm) error {
	return fmt.Errorf("%w: %q", domain.ErrUnsupportedAlgorithm, string(algorithm))
}
