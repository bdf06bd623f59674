// Package catalogio loads a recipe catalog into the engine's in-memory
// Catalog type: a YAML document of records, each normalized by its own
// unit_dosage, with duplicate keys dropped and logged rather than failing
// the load.
package catalogio

import (
	"context"

	"github.com/aristath/formulary/internal/domain"
)

// Record is one catalog entry as it appears in the YAML document: a
// display name, a unique key, an optional unit dosage (default 1), and
// the unit-dose composition before normalization.
type Record struct {
	Name        string             `yaml:"name"`
	Key         string             `yaml:"key"`
	UnitDosage  float64            `yaml:"unit_dosage"`
	Composition map[string]float64 `yaml:"composition"`
}

// Source loads a catalog from wherever it lives: local disk, object
// storage, anywhere a []byte of YAML can come from.
type Source interface {
	Load(ctx context.Context) (*domain.Catalog, error)
}

// Fetcher exposes a source's raw bytes before parsing, so a caching layer
// can key on content without re-implementing the transport.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// FetchSource is what the built-in sources implement: both the parsed
// Load and the raw Fetch.
type FetchSource interface {
	Source
	Fetcher
}
