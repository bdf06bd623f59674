package catalogio

import (
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/aristath/formulary/internal/domain"
)

// Parse decodes raw YAML bytes into a Catalog, normalizing every record's
// composition by its unit_dosage (default 1 when unset or zero). A
// duplicate key is dropped with a warning rather than failing the whole
// load.
func Parse(raw []byte, log zerolog.Logger) (*domain.Catalog, error) {
	var records []Record
	if err := yaml.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("catalogio: decoding catalog yaml: %w", err)
	}

	catalog := domain.NewCatalog()
	for _, rec := range records {
		if _, exists := catalog.Get(rec.Key); exists {
			log.Warn().
				Str("component", "catalogio").
				Str("name", rec.Name).
				Str("key", rec.Key).
				Msg("duplicate catalog key, ignoring")
			continue
		}

		unitDosage := rec.UnitDosage
		if unitDosage == 0 {
			unitDosage = 1
		}

		composition := make(domain.Composition, len(rec.Composition))
		for herb, amount := range rec.Composition {
			composition[herb] = amount / unitDosage
		}

		catalog.Add(rec.Key, composition)
	}

	return catalog, nil
}
