package catalogcache

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/aristath/formulary/internal/catalogio"
	"github.com/aristath/formulary/internal/domain"
)

// CachedSource wraps a raw-byte fetcher with the parse cache: fetch the
// bytes, return the cached parse if the content hash is known, otherwise
// parse and store. Cache errors degrade to a plain parse; only fetch and
// parse failures are fatal to a load.
type CachedSource struct {
	fetcher catalogio.Fetcher
	store   *Store
	log     zerolog.Logger
}

// NewCachedSource builds a CachedSource over fetcher backed by store.
func NewCachedSource(fetcher catalogio.Fetcher, store *Store, log zerolog.Logger) *CachedSource {
	return &CachedSource{
		fetcher: fetcher,
		store:   store,
		log:     log.With().Str("component", "catalogcache.source").Logger(),
	}
}

// Load implements catalogio.Source.
func (s *CachedSource) Load(ctx context.Context) (*domain.Catalog, error) {
	raw, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	catalog, hit, err := s.store.Get(ctx, raw)
	if err != nil {
		s.log.Warn().Err(err).Msg("cache lookup failed, parsing from source")
	} else if hit {
		s.log.Debug().Int("recipes", catalog.Len()).Msg("catalog served from parse cache")
		return catalog, nil
	}

	catalog, err = catalogio.Parse(raw, s.log)
	if err != nil {
		return nil, err
	}

	if err := s.store.Put(ctx, raw, catalog); err != nil {
		s.log.Warn().Err(err).Msg("cache store failed, continuing without caching")
	}
	return catalog, nil
}
