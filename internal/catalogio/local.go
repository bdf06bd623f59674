package catalogio

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/aristath/formulary/internal/domain"
)

// LocalSource loads a catalog from a YAML file on local disk.
type LocalSource struct {
	Path string
	Log  zerolog.Logger
}

// NewLocalSource builds a LocalSource for path.
func NewLocalSource(path string, log zerolog.Logger) *LocalSource {
	return &LocalSource{Path: path, Log: log.With().Str("component", "catalogio.local").Logger()}
}

// Fetch implements Fetcher.
func (s *LocalSource) Fetch(ctx context.Context) ([]byte, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("catalogio: reading %s: %w", s.Path, err)
	}
	s.Log.Debug().Str("path", s.Path).Int("bytes", len(raw)).Msg("loaded catalog file")
	return raw, nil
}

// Load implements Source.
func (s *LocalSource) Load(ctx context.Context) (*domain.Catalog, error) {
	raw, err := s.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return Parse(raw, s.Log)
}
