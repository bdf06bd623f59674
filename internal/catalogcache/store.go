// Package catalogcache caches parsed catalogs keyed by a hash of their raw
// source bytes, so a large YAML or S3-backed catalog is not re-parsed on
// every refresh tick. The store is backed by database/sql with two
// interchangeable sqlite drivers selected by build tag (store_cgo.go /
// store_nocgo.go) so callers never branch on cgo availability themselves.
package catalogcache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/formulary/internal/domain"
	"github.com/aristath/formulary/internal/utils"
)

// Store is a key/value cache of parsed catalogs.
type Store struct {
	conn *sql.DB
	log  zerolog.Logger
}

// Open opens (creating if needed) the sqlite-backed cache at path, using
// whichever driver this build was compiled with (see store_cgo.go /
// store_nocgo.go).
func Open(path string, log zerolog.Logger) (*Store, error) {
	conn, err := sql.Open(driverName(), path)
	if err != nil {
		return nil, fmt.Errorf("catalogcache: opening %s: %w", path, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("catalogcache: pinging %s: %w", path, err)
	}

	if _, err := conn.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("catalogcache: applying schema: %w", err)
	}

	return &Store{conn: conn, log: log.With().Str("component", "catalogcache").Logger()}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS catalog_cache (
	content_hash TEXT PRIMARY KEY,
	encoded      BLOB NOT NULL,
	cached_at    INTEGER NOT NULL
);
`

// ContentHash returns the cache key for raw source bytes.
func ContentHash(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// Get returns the cached catalog for raw's content hash, if present.
func (s *Store) Get(ctx context.Context, raw []byte) (*domain.Catalog, bool, error) {
	hash := ContentHash(raw)

	done := utils.MeasureDBQuery("catalog_cache.get", s.log)
	var encoded []byte
	err := s.conn.QueryRowContext(ctx, `SELECT encoded FROM catalog_cache WHERE content_hash = ?`, hash).Scan(&encoded)
	done(1)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("catalogcache: querying %s: %w", hash, err)
	}

	catalog, err := decodeCatalog(encoded)
	if err != nil {
		return nil, false, fmt.Errorf("catalogcache: decoding %s: %w", hash, err)
	}
	return catalog, true, nil
}

// Put stores catalog under raw's content hash, overwriting any existing
// entry for that hash.
func (s *Store) Put(ctx context.Context, raw []byte, catalog *domain.Catalog) error {
	hash := ContentHash(raw)

	encoded, err := encodeCatalog(catalog)
	if err != nil {
		return fmt.Errorf("catalogcache: encoding %s: %w", hash, err)
	}

	done := utils.MeasureDBQuery("catalog_cache.put", s.log)
	result, err := s.conn.ExecContext(ctx,
		`INSERT INTO catalog_cache (content_hash, encoded, cached_at) VALUES (?, ?, ?)
		 ON CONFLICT(content_hash) DO UPDATE SET encoded = excluded.encoded, cached_at = excluded.cached_at`,
		hash, encoded, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("catalogcache: storing %s: %w", hash, err)
	}
	rows, _ := result.RowsAffected()
	done(rows)
	return nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// wireCatalog is the msgpack wire representation of a Catalog: an ordered
// slice of (id, composition) pairs, since domain.Catalog's internal order
// slice + map are not themselves exported for encoding.
type wireCatalog struct {
	Recipes []wireRecipe
}

type wireRecipe struct {
	ID          string
	Composition map[string]float64
}

func encodeCatalog(catalog *domain.Catalog) ([]byte, error) {
	wire := wireCatalog{}
	for _, recipe := range catalog.Recipes() {
		wire.Recipes = append(wire.Recipes, wireRecipe{ID: recipe.ID, Composition: recipe.Composition})
	}
	return msgpack.Marshal(wire)
}

func decodeCatalog(encoded []byte) (*domain.Catalog, error) {
	var wire wireCatalog
	if err := msgpack.Unmarshal(encoded, &wire); err != nil {
		return nil, err
	}
	catalog := domain.NewCatalog()
	for _, recipe := range wire.Recipes {
		catalog.Add(recipe.ID, recipe.Composition)
	}
	return catalog, nil
}
