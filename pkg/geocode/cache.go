package geocode

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/Misadov/radiomap/internal/model"
)

// Cache is an optional SQLite-backed response cache shared across runs.
// The in-memory map inside Resolver already covers one run; this keeps the
// call budget down when a long enrichment is restarted.
type Cache struct {
	db *sql.DB
}

// OpenCache opens (and migrates) the cache database at the given path.
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: open cache")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "geocode: exec %s", pragma)
		}
	}

	const migration = `
CREATE TABLE IF NOT EXISTS geocode_cache (
	query      TEXT NOT NULL,
	country    TEXT NOT NULL,
	category   TEXT NOT NULL,
	latitude   REAL NOT NULL,
	longitude  REAL NOT NULL,
	place_name TEXT NOT NULL,
	place_type TEXT NOT NULL,
	confidence TEXT NOT NULL,
	method     TEXT NOT NULL,
	cached_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	PRIMARY KEY (query, country, category)
);`
	if _, err := db.Exec(migration); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "geocode: migrate cache")
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached result for a key, or nil when absent.
func (c *Cache) Get(ctx context.Context, key cacheKey) (*model.GeoResult, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT latitude, longitude, place_name, place_type, confidence, method
		FROM geocode_cache WHERE query = ? AND country = ? AND category = ?`,
		key.text, key.country, string(key.category),
	)

	var res model.GeoResult
	var confidence string
	err := row.Scan(&res.Latitude, &res.Longitude, &res.PlaceName, &res.PlaceType, &confidence, &res.Method)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "geocode: cache lookup")
	}
	res.Confidence = model.Confidence(confidence)
	return &res, nil
}

// Put upserts a result for a key.
func (c *Cache) Put(ctx context.Context, key cacheKey, res *model.GeoResult) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO geocode_cache (query, country, category, latitude, longitude, place_name, place_type, confidence, method, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT (query, country, category) DO UPDATE SET
			latitude   = excluded.latitude,
			longitude  = excluded.longitude,
			place_name = excluded.place_name,
			place_type = excluded.place_type,
			confidence = excluded.confidence,
			method     = excluded.method,
			cached_at  = datetime('now')`,
		key.text, key.country, string(key.category),
		res.Latitude, res.Longitude, res.PlaceName, res.PlaceType, string(res.Confidence), res.Method,
	)
	return eris.Wrap(err, "geocode: cache store")
}
