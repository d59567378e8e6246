// Package cache provides a time-bounded cache for raw upstream well fetches.
package cache

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLite is a key → payload cache with a TTL, backed by modernc.org/sqlite.
// It satisfies the well client's Cache interface. Cache misses and storage
// failures degrade to upstream fetches; they are never surfaced as errors.
type SQLite struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// NewSQLite opens (or creates) the cache database at path.
func NewSQLite(path string, ttl time.Duration) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "cache: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, eris.Wrapf(err, "cache: exec %s", pragma)
		}
	}

	const migration = `
CREATE TABLE IF NOT EXISTS well_fetch_cache (
	key       TEXT PRIMARY KEY,
	payload   BLOB NOT NULL,
	cached_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_well_fetch_cache_cached_at ON well_fetch_cache(cached_at);
`
	if _, err := db.Exec(migration); err != nil {
		_ = db.Close()
		return nil, eris.Wrap(err, "cache: migrate")
	}

	return &SQLite{db: db, ttl: ttl, now: time.Now}, nil
}

// Close releases the underlying database handle.
func (c *SQLite) Close() error {
	return c.db.Close()
}

// Get returns the cached payload for key if it exists and is younger than
// the TTL.
func (c *SQLite) Get(ctx context.Context, key string) ([]byte, bool) {
	var payload []byte
	var cachedAt time.Time

	row := c.db.QueryRowContext(ctx,
		`SELECT payload, cached_at FROM well_fetch_cache WHERE key = ?`, key)
	if err := row.Scan(&payload, &cachedAt); err != nil {
		if !eris.Is(err, sql.ErrNoRows) {
			zap.L().Warn("cache: read failed", zap.Error(err))
		}
		return nil, false
	}

	if c.ttl > 0 && c.now().After(cachedAt.Add(c.ttl)) {
		return nil, false
	}
	return payload, true
}

// Set stores a payload under key, replacing any previous entry, and purges
// expired rows while it is at it.
func (c *SQLite) Set(ctx context.Context, key string, payload []byte) {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO well_fetch_cache (key, payload, cached_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			payload = excluded.payload,
			cached_at = excluded.cached_at`,
		key, payload, c.now().UTC(),
	)
	if err != nil {
		zap.L().Warn("cache: write failed", zap.Error(err))
		return
	}

	if c.ttl > 0 {
		cutoff := c.now().UTC().Add(-c.ttl)
		if _, err := c.db.ExecContext(ctx,
			`DELETE FROM well_fetch_cache WHERE cached_at < ?`, cutoff); err != nil {
			zap.L().Debug("cache: purge failed", zap.Error(err))
		}
	}
}
