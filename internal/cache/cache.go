// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache persists raw provider responses in a local SQLite
// database. Upstream quotas are tight (Google CSE allows 100 queries a
// day on the free tier), so repeated searches for the same topic are
// served from disk until the TTL lapses.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/preslop/preslop/internal/provider"
	"github.com/preslop/preslop/internal/telemetry"
	"github.com/preslop/preslop/pkg/types"
)

// Store manages the response cache database.
type Store struct {
	db  *sql.DB
	ttl time.Duration
}

// Open opens or creates the cache database and prunes entries that have
// outlived the TTL.
func Open(cfg types.CacheConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = "preslop-cache.db"
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	s := &Store{db: db, ttl: ttl}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	if err := s.Prune(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("pruning cache: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS responses (
		provider   TEXT NOT NULL,
		query      TEXT NOT NULL,
		payload    BLOB NOT NULL,
		fetched_at TEXT NOT NULL,
		PRIMARY KEY (provider, query)
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Get returns the cached raw items for (providerName, query) if a fresh
// entry exists. The second return reports a hit; an expired or absent
// entry is a miss, not an error.
func (s *Store) Get(ctx context.Context, providerName, query string) ([]provider.RawItem, bool, error) {
	var payload []byte
	var fetchedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, fetched_at FROM responses WHERE provider = ? AND query = ?`,
		providerName, query,
	).Scan(&payload, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("querying cache: %w", err)
	}

	fetched, err := time.Parse(time.RFC3339Nano, fetchedAt)
	if err != nil || time.Since(fetched) > s.ttl {
		return nil, false, nil
	}

	var items []provider.RawItem
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, false, fmt.Errorf("decoding cached payload: %w", err)
	}
	return items, true, nil
}

// Put stores a provider response, replacing any previous entry for the
// same (providerName, query).
func (s *Store) Put(ctx context.Context, providerName, query string, items []provider.RawItem) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO responses (provider, query, payload, fetched_at) VALUES (?, ?, ?, ?)`,
		providerName, query, payload, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Prune removes entries older than the TTL.
func (s *Store) Prune(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-s.ttl).Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx, `DELETE FROM responses WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return fmt.Errorf("deleting expired entries: %w", err)
	}
	return nil
}

// cachedProvider serves Search from the store when it can, falling back
// to the wrapped provider. Cache faults never fail a search.
type cachedProvider struct {
	provider.Provider
	store   *Store
	log     *zap.Logger
	metrics *telemetry.Metrics
}

// Wrap decorates a provider with the response cache. A nil store returns
// the provider unchanged.
func Wrap(p provider.Provider, store *Store, log *zap.Logger, metrics *telemetry.Metrics) provider.Provider {
	if store == nil {
		return p
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &cachedProvider{Provider: p, store: store, log: log, metrics: metrics}
}

func (c *cachedProvider) Search(ctx context.Context, query string) ([]provider.RawItem, error) {
	items, hit, err := c.store.Get(ctx, c.Name(), query)
	switch {
	case err != nil:
		c.countCache("error")
		c.log.Warn("cache lookup failed",
			zap.String("provider", c.Name()),
			zap.Error(err))
	case hit:
		c.countCache("hit")
		return items, nil
	default:
		c.countCache("miss")
	}

	items, err = c.Provider.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if err := c.store.Put(ctx, c.Name(), query, items); err != nil {
		c.log.Warn("cache write failed",
			zap.String("provider", c.Name()),
			zap.Error(err))
	}
	return items, nil
}

func (c *cachedProvider) countCache(outcome string) {
	if c.metrics != nil {
		c.metrics.CacheEvents.WithLabelValues(outcome).Inc()
	}
}
