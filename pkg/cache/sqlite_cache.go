package cache

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/YHzed/heac-go/pkg/pareto"
)

// SQLiteCache persists evaluation results to disk so repeated runs over
// the same design space can reuse earlier predictions.
type SQLiteCache struct {
	db *sql.DB

	hits       atomic.Int64
	misses     atomic.Int64
	sets       atomic.Int64
	lastAccess atomic.Int64
}

// NewSQLiteCache opens (and if needed initializes) the database at
// cfg.Path.
func NewSQLiteCache(cfg SQLiteConfig) (*SQLiteCache, error) {
	if cfg.Path == "" {
		cfg.Path = "heac_cache.db"
	}

	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	maxConns := cfg.MaxConnections
	if maxConns <= 0 {
		maxConns = 10
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns / 2)
	db.SetConnMaxLifetime(time.Hour)

	c := &SQLiteCache{db: db}
	if err := c.initDB(cfg.EnableWAL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache database: %w", err)
	}
	return c, nil
}

func (c *SQLiteCache) initDB(enableWAL bool) error {
	if enableWAL {
		if _, err := c.db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if _, err := c.db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		return fmt.Errorf("failed to set synchronous mode: %w", err)
	}

	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS evaluations (
			signature  TEXT PRIMARY KEY,
			hv         REAL NOT NULL,
			kic        REAL NOT NULL,
			created_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create evaluations table: %w", err)
	}
	return nil
}

// Get retrieves cached objectives for a signature.
func (c *SQLiteCache) Get(ctx context.Context, signature string) (pareto.Objectives, bool, error) {
	c.lastAccess.Store(time.Now().UnixNano())

	var obj pareto.Objectives
	err := c.db.QueryRowContext(ctx,
		"SELECT hv, kic FROM evaluations WHERE signature = ?", signature).
		Scan(&obj.HV, &obj.KIC)
	if err == sql.ErrNoRows {
		c.misses.Add(1)
		return pareto.Objectives{}, false, nil
	}
	if err != nil {
		return pareto.Objectives{}, false, fmt.Errorf("failed to query cache: %w", err)
	}
	c.hits.Add(1)
	return obj, true, nil
}

// Set stores objectives for a signature, replacing any existing row.
func (c *SQLiteCache) Set(ctx context.Context, signature string, obj pareto.Objectives) error {
	c.lastAccess.Store(time.Now().UnixNano())

	_, err := c.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO evaluations (signature, hv, kic, created_at) VALUES (?, ?, ?, ?)",
		signature, obj.HV, obj.KIC, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	c.sets.Add(1)
	return nil
}

// Delete removes one signature.
func (c *SQLiteCache) Delete(ctx context.Context, signature string) error {
	_, err := c.db.ExecContext(ctx,
		"DELETE FROM evaluations WHERE signature = ?", signature)
	if err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Clear removes all entries.
func (c *SQLiteCache) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, "DELETE FROM evaluations"); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// Stats returns current counters. Size reflects the on-disk row count.
func (c *SQLiteCache) Stats() Stats {
	var size int64
	// Best effort; a failed count leaves size at zero.
	_ = c.db.QueryRow("SELECT COUNT(*) FROM evaluations").Scan(&size)

	var last time.Time
	if ns := c.lastAccess.Load(); ns > 0 {
		last = time.Unix(0, ns)
	}
	return Stats{
		Hits:       c.hits.Load(),
		Misses:     c.misses.Load(),
		Sets:       c.sets.Load(),
		Size:       size,
		LastAccess: last,
	}
}

// Close closes the underlying database.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}
