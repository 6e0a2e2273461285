// Package cache provides the evaluation result cache keyed by
// composition signature. A design run consults it before invoking the
// surrogate models so re-proposed compositions cost a map lookup instead
// of a prediction.
package cache

import (
	"context"
	"time"

	"github.com/YHzed/heac-go/pkg/pareto"
)

// Cache stores predicted objectives per canonical composition signature.
type Cache interface {
	// Get retrieves the cached objectives for a signature.
	Get(ctx context.Context, signature string) (pareto.Objectives, bool, error)

	// Set stores the objectives for a signature, overwriting any
	// previous value.
	Set(ctx context.Context, signature string, obj pareto.Objectives) error

	// Delete removes one signature.
	Delete(ctx context.Context, signature string) error

	// Clear removes all entries.
	Clear(ctx context.Context) error

	// Stats returns cache performance counters.
	Stats() Stats

	// Close releases any resources held by the cache.
	Close() error
}

// Stats contains cache performance counters.
type Stats struct {
	Hits       int64     `json:"hits"`
	Misses     int64     `json:"misses"`
	Sets       int64     `json:"sets"`
	Size       int64     `json:"size"`
	LastAccess time.Time `json:"last_access"`
}

// Config selects and configures a cache backend.
type Config struct {
	// Type of cache: "memory" or "sqlite".
	Type string `json:"type" yaml:"type"`

	// SQLite specific configuration.
	SQLite SQLiteConfig `json:"sqlite,omitempty" yaml:"sqlite,omitempty"`
}

// SQLiteConfig holds SQLite-specific configuration.
type SQLiteConfig struct {
	// Path to the database file.
	Path string `json:"path" yaml:"path"`

	// Enable WAL mode for better concurrent performance.
	EnableWAL bool `json:"enable_wal" yaml:"enable_wal"`

	// Maximum number of connections.
	MaxConnections int `json:"max_connections" yaml:"max_connections"`
}

// New creates a cache instance from the configuration. An unrecognized
// type falls back to the in-memory backend.
func New(config Config) (Cache, error) {
	switch config.Type {
	case "sqlite":
		return NewSQLiteCache(config.SQLite)
	default:
		return NewMemoryCache(), nil
	}
}
