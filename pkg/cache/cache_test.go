package cache

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YHzed/heac-go/pkg/pareto"
)

// backendTest exercises the shared Cache contract against a backend.
func backendTest(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()
	obj := pareto.Objectives{HV: 1642.5, KIC: 11.8}

	t.Run("MissBeforeSet", func(t *testing.T) {
		_, found, err := c.Get(ctx, "WC:0.6000|Co:0.4000|g:1.2000|t:1450.0000|h:60.0000")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("SetThenGet", func(t *testing.T) {
		sig := "WC:0.6000|Co:0.4000|g:1.2000|t:1450.0000|h:60.0000"
		require.NoError(t, c.Set(ctx, sig, obj))
		got, found, err := c.Get(ctx, sig)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, obj, got)
	})

	t.Run("Overwrite", func(t *testing.T) {
		sig := "WC:0.5500|Co:0.4500|g:2.0000|t:1400.0000|h:90.0000"
		require.NoError(t, c.Set(ctx, sig, obj))
		updated := pareto.Objectives{HV: 1700, KIC: 10.1}
		require.NoError(t, c.Set(ctx, sig, updated))
		got, found, err := c.Get(ctx, sig)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, updated, got)
	})

	t.Run("Delete", func(t *testing.T) {
		sig := "WC:0.7000|Ni:0.3000|g:0.8000|t:1500.0000|h:45.0000"
		require.NoError(t, c.Set(ctx, sig, obj))
		require.NoError(t, c.Delete(ctx, sig))
		_, found, err := c.Get(ctx, sig)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Clear", func(t *testing.T) {
		sig := "WC:0.6500|Fe:0.3500|g:3.0000|t:1350.0000|h:30.0000"
		require.NoError(t, c.Set(ctx, sig, obj))
		require.NoError(t, c.Clear(ctx))
		_, found, err := c.Get(ctx, sig)
		require.NoError(t, err)
		assert.False(t, found)
		assert.Equal(t, int64(0), c.Stats().Size)
	})
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()
	backendTest(t, c)
}

func TestSQLiteCache(t *testing.T) {
	c, err := NewSQLiteCache(SQLiteConfig{
		Path:      filepath.Join(t.TempDir(), "eval.db"),
		EnableWAL: true,
	})
	require.NoError(t, err)
	defer c.Close()
	backendTest(t, c)
}

func TestSQLiteCachePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "eval.db")
	obj := pareto.Objectives{HV: 1580, KIC: 12.4}

	c1, err := NewSQLiteCache(SQLiteConfig{Path: path})
	require.NoError(t, err)
	require.NoError(t, c1.Set(ctx, "sig-1", obj))
	require.NoError(t, c1.Close())

	c2, err := NewSQLiteCache(SQLiteConfig{Path: path})
	require.NoError(t, err)
	defer c2.Close()
	got, found, err := c2.Get(ctx, "sig-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, obj, got)
}

func TestMemoryCacheStats(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	defer c.Close()

	_, _, _ = c.Get(ctx, "absent")
	require.NoError(t, c.Set(ctx, "present", pareto.Objectives{HV: 1650, KIC: 12}))
	_, _, _ = c.Get(ctx, "present")

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Sets)
	assert.Equal(t, int64(1), stats.Size)
	assert.False(t, stats.LastAccess.IsZero())
}

func TestMemoryCacheRespectsContext(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := c.Get(ctx, "sig")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, c.Set(ctx, "sig", pareto.Objectives{}), context.Canceled)
}

func TestMemoryCacheConcurrency(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	defer c.Close()

	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				sig := fmt.Sprintf("sig-%d", i%20)
				obj := pareto.Objectives{HV: float64(1500 + i), KIC: float64(8 + g)}
				assert.NoError(t, c.Set(ctx, sig, obj))
				_, _, err := c.Get(ctx, sig)
				assert.NoError(t, err)
			}
		}(g)
	}
	wg.Wait()

	assert.Equal(t, int64(20), c.Stats().Size)
}

func TestNewSelectsBackend(t *testing.T) {
	mem, err := New(Config{Type: "memory"})
	require.NoError(t, err)
	defer mem.Close()
	assert.IsType(t, &MemoryCache{}, mem)

	fallback, err := New(Config{})
	require.NoError(t, err)
	defer fallback.Close()
	assert.IsType(t, &MemoryCache{}, fallback)

	sq, err := New(Config{
		Type:   "sqlite",
		SQLite: SQLiteConfig{Path: filepath.Join(t.TempDir(), "eval.db")},
	})
	require.NoError(t, err)
	defer sq.Close()
	assert.IsType(t, &SQLiteCache{}, sq)
}
