package design

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRunConfig = `
run_id: wc-co-screen
targets:
  hv:
    lo: 1500
    hi: 1800
  kic:
    lo: 10
    hi: 14
budget: 500
time_budget: 30s
concurrency: 8
strategy: population
seed: 42
top_k: 5
cache:
  type: memory
`

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRunConfig(t *testing.T) {
	t.Run("ParsesFullConfig", func(t *testing.T) {
		cfg, err := LoadRunConfig(writeTempConfig(t, sampleRunConfig))
		require.NoError(t, err)

		assert.Equal(t, "wc-co-screen", cfg.RunID)
		assert.Equal(t, 1500.0, cfg.Targets.HV.Lo)
		assert.Equal(t, 14.0, cfg.Targets.KIC.Hi)
		assert.Equal(t, 500, cfg.Budget)
		assert.Equal(t, 30*time.Second, cfg.TimeBudget)
		assert.Equal(t, 8, cfg.Concurrency)
		assert.Equal(t, "population", cfg.Strategy)
		assert.Equal(t, 5, cfg.TopK)
		assert.Equal(t, "memory", cfg.Cache.Type)
		require.NotNil(t, cfg.Space)
	})

	t.Run("AppliesDefaults", func(t *testing.T) {
		minimal := `
targets:
  hv: {lo: 1500, hi: 1800}
  kic: {lo: 10, hi: 14}
budget: 10
`
		cfg, err := LoadRunConfig(writeTempConfig(t, minimal))
		require.NoError(t, err)
		assert.Equal(t, DefaultConcurrency, cfg.Concurrency)
		assert.Equal(t, DefaultTopK, cfg.TopK)
		assert.Equal(t, DefaultStrategy, cfg.Strategy)
	})

	t.Run("RejectsMissingTargets", func(t *testing.T) {
		_, err := LoadRunConfig(writeTempConfig(t, "budget: 10\n"))
		require.Error(t, err)
	})

	t.Run("RejectsInvertedTarget", func(t *testing.T) {
		bad := `
targets:
  hv: {lo: 1800, hi: 1500}
  kic: {lo: 10, hi: 14}
budget: 10
`
		_, err := LoadRunConfig(writeTempConfig(t, bad))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "positive width")
	})

	t.Run("RejectsMalformedYAML", func(t *testing.T) {
		_, err := LoadRunConfig(writeTempConfig(t, "targets: [unclosed"))
		require.Error(t, err)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := LoadRunConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})
}
