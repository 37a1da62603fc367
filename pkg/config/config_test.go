package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 1000, cfg.Pipeline.MaxChunkLines)
	assert.Equal(t, 4, cfg.Pipeline.TokensPerChar)
	assert.Equal(t, 768, cfg.Pipeline.EmbeddingDim)
	assert.Equal(t, 3, cfg.Pipeline.RAGMaxCases)
	assert.InDelta(t, 0.6, cfg.Pipeline.RAGMinSimilarity, 0.0001)

	assert.Equal(t, 5, cfg.Queue.WorkerCount)
	assert.Equal(t, "nats://localhost:4222", cfg.Queue.NATSURL)
	assert.Equal(t, "8080", cfg.HTTPPort)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("pipeline:\n  max_chunk_lines: 500\nqueue:\n  worker_count: 2\nhttp_port: \"9090\"\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.Pipeline.MaxChunkLines)
	assert.Equal(t, 2, cfg.Queue.WorkerCount)
	assert.Equal(t, "9090", cfg.HTTPPort)
	// Fields absent from the override file keep their defaults.
	assert.Equal(t, 768, cfg.Pipeline.EmbeddingDim)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("LOGLENS_HTTP_PORT", "7000")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.HTTPPort)
}

func TestQueueConfigDurations(t *testing.T) {
	q := QueueConfig{BackoffInitialMS: 2000, StallSweepIntervalSec: 30, JobLockSeconds: 30}
	assert.Equal(t, "2s", q.BackoffInitial().String())
	assert.Equal(t, "30s", q.StallSweepInterval().String())
	assert.Equal(t, "30s", q.JobLock().String())
}

func TestStats(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	stats := cfg.Stats()
	assert.Equal(t, cfg.Pipeline.MaxChunkLines, stats.MaxChunkLines)
	assert.Equal(t, cfg.Queue.WorkerCount, stats.QueueWorkerCount)
}
