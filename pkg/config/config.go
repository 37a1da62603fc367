// Package config loads the pipeline's runtime tunables (chunking,
// embedding, RAG, search, queue, archive, retention, HTTP) from a YAML file merged with
// environment overrides, matching the teacher's Initialize/Stats shape
// but trimmed to this domain's own registries instead of the teacher's
// agent/chain/MCP surface.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// PipelineConfig groups the Cleaner/Chunker/Embedder/RAG thresholds
// referenced throughout pkg/pipeline, pkg/embed and pkg/rag.
type PipelineConfig struct {
	MaxChunkLines      int `mapstructure:"max_chunk_lines"`
	TokensPerChar      int `mapstructure:"tokens_per_char"`
	EmbeddingDim       int `mapstructure:"embedding_dim"`
	EmbeddingMaxChars  int `mapstructure:"embedding_max_chars"`
	EmbeddingInterCall int `mapstructure:"embedding_inter_call_delay_ms"`

	RAGMaxCases         int     `mapstructure:"rag_max_cases"`
	RAGMinSimilarity    float64 `mapstructure:"rag_min_similarity"`
	SearchMinSimilarity float64 `mapstructure:"search_default_min_similarity"`
}

// QueueConfig mirrors the teacher's pkg/config.QueueConfig, trimmed to
// the fields a JetStream pull-consumer worker pool needs instead of the
// teacher's DB-polling worker pool (spec.md §5, SPEC_FULL.md §5 "Queue
// transport").
type QueueConfig struct {
	WorkerCount           int    `mapstructure:"worker_count"`
	JobLockSeconds        int    `mapstructure:"job_lock_seconds"`
	MaxStalledRetries     int    `mapstructure:"job_max_stalled_retries"`
	BackoffInitialMS      int    `mapstructure:"job_backoff_initial_ms"`
	StallSweepIntervalSec int    `mapstructure:"stall_sweep_interval_seconds"`
	NATSURL               string `mapstructure:"nats_url"`
}

// BackoffInitial is the JetStream nak backoff starting point (spec.md
// §5/§6 exponential backoff).
func (q QueueConfig) BackoffInitial() time.Duration {
	return time.Duration(q.BackoffInitialMS) * time.Millisecond
}

// StallSweepInterval is how often the observability-only stall sweep
// runs (see pkg/queue/stall.go).
func (q QueueConfig) StallSweepInterval() time.Duration {
	return time.Duration(q.StallSweepIntervalSec) * time.Second
}

// JobLock is the JetStream AckWait / job lock duration.
func (q QueueConfig) JobLock() time.Duration {
	return time.Duration(q.JobLockSeconds) * time.Second
}

// RetentionConfig controls the background cleanup loop (pkg/cleanup),
// grounded on the teacher's own RetentionConfig/cleanup.Service pair
// and generalized from "soft-delete old sessions" to "hard-delete old
// runs" since runs/chunks/analysis here have no soft-delete column.
type RetentionConfig struct {
	RunRetentionDays  int `mapstructure:"run_retention_days"`
	CleanupIntervalMin int `mapstructure:"cleanup_interval_minutes"`
}

// CleanupInterval is how often the retention loop sweeps.
func (r RetentionConfig) CleanupInterval() time.Duration {
	return time.Duration(r.CleanupIntervalMin) * time.Minute
}

// ArchiveConfig configures the short-lived-URL resolver and fetcher
// (pkg/archive) against the CI provider's REST API (spec.md §6
// "Provider interface (log fetch)").
type ArchiveConfig struct {
	APIBaseURL string `mapstructure:"api_base_url"`
	Token      string `mapstructure:"token"`
}

// Config is the umbrella object returned by Load, analogous to the
// teacher's *Config returned from config.Initialize.
type Config struct {
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Queue     QueueConfig     `mapstructure:"queue"`
	Archive   ArchiveConfig   `mapstructure:"archive"`
	Retention RetentionConfig `mapstructure:"retention"`

	HTTPPort string `mapstructure:"http_port"`
	GinMode  string `mapstructure:"gin_mode"`
}

// Stats mirrors the teacher's ConfigStats — a small summary surfaced by
// the /health endpoint.
type Stats struct {
	MaxChunkLines    int
	EmbeddingDim     int
	RAGMaxCases      int
	QueueWorkerCount int
}

func (c *Config) Stats() Stats {
	return Stats{
		MaxChunkLines:    c.Pipeline.MaxChunkLines,
		EmbeddingDim:     c.Pipeline.EmbeddingDim,
		RAGMaxCases:      c.Pipeline.RAGMaxCases,
		QueueWorkerCount: c.Queue.WorkerCount,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("pipeline.max_chunk_lines", 1000)
	v.SetDefault("pipeline.tokens_per_char", 4)
	v.SetDefault("pipeline.embedding_dim", 768)
	v.SetDefault("pipeline.embedding_max_chars", 20000)
	v.SetDefault("pipeline.embedding_inter_call_delay_ms", 100)
	v.SetDefault("pipeline.rag_max_cases", 3)
	v.SetDefault("pipeline.rag_min_similarity", 0.6)
	v.SetDefault("pipeline.search_default_min_similarity", 0.7)

	v.SetDefault("queue.worker_count", 5)
	v.SetDefault("queue.job_lock_seconds", 600)
	v.SetDefault("queue.job_max_stalled_retries", 3)
	v.SetDefault("queue.job_backoff_initial_ms", 2000)
	v.SetDefault("queue.stall_sweep_interval_seconds", 30)
	v.SetDefault("queue.nats_url", "nats://localhost:4222")

	v.SetDefault("archive.api_base_url", "https://api.github.com")
	v.SetDefault("archive.token", "")

	v.SetDefault("retention.run_retention_days", 90)
	v.SetDefault("retention.cleanup_interval_minutes", 720)

	v.SetDefault("http_port", "8080")
	v.SetDefault("gin_mode", "release")
}

// Load reads config.yaml (if present) from configDir, merges
// environment overrides (LOGLENS_ prefixed, matching the teacher's
// env-over-file precedence), and returns the populated Config.
//
// A missing config file is not an error — every field has a built-in
// default, mirroring the teacher's DefaultQueueConfig/DefaultRetentionConfig
// fallback pattern.
func Load(configDir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configDir != "" {
		v.AddConfigPath(configDir)
	}

	v.SetEnvPrefix("LOGLENS")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	return &cfg, nil
}
