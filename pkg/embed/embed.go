// Package embed requests chunk embeddings from the LLM provider and
// writes them back to the store, best-effort per chunk (spec.md §4.6).
package embed

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/ci-loglens/loglens/pkg/llm"
	"github.com/ci-loglens/loglens/pkg/models"
)

// DefaultExpectedDim is the embedding dimensionality the store's vector
// column is sized for when no configured value is supplied. Other
// dimensions are accepted but logged.
const DefaultExpectedDim = 768

// DefaultMaxChars bounds the input text sent to the provider when no
// configured value is supplied.
const DefaultMaxChars = 20000

// DefaultInterCallDelay paces successive embedding calls to respect
// provider rate limits (spec.md §4.6) when no configured value is
// supplied.
const DefaultInterCallDelay = 100 * time.Millisecond

var whitespaceRun = regexp.MustCompile(`\s+`)

// ChunkUpdater is the subset of pkg/store.Store the embedder writes
// through; narrowed to ease testing without a live database.
type ChunkUpdater interface {
	UpdateChunkEmbedding(ctx context.Context, chunkID string, vec []float32) error
}

// Config carries the embedder tunables from pkg/config.PipelineConfig
// (spec.md §6 "embedding_dim", "embedding_max_chars",
// "embedding_inter_call_delay_ms").
type Config struct {
	ExpectedDim    int
	MaxChars       int
	InterCallDelay time.Duration
}

// DefaultConfig mirrors this package's built-in defaults, for callers
// (tests, one-off CLI invocations) with no loaded config.
func DefaultConfig() Config {
	return Config{ExpectedDim: DefaultExpectedDim, MaxChars: DefaultMaxChars, InterCallDelay: DefaultInterCallDelay}
}

// Embedder requests and persists embeddings for a run's chunks.
type Embedder struct {
	provider llm.Provider
	store    ChunkUpdater
	cfg      Config
	logger   *slog.Logger
}

// New builds an Embedder. A zero-value cfg falls back to DefaultConfig.
func New(provider llm.Provider, store ChunkUpdater, cfg Config, logger *slog.Logger) *Embedder {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ExpectedDim <= 0 {
		cfg.ExpectedDim = DefaultExpectedDim
	}
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = DefaultMaxChars
	}
	if cfg.InterCallDelay <= 0 {
		cfg.InterCallDelay = DefaultInterCallDelay
	}
	return &Embedder{provider: provider, store: store, cfg: cfg, logger: logger}
}

// Stats summarizes one EmbedAll run.
type Stats struct {
	Attempted int
	Succeeded int
	Failed    int
}

// EmbedAll requests an embedding for each chunk in turn and writes it
// back via the store. A failure on one chunk does not abort the rest
// (spec.md §4.6 "best-effort, per-chunk"); all attempts complete before
// EmbedAll returns, honoring the ordering guarantee that embedding
// precedes classification (spec.md §5).
func (e *Embedder) EmbedAll(ctx context.Context, chunks []models.Chunk) Stats {
	var stats Stats

	for i, c := range chunks {
		stats.Attempted++

		text := e.prepare(c.Content)
		vec, err := e.provider.Embed(ctx, text)
		if err != nil {
			stats.Failed++
			e.logger.Warn("embedding failed", "chunk_id", c.ID, "chunk_index", c.Index, "error", err)
		} else {
			if len(vec) != e.cfg.ExpectedDim {
				e.logger.Warn("embedding dimension mismatch", "chunk_id", c.ID, "expected", e.cfg.ExpectedDim, "got", len(vec))
			}
			if err := e.store.UpdateChunkEmbedding(ctx, c.ID, vec); err != nil {
				stats.Failed++
				e.logger.Warn("storing embedding failed", "chunk_id", c.ID, "error", err)
			} else {
				stats.Succeeded++
			}
		}

		if i < len(chunks)-1 {
			select {
			case <-ctx.Done():
				return stats
			case <-time.After(e.cfg.InterCallDelay):
			}
		}
	}

	return stats
}

// prepare collapses whitespace and truncates to cfg.MaxChars, logging a
// warning on truncation (spec.md §4.6 "Input preparation").
func (e *Embedder) prepare(content string) string {
	collapsed := strings.TrimSpace(whitespaceRun.ReplaceAllString(content, " "))
	if len(collapsed) <= e.cfg.MaxChars {
		return collapsed
	}
	e.logger.Warn("truncating chunk text before embedding", "original_length", len(collapsed), "max_chars", e.cfg.MaxChars)
	return collapsed[:e.cfg.MaxChars]
}
