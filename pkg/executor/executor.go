// Package executor wires one queue job (spec.md §5/§6) through the
// full pipeline: resolve the log archive's short-lived URL, fetch and
// flatten it, run it through the Cleaner/Step-Detector/Chunker/Error-
// Extractor, persist the chunks, embed them, then classify/RAG/LLM and
// persist the analysis. This is the concrete queue.Executor the queue
// package's worker pool dispatches jobs to; nothing in pkg/queue knows
// about archives, chunks, or the LLM directly (spec.md §5 "workers are
// pipeline-agnostic transport").
package executor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ci-loglens/loglens/pkg/analyze"
	"github.com/ci-loglens/loglens/pkg/archive"
	"github.com/ci-loglens/loglens/pkg/embed"
	"github.com/ci-loglens/loglens/pkg/models"
	"github.com/ci-loglens/loglens/pkg/pipeline"
	"github.com/ci-loglens/loglens/pkg/queue"
)

// RunStore is the subset of pkg/store.Store the executor needs beyond
// what pkg/embed and pkg/analyze already narrow for themselves.
type RunStore interface {
	GetRun(ctx context.Context, runID string) (models.Run, error)
	ReplaceChunks(ctx context.Context, runID string, chunks []models.Chunk) error
	ListChunks(ctx context.Context, runID string) ([]models.Chunk, error)
}

// Fetcher is the subset of pkg/archive.Fetcher the executor depends on.
type Fetcher interface {
	FetchAndFlatten(ctx context.Context, url string) (string, error)
}

// Executor implements queue.Executor by running one job through every
// pipeline stage in order (spec.md §5's ordering guarantee: fetch →
// clean/detect/chunk/extract → persist chunks → embed → classify/RAG/
// analyze → persist analysis).
type Executor struct {
	resolver     archive.URLResolver
	fetcher      Fetcher
	store        RunStore
	embedder     *embed.Embedder
	analyzer     *analyze.Analyzer
	pipelineOpts pipeline.Options
	logger       *slog.Logger
}

// New builds an Executor. pipelineOpts is normally built from
// pkg/config.PipelineConfig; a zero value falls back to
// pipeline.DefaultOptions.
func New(resolver archive.URLResolver, fetcher Fetcher, store RunStore, embedder *embed.Embedder, analyzer *analyze.Analyzer, pipelineOpts pipeline.Options, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	if pipelineOpts.MaxChunkLines <= 0 {
		pipelineOpts = pipeline.DefaultOptions()
	}
	return &Executor{resolver: resolver, fetcher: fetcher, store: store, embedder: embedder, analyzer: analyzer, pipelineOpts: pipelineOpts, logger: logger}
}

var _ queue.Executor = (*Executor)(nil)

// Execute runs job through the full pipeline. Errors returned here
// drive the worker's retry/terminal decision via queue.Retryable.
func (e *Executor) Execute(ctx context.Context, job queue.JobEnvelope) error {
	log := e.logger.With("run_id", job.RunID, "repo", job.RepoFullName)

	run, err := e.store.GetRun(ctx, job.RunID)
	if err != nil {
		return fmt.Errorf("executor: load run: %w", err)
	}

	url, err := e.resolver.ResolveLogURL(ctx, job.RepoFullName, run.ProviderRunID)
	if err != nil {
		return fmt.Errorf("executor: resolve log url: %w", err)
	}

	raw, err := e.fetcher.FetchAndFlatten(ctx, url)
	if err != nil {
		return fmt.Errorf("executor: fetch archive: %w", err)
	}

	result := pipeline.Run(raw, e.pipelineOpts)
	log.Info("pipeline stages complete", "chunks", len(result.Chunks), "errors", len(result.Errors), "steps", len(result.Steps))

	if err := e.store.ReplaceChunks(ctx, job.RunID, result.Chunks); err != nil {
		return fmt.Errorf("executor: persist chunks: %w", err)
	}

	persisted, err := e.store.ListChunks(ctx, job.RunID)
	if err != nil {
		return fmt.Errorf("executor: reload persisted chunks: %w", err)
	}

	embedStats := e.embedder.EmbedAll(ctx, persisted)
	log.Info("embedding complete", "attempted", embedStats.Attempted, "succeeded", embedStats.Succeeded, "failed", embedStats.Failed)

	_, err = e.analyzer.Analyze(ctx, analyze.Input{
		RunID:       job.RunID,
		Chunks:      persisted,
		Errors:      result.Errors,
		Steps:       result.Steps,
		FullContent: result.CleanedText,
	})
	if err != nil {
		return fmt.Errorf("executor: analyze: %w", err)
	}

	return nil
}
