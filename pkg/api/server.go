// Package api exposes the pipeline's small inbound HTTP surface
// (spec.md §6 "Inbound HTTP"): a synchronous analyze endpoint, a health
// check, and a minimal read endpoint for a run's persisted analysis.
// The teacher's own pkg/api imports labstack/echo/v5, which is not a
// real wired dependency in this corpus (absent from go.mod); gin is the
// router actually pinned there (see cmd/tarsy/main.go), so this package
// follows gin instead (see DESIGN.md).
package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ci-loglens/loglens/pkg/analyze"
	"github.com/ci-loglens/loglens/pkg/config"
	"github.com/ci-loglens/loglens/pkg/database"
	"github.com/ci-loglens/loglens/pkg/models"
	"github.com/ci-loglens/loglens/pkg/pipeline"
	"github.com/ci-loglens/loglens/pkg/queue"
	"github.com/ci-loglens/loglens/pkg/store"
)

// RunReader is the subset of pkg/store.Store the read-only run/analysis
// endpoints depend on.
type RunReader interface {
	GetAnalysisResultByRunID(ctx context.Context, runID string) (models.AnalysisResult, error)
}

// QueueHealth is the subset of pkg/queue.WorkerPool the health endpoint
// depends on.
type QueueHealth interface {
	Health() queue.PoolHealth
}

// EmbeddingStatser is the subset of pkg/store.Store the health endpoint
// depends on for embedding-backlog reporting.
type EmbeddingStatser interface {
	EmbeddingStats(ctx context.Context) (store.EmbeddingStats, error)
}

// QueryEmbedder is the subset of pkg/llm.Provider the search endpoint
// depends on to turn a free-text query into a vector.
type QueryEmbedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Searcher is the subset of pkg/store.Store the search endpoint depends
// on (spec.md §4.7 operations).
type Searcher interface {
	FindSimilarChunks(ctx context.Context, queryVec []float32, limit int, minSim float64) ([]store.SimilarChunk, error)
	FindSimilarErrors(ctx context.Context, queryVec []float32, limit int, minSim float64) ([]store.SimilarChunk, error)
}

// Server wires the handlers onto a gin.Engine.
type Server struct {
	db                   *database.Client
	cfg                  *config.Config
	reader               RunReader
	stats                EmbeddingStatser
	pool                 QueueHealth
	analyzer             *analyze.Analyzer
	embedder             QueryEmbedder
	searcher             Searcher
	pipelineOpts         pipeline.Options
	defaultMinSimilarity float64
	router               *gin.Engine
}

// NewServer builds a Server and registers its routes. pool, embedder,
// and searcher may be nil (e.g. in a one-off CLI invocation with no
// worker pool or LLM provider running) — the health handler and the
// /search endpoint degrade gracefully.
func NewServer(db *database.Client, cfg *config.Config, reader RunReader, stats EmbeddingStatser, pool QueueHealth, analyzer *analyze.Analyzer, embedder QueryEmbedder, searcher Searcher) *Server {
	gin.SetMode(cfg.GinMode)
	minSim := cfg.Pipeline.SearchMinSimilarity
	if minSim <= 0 {
		minSim = store.DefaultSearchMinSimilarity
	}
	pipelineOpts := pipeline.Options{MaxChunkLines: cfg.Pipeline.MaxChunkLines, TokensPerChar: cfg.Pipeline.TokensPerChar}
	s := &Server{
		db: db, cfg: cfg, reader: reader, stats: stats, pool: pool, analyzer: analyzer,
		embedder: embedder, searcher: searcher, pipelineOpts: pipelineOpts, defaultMinSimilarity: minSim,
		router: gin.New(),
	}
	s.router.Use(gin.Recovery(), requestLogger())
	s.routes()
	return s
}

// Router returns the underlying gin.Engine for http.ListenAndServe.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) routes() {
	s.router.POST("/analyze", s.handleAnalyze)
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/runs/:id/analysis", s.handleGetRunAnalysis)
	s.router.GET("/search", s.handleSearch)
}

// requestLogger is a minimal slog-backed replacement for the teacher's
// echo security-headers middleware (pkg/api/middleware.go) — this
// domain has no browser-facing surface to harden, so only structured
// access logging is carried over.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

func writeError(c *gin.Context, status int, err error) {
	c.JSON(status, ErrorResponse{Error: err.Error()})
}
