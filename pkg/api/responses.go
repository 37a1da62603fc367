package api

import (
	"github.com/ci-loglens/loglens/pkg/models"
	"github.com/ci-loglens/loglens/pkg/store"
)

// AnalyzeResponse is returned by POST /analyze (spec.md §6 "returns
// {detectedErrors, steps, rootCause, failureStage, suggestedFix}").
type AnalyzeResponse struct {
	DetectedErrors []models.DetectedError `json:"detectedErrors"`
	Steps          []models.StepSummary   `json:"steps"`
	RootCause      string                  `json:"rootCause"`
	FailureStage   string                  `json:"failureStage"`
	SuggestedFix   string                  `json:"suggestedFix"`
}

// HealthResponse is returned by GET /health, grounded on the teacher's
// cmd/tarsy/main.go health handler shape (db reachability + config
// stats) extended with queue pool health and embedding backlog
// (SPEC_FULL.md §6).
type HealthResponse struct {
	Status        string `json:"status"`
	Database      any    `json:"database"`
	Configuration any    `json:"configuration"`
	Queue         any    `json:"queue,omitempty"`
	Embeddings    any    `json:"embeddings,omitempty"`
}

// ErrorResponse is the uniform JSON error shape for every non-2xx
// response this package returns.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SearchResponse is returned by GET /search (spec.md §4.7).
type SearchResponse struct {
	Results []store.SimilarChunk `json:"results"`
}
