package schema

import "time"

// AnalysisResult documents the AnalysisResult entity.
// Implemented by pkg/store.Store (UpsertAnalysisResult,
// GetAnalysisResultByRunID).
//
// Fields:
//
//	id               string   unique, immutable
//	run_id           string   unique — one AnalysisResult per run
//	root_cause       text
//	failure_stage    text
//	suggested_fix    text
//	failure_type     string   enumerated FailureType tag
//	priority         int      0..99 (99 == unknown)
//	used_llm         bool
//	confidence       float64
//	confidence_note  string
//	detected_errors  jsonb    []DetectedError
//	steps            jsonb    []StepSummary
//	created_at       time     default now
//
// Edges:
//
//	run  ← Run, required, unique, cascade delete
//
// Indexes:
//
//	(run_id) unique
//	(failure_type)
//	GIN(to_tsvector('english', root_cause)) — ambient full-text search,
//	mirrors the teacher's AlertSession.final_analysis GIN index
type AnalysisResult struct {
	ID             string
	RunID          string
	RootCause      string
	FailureStage   string
	SuggestedFix   string
	FailureType    string
	Priority       int
	UsedLLM        bool
	Confidence     float64
	ConfidenceNote string
	CreatedAt      time.Time
}
