package models

import "time"

// FailureType is the deterministic category the classifier (pkg/pipeline/classify)
// assigns to a run, in detection-order (spec.md §4.8).
type FailureType string

// Failure categories, listed in the classifier's strict detection order.
// UNKNOWN is the default when nothing in the catalogue matches.
const (
	FailureIntentional FailureType = "INTENTIONAL"
	FailureTest        FailureType = "TEST"
	FailureBuild       FailureType = "BUILD"
	FailureRuntime     FailureType = "RUNTIME"
	FailureInfra       FailureType = "INFRA"
	FailureSecurity    FailureType = "SECURITY"
	FailureTimeout     FailureType = "TIMEOUT"
	FailureDependency  FailureType = "DEPENDENCY"
	FailureConfig      FailureType = "CONFIG"
	FailurePermission  FailureType = "PERMISSION"
	FailureLint        FailureType = "LINT"
	FailureUnknown     FailureType = "UNKNOWN"
)

// PriorityUnknown is the priority assigned to FailureUnknown (spec.md §3).
const PriorityUnknown = 99

// StepSummary is the structured per-step record stored alongside an
// AnalysisResult's "steps" JSON column (spec.md §3).
type StepSummary struct {
	Name       string `json:"name"`
	StartLine  int    `json:"start_line"`
	EndLine    int    `json:"end_line"`
	HasErrors  bool   `json:"has_errors"`
	ErrorCount int    `json:"error_count"`
}

// AnalysisResult is the single narrative+classification record kept
// per run (spec.md §3 — "exactly one per run; upsert keyed by run-ref").
type AnalysisResult struct {
	ID              string          `json:"id"`
	RunID           string          `json:"run_id"` // unique
	RootCause       string          `json:"root_cause"`
	FailureStage    string          `json:"failure_stage"`
	SuggestedFix    string          `json:"suggested_fix"`
	FailureType     FailureType     `json:"failure_type"`
	Priority        int             `json:"priority"` // enumerated set or 99
	UsedLLM         bool            `json:"used_llm"`
	Confidence      float64         `json:"confidence"`
	ConfidenceNote  string          `json:"confidence_note"`
	DetectedErrors  []DetectedError `json:"detected_errors"`
	Steps           []StepSummary   `json:"steps"`
	CreatedAt       time.Time       `json:"created_at"`
}
