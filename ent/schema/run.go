package schema

import "time"

// Run documents the Run entity.
// Implemented by pkg/store.Store (UpsertRun, GetRun, ClaimRun, Heartbeat,
// FinishRun, StalledRuns, DeleteRunsOlderThan).
//
// Fields:
//
//	id                 string  unique, immutable
//	provider_run_id    string  unique
//	repository_id      string
//	workflow_name      string
//	status             enum    success|failure|cancelled|timed_out, terminal once set
//	trigger            string  optional
//	commit_sha         string  optional
//	branch             string  optional
//	actor              string  optional
//	provider_url       string  optional
//	created_at         time    default now, immutable
//	processing_status  string  default "pending" — ambient, see SPEC_FULL §5
//	worker_id          string  optional, nillable — ambient
//	last_heartbeat_at  time    optional, nillable — ambient
//
// Edges:
//
//	repository       ← Repository, required, unique
//	chunks           → Chunk, one-to-many, cascade delete
//	analysis_result  → AnalysisResult, unique, cascade delete
//
// Indexes:
//
//	(repository_id, created_at)
//	(processing_status)
//	(processing_status, last_heartbeat_at)
type Run struct {
	ID               string
	ProviderRunID    string
	RepositoryID     string
	WorkflowName     string
	Status           string
	Trigger          string
	CommitSHA        string
	Branch           string
	Actor            string
	ProviderURL      string
	CreatedAt        time.Time
	ProcessingStatus string
	WorkerID         *string
	LastHeartbeatAt  *time.Time
}
