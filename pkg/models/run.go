package models

import "time"

// RunStatus is the terminal (or in-flight) status of a CI run.
type RunStatus string

// Run statuses. Status is terminal once it reaches one of the values
// below other than Pending/InProgress (spec.md §3 "status is terminal
// once set").
const (
	RunStatusPending    RunStatus = "pending"
	RunStatusInProgress RunStatus = "in_progress"
	RunStatusSuccess    RunStatus = "success"
	RunStatusFailure    RunStatus = "failure"
	RunStatusCancelled  RunStatus = "cancelled"
)

// Run is a single CI/CD run whose logs are ingested and analyzed.
type Run struct {
	ID             string     `json:"id"`
	ProviderRunID  string     `json:"provider_run_id"` // unique
	RepositoryID   string     `json:"repository_id"`
	WorkflowName   string     `json:"workflow_name"`
	Status         RunStatus  `json:"status"`
	Trigger        string     `json:"trigger"`
	CommitSHA      string     `json:"commit_sha"`
	Branch         string     `json:"branch"`
	Actor          string     `json:"actor"`
	ProviderURL    string     `json:"provider_url"`
	CreatedAt      time.Time  `json:"created_at"`

	// ProcessingStatus/WorkerID/LastHeartbeatAt are ambient observability
	// columns mirroring the teacher's AlertSession.status/pod_id/
	// last_interaction_at — kept for the orphan-sweep and health-endpoint
	// features (SPEC_FULL §5); they do not participate in the delivery
	// guarantee, which JetStream redelivery provides.
	ProcessingStatus string     `json:"processing_status"`
	WorkerID         *string    `json:"worker_id,omitempty"`
	LastHeartbeatAt  *time.Time `json:"last_heartbeat_at,omitempty"`
}
