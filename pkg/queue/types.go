// Package queue runs the job pool that pulls log-analysis work off a
// NATS JetStream durable consumer and drives it through the pipeline
// (spec.md §5/§6). The worker-pool/health shape is grounded on the
// teacher's pkg/queue (pool.go/worker.go/orphan.go); the claim
// mechanism is swapped from the teacher's Postgres row-polling for a
// JetStream pull subscription, per SPEC_FULL.md §5 "Queue transport".
package queue

import (
	"context"
	"errors"
	"time"
)

// Subject is the JetStream subject jobs are published to and consumed
// from (spec.md §6 "queue name log-processing").
const Subject = "log-processing"

// StreamName is the JetStream stream backing Subject.
const StreamName = "LOGPROCESSING"

// DurableConsumer is the name of the durable pull consumer every
// worker pod shares.
const DurableConsumer = "loglens-workers"

// Sentinel errors for queue operations, grounded on the teacher's
// pkg/queue.ErrNoSessionsAvailable/ErrAtCapacity sentinel style.
var (
	// ErrNoJobAvailable indicates a Fetch call timed out with nothing to
	// deliver.
	ErrNoJobAvailable = errors.New("no job available")

	// ErrBadEnvelope indicates the job payload failed to decode — this is
	// terminal and the message is Term()'d rather than redelivered.
	ErrBadEnvelope = errors.New("job envelope is not valid JSON")
)

// JobEnvelope is the JSON payload published to Subject (spec.md §6 "Job
// envelope").
type JobEnvelope struct {
	RepoFullName   string `json:"repoFullName"`
	RunID          string `json:"runId"`
	InstallationID int64  `json:"installationId"`
}

// Executor processes one job end to end: archive fetch, clean, step
// detect, chunk, extract, persist, embed, classify, RAG, analyze,
// persist result. It owns the entire run lifecycle, mirroring the
// teacher's SessionExecutor contract.
type Executor interface {
	Execute(ctx context.Context, job JobEnvelope) error
}

// PoolHealth mirrors the teacher's queue.PoolHealth, trimmed to the
// fields this domain's /health endpoint surfaces (spec.md §6, "GET
// /health ... extended with queue pool health").
type PoolHealth struct {
	IsHealthy        bool           `json:"is_healthy"`
	WorkerCount      int            `json:"worker_count"`
	ActiveWorkers    int            `json:"active_workers"`
	WorkerStats      []WorkerHealth `json:"worker_stats"`
	LastStallSweep   time.Time      `json:"last_stall_sweep"`
	StalledRecovered int            `json:"stalled_recovered"`
}

// WorkerHealth mirrors the teacher's queue.WorkerHealth.
type WorkerHealth struct {
	ID           string    `json:"id"`
	Status       string    `json:"status"`
	CurrentRunID string    `json:"current_run_id,omitempty"`
	JobsHandled  int       `json:"jobs_handled"`
	LastActivity time.Time `json:"last_activity"`
}

// WorkerStatus is the current state of a worker (idle or working),
// mirroring the teacher's queue.WorkerStatus.
type WorkerStatus string

const (
	WorkerStatusIdle    WorkerStatus = "idle"
	WorkerStatusWorking WorkerStatus = "working"
)
