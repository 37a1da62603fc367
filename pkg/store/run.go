package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/ci-loglens/loglens/pkg/models"
)

// UpsertRun inserts or refreshes a run row keyed by its provider run id
// (spec.md §4.12). If r.ID is empty, a new id is generated.
func (s *Store) UpsertRun(ctx context.Context, r models.Run) (models.Run, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.ProcessingStatus == "" {
		r.ProcessingStatus = "pending"
	}

	const q = `
		INSERT INTO runs (
			id, provider_run_id, repository_id, workflow_name, status,
			trigger, commit_sha, branch, actor, provider_url, processing_status
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (provider_run_id) DO UPDATE SET
			workflow_name = EXCLUDED.workflow_name,
			status        = EXCLUDED.status,
			trigger       = EXCLUDED.trigger,
			commit_sha    = EXCLUDED.commit_sha,
			branch        = EXCLUDED.branch,
			actor         = EXCLUDED.actor,
			provider_url  = EXCLUDED.provider_url
		RETURNING id, created_at`

	err := s.pool.QueryRow(ctx, q,
		r.ID, r.ProviderRunID, r.RepositoryID, r.WorkflowName, r.Status,
		r.Trigger, r.CommitSHA, r.Branch, r.Actor, r.ProviderURL, r.ProcessingStatus,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return models.Run{}, wrap("upsert run", err)
	}
	return r, nil
}

// GetRun loads a run by its internal id.
func (s *Store) GetRun(ctx context.Context, runID string) (models.Run, error) {
	const q = `
		SELECT id, provider_run_id, repository_id, workflow_name, status,
			trigger, commit_sha, branch, actor, provider_url, created_at,
			processing_status, worker_id, last_heartbeat_at
		FROM runs WHERE id = $1`

	var r models.Run
	err := s.pool.QueryRow(ctx, q, runID).Scan(
		&r.ID, &r.ProviderRunID, &r.RepositoryID, &r.WorkflowName, &r.Status,
		&r.Trigger, &r.CommitSHA, &r.Branch, &r.Actor, &r.ProviderURL, &r.CreatedAt,
		&r.ProcessingStatus, &r.WorkerID, &r.LastHeartbeatAt,
	)
	if isNoRows(err) {
		return models.Run{}, ErrRunNotFound
	}
	if err != nil {
		return models.Run{}, wrap("get run", err)
	}
	return r, nil
}

// ClaimRun marks a run as claimed by a worker, stamping its heartbeat.
// The ambient processing_status/worker_id/last_heartbeat_at columns are
// observability-only (spec.md §5): the authoritative at-least-once
// delivery guarantee comes from the JetStream consumer, not from this
// row's state.
func (s *Store) ClaimRun(ctx context.Context, runID, workerID string) error {
	const q = `
		UPDATE runs SET processing_status = 'in_progress', worker_id = $2, last_heartbeat_at = now()
		WHERE id = $1`
	_, err := s.pool.Exec(ctx, q, runID, workerID)
	return wrap("claim run", err)
}

// Heartbeat refreshes a claimed run's last_heartbeat_at so the orphan
// sweep does not consider it stalled.
func (s *Store) Heartbeat(ctx context.Context, runID string) error {
	const q = `UPDATE runs SET last_heartbeat_at = now() WHERE id = $1`
	_, err := s.pool.Exec(ctx, q, runID)
	return wrap("heartbeat run", err)
}

// FinishRun clears the worker claim and records the terminal processing
// status ("completed" or "failed" from a worker, "stalled" from the stall
// sweep).
func (s *Store) FinishRun(ctx context.Context, runID, processingStatus string) error {
	const q = `
		UPDATE runs SET processing_status = $2, worker_id = NULL, last_heartbeat_at = NULL
		WHERE id = $1`
	_, err := s.pool.Exec(ctx, q, runID, processingStatus)
	return wrap("finish run", err)
}

// StalledRuns returns runs claimed more than staleAfterSeconds ago that
// are still in_progress, for the stall sweep to clear their claim
// (redelivery of the job itself is left to JetStream).
func (s *Store) StalledRuns(ctx context.Context, staleAfterSeconds int) ([]models.Run, error) {
	const q = `
		SELECT id, provider_run_id, repository_id, workflow_name, status,
			trigger, commit_sha, branch, actor, provider_url, created_at,
			processing_status, worker_id, last_heartbeat_at
		FROM runs
		WHERE processing_status = 'in_progress'
			AND last_heartbeat_at < now() - make_interval(secs => $1)`

	rows, err := s.pool.Query(ctx, q, staleAfterSeconds)
	if err != nil {
		return nil, wrap("stalled runs", err)
	}
	defer rows.Close()

	var out []models.Run
	for rows.Next() {
		var r models.Run
		if err := rows.Scan(
			&r.ID, &r.ProviderRunID, &r.RepositoryID, &r.WorkflowName, &r.Status,
			&r.Trigger, &r.CommitSHA, &r.Branch, &r.Actor, &r.ProviderURL, &r.CreatedAt,
			&r.ProcessingStatus, &r.WorkerID, &r.LastHeartbeatAt,
		); err != nil {
			return nil, wrap("scan stalled run", err)
		}
		out = append(out, r)
	}
	return out, wrap("stalled runs rows", rows.Err())
}
