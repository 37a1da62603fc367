package store

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/ci-loglens/loglens/pkg/models"
)

// UpsertAnalysisResult writes the single narrative+classification record
// for a run, keyed by run-ref (spec.md §4.10 step 5).
func (s *Store) UpsertAnalysisResult(ctx context.Context, a models.AnalysisResult) (models.AnalysisResult, error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}

	detectedErrors, err := json.Marshal(a.DetectedErrors)
	if err != nil {
		return models.AnalysisResult{}, wrap("marshal detected errors", err)
	}
	steps, err := json.Marshal(a.Steps)
	if err != nil {
		return models.AnalysisResult{}, wrap("marshal steps", err)
	}

	const q = `
		INSERT INTO analysis_results (
			id, run_id, root_cause, failure_stage, suggested_fix, failure_type,
			priority, used_llm, confidence, confidence_note, detected_errors, steps
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (run_id) DO UPDATE SET
			root_cause      = EXCLUDED.root_cause,
			failure_stage   = EXCLUDED.failure_stage,
			suggested_fix   = EXCLUDED.suggested_fix,
			failure_type    = EXCLUDED.failure_type,
			priority        = EXCLUDED.priority,
			used_llm        = EXCLUDED.used_llm,
			confidence      = EXCLUDED.confidence,
			confidence_note = EXCLUDED.confidence_note,
			detected_errors = EXCLUDED.detected_errors,
			steps           = EXCLUDED.steps
		RETURNING id, created_at`

	err = s.pool.QueryRow(ctx, q,
		a.ID, a.RunID, a.RootCause, a.FailureStage, a.SuggestedFix, a.FailureType,
		a.Priority, a.UsedLLM, a.Confidence, a.ConfidenceNote, detectedErrors, steps,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return models.AnalysisResult{}, wrap("upsert analysis result", err)
	}
	return a, nil
}

// GetAnalysisResultByRunID loads the AnalysisResult for a run.
func (s *Store) GetAnalysisResultByRunID(ctx context.Context, runID string) (models.AnalysisResult, error) {
	const q = `
		SELECT id, run_id, root_cause, failure_stage, suggested_fix, failure_type,
			priority, used_llm, confidence, confidence_note, detected_errors, steps, created_at
		FROM analysis_results WHERE run_id = $1`

	var a models.AnalysisResult
	var detectedErrors, steps []byte
	err := s.pool.QueryRow(ctx, q, runID).Scan(
		&a.ID, &a.RunID, &a.RootCause, &a.FailureStage, &a.SuggestedFix, &a.FailureType,
		&a.Priority, &a.UsedLLM, &a.Confidence, &a.ConfidenceNote, &detectedErrors, &steps, &a.CreatedAt,
	)
	if isNoRows(err) {
		return models.AnalysisResult{}, ErrAnalysisNotFound
	}
	if err != nil {
		return models.AnalysisResult{}, wrap("get analysis result", err)
	}

	if err := json.Unmarshal(detectedErrors, &a.DetectedErrors); err != nil {
		return models.AnalysisResult{}, wrap("unmarshal detected errors", err)
	}
	if err := json.Unmarshal(steps, &a.Steps); err != nil {
		return models.AnalysisResult{}, wrap("unmarshal steps", err)
	}
	return a, nil
}
