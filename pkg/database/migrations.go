package database

import (
	"context"
	stdsql "database/sql"
	"fmt"
)

// CreateGINIndexes creates the full-text search GIN indexes that are not
// expressed in the plain migration SQL: one over analysis_results.root_cause
// (ent/schema/analysis_result.go documents this as an ambient index).
func CreateGINIndexes(ctx context.Context, db *stdsql.DB) error {
	_, err := db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_analysis_results_root_cause_gin
		ON analysis_results USING gin(to_tsvector('english', root_cause))`)
	if err != nil {
		return fmt.Errorf("failed to create root_cause GIN index: %w", err)
	}
	return nil
}
