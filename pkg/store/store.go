// Package store is the pgx/pgvector persistence layer for repositories,
// runs, chunks, and analysis results (spec.md §3, §4.5, §4.7, §4.11, §4.12).
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrRunNotFound is returned when a run-ref has no matching row.
var ErrRunNotFound = errors.New("run not found")

// ErrRepositoryNotFound is returned when a provider id has no matching row.
var ErrRepositoryNotFound = errors.New("repository not found")

// ErrAnalysisNotFound is returned when a run has no AnalysisResult yet.
var ErrAnalysisNotFound = errors.New("analysis result not found")

// Store wraps the pgxpool handle shared by every persistence operation
// the pipeline needs, grounded on reposearch's pgx-direct Store (no
// generated ORM client).
type Store struct {
	pool *pgxpool.Pool
}

// New wraps an already-connected pool (pkg/database.Client.Pool).
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("store: %s: %w", op, err)
}

// WithTx runs fn inside a single transaction, committing on success and
// rolling back on any error it returns.
func (s *Store) WithTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return wrap("begin tx", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return wrap("commit tx", err)
	}
	return nil
}
