package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/ci-loglens/loglens/pkg/models"
)

// ReplaceChunks atomically replaces every chunk belonging to runID with
// the given set, in index order, with embeddings left null (spec.md
// §4.5). Deletion happens first inside the same transaction so a retry
// after a mid-run failure is idempotent.
func (s *Store) ReplaceChunks(ctx context.Context, runID string, chunks []models.Chunk) error {
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM chunks WHERE run_id = $1`, runID); err != nil {
			return wrap("delete chunks", err)
		}

		rows := make([][]any, len(chunks))
		for i, c := range chunks {
			id := c.ID
			if id == "" {
				id = uuid.New().String()
			}
			rows[i] = []any{
				id, runID, c.Index, c.StepName, c.Content,
				c.StartLine, c.EndLine, c.TokenEstimate, c.HasErrors, c.ErrorCount,
			}
		}

		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"chunks"},
			[]string{"id", "run_id", "index", "step_name", "content", "start_line", "end_line", "token_estimate", "has_errors", "error_count"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return wrap("insert chunks", err)
		}
		return nil
	})
}

// ListChunks returns every chunk of a run in index order.
func (s *Store) ListChunks(ctx context.Context, runID string) ([]models.Chunk, error) {
	const q = `
		SELECT id, run_id, index, step_name, content, start_line, end_line,
			token_estimate, has_errors, error_count, embedding
		FROM chunks WHERE run_id = $1 ORDER BY index`

	rows, err := s.pool.Query(ctx, q, runID)
	if err != nil {
		return nil, wrap("list chunks", err)
	}
	defer rows.Close()

	var out []models.Chunk
	for rows.Next() {
		c, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, wrap("list chunks rows", rows.Err())
}

// UpdateChunkEmbedding stores an embedding vector for one chunk
// (spec.md §4.7 updateChunkEmbedding).
func (s *Store) UpdateChunkEmbedding(ctx context.Context, chunkID string, vec []float32) error {
	const q = `UPDATE chunks SET embedding = $2 WHERE id = $1`
	_, err := s.pool.Exec(ctx, q, chunkID, pgvector.NewVector(vec))
	return wrap("update chunk embedding", err)
}

// EmbeddingStats reports the run-wide embedding backlog (spec.md §4.7
// embeddingStats).
type EmbeddingStats struct {
	Total             int
	WithEmbeddings    int
	WithoutEmbeddings int
	PercentComplete   float64
}

// EmbeddingStats computes the backlog across all chunks.
func (s *Store) EmbeddingStats(ctx context.Context) (EmbeddingStats, error) {
	const q = `
		SELECT count(*), count(embedding)
		FROM chunks`

	var total, withEmb int
	if err := s.pool.QueryRow(ctx, q).Scan(&total, &withEmb); err != nil {
		return EmbeddingStats{}, wrap("embedding stats", err)
	}

	stats := EmbeddingStats{Total: total, WithEmbeddings: withEmb, WithoutEmbeddings: total - withEmb}
	if total > 0 {
		stats.PercentComplete = 100 * float64(withEmb) / float64(total)
	}
	return stats, nil
}

type chunkScanner interface {
	Scan(dest ...any) error
}

func scanChunk(row chunkScanner) (models.Chunk, error) {
	var c models.Chunk
	var vec *pgvector.Vector
	if err := row.Scan(
		&c.ID, &c.RunID, &c.Index, &c.StepName, &c.Content,
		&c.StartLine, &c.EndLine, &c.TokenEstimate, &c.HasErrors, &c.ErrorCount, &vec,
	); err != nil {
		return models.Chunk{}, wrap("scan chunk", err)
	}
	if vec != nil {
		c.Embedding = vec.Slice()
	}
	return c, nil
}
