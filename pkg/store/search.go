package store

import (
	"context"

	pgvector "github.com/pgvector/pgvector-go"

	"github.com/ci-loglens/loglens/pkg/models"
	"github.com/ci-loglens/loglens/pkg/rag"
)

// DefaultSearchMinSimilarity is the admission threshold applied to
// /search requests that omit min_similarity, when no configured value
// is supplied (spec.md §6 "search_default_min_similarity").
const DefaultSearchMinSimilarity = 0.7

// SimilarChunk pairs a retrieved chunk with its similarity to the query
// vector (spec.md §4.7: similarity = 1 - cosine_distance).
type SimilarChunk struct {
	Chunk      models.Chunk
	Similarity float64
}

// FindSimilarChunks returns up to limit chunks ordered by ascending
// cosine distance whose similarity is at least minSim. Chunks with a
// null embedding are always excluded.
func (s *Store) FindSimilarChunks(ctx context.Context, queryVec []float32, limit int, minSim float64) ([]SimilarChunk, error) {
	return s.findSimilar(ctx, queryVec, limit, minSim, false)
}

// FindSimilarErrors is FindSimilarChunks restricted to chunks whose
// has_errors flag is set.
func (s *Store) FindSimilarErrors(ctx context.Context, queryVec []float32, limit int, minSim float64) ([]SimilarChunk, error) {
	return s.findSimilar(ctx, queryVec, limit, minSim, true)
}

func (s *Store) findSimilar(ctx context.Context, queryVec []float32, limit int, minSim float64, errorsOnly bool) ([]SimilarChunk, error) {
	q := `
		SELECT id, run_id, index, step_name, content, start_line, end_line,
			token_estimate, has_errors, error_count, embedding,
			1 - (embedding <=> $1) AS similarity
		FROM chunks
		WHERE embedding IS NOT NULL`
	if errorsOnly {
		q += ` AND has_errors`
	}
	q += `
			AND 1 - (embedding <=> $1) >= $2
		ORDER BY embedding <=> $1
		LIMIT $3`

	rows, err := s.pool.Query(ctx, q, pgvector.NewVector(queryVec), minSim, limit)
	if err != nil {
		return nil, wrap("find similar chunks", err)
	}
	defer rows.Close()

	var out []SimilarChunk
	for rows.Next() {
		var vec *pgvector.Vector
		var sc SimilarChunk
		c := &sc.Chunk
		if err := rows.Scan(
			&c.ID, &c.RunID, &c.Index, &c.StepName, &c.Content,
			&c.StartLine, &c.EndLine, &c.TokenEstimate, &c.HasErrors, &c.ErrorCount, &vec,
			&sc.Similarity,
		); err != nil {
			return nil, wrap("scan similar chunk", err)
		}
		if vec != nil {
			c.Embedding = vec.Slice()
		}
		out = append(out, sc)
	}
	return out, wrap("find similar chunks rows", rows.Err())
}

// FindRelevantChunksForRun scopes FindSimilarChunks to one run, for
// per-run conversational retrieval (spec.md §4.7
// findRelevantChunksForRun).
func (s *Store) FindRelevantChunksForRun(ctx context.Context, runID string, queryVec []float32, limit int) ([]SimilarChunk, error) {
	const q = `
		SELECT id, run_id, index, step_name, content, start_line, end_line,
			token_estimate, has_errors, error_count, embedding,
			1 - (embedding <=> $2) AS similarity
		FROM chunks
		WHERE run_id = $1 AND embedding IS NOT NULL
		ORDER BY embedding <=> $2
		LIMIT $3`

	rows, err := s.pool.Query(ctx, q, runID, pgvector.NewVector(queryVec), limit)
	if err != nil {
		return nil, wrap("find relevant chunks for run", err)
	}
	defer rows.Close()

	var out []SimilarChunk
	for rows.Next() {
		var vec *pgvector.Vector
		var sc SimilarChunk
		c := &sc.Chunk
		if err := rows.Scan(
			&c.ID, &c.RunID, &c.Index, &c.StepName, &c.Content,
			&c.StartLine, &c.EndLine, &c.TokenEstimate, &c.HasErrors, &c.ErrorCount, &vec,
			&sc.Similarity,
		); err != nil {
			return nil, wrap("scan relevant chunk", err)
		}
		if vec != nil {
			c.Embedding = vec.Slice()
		}
		out = append(out, sc)
	}
	return out, wrap("find relevant chunks for run rows", rows.Err())
}

// FindSimilarWithAnalysis retrieves up to limit chunks by similarity,
// left-joined to any AnalysisResult belonging to the chunk's run. It
// satisfies pkg/rag.Retriever so *Store can be passed directly as the
// RAG component's retrieval dependency.
func (s *Store) FindSimilarWithAnalysis(ctx context.Context, queryVec []float32, limit int) ([]rag.RetrievedChunk, error) {
	const q = `
		SELECT c.content,
			1 - (c.embedding <=> $1) AS similarity,
			ar.root_cause IS NOT NULL,
			COALESCE(ar.root_cause, ''),
			COALESCE(ar.suggested_fix, ''),
			COALESCE(ar.failure_type, '')
		FROM chunks c
		LEFT JOIN analysis_results ar ON ar.run_id = c.run_id
		WHERE c.embedding IS NOT NULL
		ORDER BY c.embedding <=> $1
		LIMIT $2`

	rows, err := s.pool.Query(ctx, q, pgvector.NewVector(queryVec), limit)
	if err != nil {
		return nil, wrap("find similar with analysis", err)
	}
	defer rows.Close()

	var out []rag.RetrievedChunk
	for rows.Next() {
		var r rag.RetrievedChunk
		var failureType string
		if err := rows.Scan(
			&r.Content, &r.Similarity, &r.HasAnalysis, &r.RootCause, &r.SuggestedFix, &failureType,
		); err != nil {
			return nil, wrap("scan similar with analysis", err)
		}
		r.FailureType = models.FailureType(failureType)
		out = append(out, r)
	}
	return out, wrap("find similar with analysis rows", rows.Err())
}
