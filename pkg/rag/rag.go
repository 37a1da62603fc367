// Package rag retrieves similar past error chunks and their analyses to
// ground LLM prompts (spec.md §4.9).
package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/ci-loglens/loglens/pkg/llm"
	"github.com/ci-loglens/loglens/pkg/models"
)

// DefaultMaxCases is the default number of retrieved cases (N in
// spec.md §4.9) used when no configured value is supplied.
const DefaultMaxCases = 3

// DefaultMinSimilarity is the admission threshold for RAG context used
// when no configured value is supplied: cases below this similarity are
// discarded even if retrieved.
const DefaultMinSimilarity = 0.6

// Case is one retrieved prior analysis spliced into the prompt.
type Case struct {
	Similarity   float64
	RootCause    string
	SuggestedFix string
	FailureType  models.FailureType
	ChunkContent string
}

// Retriever is the subset of pkg/store.Store RAG depends on.
type Retriever interface {
	FindSimilarWithAnalysis(ctx context.Context, queryVec []float32, limit int) ([]RetrievedChunk, error)
}

// RetrievedChunk mirrors pkg/store.SimilarWithAnalysis; declared here so
// this package does not import pkg/store directly (kept decoupled for
// testing with fakes).
type RetrievedChunk struct {
	Content      string
	Similarity   float64
	HasAnalysis  bool
	RootCause    string
	SuggestedFix string
	FailureType  models.FailureType
}

// BuildQuery concatenates the top-5 detected-error messages with the
// first 10 lines of the first error-bearing chunk (spec.md §4.9 "Query
// construction").
func BuildQuery(errs []models.DetectedError, chunks []models.Chunk) string {
	var b strings.Builder

	n := len(errs)
	if n > 5 {
		n = 5
	}
	for i := 0; i < n; i++ {
		b.WriteString(errs[i].Message)
		b.WriteString("\n")
	}

	for _, c := range chunks {
		if !c.HasErrors {
			continue
		}
		lines := strings.Split(c.Content, "\n")
		if len(lines) > 10 {
			lines = lines[:10]
		}
		b.WriteString(strings.Join(lines, "\n"))
		break
	}

	return strings.TrimSpace(b.String())
}

// Retrieve embeds the query and fetches up to maxCases similar chunks
// with their analyses, discarding anything below minSimilarity
// (spec.md §4.9 "Retrieval"). minSimilarity is normally sourced from
// pkg/config.PipelineConfig.RAGMinSimilarity; a zero value falls back
// to DefaultMinSimilarity.
func Retrieve(ctx context.Context, provider llm.Provider, retriever Retriever, query string, maxCases int, minSimilarity float64) ([]Case, error) {
	if query == "" {
		return nil, nil
	}
	if minSimilarity <= 0 {
		minSimilarity = DefaultMinSimilarity
	}

	vec, err := provider.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("rag: embed query: %w", err)
	}

	rows, err := retriever.FindSimilarWithAnalysis(ctx, vec, maxCases)
	if err != nil {
		return nil, fmt.Errorf("rag: retrieve: %w", err)
	}

	var cases []Case
	for _, r := range rows {
		if !r.HasAnalysis || r.Similarity < minSimilarity {
			continue
		}
		cases = append(cases, Case{
			Similarity:   r.Similarity,
			RootCause:    r.RootCause,
			SuggestedFix: r.SuggestedFix,
			FailureType:  r.FailureType,
			ChunkContent: r.Content,
		})
	}
	return cases, nil
}

// Confidence synthesizes a confidence score from the retrieved cases
// (spec.md §4.9 "Confidence synthesis"): at least 2 matching cases and
// a high top similarity yields high confidence; fewer or weaker matches
// scale down; no cases at all falls back to 0.5.
func Confidence(cases []Case) float64 {
	if len(cases) == 0 {
		return 0.5
	}

	top := cases[0].Similarity
	for _, c := range cases {
		if c.Similarity > top {
			top = c.Similarity
		}
	}

	if len(cases) >= 2 {
		switch {
		case top >= 0.9:
			return 0.95
		case top >= 0.8:
			return 0.85
		case top >= 0.7:
			return 0.75
		}
	}
	return 0.6
}
