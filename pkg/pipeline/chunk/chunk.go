// Package chunk partitions named steps into size-bounded chunks with
// dense global indices (spec.md §4.3).
package chunk

import (
	"fmt"
	"strings"

	"github.com/ci-loglens/loglens/pkg/models"
	"github.com/ci-loglens/loglens/pkg/pipeline/step"
)

// DefaultMaxLines bounds the number of lines a single chunk may carry
// when no configured value is supplied. Steps longer than this are
// split into contiguous "(part k)" chunks.
const DefaultMaxLines = 1000

// DefaultTokensPerChar approximates the cost of the per-chunk
// token-estimate field (spec.md §4.3); it is a rough upper bound, not a
// tokenizer.
const DefaultTokensPerChar = 4

// Split partitions lines into chunks following step boundaries. Chunk
// indices are assigned globally starting at 0 and are contiguous
// (spec.md §8 invariant 1). A step that fits within maxLines produces
// exactly one chunk; a larger step produces ⌈N/maxLines⌉ chunks whose
// names carry a "(part k)" suffix. tokensPerChar controls the per-chunk
// TokenEstimate (spec.md §6 "tokens_per_char"); both are normally
// sourced from pkg/config.PipelineConfig.
func Split(lines []string, steps []step.Step, maxLines, tokensPerChar int) []models.Chunk {
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}
	if tokensPerChar <= 0 {
		tokensPerChar = DefaultTokensPerChar
	}

	var chunks []models.Chunk
	index := 0

	for _, s := range steps {
		total := s.EndLine - s.StartLine + 1
		if total <= maxLines {
			chunks = append(chunks, newChunk(index, s.Name, lines, s.StartLine, s.EndLine, tokensPerChar))
			index++
			continue
		}

		parts := (total + maxLines - 1) / maxLines
		start := s.StartLine
		for k := 1; k <= parts; k++ {
			end := start + maxLines - 1
			if end > s.EndLine {
				end = s.EndLine
			}
			name := fmt.Sprintf("%s (part %d)", s.Name, k)
			chunks = append(chunks, newChunk(index, name, lines, start, end, tokensPerChar))
			index++
			start = end + 1
		}
	}

	return chunks
}

// newChunk builds a Chunk covering the absolute, 1-based, inclusive
// line range [startLine, endLine] of the cleaned sequence.
func newChunk(index int, name string, lines []string, startLine, endLine, tokensPerChar int) models.Chunk {
	content := strings.Join(lines[startLine-1:endLine], "\n")
	return models.Chunk{
		Index:         index,
		StepName:      name,
		Content:       content,
		StartLine:     startLine,
		EndLine:       endLine,
		TokenEstimate: tokenEstimate(content, tokensPerChar),
	}
}

func tokenEstimate(content string, tokensPerChar int) int {
	if content == "" {
		return 0
	}
	return (len(content) + tokensPerChar - 1) / tokensPerChar
}
