// Package pipeline composes the Cleaner, Step Detector, Chunker, and
// Error Extractor (spec.md §4.1–§4.4) into the single deterministic
// preprocessing pass shared by the synchronous /analyze endpoint and
// the queue executor, so neither has to re-wire the stage order itself.
package pipeline

import (
	"strings"

	"github.com/ci-loglens/loglens/pkg/models"
	"github.com/ci-loglens/loglens/pkg/pipeline/catalog"
	"github.com/ci-loglens/loglens/pkg/pipeline/chunk"
	"github.com/ci-loglens/loglens/pkg/pipeline/clean"
	"github.com/ci-loglens/loglens/pkg/pipeline/step"
)

// Result is the deterministic output of Run: cleaned full text, dense
// chunks (errors already attributed), detected errors in discovery
// order, and per-step summaries.
type Result struct {
	CleanedText string
	Chunks      []models.Chunk
	Errors      []models.DetectedError
	Steps       []models.StepSummary
}

// Options carries the chunker tunables from pkg/config.PipelineConfig
// (spec.md §6 "max_chunk_lines", "tokens_per_char") so neither the
// queue executor nor the synchronous /analyze handler has to reach
// into pkg/pipeline/chunk directly.
type Options struct {
	MaxChunkLines int
	TokensPerChar int
}

// DefaultOptions mirrors pkg/pipeline/chunk's built-in defaults, for
// callers (tests, one-off CLI invocations) with no loaded config.
func DefaultOptions() Options {
	return Options{MaxChunkLines: chunk.DefaultMaxLines, TokensPerChar: chunk.DefaultTokensPerChar}
}

// Run executes clean → detect steps → chunk → extract errors, and
// folds the per-chunk error counts back into both the chunk rows and
// the step summaries (spec.md §3 "HasErrors ⇔ ErrorCount > 0").
func Run(raw string, opts Options) Result {
	lines := clean.Clean(raw)
	steps := step.Detect(lines)
	chunks := chunk.Split(lines, steps, opts.MaxChunkLines, opts.TokensPerChar)

	var allErrors []models.DetectedError
	for i := range chunks {
		c := &chunks[i]
		found := catalog.Extract(c.Content, c.Index, c.StepName)
		c.ErrorCount = len(found)
		c.HasErrors = c.ErrorCount > 0
		allErrors = append(allErrors, found...)
	}

	stepSummaries := summarizeSteps(steps, chunks)

	return Result{
		CleanedText: strings.Join(lines, "\n"),
		Chunks:      chunks,
		Errors:      allErrors,
		Steps:       stepSummaries,
	}
}

// summarizeSteps aggregates chunk-level error counts onto each
// originally detected step (a step may have been split into multiple
// chunks by the Chunker's MaxLines bound).
func summarizeSteps(steps []step.Step, chunks []models.Chunk) []models.StepSummary {
	summaries := make([]models.StepSummary, len(steps))
	for i, s := range steps {
		summaries[i] = models.StepSummary{Name: s.Name, StartLine: s.StartLine, EndLine: s.EndLine}
	}

	for _, c := range chunks {
		for i := range summaries {
			if c.StartLine >= summaries[i].StartLine && c.EndLine <= summaries[i].EndLine {
				summaries[i].ErrorCount += c.ErrorCount
				break
			}
		}
	}
	for i := range summaries {
		summaries[i].HasErrors = summaries[i].ErrorCount > 0
	}
	return summaries
}
