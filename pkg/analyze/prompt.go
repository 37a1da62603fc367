package analyze

import (
	"fmt"
	"strings"

	"github.com/ci-loglens/loglens/pkg/models"
	"github.com/ci-loglens/loglens/pkg/pipeline/classify"
	"github.com/ci-loglens/loglens/pkg/rag"
)

const lastLinesPerStep = 30

// buildPrompt assembles the LLM prompt per spec.md §4.10 step 3: the
// deterministically detected errors and priority rules are stated as
// authoritative, followed by the current classification, the last
// lastLinesPerStep lines of each selected chunk, and any retrieved RAG
// cases.
func buildPrompt(errs []models.DetectedError, classification classify.Result, chunks []models.Chunk, cases []rag.Case) string {
	var b strings.Builder

	b.WriteString("You are analyzing a CI/CD run failure.\n\n")
	b.WriteString("Primary error signals below are authoritative and outrank the raw log text. ")
	b.WriteString("The classifier's priority hierarchy must be respected: a lower-priority issue must never be named as root cause when a higher-priority issue is present. ")
	b.WriteString("Retrieved prior cases are useful context but detected errors win on conflict.\n\n")

	fmt.Fprintf(&b, "Current classification: %s (priority %d), confidence %.2f — %s\n\n",
		classification.FailureType, classification.Priority, classification.Confidence, classification.ConfidenceNote)

	b.WriteString("Detected errors:\n")
	for _, e := range errs {
		fmt.Fprintf(&b, "- [%s/%s] %s (step: %s)\n", e.Category, e.Confidence, e.Message, e.StepName)
	}
	b.WriteString("\n")

	b.WriteString("Relevant log excerpts (last lines of each selected step):\n")
	for _, c := range selectSteps(chunks) {
		lines := strings.Split(c.Content, "\n")
		if len(lines) > lastLinesPerStep {
			lines = lines[len(lines)-lastLinesPerStep:]
		}
		fmt.Fprintf(&b, "--- %s ---\n%s\n", c.StepName, strings.Join(lines, "\n"))
	}
	b.WriteString("\n")

	if len(cases) > 0 {
		b.WriteString("Similar past cases:\n")
		for _, c := range cases {
			fmt.Fprintf(&b, "- (similarity %.2f, %s) root cause: %s; fix: %s\n",
				c.Similarity, c.FailureType, c.RootCause, c.SuggestedFix)
		}
		b.WriteString("\n")
	}

	b.WriteString("Respond with a single JSON object with exactly the keys rootCause, failureStage, suggestedFix.\n")
	return b.String()
}

// selectSteps picks every chunk with errors plus the last two chunks
// (final status/summary), deduplicated by index (spec.md §4.10 step 4).
func selectSteps(chunks []models.Chunk) []models.Chunk {
	seen := make(map[int]bool)
	var selected []models.Chunk

	add := func(c models.Chunk) {
		if seen[c.Index] {
			return
		}
		seen[c.Index] = true
		selected = append(selected, c)
	}

	for _, c := range chunks {
		if c.HasErrors {
			add(c)
		}
	}

	n := len(chunks)
	if n >= 2 {
		add(chunks[n-2])
		add(chunks[n-1])
	} else if n == 1 {
		add(chunks[0])
	}

	return selected
}
