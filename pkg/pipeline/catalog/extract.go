package catalog

import (
	"strings"

	"github.com/ci-loglens/loglens/pkg/models"
)

// Extract tags each line of a chunk's content against the catalogue and
// returns the deduplicated set of errors found, in first-seen order.
// Errors are deduplicated within the chunk by (category, message) key
// (spec.md §4.4); each surviving error carries the chunk's index and
// step name.
func Extract(content string, chunkIndex int, stepName string) []models.DetectedError {
	if content == "" {
		return nil
	}

	var ordered []models.DetectedError
	seen := make(map[string]int) // key -> index into ordered

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		p, ok := Match(line)
		if !ok {
			continue
		}

		candidate := models.DetectedError{
			Category:    p.Category,
			Message:     strings.TrimSpace(line),
			Confidence:  p.Confidence,
			Intentional: p.Intentional,
			ChunkIndex:  chunkIndex,
			StepName:    stepName,
		}
		key := candidate.Key()

		if i, dup := seen[key]; dup {
			ordered[i].EvidenceLines = append(ordered[i].EvidenceLines, candidate.Message)
			continue
		}

		candidate.EvidenceLines = []string{candidate.Message}
		seen[key] = len(ordered)
		ordered = append(ordered, candidate)
	}

	return ordered
}
