package models

// Chunk is a size-bounded, step-scoped slice of a cleaned log.
//
// Invariants (spec.md §3, §8):
//   - (RunID, Index) is unique; Index is dense over 0..N-1 per run.
//   - HasErrors ⇔ ErrorCount > 0.
//   - Embedding is nil until the Embedder (pkg/embed) fills it in.
type Chunk struct {
	ID            string    `json:"id"`
	RunID         string    `json:"run_id"`
	Index         int       `json:"index"`
	StepName      string    `json:"step_name"`
	Content       string    `json:"content"`
	StartLine     int       `json:"start_line"`
	EndLine       int       `json:"end_line"`
	TokenEstimate int       `json:"token_estimate"`
	HasErrors     bool      `json:"has_errors"`
	ErrorCount    int       `json:"error_count"`
	Embedding     []float32 `json:"embedding,omitempty"`
}

// LineCount returns the number of lines the chunk spans.
func (c Chunk) LineCount() int {
	return c.EndLine - c.StartLine + 1
}
