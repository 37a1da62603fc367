// Package llm defines the provider boundary the pipeline calls for text
// generation and embeddings (spec.md §6 "LLM provider interface").
package llm

import "context"

// Provider is the black-box interface the Analyzer (pkg/analyze) and
// Embedder (pkg/embed) depend on. It intentionally mirrors the shape of
// the teacher's gRPC client (generate/embed) without depending on a
// generated proto package, since no stub can be generated in this
// exercise — HTTPProvider implements it over plain net/http JSON calls.
type Provider interface {
	// Generate sends prompt to the model and returns its raw text
	// response. Callers are responsible for extracting JSON from the
	// response (spec.md §9 "Dynamic JSON parsing").
	Generate(ctx context.Context, prompt string) (string, error)

	// Embed returns a vector embedding of text. Implementations are
	// expected to return 768-dim vectors; other dimensions are accepted
	// by callers but logged (spec.md §4.6).
	Embed(ctx context.Context, text string) ([]float32, error)
}
