package llm

import (
	"context"
	"fmt"
	"sync"
)

// GenerateEntry is one scripted Generate response.
type GenerateEntry struct {
	Text  string
	Error error
}

// FakeProvider implements Provider with scripted, sequentially-consumed
// responses, grounded on the teacher's test/e2e ScriptedLLMClient
// (same mutex-guarded sequential-dispatch shape, reduced to this
// package's non-streaming Provider interface).
type FakeProvider struct {
	mu sync.Mutex

	generateScript []GenerateEntry
	generateIndex  int
	capturedPrompts []string

	embedding []float32
	embedErr  error
}

// NewFakeProvider returns a FakeProvider with no scripted responses;
// callers add entries with AddGenerate before exercising it.
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{embedding: make([]float32, 768)}
}

// AddGenerate appends a scripted Generate response, consumed in order.
func (f *FakeProvider) AddGenerate(entry GenerateEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generateScript = append(f.generateScript, entry)
}

// SetEmbedding fixes the vector every Embed call returns.
func (f *FakeProvider) SetEmbedding(vec []float32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.embedding = vec
}

// SetEmbedError makes every subsequent Embed call fail.
func (f *FakeProvider) SetEmbedError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.embedErr = err
}

// CapturedPrompts returns every prompt passed to Generate, in call order.
func (f *FakeProvider) CapturedPrompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.capturedPrompts))
	copy(out, f.capturedPrompts)
	return out
}

// Generate implements Provider.
func (f *FakeProvider) Generate(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.capturedPrompts = append(f.capturedPrompts, prompt)

	if f.generateIndex >= len(f.generateScript) {
		return "", fmt.Errorf("fake llm: no more scripted responses (call %d)", f.generateIndex+1)
	}
	entry := f.generateScript[f.generateIndex]
	f.generateIndex++

	if entry.Error != nil {
		return "", entry.Error
	}
	return entry.Text, nil
}

// Embed implements Provider.
func (f *FakeProvider) Embed(_ context.Context, _ string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.embedErr != nil {
		return nil, f.embedErr
	}
	out := make([]float32, len(f.embedding))
	copy(out, f.embedding)
	return out, nil
}
