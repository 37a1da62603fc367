// Package analyze coordinates classification, retrieval-augmented
// generation, and the LLM call into a final AnalysisResult (spec.md
// §4.10).
package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/ci-loglens/loglens/pkg/llm"
	"github.com/ci-loglens/loglens/pkg/models"
	"github.com/ci-loglens/loglens/pkg/pipeline/classify"
	"github.com/ci-loglens/loglens/pkg/rag"
)

// ResultWriter is the subset of pkg/store.Store the Analyzer writes
// through.
type ResultWriter interface {
	UpsertAnalysisResult(ctx context.Context, a models.AnalysisResult) (models.AnalysisResult, error)
}

// Analyzer runs the classifier, RAG, and LLM stages and persists the
// resulting AnalysisResult.
type Analyzer struct {
	provider         llm.Provider
	retriever        rag.Retriever
	store            ResultWriter
	ragMaxCases      int
	ragMinSimilarity float64
	logger           *slog.Logger
}

// New builds an Analyzer. ragMaxCases and ragMinSimilarity are normally
// sourced from pkg/config.PipelineConfig.RAGMaxCases/RAGMinSimilarity; a
// zero value falls back to rag.DefaultMaxCases/DefaultMinSimilarity.
func New(provider llm.Provider, retriever rag.Retriever, store ResultWriter, ragMaxCases int, ragMinSimilarity float64, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	if ragMaxCases <= 0 {
		ragMaxCases = rag.DefaultMaxCases
	}
	if ragMinSimilarity <= 0 {
		ragMinSimilarity = rag.DefaultMinSimilarity
	}
	return &Analyzer{provider: provider, retriever: retriever, store: store, ragMaxCases: ragMaxCases, ragMinSimilarity: ragMinSimilarity, logger: logger}
}

// Input bundles everything the Analyzer needs about one run.
type Input struct {
	RunID  string
	Chunks []models.Chunk
	Errors []models.DetectedError
	Steps  []models.StepSummary
	// FullContent is the cleaned log text, joined by newlines, used for
	// the classifier's INTENTIONAL and rule content scans.
	FullContent string
}

// Analyze runs classifier → RAG → LLM → parse → upsert (spec.md §4.10
// "Algorithm") and returns the persisted AnalysisResult.
func (a *Analyzer) Analyze(ctx context.Context, in Input) (models.AnalysisResult, error) {
	result, err := a.compute(ctx, in)
	if err != nil {
		return models.AnalysisResult{}, err
	}
	return a.store.UpsertAnalysisResult(ctx, result)
}

// AnalyzeEphemeral runs the same classify → RAG → LLM pipeline as
// Analyze but never touches the store, for the synchronous POST
// /analyze endpoint (spec.md §6 "short-circuits persistence").
func (a *Analyzer) AnalyzeEphemeral(ctx context.Context, in Input) (models.AnalysisResult, error) {
	return a.compute(ctx, in)
}

func (a *Analyzer) compute(ctx context.Context, in Input) (models.AnalysisResult, error) {
	classification := classify.Classify(in.FullContent, in.Errors, in.Steps)

	result := models.AnalysisResult{
		RunID:          in.RunID,
		FailureType:    classification.FailureType,
		Priority:       classification.Priority,
		Confidence:     classification.Confidence,
		ConfidenceNote: classification.ConfidenceNote,
		DetectedErrors: in.Errors,
		Steps:          in.Steps,
	}

	if classification.SkipLLM {
		result.UsedLLM = false
		result.RootCause = classification.RootCause
		result.FailureStage = classification.FailureStage
		result.SuggestedFix = classification.SuggestedFix
		return result, nil
	}

	query := rag.BuildQuery(in.Errors, in.Chunks)
	cases, err := rag.Retrieve(ctx, a.provider, a.retriever, query, a.ragMaxCases, a.ragMinSimilarity)
	if err != nil {
		a.logger.Warn("rag retrieval failed, proceeding without prior cases", "run_id", in.RunID, "error", err)
	}

	prompt := buildPrompt(in.Errors, classification, in.Chunks, cases)
	raw, err := a.provider.Generate(ctx, prompt)
	var n narrative
	if err != nil {
		a.logger.Warn("llm generate failed, falling back to mock narrative", "run_id", in.RunID, "error", err)
		n = fallbackNarrative(classification)
		result.UsedLLM = false
	} else {
		n = parseNarrative(raw)
		result.UsedLLM = true
	}
	result.RootCause = n.RootCause
	result.FailureStage = n.FailureStage
	result.SuggestedFix = n.SuggestedFix
	if len(cases) > 0 {
		result.Confidence = rag.Confidence(cases)
		result.ConfidenceNote = fmt.Sprintf("%d similar case(s) retrieved, top similarity %.2f", len(cases), cases[0].Similarity)
	}

	if err == nil && classification.FailureType == models.FailureUnknown {
		if ft, cerr := a.classifyUnknown(ctx, raw, in.Errors); cerr == nil && ft != "" {
			result.FailureType = ft
		}
	}

	return result, nil
}

var nonAlphanumeric = regexp.MustCompile(`[^A-Z0-9]+`)

// classifyUnknown makes the secondary AI-fallback classification call
// for UNKNOWN-category runs (spec.md §4.10 "Secondary LLM operation").
// The returned category is normalized: uppercased, non-alphanumerics to
// underscores, empty falls back to UNKNOWN.
func (a *Analyzer) classifyUnknown(ctx context.Context, priorResponse string, errs []models.DetectedError) (models.FailureType, error) {
	var b strings.Builder
	b.WriteString("Classify this CI/CD failure into a short category name (e.g. BUILD, TEST, INFRA) ")
	b.WriteString("or propose a new short category if none fit. Respond with a single JSON object: {\"category\": \"...\"}.\n\n")
	for _, e := range errs {
		fmt.Fprintf(&b, "- %s: %s\n", e.Category, e.Message)
	}

	raw, err := a.provider.Generate(ctx, b.String())
	if err != nil {
		return "", fmt.Errorf("analyze: classify unknown: %w", err)
	}

	obj, ok := firstBalancedObject(raw)
	if !ok {
		return models.FailureUnknown, nil
	}

	var parsed struct {
		Category string `json:"category"`
	}
	if err := json.Unmarshal([]byte(obj), &parsed); err != nil {
		return models.FailureUnknown, nil
	}

	category := normalizeCategory(parsed.Category)
	if category == "" {
		return models.FailureUnknown, nil
	}
	return models.FailureType(category), nil
}

func normalizeCategory(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = nonAlphanumeric.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	return s
}
