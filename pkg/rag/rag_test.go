package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ci-loglens/loglens/pkg/llm"
	"github.com/ci-loglens/loglens/pkg/models"
)

func TestBuildQueryTopErrorsAndFirstErrorChunk(t *testing.T) {
	errs := []models.DetectedError{
		{Message: "e1"}, {Message: "e2"}, {Message: "e3"},
		{Message: "e4"}, {Message: "e5"}, {Message: "e6"},
	}
	chunks := []models.Chunk{
		{HasErrors: false, Content: "clean chunk"},
		{HasErrors: true, Content: "line1\nline2"},
	}
	q := BuildQuery(errs, chunks)
	if q == "" {
		t.Fatal("expected non-empty query")
	}
	for _, frag := range []string{"e1", "e2", "e3", "e4", "e5", "line1", "line2"} {
		if !strings.Contains(q, frag) {
			t.Errorf("query missing expected fragment %q: %q", frag, q)
		}
	}
	if strings.Contains(q, "e6") {
		t.Errorf("query should only include top 5 errors: %q", q)
	}
}

type fakeRetriever struct {
	rows []RetrievedChunk
	err  error
}

func (f fakeRetriever) FindSimilarWithAnalysis(_ context.Context, _ []float32, _ int) ([]RetrievedChunk, error) {
	return f.rows, f.err
}

func TestRetrieveDiscardsBelowThresholdAndWithoutAnalysis(t *testing.T) {
	fake := llm.NewFakeProvider()
	retriever := fakeRetriever{rows: []RetrievedChunk{
		{Content: "a", Similarity: 0.9, HasAnalysis: true, RootCause: "x"},
		{Content: "b", Similarity: 0.4, HasAnalysis: true, RootCause: "y"},
		{Content: "c", Similarity: 0.95, HasAnalysis: false},
	}}

	cases, err := Retrieve(context.Background(), fake, retriever, "some query", DefaultMaxCases, DefaultMinSimilarity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cases) != 1 || cases[0].RootCause != "x" {
		t.Fatalf("got %+v", cases)
	}
}

func TestRetrieveEmptyQueryShortCircuits(t *testing.T) {
	fake := llm.NewFakeProvider()
	cases, err := Retrieve(context.Background(), fake, fakeRetriever{}, "", DefaultMaxCases, DefaultMinSimilarity)
	if err != nil || cases != nil {
		t.Fatalf("got %+v, %v", cases, err)
	}
}

func TestRetrievePropagatesEmbedError(t *testing.T) {
	fake := llm.NewFakeProvider()
	fake.SetEmbedError(errors.New("provider down"))

	_, err := Retrieve(context.Background(), fake, fakeRetriever{}, "query", DefaultMaxCases, DefaultMinSimilarity)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestConfidenceNoCasesFallsBackToHalf(t *testing.T) {
	if got := Confidence(nil); got != 0.5 {
		t.Errorf("got %v, want 0.5", got)
	}
}

func TestConfidenceTwoStrongCasesIsHigh(t *testing.T) {
	cases := []Case{{Similarity: 0.92}, {Similarity: 0.8}}
	if got := Confidence(cases); got != 0.95 {
		t.Errorf("got %v, want 0.95", got)
	}
}

func TestConfidenceSingleCaseIsModerate(t *testing.T) {
	cases := []Case{{Similarity: 0.95}}
	if got := Confidence(cases); got != 0.6 {
		t.Errorf("got %v, want 0.6", got)
	}
}
