package chunk

import (
	"strings"
	"testing"

	"github.com/ci-loglens/loglens/pkg/pipeline/step"
)

func TestSplitOneChunkPerSmallStep(t *testing.T) {
	lines := []string{"l1", "l2", "l3"}
	steps := []step.Step{{Name: "build", StartLine: 1, EndLine: 3}}

	got := Split(lines, steps, DefaultMaxLines, DefaultTokensPerChar)
	if len(got) != 1 {
		t.Fatalf("got %d chunks", len(got))
	}
	if got[0].Index != 0 || got[0].StepName != "build" || got[0].Content != "l1\nl2\nl3" {
		t.Errorf("got %+v", got[0])
	}
}

func TestSplitLargeStepProducesParts(t *testing.T) {
	lines := make([]string, 2500)
	for i := range lines {
		lines[i] = strings.Repeat("x", 4)
	}
	steps := []step.Step{{Name: "build", StartLine: 1, EndLine: 2500}}

	got := Split(lines, steps, DefaultMaxLines, DefaultTokensPerChar)
	if len(got) != 3 {
		t.Fatalf("got %d chunks, want 3", len(got))
	}
	if got[0].StepName != "build (part 1)" || got[2].StepName != "build (part 3)" {
		t.Errorf("unexpected names: %q, %q", got[0].StepName, got[2].StepName)
	}
	if got[0].StartLine != 1 || got[0].EndLine != 1000 {
		t.Errorf("part 1 range: %+v", got[0])
	}
	if got[2].StartLine != 2001 || got[2].EndLine != 2500 {
		t.Errorf("part 3 range: %+v", got[2])
	}
}

func TestSplitAssignsContiguousGlobalIndices(t *testing.T) {
	lines := []string{"a", "b", "c", "d"}
	steps := []step.Step{
		{Name: "one", StartLine: 1, EndLine: 2},
		{Name: "two", StartLine: 3, EndLine: 4},
	}
	got := Split(lines, steps, DefaultMaxLines, DefaultTokensPerChar)
	for i, c := range got {
		if c.Index != i {
			t.Errorf("chunk %d has index %d", i, c.Index)
		}
	}
}
