package classify

import (
	"testing"

	"github.com/ci-loglens/loglens/pkg/models"
)

func TestClassifyIntentionalShortCircuit(t *testing.T) {
	content := "some setup\nexit 1\n"
	res := Classify(content, nil, nil)
	if !res.SkipLLM || res.FailureType != models.FailureIntentional || res.Priority != PriorityIntentional {
		t.Fatalf("got %+v", res)
	}
	if res.RootCause == "" || res.SuggestedFix == "" {
		t.Errorf("expected narrative fields populated, got %+v", res)
	}
}

func TestClassifyTestFailureFromErrorCategory(t *testing.T) {
	errs := []models.DetectedError{
		{Category: "Test Failure", Message: "3 tests failing"},
	}
	res := Classify("", errs, nil)
	if res.FailureType != models.FailureTest || res.SkipLLM {
		t.Fatalf("got %+v", res)
	}
}

func TestClassifyUnknownWhenNothingMatches(t *testing.T) {
	res := Classify("all good here", nil, nil)
	if res.FailureType != models.FailureUnknown || res.SkipLLM {
		t.Fatalf("got %+v", res)
	}
}

func TestClassifyDependencyFromContentFallback(t *testing.T) {
	res := Classify("npm ERR! cannot find module 'left-pad'", nil, nil)
	if res.FailureType != models.FailureDependency {
		t.Fatalf("got %+v", res)
	}
}
