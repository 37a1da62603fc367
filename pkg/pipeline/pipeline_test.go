package pipeline

import "testing"

func TestRunEndToEnd(t *testing.T) {
	raw := "2024-01-02T03:04:05.000Z ##[group]Install\n" +
		"2024-01-02T03:04:06.000Z npm ERR! Cannot find module 'react'\n" +
		"2024-01-02T03:04:07.000Z ##[endgroup]\n"

	result := Run(raw, DefaultOptions())

	if len(result.Chunks) == 0 {
		t.Fatal("expected at least one chunk")
	}
	if len(result.Errors) != 1 {
		t.Fatalf("got %d errors, want 1: %+v", len(result.Errors), result.Errors)
	}
	if !result.Chunks[len(result.Chunks)-1].HasErrors {
		t.Errorf("expected the chunk containing the error to be flagged")
	}

	foundStepWithError := false
	for _, s := range result.Steps {
		if s.HasErrors {
			foundStepWithError = true
			if s.ErrorCount != 1 {
				t.Errorf("step error count: got %d, want 1", s.ErrorCount)
			}
		}
	}
	if !foundStepWithError {
		t.Errorf("expected a step summary to reflect the detected error, got %+v", result.Steps)
	}
}

func TestRunWithNoErrors(t *testing.T) {
	result := Run("everything is fine\nbuild succeeded\n", DefaultOptions())
	if len(result.Errors) != 0 {
		t.Errorf("got %d errors, want 0", len(result.Errors))
	}
	for _, c := range result.Chunks {
		if c.HasErrors {
			t.Errorf("chunk unexpectedly flagged as having errors: %+v", c)
		}
	}
}
