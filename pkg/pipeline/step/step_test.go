package step

import "testing"

func TestDetectNoMarkersFallsBackToFullLog(t *testing.T) {
	lines := []string{"a", "b", "c"}
	got := Detect(lines)
	if len(got) != 1 || got[0].Name != fullLogName || got[0].StartLine != 1 || got[0].EndLine != 3 {
		t.Fatalf("got %+v", got)
	}
}

func TestDetectLogFileMarker(t *testing.T) {
	lines := []string{
		"--- Log File: 1_build.txt ---",
		"step output 1",
		"step output 2",
		"--- Log File: 2_test.txt ---",
		"step output 3",
	}
	got := Detect(lines)
	if len(got) != 2 {
		t.Fatalf("got %d steps: %+v", len(got), got)
	}
	if got[0].Name != "build" || got[0].StartLine != 2 || got[0].EndLine != 3 {
		t.Errorf("step 0: %+v", got[0])
	}
	if got[1].Name != "test" || got[1].StartLine != 5 || got[1].EndLine != 5 {
		t.Errorf("step 1: %+v", got[1])
	}
}

func TestDetectGroupMarkers(t *testing.T) {
	lines := []string{
		"##[group]Install dependencies",
		"npm install",
		"##[endgroup]",
		"##[group]Run tests",
		"npm test",
		"##[endgroup]",
	}
	got := Detect(lines)
	if len(got) != 2 {
		t.Fatalf("got %d steps: %+v", len(got), got)
	}
	if got[0].Name != "Install dependencies" || got[1].Name != "Run tests" {
		t.Errorf("got %+v", got)
	}
}

// A group-start marker line is itself consumed (not counted as any
// step's content), so a leading "Full Log" step ends exactly on the
// line before the marker, and the group step picks up right after it.
func TestDetectLeadingContentBecomesFullLogBeforeGroup(t *testing.T) {
	lines := []string{
		"preamble",
		"##[group]Build",
		"building",
		"##[endgroup]",
		"trailer",
	}
	got := Detect(lines)
	if len(got) != 2 {
		t.Fatalf("got %d steps: %+v", len(got), got)
	}
	if got[0].Name != fullLogName || got[0].StartLine != 1 || got[0].EndLine != 1 {
		t.Errorf("step 0: %+v", got[0])
	}
	if got[1].Name != "Build" || got[1].StartLine != 3 || got[1].EndLine != 5 {
		t.Errorf("step 1: %+v", got[1])
	}
}
