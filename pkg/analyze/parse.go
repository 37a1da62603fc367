package analyze

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/ci-loglens/loglens/pkg/pipeline/classify"
)

// narrative is the three-field shape the LLM is prompted to return
// (spec.md §4.9 "Response must be a single JSON object with exactly
// rootCause, failureStage, suggestedFix").
type narrative struct {
	RootCause    string `json:"rootCause"`
	FailureStage string `json:"failureStage"`
	SuggestedFix string `json:"suggestedFix"`
}

const (
	maxRootCauseLen = 300
	maxStageLen     = 100
	maxFixLen       = 500
)

// parseNarrative extracts the first balanced {...} object from text and
// decodes it as a narrative. If no balanced object decodes cleanly, it
// falls back to heuristic line-scanning (spec.md §9 "Dynamic JSON
// parsing").
func parseNarrative(text string) narrative {
	if obj, ok := firstBalancedObject(text); ok {
		var n narrative
		if err := json.Unmarshal([]byte(obj), &n); err == nil {
			return truncateNarrative(n)
		}
	}
	return truncateNarrative(heuristicNarrative(text))
}

// firstBalancedObject scans s for the first brace-balanced {...} group,
// respecting string literals and escape sequences, and returns its raw
// text. This is a permissive scanner, not a regex — LLM output may wrap
// JSON in prose or code fences.
func firstBalancedObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false
}

var (
	rootCauseLabel = regexp.MustCompile(`(?i)^\s*(root cause|rootcause)\s*[:\-]?\s*(.*)$`)
	stageLabel     = regexp.MustCompile(`(?i)^\s*(failure stage|stage|step)\s*[:\-]?\s*(.*)$`)
	fixLabel       = regexp.MustCompile(`(?i)^\s*(suggested fix|fix|solution)\s*[:\-]?\s*(.*)$`)
)

// heuristicNarrative scans lines for "root cause" / "stage"|"step" /
// "fix"|"solution" labels and captures the remainder of that line plus
// any immediately following non-empty, non-labeled lines.
func heuristicNarrative(text string) narrative {
	lines := strings.Split(text, "\n")
	var n narrative

	capture := func(startIdx int, firstCapture string) string {
		var b strings.Builder
		b.WriteString(firstCapture)
		for i := startIdx + 1; i < len(lines); i++ {
			line := strings.TrimSpace(lines[i])
			if line == "" {
				break
			}
			if isLabelLine(line) {
				break
			}
			if b.Len() > 0 {
				b.WriteString(" ")
			}
			b.WriteString(line)
		}
		return strings.TrimSpace(b.String())
	}

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if n.RootCause == "" {
			if m := rootCauseLabel.FindStringSubmatch(line); m != nil {
				n.RootCause = capture(i, m[2])
				continue
			}
		}
		if n.FailureStage == "" {
			if m := stageLabel.FindStringSubmatch(line); m != nil {
				n.FailureStage = capture(i, m[2])
				continue
			}
		}
		if n.SuggestedFix == "" {
			if m := fixLabel.FindStringSubmatch(line); m != nil {
				n.SuggestedFix = capture(i, m[2])
				continue
			}
		}
	}

	return n
}

// fallbackNarrative synthesizes a fixed mock narrative when the LLM
// call itself fails, so a transient provider outage never leaves a run
// without an AnalysisResult (spec.md §7 "LLM errors trigger fallback
// narrative; never rethrown").
func fallbackNarrative(c classify.Result) narrative {
	return narrative{
		RootCause:    fmt.Sprintf("Automated analysis unavailable; classified as %s from log patterns alone.", c.FailureType),
		FailureStage: "unknown",
		SuggestedFix: "Review the run's detected errors manually; the LLM analysis step failed.",
	}
}

func isLabelLine(line string) bool {
	return rootCauseLabel.MatchString(line) || stageLabel.MatchString(line) || fixLabel.MatchString(line)
}

func truncateNarrative(n narrative) narrative {
	n.RootCause = truncate(n.RootCause, maxRootCauseLen)
	n.FailureStage = truncate(n.FailureStage, maxStageLen)
	n.SuggestedFix = truncate(n.SuggestedFix, maxFixLen)
	return n
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
