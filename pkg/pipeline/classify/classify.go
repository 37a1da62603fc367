// Package classify assigns a deterministic failure-type, priority, and
// confidence to a run from its chunks and detected errors, short
// circuiting the LLM when possible (spec.md §4.8).
package classify

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ci-loglens/loglens/pkg/models"
	"github.com/ci-loglens/loglens/pkg/pipeline/catalog"
)

// Result is the classifier's verdict for one run.
type Result struct {
	FailureType models.FailureType
	Priority    int
	SkipLLM     bool
	Confidence  float64
	ConfidenceNote string

	// Narrative fields are only populated when SkipLLM is true — the
	// INTENTIONAL short circuit produces its own fixed narrative instead
	// of consulting the LLM (spec.md §4.8 note).
	RootCause    string
	FailureStage string
	SuggestedFix string
}

// Priorities in detection order. INTENTIONAL is pinned to 0: spec.md
// §4.8 leaves the exact value an open question ("0 or 5, see note");
// 0 was chosen so INTENTIONAL always outranks every genuine failure
// category, matching its role as a firm short circuit rather than a
// competing classification (see DESIGN.md).
const (
	PriorityIntentional = 0
	PriorityTest        = 1
	PriorityBuild       = 2
	PriorityRuntime     = 3
	PriorityInfra       = 4
	PrioritySecurity    = 5
	PriorityTimeout     = 6
	PriorityDependency  = 7
	PriorityConfig      = 8
	PriorityPermission  = 9
	PriorityLint        = 10
)

var exitFailurePattern = regexp.MustCompile(`(?m)^\s*exit\s+[1-9]\d*\s*$`)

var forceFailPattern = regexp.MustCompile(`(?i)force.*fail|fail.*force`)

// rule is one entry of the classifier's own ordered, data-driven
// catalogue (spec.md §9 "Pattern catalogue as data"): categories beyond
// INTENTIONAL are recognized by scanning chunk content and the messages
// of errors already extracted by pkg/pipeline/catalog, in strict
// detection order.
type rule struct {
	failureType models.FailureType
	priority    int
	contentRe   *regexp.Regexp
	categories  []string // catalog.Category* values that imply this rule
}

var rules = []rule{
	{models.FailureTest, PriorityTest,
		regexp.MustCompile(`(?i)test.*failed|assertion.*failed|expected.*but got|\d+ failing|AssertionError`),
		[]string{catalog.CategoryTestFailure}},
	{models.FailureBuild, PriorityBuild,
		regexp.MustCompile(`(?i)build failed|compilation error|could not compile|SyntaxError|unexpected token|invalid syntax|TS\d{4}`),
		[]string{catalog.CategoryBuildFailure, catalog.CategorySyntaxError}},
	{models.FailureRuntime, PriorityRuntime,
		regexp.MustCompile(`(?i)TypeError|ReferenceError|RangeError|cannot read propert(y|ies)|undefined is not`),
		[]string{catalog.CategoryRuntimeError}},
	{models.FailureInfra, PriorityInfra,
		regexp.MustCompile(`(?i)connection refused|connection reset|ECONNREFUSED|ETIMEDOUT|container|orchestrat|kubernetes|\bpod\b|database.*(unavailable|unreachable)`),
		[]string{catalog.CategoryNetworkError}},
	{models.FailureSecurity, PrioritySecurity,
		regexp.MustCompile(`(?i)\bCVE-\d{4}-\d+\b|vulnerability|vulnerable|authentication failed|unauthorized|auth failure`),
		nil},
	{models.FailureTimeout, PriorityTimeout,
		regexp.MustCompile(`(?i)\btimeout\b|timed out|deadline exceeded`),
		nil},
	{models.FailureDependency, PriorityDependency,
		regexp.MustCompile(`(?i)cannot find module|module not found|npm ERR!|yarn error|ERESOLVE|peer dependency|ENOENT.*package\.json`),
		[]string{catalog.CategoryDependencyIssue}},
	{models.FailureConfig, PriorityConfig,
		regexp.MustCompile(`(?i)missing.*(env|environment) variable|invalid (yaml|json)|config(uration)? error`),
		nil},
	{models.FailurePermission, PriorityPermission,
		regexp.MustCompile(`(?i)\bEACCES\b|\bEPERM\b|permission denied`),
		nil},
	{models.FailureLint, PriorityLint,
		regexp.MustCompile(`(?i)eslint|lint (warning|error)|format(ting)? (warning|error)`),
		nil},
}

// Classify runs the detection-order scan of spec.md §4.8 and returns a
// verdict. errs is the deduplicated error list from pkg/pipeline/catalog.Extract
// across all of the run's chunks; content is the full cleaned log text
// (used only for the INTENTIONAL and rule content scans).
func Classify(content string, errs []models.DetectedError, steps []models.StepSummary) Result {
	if res, ok := classifyIntentional(content, errs, steps); ok {
		return res
	}

	errorCategories := make(map[string]int)
	for _, e := range errs {
		errorCategories[e.Category]++
	}

	for _, r := range rules {
		matchedCount := 0
		for _, c := range r.categories {
			matchedCount += errorCategories[c]
		}
		if matchedCount > 0 {
			return Result{
				FailureType:    r.failureType,
				Priority:       r.priority,
				SkipLLM:        false,
				Confidence:     confidenceFromCount(matchedCount),
				ConfidenceNote: fmt.Sprintf("%d %s signal(s) detected", matchedCount, strings.ToLower(string(r.failureType))),
			}
		}
		if r.contentRe != nil && r.contentRe.MatchString(content) {
			return Result{
				FailureType:    r.failureType,
				Priority:       r.priority,
				SkipLLM:        false,
				Confidence:     0.6,
				ConfidenceNote: fmt.Sprintf("%s marker matched in log content", r.failureType),
			}
		}
	}

	return Result{
		FailureType:    models.FailureUnknown,
		Priority:       models.PriorityUnknown,
		SkipLLM:        false,
		Confidence:     0.3,
		ConfidenceNote: "no catalogue pattern matched; deferring to LLM classification",
	}
}

// classifyIntentional implements the INTENTIONAL short circuit: a bare
// "exit N" line, or an error-bearing step whose name mentions both
// "force" and "fail" (spec.md §4.8 row 1).
func classifyIntentional(content string, errs []models.DetectedError, steps []models.StepSummary) (Result, bool) {
	var stage string
	switch {
	case exitFailurePattern.MatchString(content):
		stage = firstForceFailStage(steps)
	case hasForceFailStepWithErrors(steps, errs):
		stage = firstForceFailStage(steps)
	default:
		return Result{}, false
	}

	if stage == "" {
		stage = "Scripted non-zero exit"
	}

	return Result{
		FailureType:    models.FailureIntentional,
		Priority:       PriorityIntentional,
		SkipLLM:        true,
		Confidence:     1.0,
		ConfidenceNote: "explicit non-zero exit recognized as an intentional failure",
		RootCause:      "The job was deliberately made to fail by an explicit non-zero exit.",
		FailureStage:   stage,
		SuggestedFix:   "Remove or disable the forced exit once its purpose (e.g. testing failure handling) is complete.",
	}, true
}

func hasForceFailStepWithErrors(steps []models.StepSummary, errs []models.DetectedError) bool {
	if len(errs) == 0 {
		return false
	}
	for _, s := range steps {
		if s.HasErrors && forceFailPattern.MatchString(s.Name) {
			return true
		}
	}
	return false
}

func firstForceFailStage(steps []models.StepSummary) string {
	for _, s := range steps {
		if forceFailPattern.MatchString(s.Name) {
			return s.Name
		}
	}
	return ""
}

func confidenceFromCount(n int) float64 {
	switch {
	case n >= 5:
		return 0.95
	case n >= 2:
		return 0.85
	default:
		return 0.75
	}
}
