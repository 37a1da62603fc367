// Package catalog holds the ordered pattern catalogue shared by the
// error extractor and the classifier (spec.md §4.4, §9 "Pattern
// catalogue as data"). Patterns are plain data so new categories can be
// added without touching control flow.
package catalog

import (
	"regexp"

	"github.com/ci-loglens/loglens/pkg/models"
)

// Pattern is one entry of the catalogue: a category tag, the regex that
// recognizes it, and the confidence to report when it matches.
type Pattern struct {
	Category   string
	Regex      *regexp.Regexp
	Confidence models.Confidence
	// Intentional marks patterns that indicate a deliberately scripted
	// non-zero exit rather than a failure (spec.md §4.4 "Exit Failure").
	Intentional bool
}

// Category name constants, also used as DetectedError.Category values
// and as FailureType inputs to the classifier.
const (
	CategoryBuildFailure    = "Build Failure"
	CategoryDependencyIssue = "Dependency Issue"
	CategoryTestFailure     = "Test Failure"
	CategorySyntaxError     = "Syntax Error"
	CategoryRuntimeError    = "Runtime Error"
	CategoryNetworkError    = "Network Error"
	CategoryAPIError        = "API Error"
	CategoryCIError         = "CI Error"
	CategoryProcessExit     = "Process Exit"
	CategoryExitFailure     = "Exit Failure"
	CategoryGeneric         = "Generic"
)

func mustCompile(pattern string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + pattern)
}

// Catalogue is the ordered, ranked list of patterns. Within a line, the
// first pattern to match wins; order therefore doubles as priority.
var Catalogue = []Pattern{
	{CategoryBuildFailure, mustCompile(`build failed`), models.ConfidenceHigh, false},
	{CategoryBuildFailure, mustCompile(`compilation error`), models.ConfidenceHigh, false},
	{CategoryBuildFailure, mustCompile(`could not compile`), models.ConfidenceHigh, false},

	{CategoryDependencyIssue, mustCompile(`cannot find module`), models.ConfidenceHigh, false},
	{CategoryDependencyIssue, mustCompile(`module not found`), models.ConfidenceHigh, false},
	{CategoryDependencyIssue, mustCompile(`ENOENT.*package\.json`), models.ConfidenceHigh, false},
	{CategoryDependencyIssue, mustCompile(`npm ERR!`), models.ConfidenceMedium, false},
	{CategoryDependencyIssue, mustCompile(`yarn error`), models.ConfidenceMedium, false},
	{CategoryDependencyIssue, mustCompile(`ERESOLVE`), models.ConfidenceMedium, false},
	{CategoryDependencyIssue, mustCompile(`peer dependency`), models.ConfidenceMedium, false},

	{CategoryTestFailure, mustCompile(`test.*failed`), models.ConfidenceHigh, false},
	{CategoryTestFailure, mustCompile(`assertion.*failed`), models.ConfidenceHigh, false},
	{CategoryTestFailure, mustCompile(`expected.*but got`), models.ConfidenceHigh, false},
	{CategoryTestFailure, mustCompile(`\d+ failing`), models.ConfidenceHigh, false},
	{CategoryTestFailure, mustCompile(`AssertionError`), models.ConfidenceHigh, false},

	{CategorySyntaxError, mustCompile(`SyntaxError`), models.ConfidenceHigh, false},
	{CategorySyntaxError, mustCompile(`unexpected token`), models.ConfidenceHigh, false},
	{CategorySyntaxError, mustCompile(`invalid syntax`), models.ConfidenceHigh, false},

	{CategoryRuntimeError, mustCompile(`TypeError`), models.ConfidenceHigh, false},
	{CategoryRuntimeError, mustCompile(`ReferenceError`), models.ConfidenceHigh, false},
	{CategoryRuntimeError, mustCompile(`RangeError`), models.ConfidenceHigh, false},
	{CategoryRuntimeError, mustCompile(`cannot read propert(y|ies)`), models.ConfidenceHigh, false},
	{CategoryRuntimeError, mustCompile(`undefined is not`), models.ConfidenceHigh, false},

	{CategoryNetworkError, mustCompile(`ECONNREFUSED`), models.ConfidenceHigh, false},
	{CategoryNetworkError, mustCompile(`ETIMEDOUT`), models.ConfidenceHigh, false},
	{CategoryNetworkError, mustCompile(`network error`), models.ConfidenceMedium, false},

	{CategoryAPIError, mustCompile(`\bHTTP\s+(4\d\d|5\d\d)\b`), models.ConfidenceHigh, false},
	{CategoryAPIError, mustCompile(`\bstatus code[:\s]+(4\d\d|5\d\d)\b`), models.ConfidenceHigh, false},

	{CategoryCIError, mustCompile(`##\[error\]`), models.ConfidenceHigh, false},
	{CategoryCIError, mustCompile(`Error:\s+Process completed with exit code`), models.ConfidenceHigh, false},

	{CategoryProcessExit, mustCompile(`exit code [1-9]\d*`), models.ConfidenceHigh, false},
	{CategoryProcessExit, mustCompile(`exited with code [1-9]\d*`), models.ConfidenceHigh, false},
	{CategoryProcessExit, mustCompile(`command failed`), models.ConfidenceMedium, false},

	{CategoryExitFailure, mustCompile(`^\s*exit\s+[1-9]\d*\s*$`), models.ConfidenceHigh, true},

	{CategoryGeneric, mustCompile(`FATAL`), models.ConfidenceHigh, false},
	{CategoryGeneric, mustCompile(`CRITICAL`), models.ConfidenceHigh, false},
	{CategoryGeneric, mustCompile(`ERROR`), models.ConfidenceMedium, false},
}

// Match returns the first catalogue entry matching line, and ok=false
// if none do. Catalogue order is the precedence order: a line matches
// at most one pattern (spec.md §4.4).
func Match(line string) (Pattern, bool) {
	for _, p := range Catalogue {
		if p.Regex.MatchString(line) {
			return p, true
		}
	}
	return Pattern{}, false
}
