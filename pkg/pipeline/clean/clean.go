// Package clean normalizes raw CI/CD log text into an ordered line
// sequence (spec.md §4.1).
package clean

import (
	"regexp"
	"strings"
)

// csiPattern matches ANSI CSI sequences: ESC '[' followed by parameter/
// intermediate bytes and a final byte in the 0x40–0x7E range.
var csiPattern = regexp.MustCompile("\x1b\\[[0-9;?]*[ -/]*[@-~]")

// oscPattern matches ANSI OSC sequences: ESC ']' ... terminated by BEL
// or ESC '\' (ST).
var oscPattern = regexp.MustCompile("\x1b\\][^\x07\x1b]*(\x07|\x1b\\\\)?")

// timestampPattern matches a leading ISO-8601 timestamp of the form
// "YYYY-MM-DDThh:mm:ss.fffZ " (spec.md §4.1).
var timestampPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d+Z `)

// Clean strips ANSI control sequences and leading timestamps, normalizes
// line endings, trims, and drops empty lines. Output order equals input
// order minus dropped lines. Clean is idempotent: Clean(Clean(x)) == Clean(x)
// (spec.md §8 invariant 4), because every transformation it applies is a
// no-op on its own output.
func Clean(raw string) []string {
	raw = oscPattern.ReplaceAllString(raw, "")
	raw = csiPattern.ReplaceAllString(raw, "")
	raw = normalizeLineEndings(raw)

	rawLines := strings.Split(raw, "\n")
	lines := make([]string, 0, len(rawLines))
	for _, line := range rawLines {
		line = timestampPattern.ReplaceAllString(line, "")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// normalizeLineEndings replaces stray carriage returns (not immediately
// followed by a newline) with a newline, then leaves "\r\n" pairs to be
// split by the final "\n" split in Clean.
func normalizeLineEndings(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\r' {
			if i+1 < len(s) && s[i+1] == '\n' {
				continue // let the following \n terminate the line
			}
			b.WriteByte('\n')
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
