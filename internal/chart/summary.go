package chart

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	fencedCodeRe = regexp.MustCompile("(?s)```.*?```")
	inlineCodeRe = regexp.MustCompile("`[^`\n]*`")
	importLineRe = regexp.MustCompile(`^(?:import\s|from\s+\S+\s+import\s)`)
	plotLineRe   = regexp.MustCompile(`\b(?:plt|px|sns|ax|fig)\.\w+|\.plot\(`)
	assignLineRe = regexp.MustCompile(`^[A-Za-z_][\w.\[\]'"]*\s*=[^=]`)
	manyNewlines = regexp.MustCompile(`\n{3,}`)
)

// minSummaryChars is the shortest prose worth showing next to a chart
const minSummaryChars = 20

// ExtractSummary returns the prose around a chart: code blocks, inline code
// and code-looking lines are removed, and the first two paragraphs longer
// than ten characters are kept. Text shorter than twenty characters after
// stripping gives "".
func ExtractSummary(text string) string {
	s := strings.ReplaceAll(text, "\r\n", "\n")
	s = fencedCodeRe.ReplaceAllString(s, "")
	s = inlineCodeRe.ReplaceAllString(s, "")

	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if looksLikeCode(line) {
			continue
		}
		kept = append(kept, line)
	}
	s = strings.Join(kept, "\n")
	s = manyNewlines.ReplaceAllString(s, "\n\n")
	s = strings.TrimSpace(s)

	if utf8.RuneCountInString(s) < minSummaryChars {
		return ""
	}

	var paragraphs []string
	for _, p := range strings.Split(s, "\n\n") {
		p = strings.TrimSpace(p)
		if utf8.RuneCountInString(p) > 10 {
			paragraphs = append(paragraphs, p)
		}
		if len(paragraphs) == 2 {
			break
		}
	}
	return strings.Join(paragraphs, "\n\n")
}

func looksLikeCode(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	return importLineRe.MatchString(trimmed) ||
		plotLineRe.MatchString(trimmed) ||
		assignLineRe.MatchString(trimmed) ||
		strings.HasSuffix(trimmed, ")")
}
