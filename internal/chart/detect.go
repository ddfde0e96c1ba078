package chart

import (
	"regexp"
	"strings"
)

// typeKeywords is checked in order; the first type with a matching keyword wins
var typeKeywords = []struct {
	typ      Type
	keywords []string
}{
	{TypePie, []string{"pie chart", "pie_chart"}},
	{TypeBar, []string{"bar chart", "bar_chart", "bar graph"}},
	{TypeLine, []string{"line chart", "line_chart", "line graph", "over time", "trend"}},
	{TypeArea, []string{"area chart", "area_chart"}},
}

var (
	titleRe = regexp.MustCompile(`title\(\s*(?:"([^"]*)"|'([^']*)')`)

	chartKeywordRe = regexp.MustCompile(`(?i)chart|graph|plot|visuali[sz]|over time|trend`)
	dataLiteralRe  = regexp.MustCompile(`\w*data\s*=\s*\{`)
	dataFrameRe    = regexp.MustCompile(`DataFrame`)
	plotCallRe     = regexp.MustCompile(`\b(?:plt|px|sns|ax|fig|go)\.\w+\(|\.plot\(`)
	orderWordRe    = regexp.MustCompile(`(?i)\border`)
)

// DetectType scans text for chart keywords (case-insensitive)
func DetectType(text string) Type {
	lower := strings.ToLower(text)
	for _, tk := range typeKeywords {
		for _, kw := range tk.keywords {
			if strings.Contains(lower, kw) {
				return tk.typ
			}
		}
	}
	return TypeNone
}

// ExtractTitle returns the quoted argument of the first title(...) call
func ExtractTitle(text string) string {
	m := titleRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	if m[1] != "" {
		return m[1]
	}
	return m[2]
}

// ContainsChartData is a cheap pre-filter run before Extract. It needs a
// chart-related keyword plus something that looks like data: a data literal,
// a DataFrame, a plotting call, or the word "order".
func ContainsChartData(text string) bool {
	if !chartKeywordRe.MatchString(text) {
		return false
	}
	return dataLiteralRe.MatchString(text) ||
		dataFrameRe.MatchString(text) ||
		plotCallRe.MatchString(text) ||
		orderWordRe.MatchString(text)
}
