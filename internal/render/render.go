package render

import (
	"strings"

	"github.com/AlharbiAbdullah/Cortex/internal/chart"
)

// Markdown renders content with a pooled glamour renderer
func Markdown(content string, opts Options) (string, error) {
	r, err := pool.get(opts)
	if err != nil {
		return "", err
	}
	defer pool.put(opts, r)

	return r.Render(content)
}

// MarkdownOrPlain renders content, falling back to the raw text when glamour
// fails so a reply is never lost.
func MarkdownOrPlain(content string, opts Options) string {
	out, err := Markdown(content, opts)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n")
}

// Reply renders an assistant reply for the terminal. Replies that pass the
// chart pre-filter and yield data are drawn as a chart followed by the
// prose summary; everything else is markdown.
func Reply(content string, cache *chart.Cache, opts Options) string {
	if cache != nil {
		if info, ok := cache.Lookup(content); ok {
			return ChartReply(info, content, opts)
		}
	}
	return MarkdownOrPlain(content, opts)
}

// ChartReply draws info and appends the summary of content, if any
func ChartReply(info chart.Info, content string, opts Options) string {
	var sb strings.Builder
	sb.WriteString(chart.RenderTerminal(info, opts.Width))
	if summary := chart.ExtractSummary(content); summary != "" {
		sb.WriteString("\n\n")
		sb.WriteString(MarkdownOrPlain(summary, opts))
	}
	return sb.String()
}
