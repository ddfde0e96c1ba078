package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const (
	minTerminalWidth = 24
	plotHeight       = 8
	maxLabelWidth    = 18
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	axisStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

// RenderTerminal draws info as text for a terminal of the given width.
// It returns "" when there is no data.
func RenderTerminal(info Info, width int) string {
	if !info.HasData() {
		return ""
	}
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	var body string
	switch info.EffectiveType() {
	case TypePie:
		body = renderPie(info, width)
	case TypeBar:
		body = renderBars(info, width)
	case TypeArea:
		body = renderColumns(info, width, true)
	default:
		body = renderColumns(info, width, false)
	}

	if info.Title == "" {
		return body
	}
	return titleStyle.Render(info.Title) + "\n" + body
}

// label returns the formatted x label of rec, clipped to maxWidth cells
func label(info Info, rec Record, maxWidth int) string {
	l := FormatAxisLabel(rec[info.XKey].String())
	return runewidth.Truncate(l, maxWidth, "…")
}

// yValue returns the numeric y of rec, or 0 for non-numeric cells
func yValue(info Info, rec Record) float64 {
	v, ok := rec[info.YKey]
	if !ok || !v.IsNum || math.IsNaN(v.Num) || math.IsInf(v.Num, 0) {
		return 0
	}
	return v.Num
}

func labelColumnWidth(info Info) int {
	w := 0
	for _, rec := range info.Data {
		if lw := runewidth.StringWidth(label(info, rec, maxLabelWidth)); lw > w {
			w = lw
		}
	}
	return w
}

func renderPie(info Info, width int) string {
	total := 0.0
	for _, rec := range info.Data {
		if y := yValue(info, rec); y > 0 {
			total += y
		}
	}

	labelW := labelColumnWidth(info)
	barW := width - labelW - 24
	if barW < 4 {
		barW = 4
	}

	var sb strings.Builder
	for i, rec := range info.Data {
		y := yValue(info, rec)
		share := 0.0
		if total > 0 && y > 0 {
			share = y / total
		}

		color := lipgloss.NewStyle().Foreground(lipgloss.Color(PaletteColor(i)))
		l := label(info, rec, maxLabelWidth)
		pad := strings.Repeat(" ", labelW-runewidth.StringWidth(l))
		filled := int(math.Round(share * float64(barW)))

		fmt.Fprintf(&sb, "%s %s%s %s %5.1f%%  %s\n",
			color.Render("■"),
			l, pad,
			color.Render(strings.Repeat("█", filled))+strings.Repeat(" ", barW-filled),
			share*100,
			FormatValue(rec[info.YKey]),
		)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderBars(info Info, width int) string {
	maxV := 0.0
	for _, rec := range info.Data {
		if y := math.Abs(yValue(info, rec)); y > maxV {
			maxV = y
		}
	}

	labelW := labelColumnWidth(info)
	barW := width - labelW - 16
	if barW < 4 {
		barW = 4
	}
	color := lipgloss.NewStyle().Foreground(lipgloss.Color(PaletteColor(0)))

	var sb strings.Builder
	for _, rec := range info.Data {
		l := label(info, rec, maxLabelWidth)
		pad := strings.Repeat(" ", labelW-runewidth.StringWidth(l))
		n := 0
		if maxV > 0 {
			n = int(math.Round(math.Abs(yValue(info, rec)) / maxV * float64(barW)))
		}
		fmt.Fprintf(&sb, "%s%s %s %s\n", l, pad, color.Render(strings.Repeat("█", n)), FormatValue(rec[info.YKey]))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// renderColumns draws a line (dots) or area (filled) plot, one column per
// sampled record.
func renderColumns(info Info, width int, fill bool) string {
	ys := make([]float64, len(info.Data))
	minV, maxV := math.Inf(1), math.Inf(-1)
	for i, rec := range info.Data {
		ys[i] = yValue(info, rec)
		minV = math.Min(minV, ys[i])
		maxV = math.Max(maxV, ys[i])
	}
	if fill && minV > 0 {
		minV = 0
	}

	maxLabel := FormatDollars(maxV)
	minLabel := FormatDollars(minV)
	axisW := runewidth.StringWidth(maxLabel)
	if w := runewidth.StringWidth(minLabel); w > axisW {
		axisW = w
	}

	cols := width - axisW - 3
	if cols < 2 {
		cols = 2
	}
	if cols > len(ys)*3 {
		cols = len(ys) * 3
	}

	// level in 0..plotHeight-1 for each column
	levels := make([]int, cols)
	span := maxV - minV
	for c := 0; c < cols; c++ {
		idx := c * len(ys) / cols
		if span > 0 {
			levels[c] = int(math.Round((ys[idx] - minV) / span * float64(plotHeight-1)))
		} else {
			levels[c] = plotHeight / 2
		}
	}

	color := lipgloss.NewStyle().Foreground(lipgloss.Color(PaletteColor(0)))
	var sb strings.Builder
	for row := plotHeight - 1; row >= 0; row-- {
		axis := strings.Repeat(" ", axisW)
		switch row {
		case plotHeight - 1:
			axis = padLeft(maxLabel, axisW)
		case 0:
			axis = padLeft(minLabel, axisW)
		}
		sb.WriteString(axisStyle.Render(axis))
		sb.WriteString(axisStyle.Render(" │"))

		var line strings.Builder
		for c := 0; c < cols; c++ {
			switch {
			case levels[c] == row:
				if fill {
					line.WriteString("█")
				} else {
					line.WriteString("•")
				}
			case fill && levels[c] > row:
				line.WriteString("▒")
			default:
				line.WriteString(" ")
			}
		}
		sb.WriteString(color.Render(line.String()))
		sb.WriteByte('\n')
	}

	sb.WriteString(axisStyle.Render(strings.Repeat(" ", axisW) + " └" + strings.Repeat("─", cols)))
	sb.WriteByte('\n')

	first := label(info, info.Data[0], maxLabelWidth)
	last := label(info, info.Data[len(info.Data)-1], maxLabelWidth)
	xAxis := first
	if len(info.Data) > 1 {
		gap := cols - runewidth.StringWidth(first) - runewidth.StringWidth(last)
		if gap < 1 {
			gap = 1
		}
		xAxis = first + strings.Repeat(" ", gap) + last
	}
	sb.WriteString(axisStyle.Render(strings.Repeat(" ", axisW+2) + xAxis))
	return sb.String()
}

func padLeft(s string, w int) string {
	if n := w - runewidth.StringWidth(s); n > 0 {
		return strings.Repeat(" ", n) + s
	}
	return s
}
