package chart

import (
	"math"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Palette is the categorical color cycle for pie segments and multi-series charts
var Palette = []string{
	"#0088FE",
	"#00C49F",
	"#FFBB28",
	"#FF8042",
	"#8884D8",
	"#82CA9D",
	"#FF6B6B",
	"#A28CF0",
}

// PaletteColor returns the palette entry for index i, cycling
func PaletteColor(i int) string {
	if i < 0 {
		i = -i
	}
	return Palette[i%len(Palette)]
}

var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

var printer = message.NewPrinter(language.English)

// FormatAxisLabel shortens ISO dates (2024-03-05 becomes "Mar 5"); any other
// label is returned unchanged.
func FormatAxisLabel(label string) string {
	if !isoDateRe.MatchString(label) {
		return label
	}
	t, err := time.Parse("2006-01-02", label)
	if err != nil {
		return label
	}
	return t.Format("Jan 2")
}

// FormatDollars renders f as a dollar amount with thousands separators
func FormatDollars(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "$" + printer.Sprint(f)
	}
	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}
	return sign + printer.Sprintf("$%.2f", f)
}

// FormatValue renders numbers as dollars and anything else verbatim
func FormatValue(v Value) string {
	if v.IsNum {
		return FormatDollars(v.Num)
	}
	return v.Str
}

// Tooltip describes one record: the formatted x label followed by one line
// per series value.
func Tooltip(info Info, rec Record) string {
	var sb strings.Builder
	if x, ok := rec[info.XKey]; ok {
		sb.WriteString(FormatAxisLabel(x.String()))
	}
	for _, key := range info.SeriesKeys() {
		v, ok := rec[key]
		if !ok {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(key)
		sb.WriteString(": ")
		sb.WriteString(FormatValue(v))
	}
	return sb.String()
}
