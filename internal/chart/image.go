package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Image formats accepted by RenderImage
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

// maxTicks bounds the number of labelled x ticks on line and area images
const maxTicks = 10

// ImageOptions sizes exported images
type ImageOptions struct {
	Width  int
	Height int
}

// DefaultImageOptions returns the default export size
func DefaultImageOptions() ImageOptions {
	return ImageOptions{Width: 1024, Height: 512}
}

// ErrNoData is returned when there is nothing to draw
var ErrNoData = errors.New("chart has no data")

// FormatFromPath picks png or svg from a file extension, defaulting to png
func FormatFromPath(path string) string {
	if strings.HasSuffix(strings.ToLower(path), ".svg") {
		return FormatSVG
	}
	return FormatPNG
}

// RenderImage writes info to w as a PNG or SVG image
func RenderImage(info Info, format string, opts ImageOptions, w io.Writer) error {
	if !info.HasData() {
		return ErrNoData
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts = DefaultImageOptions()
	}

	var provider gochart.RendererProvider
	switch strings.ToLower(format) {
	case "", FormatPNG:
		provider = gochart.PNG
	case FormatSVG:
		provider = gochart.SVG
	default:
		return fmt.Errorf("unsupported image format %q", format)
	}

	switch info.EffectiveType() {
	case TypePie:
		return renderPieImage(info, opts, provider, w)
	case TypeBar:
		return renderBarImage(info, opts, provider, w)
	default:
		return renderLineImage(info, opts, provider, w, info.EffectiveType() == TypeArea)
	}
}

func drawingColor(i int) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(PaletteColor(i), "#"))
}

func dollarFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return FormatDollars(f)
	}
	return fmt.Sprint(v)
}

func renderPieImage(info Info, opts ImageOptions, provider gochart.RendererProvider, w io.Writer) error {
	var values []gochart.Value
	for i, rec := range info.Data {
		y := yValue(info, rec)
		if y <= 0 {
			continue
		}
		values = append(values, gochart.Value{
			Label: FormatAxisLabel(rec[info.XKey].String()),
			Value: y,
			Style: gochart.Style{FillColor: drawingColor(i)},
		})
	}
	if len(values) == 0 {
		return fmt.Errorf("pie chart needs at least one positive value: %w", ErrNoData)
	}

	pie := gochart.PieChart{
		Title:  info.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Values: values,
	}
	return pie.Render(provider, w)
}

func renderBarImage(info Info, opts ImageOptions, provider gochart.RendererProvider, w io.Writer) error {
	bars := make([]gochart.Value, 0, len(info.Data))
	for _, rec := range info.Data {
		bars = append(bars, gochart.Value{
			Label: FormatAxisLabel(rec[info.XKey].String()),
			Value: yValue(info, rec),
			Style: gochart.Style{FillColor: drawingColor(0), StrokeColor: drawingColor(0)},
		})
	}

	barWidth := opts.Width / (2 * len(bars))
	if barWidth > 60 {
		barWidth = 60
	}
	if barWidth < 4 {
		barWidth = 4
	}

	bar := gochart.BarChart{
		Title:    info.Title,
		Width:    opts.Width,
		Height:   opts.Height,
		BarWidth: barWidth,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40},
		},
		YAxis: gochart.YAxis{ValueFormatter: dollarFormatter, Range: barRange(bars)},
		Bars:  bars,
	}
	return bar.Render(provider, w)
}

// barRange spans every bar and zero, never collapsing to an empty range
func barRange(bars []gochart.Value) *gochart.ContinuousRange {
	lo, hi := 0.0, 0.0
	for _, b := range bars {
		lo, hi = math.Min(lo, b.Value), math.Max(hi, b.Value)
	}
	if lo == hi {
		hi = lo + 1
	}
	return &gochart.ContinuousRange{Min: lo, Max: hi}
}

func renderLineImage(info Info, opts ImageOptions, provider gochart.RendererProvider, w io.Writer, fill bool) error {
	n := len(info.Data)
	xs := make([]float64, n)
	var ticks []gochart.Tick
	step := 1
	if n > maxTicks {
		step = (n + maxTicks - 1) / maxTicks
	}
	for i, rec := range info.Data {
		xs[i] = float64(i)
		if i%step == 0 {
			ticks = append(ticks, gochart.Tick{Value: float64(i), Label: FormatAxisLabel(rec[info.XKey].String())})
		}
	}

	var (
		series     []gochart.Series
		minY, maxY = math.Inf(1), math.Inf(-1)
	)
	for si, key := range info.SeriesKeys() {
		ys := make([]float64, n)
		numeric := false
		for i, rec := range info.Data {
			if v, ok := rec[key]; ok && v.IsNum {
				ys[i] = v.Num
				numeric = true
			}
		}
		if !numeric {
			continue
		}
		for _, y := range ys {
			minY, maxY = math.Min(minY, y), math.Max(maxY, y)
		}

		style := gochart.Style{StrokeColor: drawingColor(si), StrokeWidth: 2}
		if fill {
			style.FillColor = drawingColor(si).WithAlpha(96)
		}

		px, py := xs, ys
		// go-chart needs at least two points to draw a range
		if n == 1 {
			px = []float64{xs[0], xs[0] + 1}
			py = []float64{ys[0], ys[0]}
		}
		series = append(series, gochart.ContinuousSeries{Name: key, XValues: px, YValues: py, Style: style})
	}
	if len(series) == 0 {
		return fmt.Errorf("no numeric series to plot: %w", ErrNoData)
	}

	yAxis := gochart.YAxis{ValueFormatter: dollarFormatter}
	if minY == maxY {
		// A flat series has a zero y range, which go-chart rejects
		yAxis.Range = &gochart.ContinuousRange{Min: minY - 1, Max: maxY + 1}
	}

	graph := gochart.Chart{
		Title:  info.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis:  gochart.XAxis{Ticks: ticks},
		YAxis:  yAxis,
		Series: series,
	}
	if len(series) > 1 {
		graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}
	}
	return graph.Render(provider, w)
}
