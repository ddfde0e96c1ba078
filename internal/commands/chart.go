package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AlharbiAbdullah/Cortex/internal/chart"
	"github.com/AlharbiAbdullah/Cortex/internal/render"
)

var (
	chartOutPathFlag string
	chartTypeFlag    string
	chartWidthFlag   int
	chartJSONFlag    bool
)

var chartCmd = &cobra.Command{
	Use:   "chart <file|->",
	Short: "Draw the chart in a saved reply",
	Long: `Run the chart extractor on a saved assistant reply and draw it in the
terminal, followed by the reply's summary text. --out exports the chart as a
PNG or SVG image instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runChart,
}

func init() {
	chartCmd.Flags().StringVarP(&chartOutPathFlag, "out", "o", "", "Export to a .png or .svg file")
	chartCmd.Flags().StringVarP(&chartTypeFlag, "type", "t", "", "Override the chart type (pie, bar, line, area)")
	chartCmd.Flags().IntVarP(&chartWidthFlag, "width", "w", 0, "Terminal chart width (default: terminal width)")
	chartCmd.Flags().BoolVar(&chartJSONFlag, "json", false, "Print the extracted data as JSON")
}

func runChart(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to read reply: %w", err)
	}

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := setupLogger(cmd, cfg, false)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	text := string(data)
	extractor := chart.NewExtractor(chart.Options{DisableSalesFallback: !cfg.Chart.SalesFallback}, logger)
	info := extractor.Extract(text)
	if !info.HasData() {
		return fmt.Errorf("no chart data found in %s", args[0])
	}

	if chartTypeFlag != "" {
		typ, ok := chart.ParseType(chartTypeFlag)
		if !ok {
			return fmt.Errorf("unknown chart type %q (want pie, bar, line or area)", chartTypeFlag)
		}
		info.Type = typ
	}

	out := cmd.OutOrStdout()
	switch {
	case chartJSONFlag:
		encoded, err := chartJSON(info)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, encoded)
		return nil

	case chartOutPathFlag != "":
		if err := writeChartImage(info, chartOutPathFlag, cfg.Chart); err != nil {
			return err
		}
		fmt.Fprintln(out, chartOutPathFlag)
		return nil
	}

	width := chartWidthFlag
	if width <= 0 {
		width = getTerminalWidth()
	}
	opts := render.FromConfig(cfg.Markdown, width)
	fmt.Fprintln(out, strings.TrimRight(render.ChartReply(info, text, opts), "\n"))
	return nil
}

func chartJSON(info chart.Info) (string, error) {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode chart: %w", err)
	}
	return string(data), nil
}
