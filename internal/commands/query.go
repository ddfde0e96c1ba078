package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AlharbiAbdullah/Cortex/internal/chart"
	"github.com/AlharbiAbdullah/Cortex/internal/config"
	"github.com/AlharbiAbdullah/Cortex/internal/models"
	"github.com/AlharbiAbdullah/Cortex/internal/render"
)

var (
	// Query flags, shared by the root command and `cortex query`
	outputFlag   string
	fileFlag     string
	rawFlag      bool
	copyFlag     bool
	chartOutFlag string
)

var queryCmd = &cobra.Command{
	Use:   "query <prompt>",
	Short: "Send a single message",
	Long: `Send one message without conversation history and print the reply.

Replies with chart data are drawn in the terminal. Output is plain text when
stdout is not a terminal or --raw is set.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd, args[0])
	},
}

func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save response to file")
	cmd.Flags().BoolVar(&rawFlag, "raw", false, "Print only the reply text")
	cmd.Flags().BoolVar(&copyFlag, "copy", false, "Copy the reply to the clipboard")
	cmd.Flags().StringVar(&chartOutFlag, "chart-out", "", "Export the reply's chart to a .png or .svg file")
}

func init() {
	addQueryFlags(queryCmd)
}

// runQuery executes a single query and outputs the response
func runQuery(cmd *cobra.Command, prompt string) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return fmt.Errorf("prompt cannot be empty")
	}

	env, err := newBackendEnv(cmd, false)
	if err != nil {
		return err
	}
	defer env.Close()

	decorated := !rawFlag && deps.IsTTY()
	stderr := cmd.ErrOrStderr()
	out := cmd.OutOrStdout()

	session := newSession(env.cfg, env.logger)
	turn, err := session.Submit(prompt)
	if err != nil {
		return err
	}

	label := fmt.Sprintf("Asking %s", session.Persona().DisplayName)
	resp, err := progress(stderr, decorated, label, "Done", func() (*models.ChatResponse, error) {
		return turn.Run(cmd.Context(), env.client)
	})
	reply, _ := session.Resolve(turn, resp, err)
	if err != nil {
		return err
	}
	text := reply.Content

	extractor := chart.NewExtractor(chart.Options{DisableSalesFallback: !env.cfg.Chart.SalesFallback}, env.logger)

	if chartOutFlag != "" {
		info := extractor.Extract(text)
		if err := writeChartImage(info, chartOutFlag, env.cfg.Chart); err != nil {
			return err
		}
		fmt.Fprintln(stderr, successStyle.Render("✓ Chart saved to "+chartOutFlag))
	}

	if copyFlag || env.cfg.CopyToClipboard {
		if err := deps.Clipboard(text); err != nil {
			fmt.Fprintln(stderr, errorStyle.Render(fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err)))
		} else if decorated {
			fmt.Fprintln(stderr, successStyle.Render("✓ Copied to clipboard"))
		}
	}

	if outputFlag != "" {
		if err := os.WriteFile(outputFlag, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if decorated {
			fmt.Fprintln(stderr, successStyle.Render(fmt.Sprintf("✓ Response saved to %s", outputFlag)))
		}
		return nil
	}

	// Raw output mode: output only the raw text
	if !decorated {
		fmt.Fprint(out, text)
		if !strings.HasSuffix(text, "\n") {
			fmt.Fprintln(out)
		}
		if reply.ExcelFile != "" {
			fmt.Fprintf(stderr, "excel_file: %s\n", reply.ExcelFile)
		}
		return nil
	}

	termWidth := getTerminalWidth()
	bubbleWidth := min(max(termWidth-4, 40), 120)
	contentWidth := bubbleWidth - 4

	name := "✦ Cortex"
	if p, ok := models.PersonaByID(reply.Expert); ok {
		name += " · " + p.DisplayName
	}
	fmt.Fprintln(out, assistantLabelStyle.Render(name))

	opts := render.FromConfig(env.cfg.Markdown, contentWidth)
	body := strings.TrimRight(render.Reply(text, chart.NewCache(extractor, 1), opts), "\n")
	if reply.ExcelFile != "" {
		body += "\n\n" + dimStyle.Render("📎 "+reply.ExcelFile+"  (cortex download "+reply.ExcelFile+")")
	}
	fmt.Fprintln(out, assistantBubbleStyle.Width(bubbleWidth).Render(body))
	return nil
}

// writeChartImage exports info to path, picking PNG or SVG from the extension
func writeChartImage(info chart.Info, path string, cfg config.ChartConfig) error {
	if !info.HasData() {
		return fmt.Errorf("no chart data found")
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	opts := chart.DefaultImageOptions()
	if cfg.Width > 0 && cfg.Height > 0 {
		opts.Width, opts.Height = cfg.Width, cfg.Height
	}

	renderErr := chart.RenderImage(info, chart.FormatFromPath(path), opts, f)
	closeErr := f.Close()
	if renderErr != nil {
		_ = os.Remove(path)
		return fmt.Errorf("failed to render chart: %w", renderErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to write %s: %w", path, closeErr)
	}
	return nil
}

// requestContext bounds a one-shot backend call by the configured request timeout
func requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), models.DefaultRequestTimeout)
}
