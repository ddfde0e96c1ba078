package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AlharbiAbdullah/Cortex/internal/api"
	"github.com/AlharbiAbdullah/Cortex/internal/models"
	"github.com/AlharbiAbdullah/Cortex/internal/render"
)

var summaryWordsFlag int

var summarizeCmd = &cobra.Command{
	Use:   "summarize [file|-]",
	Short: "Summarize a text document",
	Long:  `Summarize a text file (or stdin) with the backend's quick summarizer.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSummarize,
}

var compareCmd = &cobra.Command{
	Use:   "compare <file1> <file2>",
	Short: "Compare two text documents",
	Args:  cobra.ExactArgs(2),
	RunE:  runCompare,
}

var qualityCmd = &cobra.Command{
	Use:   "quality <file.json|->",
	Short: "Run a quick data quality check",
	Long: `Send a JSON array of records (or an object with a "data" array) to the
backend's quick quality check. The input is validated locally first.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuality,
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the backend is reachable",
	Args:  cobra.NoArgs,
	RunE:  runHealth,
}

func init() {
	summarizeCmd.Flags().IntVarP(&summaryWordsFlag, "max-words", "n", api.DefaultSummaryWords, "Maximum summary length in words")
}

// readInput reads a file argument, with "-" or no argument meaning stdin
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

func runSummarize(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	env, err := newBackendEnv(cmd, false)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := requestContext(cmd)
	defer cancel()

	decorated := deps.IsTTY()
	resp, err := progress(cmd.ErrOrStderr(), decorated, "Summarizing", "Done", func() (*models.SummaryResponse, error) {
		return env.client.Summarize(ctx, string(text), summaryWordsFlag)
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !decorated {
		fmt.Fprintln(out, resp.Summary)
		return nil
	}
	opts := render.FromConfig(env.cfg.Markdown, min(getTerminalWidth(), 120))
	fmt.Fprintln(out, render.MarkdownOrPlain(resp.Summary, opts))
	fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("%d words (from %d)", resp.WordCount, resp.OriginalWordCount)))
	return nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	first, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	second, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	env, err := newBackendEnv(cmd, false)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := requestContext(cmd)
	defer cancel()

	result, err := progress(cmd.ErrOrStderr(), deps.IsTTY(), "Comparing", "Done", func() (json.RawMessage, error) {
		return env.client.Compare(ctx, string(first), string(second))
	})
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}

func runQuality(cmd *cobra.Command, args []string) error {
	raw, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	// Reject bad input before touching the network
	if _, err := api.ValidateQualityData(raw); err != nil {
		return err
	}

	env, err := newBackendEnv(cmd, false)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := requestContext(cmd)
	defer cancel()

	result, err := progress(cmd.ErrOrStderr(), deps.IsTTY(), "Checking data quality", "Done", func() (json.RawMessage, error) {
		return env.client.QualityCheck(ctx, raw)
	})
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}

func runHealth(cmd *cobra.Command, args []string) error {
	env, err := newBackendEnv(cmd, false)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := requestContext(cmd)
	defer cancel()

	resp, err := env.client.Health(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !strings.EqualFold(resp.Status, "healthy") {
		msg := resp.Status
		if resp.Error != "" {
			msg += ": " + resp.Error
		}
		return fmt.Errorf("backend at %s is unhealthy (%s)", env.cfg.APIURL, msg)
	}
	fmt.Fprintf(out, "%s %s\n", successStyle.Render("✓"), fmt.Sprintf("%s is %s", env.cfg.APIURL, resp.Status))
	return nil
}

func printJSON(w io.Writer, raw json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		// print as received
		_, err = fmt.Fprintln(w, string(raw))
		return err
	}
	_, err := fmt.Fprintln(w, buf.String())
	return err
}
