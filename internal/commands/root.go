// Package commands provides CLI commands for cortex.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/AlharbiAbdullah/Cortex/internal/chat"
	"github.com/AlharbiAbdullah/Cortex/internal/config"
	"github.com/AlharbiAbdullah/Cortex/internal/logging"
	"github.com/AlharbiAbdullah/Cortex/internal/models"
)

var (
	// Global flags
	apiURLFlag  string
	modelFlag   string
	expertFlag  string
	noRAGFlag   bool
	verboseFlag bool
	logFileFlag string

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cortex [prompt]",
	Short: "Terminal client for the Cortex document-intelligence backend",
	Long: `cortex is a terminal client for the Cortex backend. It chats with the
backend experts, renders charts found in replies, and uploads and downloads
documents.

Examples:
  cortex                                Start interactive chat
  cortex chat -e data_analytics         Chat with the data analytics expert
  cortex "Summarize the leave policy"   Send a single query
  cortex -f prompt.md                   Read prompt from file
  cat prompt.md | cortex                Read prompt from stdin
  cortex upload report.pdf --wait       Ingest a document
  cortex chart reply.md --out chart.png Export a chart from a saved reply
  cortex report generate weekly d.json  Generate a report from a template`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Check for version flag
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Fprintf(cmd.OutOrStdout(), "cortex %s (built %s)\n", Version, BuildTime)
			return nil
		}

		// Check for file input
		if fileFlag != "" {
			data, err := os.ReadFile(fileFlag)
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			return runQuery(cmd, string(data))
		}

		// Check for stdin
		if deps.StdinIsPipe() {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			return runQuery(cmd, string(data))
		}

		// Check for positional argument
		if len(args) > 0 {
			return runQuery(cmd, args[0])
		}

		// No input - open the chat
		return runChat(cmd)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Error"))
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&apiURLFlag, "api-url", "", "Backend URL (default from config, http://localhost:8000)")
	rootCmd.PersistentFlags().StringVarP(&modelFlag, "model", "m", "", "Model to use (e.g., qwen2.5:14b)")
	rootCmd.PersistentFlags().StringVarP(&expertFlag, "expert", "e", "", "Expert persona (e.g., general, legal, data_analytics)")
	rootCmd.PersistentFlags().BoolVar(&noRAGFlag, "no-rag", false, "Answer without document retrieval")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Debug logging (to stderr, or to --log-file)")
	rootCmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "Write logs to this file")

	addQueryFlags(rootCmd)
	rootCmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read prompt from file")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")

	// Add subcommands
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(jobsCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(documentsCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(expertsCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(qualityCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(configCmd)
}

// loadSettings returns the configuration with command-line flags applied
func loadSettings(cmd *cobra.Command) (config.Config, error) {
	cfg, err := deps.LoadConfig()
	if err != nil {
		// Defaults are still usable; flags may fix what the file got wrong
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	}

	if apiURLFlag != "" {
		cfg.APIURL = apiURLFlag
	}
	if modelFlag != "" {
		cfg.DefaultModel = modelFlag
	}
	if expertFlag != "" {
		cfg.DefaultExpert = models.NormalizePersonaID(expertFlag)
	}
	if noRAGFlag {
		cfg.UseRAG = false
	}
	if verboseFlag {
		cfg.Verbose = true
	}
	if logFileFlag != "" {
		cfg.LogFile = logFileFlag
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setupLogger returns the command logger. Outside the TUI, --verbose without
// a log file logs to stderr.
func setupLogger(cmd *cobra.Command, cfg config.Config, interactive bool) (*slog.Logger, func() error, error) {
	if cfg.Verbose && cfg.LogFile == "" && !interactive {
		return logging.New(cmd.ErrOrStderr(), slog.LevelDebug), func() error { return nil }, nil
	}
	return logging.Setup(logging.Options{
		File:    cfg.LogFile,
		Level:   cfg.LogLevel,
		Verbose: cfg.Verbose,
	})
}

// newSession builds a chat session from the effective configuration
func newSession(cfg config.Config, logger *slog.Logger) *chat.Session {
	normal, heavy := cfg.ChatTimeouts()
	return chat.NewSession(
		chat.WithPersona(cfg.DefaultExpert),
		chat.WithModel(cfg.DefaultModel),
		chat.WithRAG(cfg.UseRAG),
		chat.WithTimeouts(chat.Timeouts{
			Default:       normal,
			Heavy:         heavy,
			HeavyPersonas: cfg.HeavyExperts,
		}),
		chat.WithLogger(logger),
	)
}
