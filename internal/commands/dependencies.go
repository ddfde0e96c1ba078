package commands

import (
	"log/slog"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"golang.org/x/term"

	"github.com/AlharbiAbdullah/Cortex/internal/api"
	"github.com/AlharbiAbdullah/Cortex/internal/config"
	"github.com/AlharbiAbdullah/Cortex/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(opts tui.Options) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// LoadConfig reads the config file and environment
	LoadConfig func() (config.Config, error)

	// NewClient builds the backend client from the effective configuration
	NewClient func(cfg config.Config, logger *slog.Logger) (*api.Client, error)

	// TUI is the terminal user interface.
	TUI TUIInterface

	// Clipboard copies text to the system clipboard
	Clipboard func(string) error

	// IsTTY reports whether stdout is a terminal
	IsTTY func() bool

	// StdinIsPipe reports whether a prompt is being piped in
	StdinIsPipe func() bool
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(opts tui.Options) error {
	return tui.Run(opts)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		LoadConfig:  config.LoadConfig,
		NewClient:   newClient,
		TUI:         &DefaultTUI{},
		Clipboard:   clipboard.WriteAll,
		IsTTY:       isStdoutTTY,
		StdinIsPipe: stdinIsPipe,
	}
}

// deps is swapped out by tests
var deps = NewDependencies()

func newClient(cfg config.Config, logger *slog.Logger) (*api.Client, error) {
	// the transport deadline must outlive the longest per-request deadline
	_, heavy := cfg.ChatTimeouts()
	timeout := max(heavy, time.Duration(cfg.UploadTimeout)*time.Second)

	return api.NewClient(
		api.WithBaseURL(cfg.APIURL),
		api.WithTimeout(timeout),
		api.WithLogger(logger),
		api.WithUserAgent("cortex/"+Version),
	)
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func stdinIsPipe() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // default width
	}
	return width
}
