// Package render turns assistant replies into terminal output: glamour for
// markdown and lipgloss themes for the chat screen.
package render

import (
	"os"

	"github.com/AlharbiAbdullah/Cortex/internal/config"
)

// EnvStyle overrides the markdown style, as glamour itself does
const EnvStyle = "GLAMOUR_STYLE"

// Options configures the markdown renderer
type Options struct {
	// Width is the word-wrap column (default 80)
	Width int

	// Style is a glamour style name, StyleCortex, or a path to a JSON style
	Style string

	EnableEmoji      bool
	PreserveNewLines bool
	// TableWrap wraps long cells instead of truncating them
	TableWrap bool
}

// DefaultOptions returns the default configuration
func DefaultOptions() Options {
	return Options{
		Width:            80,
		Style:            StyleCortex,
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
	}
}

// FromConfig builds Options from the markdown section of the config file.
// GLAMOUR_STYLE wins over the configured style.
func FromConfig(md config.MarkdownConfig, width int) Options {
	opts := DefaultOptions()
	if md.Style != "" {
		opts.Style = md.Style
	}
	opts.EnableEmoji = md.EnableEmoji
	opts.PreserveNewLines = md.PreserveNewLines
	opts.TableWrap = md.TableWrap
	if style := os.Getenv(EnvStyle); style != "" {
		opts.Style = style
	}
	if width > 0 {
		opts.Width = width
	}
	return opts
}

// WithWidth returns a copy with the given width
func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

// WithStyle returns a copy with the given style
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}
