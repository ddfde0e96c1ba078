package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme is the color scheme of the chat screen. Markdown names the glamour
// style that matches it.
type Theme struct {
	Name        string
	Description string
	Markdown    string

	Border  lipgloss.Color
	Surface lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	Text    lipgloss.Color
	TextDim lipgloss.Color
}

// DefaultThemeName is used when the configured theme is unknown
const DefaultThemeName = "tokyonight"

var themes = []Theme{
	{
		Name:        "tokyonight",
		Description: "Tokyo Night, dark with blue accents",
		Markdown:    StyleCortex,
		Border:      "#414868",
		Surface:     "#24283b",
		Primary:     "#7aa2f7",
		Secondary:   "#9ece6a",
		Accent:      "#bb9af7",
		Warning:     "#e0af68",
		Error:       "#f7768e",
		Text:        "#c0caf5",
		TextDim:     "#565f89",
	},
	{
		Name:        "dracula",
		Description: "Dracula, dark with vivid accents",
		Markdown:    "dracula",
		Border:      "#6272a4",
		Surface:     "#44475a",
		Primary:     "#8be9fd",
		Secondary:   "#50fa7b",
		Accent:      "#ff79c6",
		Warning:     "#f1fa8c",
		Error:       "#ff5555",
		Text:        "#f8f8f2",
		TextDim:     "#6272a4",
	},
	{
		Name:        "nord",
		Description: "Nord, cool arctic tones",
		Markdown:    "dark",
		Border:      "#4c566a",
		Surface:     "#3b4252",
		Primary:     "#88c0d0",
		Secondary:   "#a3be8c",
		Accent:      "#b48ead",
		Warning:     "#ebcb8b",
		Error:       "#bf616a",
		Text:        "#eceff4",
		TextDim:     "#7b88a1",
	},
	{
		Name:        "light",
		Description: "Light background terminals",
		Markdown:    "light",
		Border:      "#c0c4d6",
		Surface:     "#e9e9ed",
		Primary:     "#2e7de9",
		Secondary:   "#587539",
		Accent:      "#9854f1",
		Warning:     "#8c6c3e",
		Error:       "#c64343",
		Text:        "#3760bf",
		TextDim:     "#848cb5",
	},
}

// Themes returns the built-in themes
func Themes() []Theme {
	out := make([]Theme, len(themes))
	copy(out, themes)
	return out
}

// ThemeNames returns the built-in theme names
func ThemeNames() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}

// ThemeByName looks a theme up (case-insensitive)
func ThemeByName(name string) (Theme, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, t := range themes {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}

// ThemeOrDefault returns the named theme or the default one
func ThemeOrDefault(name string) Theme {
	if t, ok := ThemeByName(name); ok {
		return t
	}
	t, _ := ThemeByName(DefaultThemeName)
	return t
}
