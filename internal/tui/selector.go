package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/AlharbiAbdullah/Cortex/internal/models"
)

type selectorKind int

const (
	selectPersona selectorKind = iota
	selectModel
)

type selectorOption struct {
	id    string
	label string
}

// selector is the single-choice overlay for experts and models. Typing
// filters the list; Enter picks, Esc closes.
type selector struct {
	kind    selectorKind
	title   string
	options []selectorOption
	current string
	cursor  int
	filter  string
}

func newPersonaSelector(current string) selector {
	s := selector{kind: selectPersona, title: "Select expert", current: current}
	for _, p := range models.AllPersonas() {
		label := p.DisplayName
		if p.Heavy {
			label += " (extended timeout)"
		}
		s.options = append(s.options, selectorOption{id: p.ID, label: label})
	}
	s.cursor = max(models.IndexOfPersona(current), 0)
	return s
}

func newModelSelector(current string) selector {
	s := selector{kind: selectModel, title: "Select model", current: current}
	for _, m := range models.AllModels() {
		s.options = append(s.options, selectorOption{id: m.ID, label: m.DisplayName})
	}
	s.cursor = max(models.IndexOfModel(current), 0)
	return s
}

func (s selector) visible() []selectorOption {
	if s.filter == "" {
		return s.options
	}
	f := strings.ToLower(s.filter)
	var out []selectorOption
	for _, o := range s.options {
		if strings.Contains(strings.ToLower(o.label), f) || strings.Contains(o.id, f) {
			out = append(out, o)
		}
	}
	return out
}

// update handles one key. It returns the picked option, if any, and whether
// the overlay should close.
func (s selector) update(msg tea.KeyMsg) (selector, *selectorOption, bool) {
	opts := s.visible()
	switch {
	case key.Matches(msg, keys.Cancel), key.Matches(msg, keys.Quit):
		return s, nil, true
	case key.Matches(msg, keys.Send):
		if len(opts) == 0 {
			return s, nil, false
		}
		picked := opts[s.cursor]
		return s, &picked, true
	case key.Matches(msg, keys.Up):
		if s.cursor > 0 {
			s.cursor--
		}
	case key.Matches(msg, keys.Down):
		if s.cursor < len(opts)-1 {
			s.cursor++
		}
	case msg.Type == tea.KeyBackspace:
		if s.filter != "" {
			r := []rune(s.filter)
			s.filter = string(r[:len(r)-1])
			s.cursor = 0
		}
	case msg.Type == tea.KeyRunes:
		s.filter += string(msg.Runes)
		s.cursor = 0
	}
	return s, nil, false
}

func (s selector) view(width int) string {
	var sb strings.Builder
	sb.WriteString(selectorTitleStyle.Render(s.title))
	sb.WriteString("\n")
	if s.filter != "" {
		sb.WriteString(hintStyle.Render("filter: " + s.filter))
		sb.WriteString("\n")
	}

	opts := s.visible()
	if len(opts) == 0 {
		sb.WriteString(hintStyle.Render("  no match"))
	}
	for i, o := range opts {
		line := o.label + "  " + subtitleStyle.Render(o.id)
		if o.id == s.current {
			line += selectorCurrentStyle.Render("  ✓")
		}
		if i == s.cursor {
			sb.WriteString(selectorSelectedStyle.Render("> ") + line)
		} else {
			sb.WriteString(selectorItemStyle.Render(line))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(hintStyle.Render("↑↓ move • type to filter • Enter select • Esc close"))

	panelWidth := width - 8
	if panelWidth < 30 {
		panelWidth = 30
	}
	return lipgloss.Place(width, lipgloss.Height(sb.String())+4, lipgloss.Center, lipgloss.Center,
		selectorPanelStyle.Width(panelWidth).Render(sb.String()))
}
