package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the chat screen bindings. Terminals do not report Shift+Enter,
// so a literal newline is Alt+Enter or Ctrl+J.
type keyMap struct {
	Send    key.Binding
	Newline key.Binding
	Cancel  key.Binding
	Quit    key.Binding
	Expert  key.Binding
	Model   key.Binding
	Up      key.Binding
	Down    key.Binding
}

var keys = keyMap{
	Send:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "send")),
	Newline: key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"), key.WithHelp("Alt+Enter", "newline")),
	Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "cancel/quit")),
	Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("Ctrl+C", "quit")),
	Expert:  key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("Ctrl+E", "expert")),
	Model:   key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("Ctrl+O", "model")),
	Up:      key.NewBinding(key.WithKeys("up", "ctrl+p")),
	Down:    key.NewBinding(key.WithKeys("down", "ctrl+n")),
}

// statusBindings are the shortcuts listed in the status bar
func statusBindings() []key.Binding {
	return []key.Binding{keys.Send, keys.Newline, keys.Expert, keys.Model, keys.Cancel}
}
