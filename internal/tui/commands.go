package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/AlharbiAbdullah/Cortex/internal/api"
	"github.com/AlharbiAbdullah/Cortex/internal/history"
	"github.com/AlharbiAbdullah/Cortex/internal/models"
)

const helpText = "/expert [id]  /model [id]  /rag on|off  /download [file]  /export [path]  /copy  /clear  /exit"

// isCommand reports whether input is a slash command rather than a message
func isCommand(input string) bool {
	return strings.HasPrefix(input, "/")
}

// runCommand executes a slash command typed in the input box
func (m Model) runCommand(input string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(input)
	name := strings.ToLower(strings.TrimPrefix(fields[0], "/"))
	args := fields[1:]

	switch name {
	case "exit", "quit", "q":
		return m.quit()

	case "help", "?":
		m.setNotice(helpText, false)

	case "expert", "persona":
		if len(args) == 0 {
			return m.openSelector(selectPersona)
		}
		if err := m.session.SetPersona(args[0]); err != nil {
			m.setNotice(err.Error(), true)
			break
		}
		m.setNotice("Using "+m.session.Persona().DisplayName, false)

	case "model":
		if len(args) == 0 {
			return m.openSelector(selectModel)
		}
		if err := m.session.SetModel(args[0]); err != nil {
			m.setNotice(err.Error(), true)
			break
		}
		m.setNotice("Using "+m.session.Model().DisplayName, false)

	case "rag":
		enabled := !m.session.UseRAG()
		if len(args) > 0 {
			switch strings.ToLower(args[0]) {
			case "on", "true", "1":
				enabled = true
			case "off", "false", "0":
				enabled = false
			default:
				m.setNotice("usage: /rag on|off", true)
				return m, nil
			}
		}
		if err := m.session.SetRAG(enabled); err != nil {
			m.setNotice(err.Error(), true)
			break
		}
		if enabled {
			m.setNotice("Document retrieval on", false)
		} else {
			m.setNotice("Document retrieval off", false)
		}

	case "clear", "new":
		m.session.Reset()
		m.turn = nil
		m.rendered = make(map[string]string)
		m.setNotice("Conversation cleared", false)
		m.refresh()
		var cmd tea.Cmd
		m.typewriter, cmd = m.typewriter.Start()
		return m, cmd

	case "copy":
		last, ok := m.session.LastAssistant()
		if !ok {
			m.setNotice("Nothing to copy yet", true)
			break
		}
		if err := m.clipboard(last.Content); err != nil {
			m.setNotice("Copy failed: "+err.Error(), true)
			break
		}
		m.setNotice("Last reply copied to clipboard", false)

	case "download":
		filename := ""
		if len(args) > 0 {
			filename = args[0]
		} else {
			filename = latestAttachment(m.session.Messages())
		}
		if filename == "" {
			m.setNotice("No report to download", true)
			break
		}
		if err := api.ValidateFilename(filename); err != nil {
			m.setNotice(err.Error(), true)
			break
		}
		m.setNotice("Downloading "+filename+"...", false)
		return m, m.downloadCmd(filename)

	case "export":
		if m.session.Len() == 0 {
			m.setNotice("Nothing to export yet", true)
			break
		}
		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		return m, m.exportCmd(path)

	default:
		m.setNotice(fmt.Sprintf("Unknown command /%s. %s", name, helpText), true)
	}
	return m, nil
}

// latestAttachment returns the most recent generated report name
func latestAttachment(msgs []models.Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].ExcelFile != "" {
			return msgs[i].ExcelFile
		}
	}
	return ""
}

func (m Model) downloadCmd(filename string) tea.Cmd {
	backend, dir := m.backend, m.downloadDir
	return func() tea.Msg {
		if backend == nil {
			return downloadResultMsg{filename: filename, err: fmt.Errorf("no backend configured")}
		}
		ctx, cancel := context.WithTimeout(context.Background(), models.DefaultRequestTimeout)
		defer cancel()
		path, err := backend.Download(ctx, filename, dir)
		return downloadResultMsg{filename: filename, path: path, err: err}
	}
}

func (m Model) exportCmd(path string) tea.Cmd {
	conv := history.NewConversation(m.session.Persona().ID, m.session.Model().ID, m.session.UseRAG(), m.session.Messages())
	dir := m.exportDir
	return func() tea.Msg {
		format := history.ExportFormatMarkdown
		if path == "" {
			path = filepath.Join(dir, conv.DefaultFileName(format))
		} else {
			format = history.FormatFromPath(path)
		}
		err := conv.WriteFile(path, history.ExportOptions{Format: format, IncludeErrors: true})
		return exportResultMsg{path: path, err: err}
	}
}
