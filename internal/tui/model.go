package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/AlharbiAbdullah/Cortex/internal/chart"
	"github.com/AlharbiAbdullah/Cortex/internal/chat"
	"github.com/AlharbiAbdullah/Cortex/internal/logging"
	"github.com/AlharbiAbdullah/Cortex/internal/models"
	"github.com/AlharbiAbdullah/Cortex/internal/render"
	"github.com/AlharbiAbdullah/Cortex/internal/typewriter"
)

// Message types for the TUI
type (
	animationTickMsg time.Time
	startWelcomeMsg  struct{}

	chatResultMsg struct {
		turn *chat.Turn
		resp *models.ChatResponse
		err  error
	}
	downloadResultMsg struct {
		filename string
		path     string
		err      error
	}
	exportResultMsg struct {
		path string
		err  error
	}
)

// Backend is what the chat screen needs from the API client
type Backend interface {
	chat.Sender
	Download(ctx context.Context, filename, dir string) (string, error)
}

// Options configures the chat screen
type Options struct {
	Backend Backend
	// Session defaults to a new session with default selections
	Session  *chat.Session
	Theme    render.Theme
	Markdown render.Options
	// Charts defaults to a cache around the default extractor
	Charts *chart.Cache

	WelcomePhrases []string
	ReducedMotion  bool

	DownloadDir string
	ExportDir   string
	// Clipboard defaults to the system clipboard
	Clipboard func(string) error
	Logger    *slog.Logger
}

// Model is the chat screen
type Model struct {
	backend     Backend
	session     *chat.Session
	charts      *chart.Cache
	mdOpts      render.Options
	downloadDir string
	exportDir   string
	clipboard   func(string) error
	logger      *slog.Logger

	// UI components
	viewport   viewport.Model
	textarea   textarea.Model
	spinner    spinner.Model
	typewriter typewriter.Model

	// State
	turn           *chat.Turn
	selector       *selector
	notice         string
	noticeIsError  bool
	ready          bool
	quitting       bool
	animationFrame int

	// rendered assistant bodies by message id, valid for renderedWidth
	rendered      map[string]string
	renderedWidth int

	width  int
	height int
}

// NewModel creates the chat screen
func NewModel(opts Options) Model {
	if opts.Theme.Name != "" {
		ApplyTheme(opts.Theme)
	}
	if opts.Session == nil {
		opts.Session = chat.NewSession(chat.WithLogger(opts.Logger))
	}
	if opts.Charts == nil {
		opts.Charts = chart.NewCache(nil, 0)
	}
	if opts.Markdown.Style == "" {
		opts.Markdown = render.DefaultOptions()
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}

	ta := textarea.New()
	ta.Placeholder = "Ask Cortex about your documents and data..."
	ta.CharLimit = 8000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.KeyMap.InsertNewline = keys.Newline
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	tw := typewriter.NewModel(typewriter.New(opts.WelcomePhrases, typewriter.WithReducedMotion(opts.ReducedMotion)))
	tw.Style = typewriterStyle
	tw.CursorStyle = loadingStyle

	return Model{
		backend:     opts.Backend,
		session:     opts.Session,
		charts:      opts.Charts,
		mdOpts:      opts.Markdown,
		downloadDir: opts.DownloadDir,
		exportDir:   opts.ExportDir,
		clipboard:   opts.Clipboard,
		logger:      logging.Component(opts.Logger, "tui"),
		textarea:    ta,
		spinner:     s,
		typewriter:  tw,
		rendered:    make(map[string]string),
	}
}

// Init starts the cursor blink and the welcome animation
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		func() tea.Msg { return startWelcomeMsg{} },
	)
}

func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3
		inputHeight := 5
		statusHeight := 2
		borders := 2

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - borders
		if vpHeight < 5 {
			vpHeight = 5
		}
		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
		}
		m.textarea.SetWidth(contentWidth - 4)
		m.refresh()

	case startWelcomeMsg:
		if m.session.Len() == 0 && !m.typewriter.Running() {
			m.typewriter, cmd = m.typewriter.Start()
			return m, cmd
		}
		return m, nil

	case typewriter.TickMsg:
		m.typewriter, cmd = m.typewriter.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.selector != nil {
			return m.updateSelector(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return m.quit()

		case key.Matches(msg, keys.Cancel):
			if m.session.Pending() {
				m.session.Cancel()
				m.setNotice("Cancelling request...", false)
				return m, nil
			}
			return m.quit()

		case key.Matches(msg, keys.Expert):
			return m.openSelector(selectPersona)

		case key.Matches(msg, keys.Model):
			return m.openSelector(selectModel)

		case key.Matches(msg, keys.Send):
			if m.session.Pending() {
				return m, nil
			}
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}
			if isCommand(input) {
				m.textarea.Reset()
				return m.runCommand(input)
			}
			return m.submit(input)
		}

	case chatResultMsg:
		if msg.turn == m.turn {
			m.turn = nil
		}
		if _, ok := m.session.Resolve(msg.turn, msg.resp, msg.err); ok {
			m.refresh()
		}

	case downloadResultMsg:
		if msg.err != nil {
			m.logger.Warn("download failed", "file", msg.filename, "error", msg.err)
			m.setNotice(fmt.Sprintf("Download of %s failed: %v", msg.filename, msg.err), true)
		} else {
			m.setNotice("Saved "+msg.path, false)
		}

	case exportResultMsg:
		if msg.err != nil {
			m.setNotice("Export failed: "+msg.err.Error(), true)
		} else {
			m.setNotice("Conversation exported to "+msg.path, false)
		}

	case spinner.TickMsg:
		if m.session.Pending() {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.session.Pending() {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	// Only keys reach the textarea, and only while idle
	if !m.session.Pending() {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit appends the user message and starts the request
func (m Model) submit(input string) (tea.Model, tea.Cmd) {
	turn, err := m.session.Submit(input)
	if err != nil {
		m.setNotice(err.Error(), true)
		return m, nil
	}
	m.turn = turn
	m.textarea.Reset()
	m.typewriter = m.typewriter.Stop()
	m.notice = ""
	m.animationFrame = 0
	m.refresh()

	return m, tea.Batch(
		m.sendTurn(turn),
		m.spinner.Tick,
		animationTick(),
	)
}

func (m Model) sendTurn(turn *chat.Turn) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		if backend == nil {
			return chatResultMsg{turn: turn, err: fmt.Errorf("no backend configured")}
		}
		resp, err := turn.Run(context.Background(), backend)
		return chatResultMsg{turn: turn, resp: resp, err: err}
	}
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.session.Cancel()
	m.typewriter = m.typewriter.Stop()
	return m, tea.Quit
}

func (m *Model) setNotice(text string, isError bool) {
	m.notice = text
	m.noticeIsError = isError
}

func (m Model) openSelector(kind selectorKind) (tea.Model, tea.Cmd) {
	if m.session.Pending() {
		m.setNotice("Wait for the current reply before changing the selection", true)
		return m, nil
	}
	var s selector
	if kind == selectPersona {
		s = newPersonaSelector(m.session.Persona().ID)
	} else {
		s = newModelSelector(m.session.Model().ID)
	}
	m.selector = &s
	return m, nil
}

func (m Model) updateSelector(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s, picked, closed := m.selector.update(msg)
	if closed {
		m.selector = nil
	} else {
		m.selector = &s
	}
	if picked == nil {
		return m, nil
	}

	var err error
	if s.kind == selectPersona {
		err = m.session.SetPersona(picked.id)
	} else {
		err = m.session.SetModel(picked.id)
	}
	if err != nil {
		m.setNotice(err.Error(), true)
	} else {
		m.setNotice("Using "+picked.label, false)
	}
	return m, nil
}

// refresh re-renders the conversation and scrolls to the latest message
func (m *Model) refresh() {
	m.updateViewport()
	m.viewport.GotoBottom()
}

func (m *Model) updateViewport() {
	bubbleWidth := m.viewport.Width - 6
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}
	if bubbleWidth != m.renderedWidth {
		m.rendered = make(map[string]string)
		m.renderedWidth = bubbleWidth
	}

	var content strings.Builder
	for i, msg := range m.session.Messages() {
		if i > 0 {
			content.WriteString("\n")
		}

		if msg.Role == models.RoleUser {
			label := userLabelStyle.Render("● You")
			bubble := userBubbleStyle.Width(bubbleWidth).Render(msg.Content)
			content.WriteString(label + "\n" + bubble + "\n")
			continue
		}

		name := "✦ Cortex"
		if msg.Expert != "" {
			if p, ok := models.PersonaByID(msg.Expert); ok {
				name += " · " + p.DisplayName
			}
		}
		content.WriteString(assistantLabelStyle.Render(name) + "\n")

		if msg.IsError {
			content.WriteString(errorBubbleStyle.Width(bubbleWidth).Render("⚠ " + msg.Content))
			content.WriteString("\n")
			continue
		}

		body := m.renderReply(msg, bubbleWidth-4)
		if msg.ExcelFile != "" {
			body += "\n\n" + attachmentStyle.Render("📎 "+msg.ExcelFile+"  (/download to save)")
		}
		content.WriteString(assistantBubbleStyle.Width(bubbleWidth).Render(body))
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

func (m *Model) renderReply(msg models.Message, width int) string {
	if out, ok := m.rendered[msg.ID]; ok {
		return out
	}
	out := render.Reply(msg.Content, m.charts, m.mdOpts.WithWidth(width))
	m.rendered[msg.ID] = out
	return out
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}
	if m.quitting {
		return ""
	}

	var sections []string
	contentWidth := m.width - 4

	// Header
	persona := m.session.Persona()
	rag := "RAG off"
	if m.session.UseRAG() {
		rag = "RAG on"
	}
	headerContent := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("✦ Cortex"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(persona.DisplayName),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.session.Model().ID),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(rag),
	)
	sections = append(sections, headerStyle.Width(contentWidth).Render(headerContent))

	// Messages, welcome screen or selector
	var body string
	switch {
	case m.selector != nil:
		body = m.selector.view(contentWidth - 4)
	case m.session.Len() == 0:
		body = m.renderWelcome()
	default:
		body = m.viewport.View()
	}
	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(body))

	// Input
	var input string
	if m.session.Pending() {
		input = m.renderLoadingAnimation()
	} else {
		input = lipgloss.JoinVertical(lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.textarea.View(),
		)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(input))

	sections = append(sections, m.renderStatusBar(contentWidth))
	if m.notice != "" {
		style := noticeStyle
		if m.noticeIsError {
			style = errorStyle
		}
		sections = append(sections, style.Render(m.notice))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	line := m.typewriter.View()
	if line == "" {
		line = " "
	}
	content := lipgloss.JoinVertical(lipgloss.Center,
		welcomeTitleStyle.Width(width).Align(lipgloss.Center).Render("✦ Cortex"),
		"",
		lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(line),
		"",
		welcomeStyle.Width(width).Align(lipgloss.Center).Render("Ask about your documents, reports and data. /help lists commands."),
	)

	topPadding := (height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}
	return strings.Repeat("\n", topPadding) + content
}

func (m Model) renderLoadingAnimation() string {
	frame := m.animationFrame
	barWidth := 20
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		c := gradientColors[(i+frame)%len(gradientColors)]
		ch := "▰"
		if (i+frame/2)%6 == 0 {
			ch = "▱"
		}
		bar.WriteString(lipgloss.NewStyle().Foreground(c).Render(ch))
	}

	text := lipgloss.NewStyle().Foreground(colorText).Render(
		fmt.Sprintf(" %s is thinking ", m.session.Persona().DisplayName))
	return fmt.Sprintf("%s %s %s %s", m.spinner.View(), bar.String(), text, hintStyle.Render("Esc to cancel"))
}

func (m Model) renderStatusBar(width int) string {
	var items []string
	for _, b := range statusBindings() {
		h := b.Help()
		items = append(items, statusKeyStyle.Render(h.Key)+statusDescStyle.Render(" "+h.Desc))
	}
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// Run starts the chat screen and blocks until it exits. An in-flight request
// is cancelled on exit.
func Run(opts Options) error {
	if opts.Session == nil {
		opts.Session = chat.NewSession(chat.WithLogger(opts.Logger))
	}
	defer opts.Session.Cancel()

	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
