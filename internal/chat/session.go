// Package chat holds the conversation state machine behind the chat screen.
//
// A Session owns the ordered message list and allows one request in flight.
// Submit appends the user message right away and returns a Turn; the caller
// runs the Turn (usually in a tea.Cmd goroutine) and hands the outcome back
// to Resolve, which appends the assistant reply or an error message.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	apierrors "github.com/AlharbiAbdullah/Cortex/internal/errors"
	"github.com/AlharbiAbdullah/Cortex/internal/logging"
	"github.com/AlharbiAbdullah/Cortex/internal/models"
)

var (
	// ErrEmptyInput is returned by Submit for blank input
	ErrEmptyInput = errors.New("message is empty")
	// ErrPending is returned while a turn is in flight
	ErrPending = errors.New("a request is already in progress")
	// ErrUnknownPersona is returned by SetPersona for ids outside the fixed set
	ErrUnknownPersona = errors.New("unknown expert")
	// ErrUnknownModel is returned by SetModel for ids outside the fixed set
	ErrUnknownModel = errors.New("unknown model")
)

// State is the submission state of a Session
type State int

const (
	StateIdle State = iota
	StatePending
)

func (s State) String() string {
	if s == StatePending {
		return "pending"
	}
	return "idle"
}

// Sender issues chat requests; api.Client and api.MockBackend satisfy it
type Sender interface {
	Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error)
}

// Session is a single conversation. It is not safe for concurrent use; the
// TUI mutates it only from its Update loop.
type Session struct {
	messages []models.Message
	state    State
	persona  models.Persona
	model    models.Model
	useRAG   bool
	timeouts Timeouts
	logger   *slog.Logger

	current *Turn
	seq     uint64
}

// Option configures a Session
type Option func(*Session)

// WithPersona selects the initial persona. Unknown ids keep the default.
func WithPersona(id string) Option {
	return func(s *Session) {
		if p, ok := models.PersonaByID(id); ok {
			s.persona = p
		}
	}
}

// WithModel selects the initial model. Unknown ids keep the default.
func WithModel(id string) Option {
	return func(s *Session) {
		if m, ok := models.ModelByID(id); ok {
			s.model = m
		}
	}
}

// WithRAG sets the use_rag flag sent with every request
func WithRAG(enabled bool) Option {
	return func(s *Session) {
		s.useRAG = enabled
	}
}

// WithTimeouts sets the per-persona request timeouts
func WithTimeouts(t Timeouts) Option {
	return func(s *Session) {
		s.timeouts = t
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// NewSession creates an idle, empty conversation
func NewSession(opts ...Option) *Session {
	s := &Session{
		persona:  models.DefaultPersona(),
		model:    models.DefaultModel(),
		useRAG:   true,
		timeouts: DefaultTimeouts(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.Component(s.logger, "chat")
	return s
}

// Messages returns a copy of the conversation
func (s *Session) Messages() []models.Message {
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages
func (s *Session) Len() int {
	return len(s.messages)
}

// State returns the submission state
func (s *Session) State() State {
	return s.state
}

// Pending reports whether a turn is in flight
func (s *Session) Pending() bool {
	return s.state == StatePending
}

// Persona returns the selected persona
func (s *Session) Persona() models.Persona {
	return s.persona
}

// Model returns the selected model
func (s *Session) Model() models.Model {
	return s.model
}

// UseRAG reports whether requests ask for retrieval
func (s *Session) UseRAG() bool {
	return s.useRAG
}

// LastAssistant returns the latest assistant message that is not an error
func (s *Session) LastAssistant() (models.Message, bool) {
	for i := len(s.messages) - 1; i >= 0; i-- {
		if m := s.messages[i]; m.Role == models.RoleAssistant && !m.IsError {
			return m, true
		}
	}
	return models.Message{}, false
}

// SetPersona changes the persona; refused while pending
func (s *Session) SetPersona(id string) error {
	if s.Pending() {
		return ErrPending
	}
	p, ok := models.PersonaByID(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPersona, id)
	}
	s.persona = p
	return nil
}

// SetModel changes the model; refused while pending
func (s *Session) SetModel(id string) error {
	if s.Pending() {
		return ErrPending
	}
	m, ok := models.ModelByID(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownModel, id)
	}
	s.model = m
	return nil
}

// SetRAG toggles retrieval; refused while pending
func (s *Session) SetRAG(enabled bool) error {
	if s.Pending() {
		return ErrPending
	}
	s.useRAG = enabled
	return nil
}

// Submit validates input, appends the user message and starts a turn. While
// a turn is pending it returns ErrPending and changes nothing.
func (s *Session) Submit(input string) (*Turn, error) {
	if s.Pending() {
		return nil, ErrPending
	}
	text := strings.TrimSpace(input)
	if text == "" {
		return nil, ErrEmptyInput
	}

	// history is taken before the new message is appended
	history := models.BuildHistory(s.messages, models.HistoryLimit)

	msg := models.NewUserMessage(text)
	s.messages = append(s.messages, msg)
	s.state = StatePending
	s.seq++

	ctx, cancel := context.WithCancel(context.Background())
	turn := &Turn{
		ID: s.seq,
		Request: models.ChatRequest{
			Message:             text,
			ConversationHistory: history,
			UseRAG:              s.useRAG,
			ModelName:           s.model.ID,
			Expert:              s.persona.ID,
		},
		Timeout: s.timeouts.For(s.persona.ID),
		ctx:     ctx,
		cancel:  cancel,
	}
	s.current = turn

	s.logger.Info("turn submitted",
		"turn", turn.ID,
		"expert", turn.Request.Expert,
		"model", turn.Request.ModelName,
		"history", len(history),
		"timeout", turn.Timeout,
	)
	return turn, nil
}

// Resolve records the outcome of turn. It appends exactly one assistant
// message and returns it with ok=true; results of a turn that is no longer
// current are dropped with ok=false.
func (s *Session) Resolve(turn *Turn, resp *models.ChatResponse, err error) (models.Message, bool) {
	if turn == nil || turn != s.current {
		s.logger.Debug("dropping stale turn result")
		return models.Message{}, false
	}
	turn.cancel()
	s.current = nil
	s.state = StateIdle

	if err == nil && resp == nil {
		err = apierrors.ErrNoResponse
	}

	var msg models.Message
	if err != nil {
		msg = models.NewErrorMessage(apierrors.UserMessage(err))
		s.logger.Warn("turn failed", "turn", turn.ID, "status", apierrors.GetHTTPStatus(err), "error", err)
	} else {
		content := resp.Response
		if content == "" {
			content = resp.Message
		}
		msg = models.NewAssistantMessage(content, resp.Expert, resp.ExcelFile)
		s.logger.Info("turn completed", "turn", turn.ID, "chars", len(content), "excel_file", resp.ExcelFile)
	}

	s.messages = append(s.messages, msg)
	return msg, true
}

// Cancel aborts the in-flight turn, if any. The turn still resolves through
// Resolve, with a cancellation message.
func (s *Session) Cancel() bool {
	if s.current == nil {
		return false
	}
	s.current.cancel()
	return true
}

// Reset cancels any in-flight turn and clears the conversation. Selections
// are kept.
func (s *Session) Reset() {
	if s.current != nil {
		s.current.cancel()
		s.current = nil
	}
	s.messages = nil
	s.state = StateIdle
}

// Timeouts bounds one chat request per persona
type Timeouts struct {
	Default time.Duration
	Heavy   time.Duration
	// HeavyPersonas get the Heavy timeout
	HeavyPersonas []string
}

// DefaultTimeouts uses the model-level constants and the heavy persona flags
func DefaultTimeouts() Timeouts {
	t := Timeouts{Default: models.DefaultChatTimeout, Heavy: models.HeavyChatTimeout}
	for _, p := range models.AllPersonas() {
		if p.Heavy {
			t.HeavyPersonas = append(t.HeavyPersonas, p.ID)
		}
	}
	return t
}

// For returns the timeout for a persona id or alias
func (t Timeouts) For(persona string) time.Duration {
	def := t.Default
	if def <= 0 {
		def = models.DefaultChatTimeout
	}
	id := models.NormalizePersonaID(persona)
	for _, h := range t.HeavyPersonas {
		if models.NormalizePersonaID(h) == id {
			if t.Heavy > 0 {
				return t.Heavy
			}
			return models.HeavyChatTimeout
		}
	}
	return def
}
