// Package typewriter animates a welcome line that types, holds and deletes
// phrases one character at a time.
package typewriter

import (
	"math/rand/v2"
	"time"
	"unicode/utf8"
)

// Default animation timings
const (
	DefaultTypingSpeed   = 100 * time.Millisecond
	DefaultDeletingSpeed = 50 * time.Millisecond
	DefaultPauseDuration = 2 * time.Second
)

// Phase is the step of the animation cycle
type Phase int

const (
	PhaseTyping Phase = iota
	PhasePausing
	PhaseDeleting
)

func (p Phase) String() string {
	switch p {
	case PhaseTyping:
		return "typing"
	case PhasePausing:
		return "pausing"
	case PhaseDeleting:
		return "deleting"
	default:
		return "unknown"
	}
}

// State is what is shown at one moment. Text is always a prefix of the
// phrase at Index.
type State struct {
	Text  string
	Index int
	Phase Phase
}

// Engine computes typewriter transitions. It holds no timers; callers wait
// for the returned delay and call Next again.
type Engine struct {
	phrases []string

	TypingSpeed   time.Duration
	DeletingSpeed time.Duration
	PauseDuration time.Duration
	// ReducedMotion shows one full phrase and never advances
	ReducedMotion bool

	rnd *rand.Rand
}

// Option configures an Engine
type Option func(*Engine)

// WithSpeeds overrides the typing, deleting and pause durations. Zero values
// keep the defaults.
func WithSpeeds(typing, deleting, pause time.Duration) Option {
	return func(e *Engine) {
		if typing > 0 {
			e.TypingSpeed = typing
		}
		if deleting > 0 {
			e.DeletingSpeed = deleting
		}
		if pause > 0 {
			e.PauseDuration = pause
		}
	}
}

// WithReducedMotion disables the animation
func WithReducedMotion(reduced bool) Option {
	return func(e *Engine) {
		e.ReducedMotion = reduced
	}
}

// WithRand sets the random source used to pick phrases
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rnd = r
		}
	}
}

// New creates an Engine over phrases. Empty phrases are dropped.
func New(phrases []string, opts ...Option) *Engine {
	e := &Engine{
		TypingSpeed:   DefaultTypingSpeed,
		DeletingSpeed: DefaultDeletingSpeed,
		PauseDuration: DefaultPauseDuration,
		rnd:           rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15)),
	}
	for _, p := range phrases {
		if p != "" {
			e.phrases = append(e.phrases, p)
		}
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Phrases returns the number of usable phrases
func (e *Engine) Phrases() int {
	return len(e.phrases)
}

// Phrase returns the phrase at index i
func (e *Engine) Phrase(i int) string {
	if i < 0 || i >= len(e.phrases) {
		return ""
	}
	return e.phrases[i]
}

// Start picks a random phrase and returns the initial state and the delay
// before the first transition. A zero delay means there is nothing to animate.
func (e *Engine) Start() (State, time.Duration) {
	if len(e.phrases) == 0 {
		return State{}, 0
	}
	idx := e.rnd.IntN(len(e.phrases))
	if e.ReducedMotion {
		return State{Text: e.phrases[idx], Index: idx, Phase: PhasePausing}, 0
	}
	return State{Index: idx, Phase: PhaseTyping}, e.TypingSpeed
}

// Next is the single transition function. It returns the following state and
// the delay until it should be called again; a zero delay stops the cycle.
func (e *Engine) Next(s State) (State, time.Duration) {
	if len(e.phrases) == 0 || e.ReducedMotion {
		return s, 0
	}
	if s.Index < 0 || s.Index >= len(e.phrases) {
		s = State{Index: 0, Phase: PhaseTyping}
	}
	phrase := e.phrases[s.Index]
	shown := utf8.RuneCountInString(s.Text)

	switch s.Phase {
	case PhaseTyping:
		if shown < utf8.RuneCountInString(phrase) {
			s.Text = prefix(phrase, shown+1)
			if s.Text == phrase {
				s.Phase = PhasePausing
				return s, e.PauseDuration
			}
			return s, e.TypingSpeed
		}
		s.Phase = PhasePausing
		return s, e.PauseDuration

	case PhasePausing:
		s.Phase = PhaseDeleting
		return s, e.DeletingSpeed

	case PhaseDeleting:
		if shown > 0 {
			s.Text = prefix(phrase, shown-1)
			if s.Text != "" {
				return s, e.DeletingSpeed
			}
		}
		return State{Index: e.nextIndex(s.Index), Phase: PhaseTyping}, e.TypingSpeed
	}
	return State{Index: s.Index, Phase: PhaseTyping}, e.TypingSpeed
}

// nextIndex picks a random phrase other than current when there is a choice
func (e *Engine) nextIndex(current int) int {
	n := len(e.phrases)
	if n <= 1 {
		return 0
	}
	// draw from the n-1 other indices
	idx := e.rnd.IntN(n - 1)
	if idx >= current {
		idx++
	}
	return idx
}

// prefix returns the first n runes of s
func prefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
