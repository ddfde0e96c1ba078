package render

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
)

// StyleCortex is the default markdown style: glamour's dark style with the
// document margin removed and headings in the chat accent colors.
const StyleCortex = "cortex"

// glamour.TermRenderer is not safe for concurrent Render calls, so renderers
// are pooled per option set rather than shared.
type rendererPool struct {
	mu    sync.Mutex
	pools map[Options]*sync.Pool
}

var pool = &rendererPool{pools: make(map[Options]*sync.Pool)}

func (p *rendererPool) forOptions(opts Options) *sync.Pool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if sp, ok := p.pools[opts]; ok {
		return sp
	}
	sp := &sync.Pool{}
	p.pools[opts] = sp
	return sp
}

func (p *rendererPool) get(opts Options) (*glamour.TermRenderer, error) {
	if r, ok := p.forOptions(opts).Get().(*glamour.TermRenderer); ok && r != nil {
		return r, nil
	}
	return newRenderer(opts)
}

func (p *rendererPool) put(opts Options, r *glamour.TermRenderer) {
	if r != nil {
		p.forOptions(opts).Put(r)
	}
}

// PoolSize returns the number of distinct option sets seen
func PoolSize() int {
	pool.mu.Lock()
	defer pool.mu.Unlock()
	return len(pool.pools)
}

func newRenderer(opts Options) (*glamour.TermRenderer, error) {
	rendererOpts := []glamour.TermRendererOption{
		styleOption(opts.Style),
		glamour.WithWordWrap(opts.Width),
		glamour.WithTableWrap(opts.TableWrap),
	}
	if opts.EnableEmoji {
		rendererOpts = append(rendererOpts, glamour.WithEmoji())
	}
	if opts.PreserveNewLines {
		rendererOpts = append(rendererOpts, glamour.WithPreservedNewLines())
	}

	r, err := glamour.NewTermRenderer(rendererOpts...)
	if err != nil {
		return nil, fmt.Errorf("create markdown renderer (style %q): %w", opts.Style, err)
	}
	return r, nil
}

func styleOption(style string) glamour.TermRendererOption {
	switch {
	case style == "" || style == StyleCortex:
		return glamour.WithStyles(cortexStyle())
	case strings.HasSuffix(strings.ToLower(style), ".json"):
		return glamour.WithStylePath(style)
	default:
		return glamour.WithStandardStyle(style)
	}
}

func cortexStyle() ansi.StyleConfig {
	cfg := styles.DarkStyleConfig
	zero := uint(0)
	cfg.Document.Margin = &zero
	cfg.H1.StylePrimitive.Color = strPtr("#1a1b26")
	cfg.H1.StylePrimitive.BackgroundColor = strPtr("#7aa2f7")
	cfg.H2.StylePrimitive.Color = strPtr("#7aa2f7")
	cfg.H3.StylePrimitive.Color = strPtr("#bb9af7")
	cfg.Link.Color = strPtr("#7dcfff")
	return cfg
}

func strPtr(s string) *string { return &s }
