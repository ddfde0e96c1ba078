package render

import (
	"strings"
	"sync"
	"testing"

	"github.com/AlharbiAbdullah/Cortex/internal/chart"
	"github.com/AlharbiAbdullah/Cortex/internal/config"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.Width != 80 {
		t.Errorf("expected Width=80, got %d", opts.Width)
	}
	if opts.Style != StyleCortex {
		t.Errorf("expected Style=%q, got %q", StyleCortex, opts.Style)
	}
	if !opts.EnableEmoji || !opts.PreserveNewLines || !opts.TableWrap {
		t.Errorf("expected emoji, newlines and table wrap enabled, got %+v", opts)
	}
}

func TestOptionsCopies(t *testing.T) {
	base := DefaultOptions()
	wide := base.WithWidth(120).WithStyle("light")

	if wide.Width != 120 || wide.Style != "light" {
		t.Errorf("unexpected options %+v", wide)
	}
	if base.Width != 80 || base.Style != StyleCortex {
		t.Errorf("base options were modified: %+v", base)
	}
}

func TestFromConfig(t *testing.T) {
	t.Setenv(EnvStyle, "")

	md := config.MarkdownConfig{Style: "dracula", EnableEmoji: false, PreserveNewLines: true, TableWrap: false}
	opts := FromConfig(md, 100)
	if opts.Style != "dracula" || opts.Width != 100 || opts.EnableEmoji || opts.TableWrap {
		t.Errorf("unexpected options %+v", opts)
	}

	opts = FromConfig(config.MarkdownConfig{}, 0)
	if opts.Style != StyleCortex || opts.Width != 80 {
		t.Errorf("empty config should keep defaults, got %+v", opts)
	}

	t.Setenv(EnvStyle, "notty")
	if got := FromConfig(md, 0).Style; got != "notty" {
		t.Errorf("%s should win, got %q", EnvStyle, got)
	}
}

func TestMarkdown(t *testing.T) {
	tests := []struct {
		name  string
		style string
		in    string
		want  string
	}{
		{"cortex heading", StyleCortex, "# Results\n\nAll good.", "Results"},
		{"plain style", "notty", "Some **bold** text", "bold"},
		{"list", "ascii", "- one\n- two", "two"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Markdown(tt.in, DefaultOptions().WithStyle(tt.style))
			if err != nil {
				t.Fatalf("Markdown() error = %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output %q does not contain %q", out, tt.want)
			}
		})
	}
}

func TestMarkdownOrPlain_BadStyle(t *testing.T) {
	in := "keep me"
	got := MarkdownOrPlain(in, DefaultOptions().WithStyle("/nonexistent/style.json"))
	if got != in {
		t.Errorf("expected raw content on failure, got %q", got)
	}
}

func TestMarkdown_Concurrent(t *testing.T) {
	opts := DefaultOptions().WithStyle("notty").WithWidth(60)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := Markdown("## Heading\n\ntext", opts); err != nil {
				t.Errorf("Markdown() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if PoolSize() == 0 {
		t.Error("expected at least one pooled option set")
	}
}

func TestReply(t *testing.T) {
	cache := chart.NewCache(nil, 8)
	opts := DefaultOptions().WithStyle("notty").WithWidth(60)

	charted := "Here is a line chart of daily revenue.\n\n" +
		"```python\ndata = {\"date\": [\"2024-01-01\", \"2024-01-02\"], \"amount\": [10, 20]}\n```\n\n" +
		"Revenue doubled on the second day."
	out := Reply(charted, cache, opts)
	if !strings.Contains(out, "$20.00") {
		t.Errorf("expected chart axis in output, got %q", out)
	}
	if !strings.Contains(out, "Revenue doubled") {
		t.Errorf("expected summary in output, got %q", out)
	}

	plain := "Just **text** here."
	out = Reply(plain, cache, opts)
	if strings.Contains(out, "•") || !strings.Contains(out, "text") {
		t.Errorf("expected markdown output, got %q", out)
	}

	// a nil cache always renders markdown
	if out := Reply(charted, nil, opts); strings.Contains(out, "$20.00") {
		t.Errorf("expected no chart without cache, got %q", out)
	}
}

func TestThemes(t *testing.T) {
	names := ThemeNames()
	if len(names) != len(Themes()) || names[0] != DefaultThemeName {
		t.Fatalf("unexpected theme names %v", names)
	}

	for _, name := range names {
		th, ok := ThemeByName(strings.ToUpper(name))
		if !ok {
			t.Errorf("ThemeByName(%q) not found", name)
			continue
		}
		if th.Primary == "" || th.Markdown == "" {
			t.Errorf("theme %q is incomplete", name)
		}
		if _, err := Markdown("x", DefaultOptions().WithStyle(th.Markdown)); err != nil {
			t.Errorf("theme %q markdown style %q: %v", name, th.Markdown, err)
		}
	}

	if _, ok := ThemeByName("solarized"); ok {
		t.Error("unexpected theme solarized")
	}
	if got := ThemeOrDefault("solarized").Name; got != DefaultThemeName {
		t.Errorf("ThemeOrDefault fallback = %q", got)
	}
}
