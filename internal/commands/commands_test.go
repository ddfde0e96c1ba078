package commands

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/gin-gonic/gin"

	"github.com/AlharbiAbdullah/Cortex/internal/api"
	"github.com/AlharbiAbdullah/Cortex/internal/config"
	"github.com/AlharbiAbdullah/Cortex/internal/models"
	"github.com/AlharbiAbdullah/Cortex/internal/tui"
)

// fakeBackend records what the commands send
type fakeBackend struct {
	mu           sync.Mutex
	chats        []models.ChatRequest
	qualityCalls int
	reports      []models.GenerateReportRequest
	reply        gin.H
}

func (f *fakeBackend) reportRequests() []models.GenerateReportRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.GenerateReportRequest(nil), f.reports...)
}

func (f *fakeBackend) chatRequests() []models.ChatRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.ChatRequest(nil), f.chats...)
}

func (f *fakeBackend) qualityCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.qualityCalls
}

func (f *fakeBackend) router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})
	r.POST("/api/chat", func(c *gin.Context) {
		var req models.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(422, gin.H{"detail": err.Error()})
			return
		}
		f.mu.Lock()
		f.chats = append(f.chats, req)
		reply := f.reply
		f.mu.Unlock()

		if req.Message == "boom" {
			c.JSON(500, gin.H{"detail": "Ollama is not reachable"})
			return
		}
		if reply == nil {
			reply = gin.H{"response": "echo: " + req.Message, "expert": req.Expert}
		}
		c.JSON(200, reply)
	})
	r.POST("/api/summarize/quick", func(c *gin.Context) {
		c.JSON(200, gin.H{"summary": "Short version.", "word_count": 2, "original_word_count": 40})
	})
	r.POST("/api/compare/quick", func(c *gin.Context) {
		c.JSON(200, gin.H{"similarity": 0.5})
	})
	r.POST("/api/quality/quick-check", func(c *gin.Context) {
		f.mu.Lock()
		f.qualityCalls++
		f.mu.Unlock()
		c.JSON(200, gin.H{"score": 97})
	})
	r.POST("/api/upload", func(c *gin.Context) {
		file, err := c.FormFile("file")
		if err != nil {
			c.JSON(400, gin.H{"detail": "no file"})
			return
		}
		c.JSON(200, gin.H{"job_id": "job-1", "status": "queued", "filename": file.Filename})
	})
	r.GET("/api/upload/jobs/:id", func(c *gin.Context) {
		c.JSON(200, gin.H{"job_id": c.Param("id"), "status": models.JobCompleted, "filename": "policy.pdf"})
	})
	r.GET("/api/upload/jobs", func(c *gin.Context) {
		c.JSON(200, gin.H{"jobs": []gin.H{{"job_id": "job-1", "status": "completed", "filename": "policy.pdf"}}})
	})
	r.GET("/api/download/:filename", func(c *gin.Context) {
		if c.Param("filename") != "report.xlsx" {
			c.JSON(404, gin.H{"detail": "File not found"})
			return
		}
		c.Data(200, "application/octet-stream", []byte("PK\x03\x04xlsx"))
	})
	r.GET("/api/documents", func(c *gin.Context) {
		c.JSON(200, gin.H{"documents": []gin.H{
			{"filename": "policy.pdf", "file_type": "pdf", "primary_category": "hr", "status": "processed",
				"upload_date": "2025-01-05T10:00:00", "feed_the_brain": 1, "tableur": 0},
			{"filename": "sales.csv", "file_type": "csv", "primary_category": "unclassified", "status": "processed",
				"upload_date": nil, "feed_the_brain": 0, "tableur": 1},
		}, "limit": c.Query("limit")})
	})
	r.GET("/api/reports/templates", func(c *gin.Context) {
		c.JSON(200, gin.H{"count": 1, "templates": []gin.H{
			{"template_id": "weekly", "name": "Weekly Summary", "required_fields": []string{"week"}, "type": "builtin"},
		}})
	})
	r.POST("/api/reports/generate", func(c *gin.Context) {
		var req models.GenerateReportRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(422, gin.H{"detail": err.Error()})
			return
		}
		f.mu.Lock()
		f.reports = append(f.reports, req)
		f.mu.Unlock()
		name := "weekly_r1." + req.OutputFormat
		c.JSON(200, gin.H{"report_id": "r1", "template_id": req.TemplateID, "format": req.OutputFormat,
			"filename": name, "file_size": 42, "generated_at": "2025-01-06T09:00:00"})
	})
	r.GET("/api/reports/download/:filename", func(c *gin.Context) {
		if !strings.HasPrefix(c.Param("filename"), "weekly_r1.") {
			c.JSON(404, gin.H{"detail": "Report not found"})
			return
		}
		c.Data(200, "application/pdf", []byte("%PDF-1.7 weekly"))
	})
	return r
}

type fakeTUI struct {
	opts tui.Options
	runs int
}

func (f *fakeTUI) RunChat(opts tui.Options) error {
	f.opts = opts
	f.runs++
	return nil
}

type harness struct {
	backend *fakeBackend
	server  *httptest.Server
	tui     *fakeTUI
	copied  []string
	cfg     config.Config
}

// newHarness points the commands at an in-process backend
func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv(config.EnvConfigDir, t.TempDir())

	h := &harness{backend: &fakeBackend{}, tui: &fakeTUI{}, cfg: config.DefaultConfig()}
	h.cfg.DownloadDir = t.TempDir()
	h.server = httptest.NewServer(h.backend.router())
	t.Cleanup(h.server.Close)
	h.cfg.APIURL = h.server.URL

	old := deps
	deps = &Dependencies{
		LoadConfig: func() (config.Config, error) { return h.cfg, nil },
		NewClient: func(cfg config.Config, logger *slog.Logger) (*api.Client, error) {
			return api.NewClient(
				api.WithBaseURL(cfg.APIURL),
				api.WithHTTPClient(&fhttp.Client{}),
				api.WithLogger(logger),
			)
		},
		TUI: h.tui,
		Clipboard: func(s string) error {
			h.copied = append(h.copied, s)
			return nil
		},
		IsTTY:       func() bool { return false },
		StdinIsPipe: func() bool { return false },
	}
	t.Cleanup(func() { deps = old })
	return h
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func resetFlags() {
	apiURLFlag, modelFlag, expertFlag, logFileFlag = "", "", "", ""
	noRAGFlag, verboseFlag = false, false
	outputFlag, fileFlag, chartOutFlag = "", "", ""
	rawFlag, copyFlag = false, false
	uploadWaitFlag, jobsLimitFlag, downloadDirArg, docsLimitFlag = false, 20, "", 100
	reportFormatFlag, reportNameFlag, reportDownloadFlag, reportDirFlag = models.ReportHTML, "", false, ""
	chartOutPathFlag, chartTypeFlag, chartWidthFlag, chartJSONFlag = "", "", 0, false
	summaryWordsFlag = api.DefaultSummaryWords
	configTOMLFlag, configForceFlag = false, false
	_ = rootCmd.Flags().Set("version", "false")
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	if args == nil {
		// nil makes cobra fall back to os.Args
		args = []string{}
	}
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCommand_Help(t *testing.T) {
	if rootCmd.Use != "cortex [prompt]" {
		t.Errorf("Expected use 'cortex [prompt]', got %s", rootCmd.Use)
	}
	if rootCmd.Short == "" || rootCmd.Long == "" {
		t.Error("descriptions should not be empty")
	}

	for _, name := range []string{"api-url", "model", "expert", "no-rag", "verbose", "log-file"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("missing persistent flag --%s", name)
		}
	}

	want := []string{"chat", "query", "upload", "jobs", "download", "experts", "models",
		"chart", "summarize", "compare", "quality", "health", "config", "documents", "report"}
	for _, name := range want {
		if cmd, _, err := rootCmd.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	newHarness(t)
	out, _, err := run(t, "", "--version")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.HasPrefix(out, "cortex "+Version) {
		t.Errorf("version output = %q", out)
	}
}

func TestRootCommand_NoInputStartsChat(t *testing.T) {
	h := newHarness(t)
	if _, _, err := run(t, ""); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if h.tui.runs != 1 {
		t.Errorf("expected the chat TUI to start, runs = %d", h.tui.runs)
	}
}

func TestChatCommand_AppliesFlags(t *testing.T) {
	h := newHarness(t)
	_, _, err := run(t, "", "chat", "--expert", "analyst", "-m", "qwen3:8b", "--no-rag")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	opts := h.tui.opts
	if opts.Session == nil {
		t.Fatal("expected a session")
	}
	if got := opts.Session.Persona().ID; got != "data_analytics" {
		t.Errorf("persona = %q, want data_analytics (alias)", got)
	}
	if got := opts.Session.Model().ID; got != "qwen3:8b" {
		t.Errorf("model = %q", got)
	}
	if opts.Session.UseRAG() {
		t.Error("--no-rag should disable retrieval")
	}
	if opts.Backend == nil || opts.Charts == nil || opts.Clipboard == nil {
		t.Error("backend, chart cache and clipboard must be wired")
	}
	if opts.DownloadDir != h.cfg.DownloadDir {
		t.Errorf("download dir = %q", opts.DownloadDir)
	}
}

func TestChatCommand_RejectsUnknownExpert(t *testing.T) {
	h := newHarness(t)
	_, _, err := run(t, "", "chat", "--expert", "astrologer")
	if err == nil || !strings.Contains(err.Error(), "astrologer") {
		t.Errorf("expected unknown expert error, got %v", err)
	}
	if h.tui.runs != 0 {
		t.Error("TUI must not start with an invalid configuration")
	}
}

func TestQuery_Raw(t *testing.T) {
	h := newHarness(t)
	out, _, err := run(t, "", "query", "--raw", "-e", "legal", "What is a tort?")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if out != "echo: What is a tort?\n" {
		t.Errorf("output = %q", out)
	}

	reqs := h.backend.chatRequests()
	if len(reqs) != 1 {
		t.Fatalf("expected one request, got %d", len(reqs))
	}
	if reqs[0].Expert != "legal" || reqs[0].ModelName != models.DefaultModel().ID || !reqs[0].UseRAG {
		t.Errorf("unexpected request: %+v", reqs[0])
	}
	if len(reqs[0].ConversationHistory) != 0 {
		t.Error("one-shot queries carry no history")
	}
}

func TestQuery_FromStdinAndFile(t *testing.T) {
	h := newHarness(t)
	deps.StdinIsPipe = func() bool { return true }

	out, _, err := run(t, "  piped prompt \n")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if out != "echo: piped prompt\n" {
		t.Errorf("output = %q", out)
	}

	deps.StdinIsPipe = func() bool { return false }
	path := filepath.Join(t.TempDir(), "prompt.md")
	if err := os.WriteFile(path, []byte("from file"), 0o600); err != nil {
		t.Fatal(err)
	}
	out, _, err = run(t, "", "-f", path)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if out != "echo: from file\n" {
		t.Errorf("output = %q", out)
	}
	if len(h.backend.chatRequests()) != 2 {
		t.Error("expected two requests")
	}
}

func TestQuery_EmptyPrompt(t *testing.T) {
	h := newHarness(t)
	_, _, err := run(t, "", "query", "   ")
	if err == nil {
		t.Fatal("expected an error for an empty prompt")
	}
	if len(h.backend.chatRequests()) != 0 {
		t.Error("empty prompts must not reach the backend")
	}
}

func TestQuery_ServerError(t *testing.T) {
	newHarness(t)
	_, _, err := run(t, "", "query", "boom")
	if err == nil {
		t.Fatal("expected an error")
	}
	msg := formatErrorMessage(err, "Error")
	if !strings.Contains(msg, "500") {
		t.Errorf("formatted error should carry the status: %q", msg)
	}
}

func TestQuery_NoResponse(t *testing.T) {
	h := newHarness(t)
	h.cfg.APIURL = "http://127.0.0.1:1"

	_, _, err := run(t, "", "query", "hello")
	if err == nil {
		t.Fatal("expected a network error")
	}
	if !strings.Contains(formatErrorMessage(err, "Error"), "No response from server") {
		t.Errorf("missing no-response hint: %v", err)
	}
}

func TestQuery_CopyOutputAndChart(t *testing.T) {
	h := newHarness(t)
	h.backend.reply = gin.H{
		"response": "Revenue by region:\n\n```csv\nregion,revenue\nNorth,120\nSouth,80\n```\n\nNorth leads.",
	}

	dir := t.TempDir()
	outPath := filepath.Join(dir, "reply.md")
	chartPath := filepath.Join(dir, "chart.svg")

	_, _, err := run(t, "", "query", "--copy", "-o", outPath, "--chart-out", chartPath, "revenue by region")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if len(h.copied) != 1 || !strings.Contains(h.copied[0], "North leads.") {
		t.Errorf("copied = %v", h.copied)
	}
	saved, err := os.ReadFile(outPath)
	if err != nil || !strings.Contains(string(saved), "region,revenue") {
		t.Errorf("saved reply = %q, %v", saved, err)
	}
	svg, err := os.ReadFile(chartPath)
	if err != nil || !strings.Contains(string(svg), "<svg") {
		t.Errorf("chart export missing or not SVG: %v", err)
	}
}

func TestQuery_ChartOutWithoutData(t *testing.T) {
	newHarness(t)
	path := filepath.Join(t.TempDir(), "chart.png")
	_, _, err := run(t, "", "query", "--chart-out", path, "plain question")
	if err == nil || !strings.Contains(err.Error(), "no chart data") {
		t.Errorf("expected no chart data error, got %v", err)
	}
	if _, statErr := os.Stat(path); statErr == nil {
		t.Error("no file should be written")
	}
}

func TestChartCommand(t *testing.T) {
	newHarness(t)
	path := filepath.Join(t.TempDir(), "reply.md")
	reply := "Monthly sales\n\n```\nmonth,sales\nJan,10\nFeb,20\nMar,15\n```\n\nFebruary peaked."
	if err := os.WriteFile(path, []byte(reply), 0o600); err != nil {
		t.Fatal(err)
	}

	out, _, err := run(t, "", "chart", "--width", "60", "--type", "bar", path)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	out = stripANSI(out)
	for _, want := range []string{"Jan", "Feb", "February peaked."} {
		if !strings.Contains(out, want) {
			t.Errorf("chart output missing %q:\n%s", want, out)
		}
	}

	out, _, err = run(t, "", "chart", "--json", path)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(out, `"x_key": "month"`) || !strings.Contains(out, `"sales": 20`) {
		t.Errorf("json output = %s", out)
	}

	pngPath := filepath.Join(t.TempDir(), "chart.png")
	if _, _, err := run(t, "", "chart", "--out", pngPath, path); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	png, err := os.ReadFile(pngPath)
	if err != nil || !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Errorf("expected a PNG file: %v", err)
	}

	if _, _, err := run(t, "", "chart", "--type", "radar", path); err == nil {
		t.Error("expected an error for an unknown chart type")
	}
}

func TestChartCommand_NoData(t *testing.T) {
	newHarness(t)
	_, _, err := run(t, "just prose", "chart", "-")
	if err == nil || !strings.Contains(err.Error(), "no chart data") {
		t.Errorf("expected no chart data error, got %v", err)
	}
}

func TestQuality_ValidatesBeforeRequest(t *testing.T) {
	h := newHarness(t)

	for _, input := range []string{"not json", "[]", `{"data": 3}`, `[1, 2]`} {
		if _, _, err := run(t, input, "quality", "-"); err == nil {
			t.Errorf("quality(%q) should fail", input)
		}
	}
	if h.backend.qualityCount() != 0 {
		t.Fatal("invalid input must not reach the backend")
	}

	out, _, err := run(t, `[{"a": 1}, {"a": null}]`, "quality", "-")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(out, `"score": 97`) {
		t.Errorf("output = %s", out)
	}
	if h.backend.qualityCount() != 1 {
		t.Error("valid input should be sent once")
	}
}

func TestSummarizeCompareHealth(t *testing.T) {
	newHarness(t)

	out, _, err := run(t, "A long policy text.", "summarize")
	if err != nil || strings.TrimSpace(out) != "Short version." {
		t.Errorf("summarize = %q, %v", out, err)
	}

	dir := t.TempDir()
	a, b := filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt")
	_ = os.WriteFile(a, []byte("one"), 0o600)
	_ = os.WriteFile(b, []byte("two"), 0o600)
	out, _, err = run(t, "", "compare", a, b)
	if err != nil || !strings.Contains(out, `"similarity": 0.5`) {
		t.Errorf("compare = %q, %v", out, err)
	}

	out, _, err = run(t, "", "health")
	if err != nil || !strings.Contains(out, "healthy") {
		t.Errorf("health = %q, %v", out, err)
	}
}

func TestUploadJobsDownload(t *testing.T) {
	newHarness(t)
	doc := filepath.Join(t.TempDir(), "policy.pdf")
	if err := os.WriteFile(doc, []byte("%PDF-1.4"), 0o600); err != nil {
		t.Fatal(err)
	}

	out, _, err := run(t, "", "upload", "--wait", doc)
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if !strings.Contains(out, "job job-1\tqueued") || !strings.Contains(out, models.JobCompleted) {
		t.Errorf("upload output = %q", out)
	}

	out, _, err = run(t, "", "jobs")
	if err != nil || !strings.Contains(out, "job-1") || !strings.Contains(out, "STATUS") {
		t.Errorf("jobs = %q, %v", out, err)
	}

	dir := t.TempDir()
	out, _, err = run(t, "", "download", "--dir", dir, "report.xlsx")
	if err != nil {
		t.Fatalf("download failed: %v", err)
	}
	if strings.TrimSpace(out) != filepath.Join(dir, "report.xlsx") {
		t.Errorf("download output = %q", out)
	}

	if _, _, err := run(t, "", "download", "../secret"); err == nil {
		t.Error("unsafe file names must be rejected")
	}
	if _, _, err := run(t, "", "download", "--dir", dir, "missing.xlsx"); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestDocuments(t *testing.T) {
	newHarness(t)

	out, _, err := run(t, "", "documents", "-n", "5")
	if err != nil {
		t.Fatalf("documents failed: %v", err)
	}
	for _, want := range []string{"FILE", "policy.pdf", "hr", "sales.csv", "unclassified"} {
		if !strings.Contains(out, want) {
			t.Errorf("documents output missing %q:\n%s", want, out)
		}
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if f := strings.Fields(lines[2]); len(f) != 7 || f[4] != "-" || f[5] != "no" || f[6] != "yes" {
		t.Errorf("sales.csv row = %q", lines[2])
	}
}

func TestReportTemplatesAndGenerate(t *testing.T) {
	h := newHarness(t)

	out, _, err := run(t, "", "report", "templates")
	if err != nil || !strings.Contains(out, "weekly") || !strings.Contains(out, "REQUIRED FIELDS") {
		t.Fatalf("templates = %q, %v", out, err)
	}

	dir := t.TempDir()
	out, _, err = run(t, `{"week": "2025-W02", "highlights": []}`, "report", "generate", "weekly", "-",
		"--format", "PDF", "--download", "--dir", dir)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !strings.Contains(out, "weekly_r1.pdf\tpdf\t42 bytes") {
		t.Errorf("generate output = %q", out)
	}
	path := filepath.Join(dir, "weekly_r1.pdf")
	if !strings.Contains(out, path) {
		t.Errorf("download path missing from %q", out)
	}
	if data, err := os.ReadFile(path); err != nil || !strings.HasPrefix(string(data), "%PDF") {
		t.Errorf("downloaded report = %q, %v", data, err)
	}

	reqs := h.backend.reportRequests()
	if len(reqs) != 1 || reqs[0].OutputFormat != "pdf" || reqs[0].TemplateID != "weekly" {
		t.Fatalf("requests = %+v", reqs)
	}

	out, _, err = run(t, "", "report", "download", "--dir", dir, "weekly_r1.html")
	if err != nil || strings.TrimSpace(out) != filepath.Join(dir, "weekly_r1.html") {
		t.Errorf("report download = %q, %v", out, err)
	}
	if _, _, err := run(t, "", "report", "download", "../weekly_r1.html"); err == nil {
		t.Error("unsafe report names must be rejected")
	}
}

func TestReportGenerate_ValidatesBeforeRequest(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{"malformed json", `{"week": `, []string{"weekly", "-"}},
		{"not an object", `["2025-W02"]`, []string{"weekly", "-"}},
		{"bad format", `{"week": "W2"}`, []string{"weekly", "-", "--format", "xlsx"}},
		{"bad name", `{"week": "W2"}`, []string{"weekly", "-", "--name", "../r.html"}},
		{"missing required field", `{"highlights": []}`, []string{"weekly", "-"}},
		{"unknown template", `{"week": "W2"}`, []string{"monthly", "-"}},
	}
	for _, tt := range tests {
		args := append([]string{"report", "generate"}, tt.args...)
		if _, _, err := run(t, tt.stdin, args...); err == nil {
			t.Errorf("%s: expected an error", tt.name)
		}
	}
	if n := len(h.backend.reportRequests()); n != 0 {
		t.Fatalf("invalid report input reached the backend %d times", n)
	}
}

func TestExpertsAndModels(t *testing.T) {
	newHarness(t)

	out, _, err := run(t, "", "experts", "-e", "hr_expert")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	for _, want := range []string{"data_analytics", "5m0s", "analyst", "* "} {
		if !strings.Contains(out, want) {
			t.Errorf("experts output missing %q:\n%s", want, out)
		}
	}
	var hrLine string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "HR Expert") {
			hrLine = line
		}
	}
	if !strings.HasPrefix(hrLine, "*") {
		t.Errorf("hr should be marked current: %q", hrLine)
	}

	out, _, err = run(t, "", "models")
	if err != nil || !strings.Contains(out, "qwen3:8b") {
		t.Errorf("models = %q, %v", out, err)
	}
}

func TestConfigCommands(t *testing.T) {
	newHarness(t)

	out, _, err := run(t, "", "config", "path")
	if err != nil || !strings.Contains(out, "config.json") || !strings.Contains(out, "config.toml") {
		t.Errorf("config path = %q, %v", out, err)
	}

	if _, _, err := run(t, "", "config", "init"); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if _, _, err := run(t, "", "config", "init"); err == nil {
		t.Error("second init without --force should fail")
	}
	if _, _, err := run(t, "", "config", "init", "--force"); err != nil {
		t.Errorf("init --force failed: %v", err)
	}

	out, _, err = run(t, "", "config", "show", "--toml", "-m", "qwen3:8b")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(out, `default_model = "qwen3:8b"`) {
		t.Errorf("flags should apply to show:\n%s", out)
	}
}

func TestLoadSettings_ConfigErrorIsWarning(t *testing.T) {
	h := newHarness(t)
	deps.LoadConfig = func() (config.Config, error) {
		return h.cfg, errors.New("failed to parse config file")
	}

	_, errOut, err := run(t, "", "models")
	if err != nil {
		t.Fatalf("a broken file with usable defaults should not fail: %v", err)
	}
	if !strings.Contains(errOut, "Warning: failed to parse config file") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestFormatErrorMessage(t *testing.T) {
	if formatErrorMessage(nil, "x") != "" {
		t.Error("nil error should format as empty")
	}
	msg := formatErrorMessage(errors.New("plain"), "Upload failed")
	if !strings.Contains(msg, "Upload failed: plain") {
		t.Errorf("msg = %q", msg)
	}
}
