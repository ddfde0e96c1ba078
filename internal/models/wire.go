package models

import "encoding/json"

// HistoryEntry is one element of conversation_history in a chat request
type HistoryEntry struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /api/chat
type ChatRequest struct {
	Message             string         `json:"message"`
	ConversationHistory []HistoryEntry `json:"conversation_history"`
	UseRAG              bool           `json:"use_rag"`
	ModelName           string         `json:"model_name"`
	Expert              string         `json:"expert"`
}

// ChatResponse is the body returned by POST /api/chat
type ChatResponse struct {
	Message   string `json:"message,omitempty"`
	Response  string `json:"response"`
	Expert    string `json:"expert,omitempty"`
	ExcelFile string `json:"excel_file,omitempty"`
}

// BuildHistory converts the tail of a conversation into request history,
// keeping at most limit entries.
func BuildHistory(messages []Message, limit int) []HistoryEntry {
	start := 0
	if limit >= 0 && len(messages) > limit {
		start = len(messages) - limit
	}
	history := make([]HistoryEntry, 0, len(messages)-start)
	for _, m := range messages[start:] {
		history = append(history, HistoryEntry{Role: m.Role, Content: m.Content})
	}
	return history
}

// UploadResponse is returned by POST /api/upload
type UploadResponse struct {
	JobID      string `json:"job_id"`
	Status     string `json:"status"`
	DocumentID string `json:"document_id"`
	BronzeKey  string `json:"bronze_key"`
	Filename   string `json:"filename"`
	Message    string `json:"message"`
}

// Upload job states reported by GET /api/upload/jobs/{id}
const (
	JobQueued     = "queued"
	JobProcessing = "processing"
	JobCompleted  = "completed"
	JobError      = "error"
)

// UploadJob is the status of a background upload job
type UploadJob struct {
	JobID      string `json:"job_id"`
	Status     string `json:"status"`
	Filename   string `json:"filename"`
	DocumentID string `json:"document_id"`
	BronzeKey  string `json:"bronze_key"`
	SilverKey  string `json:"silver_key,omitempty"`
	Error      string `json:"error,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
	StartedAt  string `json:"started_at,omitempty"`
}

// Terminal reports whether the job will not change state anymore
func (j UploadJob) Terminal() bool {
	return j.Status == JobCompleted || j.Status == JobError
}

// SummaryRequest is the body of POST /api/summarize/quick
type SummaryRequest struct {
	Text     string `json:"text"`
	MaxWords int    `json:"max_words"`
}

// SummaryResponse is returned by POST /api/summarize/quick
type SummaryResponse struct {
	Summary           string `json:"summary"`
	WordCount         int    `json:"word_count"`
	OriginalWordCount int    `json:"original_word_count"`
}

// CompareRequest is the body of POST /api/compare/quick
type CompareRequest struct {
	Text1 string `json:"text1"`
	Text2 string `json:"text2"`
}

// HealthResponse is returned by GET /api/health
type HealthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Report output formats accepted by POST /api/reports/generate
const (
	ReportHTML = "html"
	ReportPDF  = "pdf"
	ReportDOCX = "docx"
)

// ReportTemplate is one entry of GET /api/reports/templates
type ReportTemplate struct {
	TemplateID     string   `json:"template_id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	RequiredFields []string `json:"required_fields"`
	// Type is "builtin" or "custom"
	Type string `json:"type"`
}

// GenerateReportRequest is the body of POST /api/reports/generate.
// Data must be a JSON object.
type GenerateReportRequest struct {
	TemplateID   string          `json:"template_id"`
	Data         json.RawMessage `json:"data"`
	OutputFormat string          `json:"output_format"`
	Filename     string          `json:"filename,omitempty"`
}

// GeneratedReport is returned by POST /api/reports/generate
type GeneratedReport struct {
	ReportID    string `json:"report_id"`
	TemplateID  string `json:"template_id"`
	Format      string `json:"format"`
	Filename    string `json:"filename"`
	FilePath    string `json:"file_path"`
	FileSize    int64  `json:"file_size"`
	GeneratedAt string `json:"generated_at"`
	DownloadURL string `json:"download_url"`
}

// Document is one entry of GET /api/documents (the Silver layer listing)
type Document struct {
	DocumentID      string   `json:"document_id"`
	SilverKey       string   `json:"silver_key"`
	Filename        string   `json:"filename"`
	FileType        string   `json:"file_type"`
	PrimaryCategory string   `json:"primary_category"`
	Categories      []string `json:"categories"`
	Confidence      float64  `json:"confidence"`
	Status          string   `json:"status"`
	UploadDate      string   `json:"upload_date"`
	FeedTheBrain    int      `json:"feed_the_brain"`
	Tableur         int      `json:"tableur"`
	Size            int64    `json:"size"`
	LastModified    string   `json:"last_modified"`
}
