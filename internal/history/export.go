// Package history exports the in-memory conversation on request. Nothing is
// saved automatically; a conversation ends with the process.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AlharbiAbdullah/Cortex/internal/models"
)

// ExportFormat is the output format of an export
type ExportFormat string

const (
	ExportFormatMarkdown ExportFormat = "markdown"
	ExportFormatJSON     ExportFormat = "json"
)

// ParseExportFormat accepts "md", "markdown" or "json"
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "md", "markdown":
		return ExportFormatMarkdown, nil
	case "json":
		return ExportFormatJSON, nil
	}
	return "", fmt.Errorf("unknown export format %q (use markdown or json)", s)
}

// FormatFromPath picks the format from a file extension, markdown by default
func FormatFromPath(path string) ExportFormat {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ExportFormatJSON
	}
	return ExportFormatMarkdown
}

// Extension returns the file extension for f, with the dot
func (f ExportFormat) Extension() string {
	if f == ExportFormatJSON {
		return ".json"
	}
	return ".md"
}

// ExportOptions configures an export
type ExportOptions struct {
	Format ExportFormat
	// IncludeErrors keeps the synthesized error replies
	IncludeErrors bool
}

// DefaultExportOptions returns markdown with error replies included
func DefaultExportOptions() ExportOptions {
	return ExportOptions{Format: ExportFormatMarkdown, IncludeErrors: true}
}

// Conversation is a snapshot of a chat taken for export
type Conversation struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Expert    string           `json:"expert"`
	Model     string           `json:"model"`
	UseRAG    bool             `json:"use_rag"`
	StartedAt time.Time        `json:"started_at"`
	Messages  []models.Message `json:"messages"`
}

// NewConversation snapshots messages. The title is the first user message,
// shortened.
func NewConversation(expert, model string, useRAG bool, messages []models.Message) *Conversation {
	conv := &Conversation{
		ID:        uuid.NewString(),
		Title:     "Cortex conversation",
		Expert:    expert,
		Model:     model,
		UseRAG:    useRAG,
		StartedAt: time.Now(),
		Messages:  append([]models.Message(nil), messages...),
	}
	for _, m := range messages {
		if m.Role == models.RoleUser {
			conv.Title = shorten(m.Content, 60)
			break
		}
	}
	if len(messages) > 0 && !messages[0].CreatedAt.IsZero() {
		conv.StartedAt = messages[0].CreatedAt
	}
	return conv
}

func (c *Conversation) visible(opts ExportOptions) []models.Message {
	if opts.IncludeErrors {
		return c.Messages
	}
	out := make([]models.Message, 0, len(c.Messages))
	for _, m := range c.Messages {
		if !m.IsError {
			out = append(out, m)
		}
	}
	return out
}

// Markdown renders the conversation as a markdown document
func (c *Conversation) Markdown(opts ExportOptions) string {
	msgs := c.visible(opts)

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", c.Title)
	fmt.Fprintf(&sb, "**Expert:** %s\n", c.Expert)
	fmt.Fprintf(&sb, "**Model:** %s\n", c.Model)
	fmt.Fprintf(&sb, "**RAG:** %t\n", c.UseRAG)
	fmt.Fprintf(&sb, "**Started:** %s\n", c.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "**Messages:** %d\n\n---\n\n", len(msgs))

	for i, msg := range msgs {
		role := "User"
		if msg.Role == models.RoleAssistant {
			role = "Assistant"
			if msg.Expert != "" {
				role += " · " + msg.Expert
			}
		}
		sb.WriteString("## ")
		sb.WriteString(role)
		if !msg.CreatedAt.IsZero() {
			sb.WriteString(" (")
			sb.WriteString(msg.CreatedAt.Format("15:04:05"))
			sb.WriteString(")")
		}
		sb.WriteString("\n\n")

		if msg.IsError {
			sb.WriteString("> ")
		}
		sb.WriteString(msg.Content)
		sb.WriteString("\n")

		if msg.ExcelFile != "" {
			fmt.Fprintf(&sb, "\nAttachment: `%s`\n", msg.ExcelFile)
		}
		if i < len(msgs)-1 {
			sb.WriteString("\n---\n\n")
		}
	}
	return sb.String()
}

// JSON renders the conversation as indented JSON
func (c *Conversation) JSON(opts ExportOptions) ([]byte, error) {
	out := *c
	out.Messages = c.visible(opts)
	return json.MarshalIndent(out, "", "  ")
}

// Export renders the conversation in opts.Format
func (c *Conversation) Export(opts ExportOptions) ([]byte, error) {
	switch opts.Format {
	case ExportFormatJSON:
		return c.JSON(opts)
	case ExportFormatMarkdown, "":
		return []byte(c.Markdown(opts)), nil
	}
	return nil, fmt.Errorf("unknown export format %q", opts.Format)
}

// WriteFile exports the conversation to path, creating parent directories
func (c *Conversation) WriteFile(path string, opts ExportOptions) error {
	data, err := c.Export(opts)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// DefaultFileName is cortex-<timestamp>.<ext>
func (c *Conversation) DefaultFileName(format ExportFormat) string {
	return "cortex-" + c.StartedAt.Format("20060102-150405") + format.Extension()
}

func shorten(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
