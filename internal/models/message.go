package models

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the two known roles
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message is one entry of a conversation. Messages are never mutated once
// appended to a conversation.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Expert    string    `json:"expert,omitempty"`
	ExcelFile string    `json:"excel_file,omitempty"`
	IsError   bool      `json:"is_error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserMessage creates a user message
func NewUserMessage(content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// NewAssistantMessage creates an assistant message from a backend reply
func NewAssistantMessage(content, expert, excelFile string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Content:   content,
		Expert:    expert,
		ExcelFile: excelFile,
		CreatedAt: time.Now(),
	}
}

// NewErrorMessage creates the assistant-role message shown when a turn fails
func NewErrorMessage(content string) Message {
	m := NewAssistantMessage(content, "", "")
	m.IsError = true
	return m
}
