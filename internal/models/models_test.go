package models

import (
	"fmt"
	"testing"
)

func TestDefaults(t *testing.T) {
	if DefaultPersona().ID != AllPersonas()[0].ID {
		t.Errorf("default persona should be the first entry")
	}
	if DefaultModel().ID != AllModels()[0].ID {
		t.Errorf("default model should be the first entry")
	}
}

func TestAllPersonasReturnsCopy(t *testing.T) {
	list := AllPersonas()
	list[0].ID = "mutated"
	if AllPersonas()[0].ID == "mutated" {
		t.Error("AllPersonas must not expose the package list")
	}
}

func TestNormalizePersonaID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hr_expert", "hr"},
		{"  Analyst ", "data_analytics"},
		{"assistant", "general"},
		{"legal", "legal"},
		{"Unknown", "unknown"},
	}
	for _, tt := range tests {
		if got := NormalizePersonaID(tt.in); got != tt.want {
			t.Errorf("NormalizePersonaID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPersonaByID(t *testing.T) {
	p, ok := PersonaByID("data-analytics")
	if !ok || p.ID != "data_analytics" || !p.Heavy {
		t.Errorf("PersonaByID(data-analytics) = %+v, %v", p, ok)
	}
	if _, ok := PersonaByID("astrologer"); ok {
		t.Error("unknown persona should not resolve")
	}
}

func TestModelByID(t *testing.T) {
	m, ok := ModelByID("QWEN3:8B")
	if !ok || m.ID != "qwen3:8b" {
		t.Errorf("ModelByID() = %+v, %v", m, ok)
	}
	if IndexOfModel("qwen3:8b") != 1 {
		t.Errorf("IndexOfModel() = %d", IndexOfModel("qwen3:8b"))
	}
	if IndexOfPersona("nope") != -1 {
		t.Error("IndexOfPersona should be -1 for unknown ids")
	}
}

func TestRoleValid(t *testing.T) {
	if !RoleUser.Valid() || !RoleAssistant.Valid() {
		t.Error("known roles must be valid")
	}
	if Role("system").Valid() {
		t.Error("system is not a conversation role")
	}
}

func TestBuildHistory(t *testing.T) {
	var msgs []Message
	for i := 0; i < 50; i++ {
		msgs = append(msgs, NewUserMessage(fmt.Sprintf("q%d", i)))
		msgs = append(msgs, NewAssistantMessage(fmt.Sprintf("a%d", i), "", ""))
	}

	history := BuildHistory(msgs, HistoryLimit)
	if len(history) != HistoryLimit {
		t.Fatalf("len(history) = %d, want %d", len(history), HistoryLimit)
	}
	if history[len(history)-1].Content != "a49" {
		t.Errorf("last entry = %q, want a49", history[len(history)-1].Content)
	}
	if history[0].Content != "q45" {
		t.Errorf("first entry = %q, want q45", history[0].Content)
	}

	short := BuildHistory(msgs[:3], HistoryLimit)
	if len(short) != 3 {
		t.Errorf("len(short) = %d, want 3", len(short))
	}

	if got := BuildHistory(nil, HistoryLimit); len(got) != 0 {
		t.Errorf("empty conversation should give empty history, got %d", len(got))
	}
}

func TestErrorMessage(t *testing.T) {
	m := NewErrorMessage("Unable to get response.")
	if m.Role != RoleAssistant || !m.IsError {
		t.Errorf("NewErrorMessage() = %+v", m)
	}
	if m.ID == "" {
		t.Error("messages should get an id")
	}
}

func TestUploadJobTerminal(t *testing.T) {
	for status, want := range map[string]bool{
		JobQueued:     false,
		JobProcessing: false,
		JobCompleted:  true,
		JobError:      true,
	} {
		if got := (UploadJob{Status: status}).Terminal(); got != want {
			t.Errorf("Terminal(%s) = %v, want %v", status, got, want)
		}
	}
}
