package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestAPIError(t *testing.T) {
	err := NewAPIError(503, "/api/chat", "Model unavailable")

	expected := "API error [503] at /api/chat: Model unavailable"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	noStatus := NewAPIError(0, "/api/chat", "")
	if noStatus.Error() != "API error at /api/chat: request failed" {
		t.Errorf("Error() = %s", noStatus.Error())
	}
}

func TestNetworkError(t *testing.T) {
	inner := errors.New("connection refused")
	err := NewNetworkError("chat", "/api/chat", inner)

	if !errors.Is(err, ErrNoResponse) {
		t.Error("NetworkError should match ErrNoResponse")
	}
	if !errors.Is(err, inner) {
		t.Error("NetworkError should unwrap to the transport error")
	}
	if !IsNetworkError(fmt.Errorf("wrapped: %w", err)) {
		t.Error("IsNetworkError should see through wrapping")
	}
}

func TestTimeoutError(t *testing.T) {
	err := NewTimeoutError("/api/chat", context.DeadlineExceeded)

	if err.Error() != "request timed out: /api/chat" {
		t.Errorf("Error() = %s", err.Error())
	}
	if !IsTimeoutError(err) {
		t.Error("IsTimeoutError should be true")
	}
	if !IsNetworkError(err) {
		t.Error("a timeout counts as no response")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("TimeoutError should unwrap to DeadlineExceeded")
	}
}

func TestParseError(t *testing.T) {
	err := NewParseError("missing response field", "response")

	if err.Error() != "parse error at response: missing response field" {
		t.Errorf("Error() = %s", err.Error())
	}
	if !errors.Is(err, ErrInvalidResponse) {
		t.Error("ParseError should match ErrInvalidResponse")
	}
	if !err.Is(NewParseError("other", "")) {
		t.Error("ParseError should match another ParseError")
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("data", "malformed JSON")
	if err.Error() != "invalid data: malformed JSON" {
		t.Errorf("Error() = %s", err.Error())
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("ValidationError should match ErrInvalidInput")
	}
}

func TestGetHTTPStatus(t *testing.T) {
	if got := GetHTTPStatus(fmt.Errorf("x: %w", NewAPIError(404, "/e", "nope"))); got != 404 {
		t.Errorf("GetHTTPStatus() = %d, want 404", got)
	}
	if got := GetHTTPStatus(errors.New("plain")); got != 0 {
		t.Errorf("GetHTTPStatus() = %d, want 0", got)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"server detail", NewAPIError(500, "/api/chat", "Model unavailable"), "Model unavailable"},
		{"server detail verbatim", NewAPIError(500, "/api/chat", "  busy \n"), "  busy \n"},
		{"server detail blank", NewAPIError(500, "/api/chat", " \t"), MsgFallback},
		{"server without detail", NewAPIError(502, "/api/chat", ""), MsgFallback},
		{"network", NewNetworkError("chat", "/api/chat", errors.New("reset")), MsgNoResponse},
		{"timeout", NewTimeoutError("/api/chat", context.DeadlineExceeded), MsgNoResponse},
		{"cancelled", &CancelledError{Endpoint: "/api/chat"}, MsgCancelled},
		{"request build", NewRequestError("bad url", nil), MsgFallback},
		{"anything else", errors.New("boom"), MsgFallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
