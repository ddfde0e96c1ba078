package api

import (
	"context"
	"strings"

	http "github.com/bogdanfinn/fhttp"

	apierrors "github.com/AlharbiAbdullah/Cortex/internal/errors"
	"github.com/AlharbiAbdullah/Cortex/internal/models"
)

// Chat sends one chat turn to POST /api/chat.
// The caller owns the deadline; the session applies a per-persona timeout.
func (c *Client) Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, apierrors.NewValidationError("message", "cannot be empty")
	}
	if req.ConversationHistory == nil {
		req.ConversationHistory = []models.HistoryEntry{}
	}

	var resp models.ChatResponse
	if err := c.doJSON(ctx, http.MethodPost, models.EndpointChat, req, &resp); err != nil {
		return nil, err
	}

	c.logger.Info("chat response",
		"expert", resp.Expert,
		"model", req.ModelName,
		"history", len(req.ConversationHistory),
		"chars", len(resp.Response),
		"excel_file", resp.ExcelFile,
	)
	return &resp, nil
}
