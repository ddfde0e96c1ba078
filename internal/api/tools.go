package api

import (
	"context"
	"encoding/json"
	"strings"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/AlharbiAbdullah/Cortex/internal/errors"
	"github.com/AlharbiAbdullah/Cortex/internal/models"
)

// DefaultSummaryWords is the max_words sent when the caller passes 0
const DefaultSummaryWords = 150

// Summarize calls POST /api/summarize/quick
func (c *Client) Summarize(ctx context.Context, text string, maxWords int) (*models.SummaryResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apierrors.NewValidationError("text", "cannot be empty")
	}
	if maxWords <= 0 {
		maxWords = DefaultSummaryWords
	}

	var resp models.SummaryResponse
	req := models.SummaryRequest{Text: text, MaxWords: maxWords}
	if err := c.doJSON(ctx, http.MethodPost, models.EndpointSummarize, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Compare calls POST /api/compare/quick and returns the raw JSON result
func (c *Client) Compare(ctx context.Context, text1, text2 string) (json.RawMessage, error) {
	if strings.TrimSpace(text1) == "" || strings.TrimSpace(text2) == "" {
		return nil, apierrors.NewValidationError("text", "both documents must be non-empty")
	}

	var resp json.RawMessage
	req := models.CompareRequest{Text1: text1, Text2: text2}
	if err := c.doJSON(ctx, http.MethodPost, models.EndpointCompare, req, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ValidateQualityData checks that raw is a non-empty JSON array of objects,
// or an object with such an array under "data", and returns the records.
func ValidateQualityData(raw []byte) (json.RawMessage, error) {
	if !gjson.ValidBytes(raw) {
		return nil, apierrors.NewValidationError("data", "input is not valid JSON")
	}

	records := gjson.ParseBytes(raw)
	if records.IsObject() {
		records = records.Get("data")
	}
	if !records.IsArray() {
		return nil, apierrors.NewValidationError("data", "expected a JSON array of records")
	}

	items := records.Array()
	if len(items) == 0 {
		return nil, apierrors.NewValidationError("data", "cannot be empty")
	}
	for _, item := range items {
		if !item.IsObject() {
			return nil, apierrors.NewValidationError("data", "every record must be a JSON object")
		}
	}

	return json.RawMessage(records.Raw), nil
}

// QualityCheck validates raw locally, then calls POST /api/quality/quick-check
func (c *Client) QualityCheck(ctx context.Context, raw []byte) (json.RawMessage, error) {
	records, err := ValidateQualityData(raw)
	if err != nil {
		return nil, err
	}

	var resp json.RawMessage
	payload := map[string]json.RawMessage{"data": records}
	if err := c.doJSON(ctx, http.MethodPost, models.EndpointQualityCheck, payload, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Health calls GET /api/health
func (c *Client) Health(ctx context.Context) (*models.HealthResponse, error) {
	var resp models.HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, models.EndpointHealth, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
