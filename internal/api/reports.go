package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/AlharbiAbdullah/Cortex/internal/errors"
	"github.com/AlharbiAbdullah/Cortex/internal/models"
)

// ParseReportFormat normalizes an output format name. Empty means html.
func ParseReportFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "":
		return models.ReportHTML, nil
	case models.ReportHTML, models.ReportPDF, models.ReportDOCX:
		return f, nil
	default:
		return "", apierrors.NewValidationError("output_format", fmt.Sprintf("%q is not one of html, pdf, docx", s))
	}
}

// ValidateReportData checks that raw is a JSON object, the shape the
// report templates are filled from.
func ValidateReportData(raw []byte) (json.RawMessage, error) {
	if !gjson.ValidBytes(raw) {
		return nil, apierrors.NewValidationError("data", "input is not valid JSON")
	}
	data := gjson.ParseBytes(raw)
	if !data.IsObject() {
		return nil, apierrors.NewValidationError("data", "expected a JSON object")
	}
	return json.RawMessage(data.Raw), nil
}

// MissingReportFields returns the required fields absent from data, in order
func MissingReportFields(data json.RawMessage, required []string) []string {
	var missing []string
	for _, field := range required {
		if !gjson.GetBytes(data, gjson.Escape(field)).Exists() {
			missing = append(missing, field)
		}
	}
	return missing
}

// ReportTemplates calls GET /api/reports/templates
func (c *Client) ReportTemplates(ctx context.Context) ([]models.ReportTemplate, error) {
	var out struct {
		Count     int                     `json:"count"`
		Templates []models.ReportTemplate `json:"templates"`
	}
	if err := c.doJSON(ctx, http.MethodGet, models.EndpointReportList, nil, &out); err != nil {
		return nil, err
	}
	return out.Templates, nil
}

// GenerateReport validates the request locally, then calls
// POST /api/reports/generate. An empty format means html.
func (c *Client) GenerateReport(ctx context.Context, templateID string, raw []byte, format, filename string) (*models.GeneratedReport, error) {
	if strings.TrimSpace(templateID) == "" {
		return nil, apierrors.NewValidationError("template_id", "cannot be empty")
	}
	format, err := ParseReportFormat(format)
	if err != nil {
		return nil, err
	}
	data, err := ValidateReportData(raw)
	if err != nil {
		return nil, err
	}
	if filename != "" {
		if err := ValidateFilename(filename); err != nil {
			return nil, err
		}
	}

	req := models.GenerateReportRequest{
		TemplateID:   templateID,
		Data:         data,
		OutputFormat: format,
		Filename:     filename,
	}
	var report models.GeneratedReport
	if err := c.doJSON(ctx, http.MethodPost, models.EndpointReportCreate, req, &report); err != nil {
		return nil, err
	}
	if report.Filename == "" {
		return nil, apierrors.NewParseError("report response has no filename", models.EndpointReportCreate)
	}

	c.logger.Info("report generated", "template_id", templateID, "format", report.Format, "filename", report.Filename, "bytes", report.FileSize)
	return &report, nil
}
