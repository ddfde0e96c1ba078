package api

import (
	"context"
	"strconv"

	http "github.com/bogdanfinn/fhttp"

	"github.com/AlharbiAbdullah/Cortex/internal/models"
)

// Documents calls GET /api/documents, newest uploads first
func (c *Client) Documents(ctx context.Context, limit int) ([]models.Document, error) {
	endpoint := models.EndpointDocuments
	if limit > 0 {
		endpoint += "?limit=" + strconv.Itoa(limit)
	}

	var out struct {
		Documents []models.Document `json:"documents"`
	}
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return out.Documents, nil
}
