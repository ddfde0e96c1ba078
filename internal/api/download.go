package api

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	http "github.com/bogdanfinn/fhttp"

	apierrors "github.com/AlharbiAbdullah/Cortex/internal/errors"
	"github.com/AlharbiAbdullah/Cortex/internal/models"
)

// ValidateFilename applies the same guard as the backend download route:
// no parent references and no path separators.
func ValidateFilename(filename string) error {
	switch {
	case strings.TrimSpace(filename) == "":
		return apierrors.NewValidationError("filename", "cannot be empty")
	case strings.Contains(filename, ".."),
		strings.Contains(filename, "/"),
		strings.Contains(filename, `\`):
		return apierrors.NewValidationError("filename", fmt.Sprintf("%q is not a plain file name", filename))
	}
	return nil
}

// Download fetches GET /api/download/{filename} into dir and returns the
// path written. A partially written file is removed on failure.
func (c *Client) Download(ctx context.Context, filename, dir string) (string, error) {
	return c.fetchFile(ctx, models.EndpointDownload, filename, dir)
}

// DownloadReport fetches GET /api/reports/download/{filename} into dir
func (c *Client) DownloadReport(ctx context.Context, filename, dir string) (string, error) {
	return c.fetchFile(ctx, models.EndpointReportFetch, filename, dir)
}

// fetchFile downloads prefix/filename into dir/filename
func (c *Client) fetchFile(ctx context.Context, prefix, filename, dir string) (string, error) {
	if err := ValidateFilename(filename); err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apierrors.NewDownloadError(filename, 0, "failed to create directory: "+err.Error())
	}

	endpoint := prefix + "/" + url.PathEscape(filename)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(endpoint), nil)
	if err != nil {
		return "", apierrors.NewRequestError("failed to create request", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", classifyTransportError(ctx, endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := extractDetail(errorBody)
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", apierrors.NewDownloadError(filename, resp.StatusCode, msg)
	}

	target := filepath.Join(dir, filename)
	out, err := os.Create(target)
	if err != nil {
		return "", apierrors.NewDownloadError(filename, 0, "failed to create file: "+err.Error())
	}

	written, err := io.Copy(out, resp.Body)
	closeErr := out.Close()
	if err != nil {
		_ = os.Remove(target)
		return "", classifyTransportError(ctx, endpoint, err)
	}
	if closeErr != nil {
		_ = os.Remove(target)
		return "", apierrors.NewDownloadError(filename, 0, "failed to write file: "+closeErr.Error())
	}

	c.logger.Info("file downloaded", "endpoint", prefix, "filename", filename, "path", target, "bytes", written)
	return target, nil
}
