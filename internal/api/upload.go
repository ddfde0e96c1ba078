package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/AlharbiAbdullah/Cortex/internal/errors"
	"github.com/AlharbiAbdullah/Cortex/internal/models"
)

const (
	// MaxUploadSize caps the document size sent to /api/upload
	MaxUploadSize = 200 * 1024 * 1024 // 200MB
	// DefaultPollInterval is the delay between upload job status checks
	DefaultPollInterval = 2 * time.Second
)

// ProgressFunc receives the number of bytes sent so far and the total body size
type ProgressFunc func(sent, total int64)

// progressReader reports reads to a ProgressFunc
type progressReader struct {
	r        io.Reader
	sent     int64
	total    int64
	progress ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		p.progress(p.sent, p.total)
	}
	return n, err
}

// Upload sends a document to POST /api/upload as multipart field "file".
// The backend stores it and answers 202 with a background job id.
func (c *Client) Upload(ctx context.Context, path string, progress ProgressFunc) (*models.UploadResponse, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, apierrors.NewValidationError("file", err.Error())
	}
	if fileInfo.IsDir() {
		return nil, apierrors.NewValidationError("file", path+" is a directory")
	}
	if fileInfo.Size() > MaxUploadSize {
		return nil, apierrors.NewValidationError("file", fmt.Sprintf("size exceeds maximum %d bytes", MaxUploadSize))
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, apierrors.NewValidationError("file", err.Error())
	}
	defer func() { _ = file.Close() }()

	return c.UploadFromReader(ctx, file, filepath.Base(path), progress)
}

// UploadFromReader uploads the content of r under fileName
func (c *Client) UploadFromReader(ctx context.Context, r io.Reader, fileName string, progress ProgressFunc) (*models.UploadResponse, error) {
	if fileName == "" {
		return nil, apierrors.NewValidationError("filename", "cannot be empty")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(fileName)))
	header.Set("Content-Type", detectContentType(fileName))

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, apierrors.NewRequestError("failed to create form file", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, apierrors.NewRequestError("failed to write file data", err)
	}
	if err := writer.Close(); err != nil {
		return nil, apierrors.NewRequestError("failed to finalize form", err)
	}

	total := int64(body.Len())
	var reader io.Reader = &body
	if progress != nil {
		reader = &progressReader{r: &body, total: total, progress: progress}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(models.EndpointUpload), reader)
	if err != nil {
		return nil, apierrors.NewRequestError("failed to create request", err)
	}
	req.ContentLength = total
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	respBody, err := c.do(ctx, req, models.EndpointUpload)
	if err != nil {
		return nil, err
	}

	var uploadResp models.UploadResponse
	parsed := gjson.ParseBytes(respBody)
	if !parsed.IsObject() {
		return nil, apierrors.NewParseError("upload response is not an object", models.EndpointUpload)
	}
	uploadResp.JobID = parsed.Get("job_id").String()
	uploadResp.Status = parsed.Get("status").String()
	uploadResp.DocumentID = parsed.Get("document_id").String()
	uploadResp.BronzeKey = parsed.Get("bronze_key").String()
	uploadResp.Filename = parsed.Get("filename").String()
	uploadResp.Message = parsed.Get("message").String()

	if uploadResp.JobID == "" {
		return nil, apierrors.NewParseError("upload response has no job_id", models.EndpointUpload)
	}

	c.logger.Info("document uploaded", "filename", uploadResp.Filename, "job_id", uploadResp.JobID, "bytes", total)
	return &uploadResp, nil
}

// GetJob returns the status of a background upload job
func (c *Client) GetJob(ctx context.Context, jobID string) (*models.UploadJob, error) {
	if jobID == "" {
		return nil, apierrors.NewValidationError("job_id", "cannot be empty")
	}

	var job models.UploadJob
	endpoint := models.EndpointUploadJobs + "/" + url.PathEscape(jobID)
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// ListJobs returns the most recent upload jobs known to the backend
func (c *Client) ListJobs(ctx context.Context, limit int) ([]models.UploadJob, error) {
	endpoint := models.EndpointUploadJobs
	if limit > 0 {
		endpoint += "?limit=" + strconv.Itoa(limit)
	}

	var out struct {
		Jobs []models.UploadJob `json:"jobs"`
	}
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return out.Jobs, nil
}

// WaitForJob polls GetJob until the job reaches a terminal state or ctx ends.
// onUpdate, if set, is called with every status received.
func (c *Client) WaitForJob(ctx context.Context, jobID string, interval time.Duration, onUpdate func(models.UploadJob)) (*models.UploadJob, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		job, err := c.GetJob(ctx, jobID)
		if err != nil {
			return nil, err
		}
		if onUpdate != nil {
			onUpdate(*job)
		}
		if job.Terminal() {
			if job.Status == models.JobError {
				return job, fmt.Errorf("upload job %s failed: %s", jobID, job.Error)
			}
			return job, nil
		}

		select {
		case <-ctx.Done():
			return job, classifyTransportError(ctx, models.EndpointUploadJobs, ctx.Err())
		case <-ticker.C:
		}
	}
}

func detectContentType(fileName string) string {
	if t := mime.TypeByExtension(filepath.Ext(fileName)); t != "" {
		return t
	}
	return "application/octet-stream"
}

func escapeQuotes(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '"' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
