// Package api implements the HTTP client for the Cortex backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/tidwall/gjson"

	apierrors "github.com/AlharbiAbdullah/Cortex/internal/errors"
	"github.com/AlharbiAbdullah/Cortex/internal/logging"
	"github.com/AlharbiAbdullah/Cortex/internal/models"
)

// maxErrorBody limits how much of a failed response is kept for diagnostics
const maxErrorBody = 4096

// httpDoer is the part of tls_client.HttpClient the client needs
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Backend is the set of backend operations used by the chat session and commands
type Backend interface {
	Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error)
	Upload(ctx context.Context, path string, progress ProgressFunc) (*models.UploadResponse, error)
	GetJob(ctx context.Context, jobID string) (*models.UploadJob, error)
	Download(ctx context.Context, filename, dir string) (string, error)
	Health(ctx context.Context) (*models.HealthResponse, error)
}

// Client talks to the Cortex FastAPI backend
type Client struct {
	httpClient httpDoer
	baseURL    string
	timeout    time.Duration
	userAgent  string
	logger     *slog.Logger
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithBaseURL sets the backend base URL (e.g. http://localhost:8000)
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the transport, mainly for tests
func WithHTTPClient(doer httpDoer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithTimeout sets the transport timeout. Individual calls may use shorter
// deadlines through their context.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a new Client
func NewClient(opts ...ClientOption) (*Client, error) {
	client := &Client{
		baseURL:   models.DefaultAPIURL,
		timeout:   models.DefaultUploadTimeout,
		userAgent: "cortex-cli",
	}

	for _, opt := range opts {
		opt(client)
	}

	client.logger = logging.Component(client.logger, "api")

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(int(client.timeout / time.Second)),
			tls_client.WithClientProfile(profiles.Chrome_120),
			tls_client.WithNotFollowRedirects(),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// BaseURL returns the configured backend URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) url(endpoint string) string {
	return c.baseURL + endpoint
}

// newJSONRequest builds a request with an optional JSON body
func (c *Client) newJSONRequest(ctx context.Context, method, endpoint string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, apierrors.NewRequestError("failed to encode request body", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(endpoint), body)
	if err != nil {
		return nil, apierrors.NewRequestError("failed to create request", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do sends req and returns the body of a 2xx response. Non-2xx answers become
// *APIError with the backend's "detail" field; transport failures are
// classified as timeout, cancellation or network errors.
func (c *Client) do(ctx context.Context, req *http.Request, endpoint string) ([]byte, error) {
	start := time.Now()
	c.logger.Debug("request", "method", req.Method, "endpoint", endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		classified := classifyTransportError(ctx, endpoint, err)
		c.logger.Warn("request failed", "endpoint", endpoint, "error", classified, "elapsed", time.Since(start))
		return nil, classified
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		detail := extractDetail(errorBody)
		c.logger.Warn("request rejected", "endpoint", endpoint, "status", resp.StatusCode, "detail", detail)
		return nil, apierrors.NewAPIErrorWithBody(resp.StatusCode, endpoint, detail, string(errorBody))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(ctx, endpoint, err)
	}

	c.logger.Debug("response", "endpoint", endpoint, "status", resp.StatusCode, "bytes", len(body), "elapsed", time.Since(start))
	return body, nil
}

// doJSON sends a JSON request and decodes the JSON response into out
func (c *Client) doJSON(ctx context.Context, method, endpoint string, payload, out any) error {
	req, err := c.newJSONRequest(ctx, method, endpoint, payload)
	if err != nil {
		return err
	}

	body, err := c.do(ctx, req, endpoint)
	if err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if !gjson.ValidBytes(body) {
		return apierrors.NewParseError("response is not valid JSON", endpoint)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apierrors.NewParseError(err.Error(), endpoint)
	}
	return nil
}

// extractDetail pulls a human-readable message out of a FastAPI error body.
// HTTPException gives {"detail": "..."}; validation errors give
// {"detail": [{"msg": "..."}]}.
func extractDetail(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	detail := gjson.GetBytes(body, "detail")
	switch {
	case !detail.Exists():
		return ""
	case detail.Type == gjson.String:
		return detail.String()
	case detail.IsArray():
		var msgs []string
		for _, item := range detail.Array() {
			if msg := item.Get("msg").String(); msg != "" {
				msgs = append(msgs, msg)
			}
		}
		return strings.Join(msgs, "; ")
	default:
		return detail.Raw
	}
}

// classifyTransportError maps a failed round trip onto the error taxonomy
func classifyTransportError(ctx context.Context, endpoint string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return apierrors.NewTimeoutError(endpoint, err)
		}
		return &apierrors.CancelledError{Endpoint: endpoint}
	}

	var timeout interface{ Timeout() bool }
	if errors.As(err, &timeout) && timeout.Timeout() {
		return apierrors.NewTimeoutError(endpoint, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apierrors.NewTimeoutError(endpoint, err)
	}

	return apierrors.NewNetworkError("request", endpoint, err)
}
