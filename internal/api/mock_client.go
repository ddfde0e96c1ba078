package api

import (
	"context"
	"sync"

	"github.com/AlharbiAbdullah/Cortex/internal/models"
)

// MockBackend is a Backend for tests of packages that sit above the client.
// The func fields, when set, take precedence over the fixed return values.
type MockBackend struct {
	mu sync.Mutex

	ChatResp *models.ChatResponse
	ChatErr  error
	ChatFunc func(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error)

	UploadResp *models.UploadResponse
	UploadErr  error

	JobResp *models.UploadJob
	JobErr  error

	DownloadPath string
	DownloadErr  error

	HealthResp *models.HealthResponse
	HealthErr  error

	// Recorded calls
	ChatRequests   []models.ChatRequest
	UploadedPaths  []string
	DownloadedFile []string
}

// Ensure MockBackend implements Backend
var _ Backend = (*MockBackend)(nil)

// Chat records req and returns the configured reply
func (m *MockBackend) Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	m.mu.Lock()
	m.ChatRequests = append(m.ChatRequests, req)
	fn := m.ChatFunc
	resp, err := m.ChatResp, m.ChatErr
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	return resp, err
}

// Upload records path and returns the configured reply
func (m *MockBackend) Upload(ctx context.Context, path string, progress ProgressFunc) (*models.UploadResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UploadedPaths = append(m.UploadedPaths, path)
	if progress != nil && m.UploadErr == nil {
		progress(1, 1)
	}
	return m.UploadResp, m.UploadErr
}

// GetJob returns the configured job
func (m *MockBackend) GetJob(ctx context.Context, jobID string) (*models.UploadJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.JobResp, m.JobErr
}

// Download records filename and returns the configured path
func (m *MockBackend) Download(ctx context.Context, filename, dir string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DownloadedFile = append(m.DownloadedFile, filename)
	return m.DownloadPath, m.DownloadErr
}

// Health returns the configured health status
func (m *MockBackend) Health(ctx context.Context) (*models.HealthResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.HealthResp, m.HealthErr
}

// Requests returns a copy of the recorded chat requests
func (m *MockBackend) Requests() []models.ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.ChatRequest, len(m.ChatRequests))
	copy(out, m.ChatRequests)
	return out
}
