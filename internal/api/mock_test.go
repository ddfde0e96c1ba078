package api

import (
	"io"
	"net/url"
	"strings"
	"sync"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/bandwidth"
)

// mockHttpClient is a tls_client.HttpClient whose Do is scripted per test
type mockHttpClient struct {
	mu       sync.Mutex
	doFunc   func(req *fhttp.Request) (*fhttp.Response, error)
	requests []*fhttp.Request
	bodies   []string
}

var _ tls_client.HttpClient = (*mockHttpClient)(nil)

func (m *mockHttpClient) Do(req *fhttp.Request) (*fhttp.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		m.bodies = append(m.bodies, string(data))
	} else {
		m.bodies = append(m.bodies, "")
	}
	fn := m.doFunc
	m.mu.Unlock()

	if fn == nil {
		return jsonResponse(200, `{}`), nil
	}
	return fn(req)
}

func (m *mockHttpClient) lastRequest() (*fhttp.Request, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil, ""
	}
	return m.requests[len(m.requests)-1], m.bodies[len(m.bodies)-1]
}

func (m *mockHttpClient) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func (m *mockHttpClient) GetCookies(u *url.URL) []*fhttp.Cookie                { return nil }
func (m *mockHttpClient) SetCookies(u *url.URL, cookies []*fhttp.Cookie)       {}
func (m *mockHttpClient) SetCookieJar(jar fhttp.CookieJar)                     {}
func (m *mockHttpClient) GetCookieJar() fhttp.CookieJar                        { return nil }
func (m *mockHttpClient) SetProxy(proxyUrl string) error                       { return nil }
func (m *mockHttpClient) GetProxy() string                                     { return "" }
func (m *mockHttpClient) SetFollowRedirect(followRedirect bool)                {}
func (m *mockHttpClient) GetFollowRedirect() bool                              { return false }
func (m *mockHttpClient) CloseIdleConnections()                                {}
func (m *mockHttpClient) GetBandwidthTracker() bandwidth.BandwidthTracker      { return nil }
func (m *mockHttpClient) Get(url string) (*fhttp.Response, error)              { return nil, nil }
func (m *mockHttpClient) Head(url string) (*fhttp.Response, error)             { return nil, nil }
func (m *mockHttpClient) Post(url, ct string, body io.Reader) (*fhttp.Response, error) {
	return nil, nil
}

// jsonResponse builds a response with a JSON body
func jsonResponse(status int, body string) *fhttp.Response {
	return &fhttp.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     fhttp.Header{"Content-Type": {"application/json"}},
	}
}

// timeoutErr mimics a transport timeout
type timeoutErr struct{}

func (timeoutErr) Error() string   { return "Client.Timeout exceeded while awaiting headers" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }
