package poller

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const maxResponseBodySize = 1 << 20 // 1MB

// connection pooling limits to prevent resource exhaustion when many
// widgets poll different hosts
const (
	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 10
	defaultMaxConnsPerHost     = 10
	defaultIdleConnTimeout     = 60 * time.Second
)

// Proxy is the transport collaborator the fetch client delegates to.
//
// Fetch retrieves the raw endpoint URL and returns the response body
// (limited to 1MB) and HTTP status code. A returned error means the
// request never produced a response; an unwanted status code is reported
// through the status return, not the error.
type Proxy interface {
	Fetch(ctx context.Context, rawURL string) (body []byte, statusCode int, err error)
}

// newPooledHTTPClient builds the shared http.Client configuration used by
// both proxy implementations.
func newPooledHTTPClient() *http.Client {
	return &http.Client{
		// no global timeout - callers apply per-request timeouts via context
		Transport: &http.Transport{
			MaxIdleConns:        defaultMaxIdleConns,
			MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
			MaxConnsPerHost:     defaultMaxConnsPerHost,
			IdleConnTimeout:     defaultIdleConnTimeout,
			DisableKeepAlives:   false,
		},
	}
}

// DirectProxy fetches endpoint URLs straight from the process.
//
// It backs the in-process scheduler and the dashboard's /api/proxy route,
// which exists so the browser can dodge cross-origin restrictions. The
// server-side scheduler uses DirectProxy as well instead of looping through
// its own HTTP listener.
type DirectProxy struct {
	httpClient *http.Client
}

// NewDirectProxy creates a [DirectProxy] with pooled connections.
func NewDirectProxy() *DirectProxy {
	return &DirectProxy{httpClient: newPooledHTTPClient()}
}

// Fetch performs a GET request against the raw endpoint URL.
func (p *DirectProxy) Fetch(ctx context.Context, rawURL string) ([]byte, int, error) {
	return doFetch(ctx, p.httpClient, rawURL)
}

// Close releases idle connections. Safe to call multiple times; the proxy
// remains usable afterwards.
func (p *DirectProxy) Close() {
	closeIdle(p.httpClient)
}

// HTTPProxy delegates fetching to an external proxy service, addressing the
// endpoint as a percent-encoded query parameter:
//
//	GET <base>?url=<percent-encoded endpoint>
//
// The proxy forwards to the real endpoint and relays its JSON body and
// status verbatim.
type HTTPProxy struct {
	base       string
	httpClient *http.Client
}

// NewHTTPProxy creates an [HTTPProxy] delegating to the given base URL.
func NewHTTPProxy(base string) *HTTPProxy {
	return &HTTPProxy{base: base, httpClient: newPooledHTTPClient()}
}

// Fetch requests the endpoint through the external proxy.
func (p *HTTPProxy) Fetch(ctx context.Context, rawURL string) ([]byte, int, error) {
	proxyURL := p.base + "?url=" + url.QueryEscape(rawURL)
	return doFetch(ctx, p.httpClient, proxyURL)
}

// Close releases idle connections.
func (p *HTTPProxy) Close() {
	closeIdle(p.httpClient)
}

// doFetch issues a GET request and reads the body with the size cap applied.
func doFetch(ctx context.Context, client *http.Client, target string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, resp.StatusCode, nil
}

func closeIdle(client *http.Client) {
	if client == nil {
		return
	}
	if transport, ok := client.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
}
