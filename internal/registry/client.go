// Package registry provides the shared HTTP base client for the CRISTIN
// registry API. Typed endpoint clients embed it to share rate limiting,
// request headers, and response size guards.
package registry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the CRISTIN v2 API base URL.
	DefaultBaseURL = "https://api.cristin.no/v2"
	// DefaultUserAgent identifies this application to the registry.
	DefaultUserAgent = "cristin-report"

	// DefaultRate is the number of requests per second sent to the registry.
	DefaultRate = 5

	// DefaultTimeout bounds every single request.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxResponseBytes is the maximum response body size (50 MB).
	DefaultMaxResponseBytes int64 = 50 * 1024 * 1024
)

// BaseClient is a shared HTTP client for the registry API with rate
// limiting and response size guards. It never retries: a failed request
// is reported to the caller as an *UpstreamError.
type BaseClient struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
	Limiter    *rate.Limiter
	MaxBytes   int64
}

// Option configures a BaseClient.
type Option func(*BaseClient)

// WithBaseURL sets the base URL for requests.
func WithBaseURL(u string) Option {
	return func(c *BaseClient) { c.BaseURL = u }
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *BaseClient) { c.UserAgent = ua }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *BaseClient) { c.HTTPClient = hc }
}

// WithTimeout sets the per-request timeout on the underlying HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *BaseClient) {
		if d > 0 {
			c.HTTPClient.Timeout = d
		}
	}
}

// WithRate sets the request rate in requests per second.
func WithRate(perSecond float64) Option {
	return func(c *BaseClient) {
		if perSecond > 0 {
			c.Limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithMaxResponseBytes sets the maximum allowed response body size.
func WithMaxResponseBytes(n int64) Option {
	return func(c *BaseClient) { c.MaxBytes = n }
}

// NewBaseClient creates a new registry base client with the given options.
func NewBaseClient(opts ...Option) *BaseClient {
	c := &BaseClient{
		BaseURL:   DefaultBaseURL,
		UserAgent: DefaultUserAgent,
		MaxBytes:  DefaultMaxResponseBytes,
		Limiter:   rate.NewLimiter(rate.Limit(DefaultRate), 1),
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DoGet performs a rate-limited GET request against endpoint (relative to
// BaseURL) and returns the response body. Transport failures and non-2xx
// responses are returned as *UpstreamError.
func (c *BaseClient) DoGet(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	u, err := url.JoinPath(c.BaseURL, endpoint)
	if err != nil {
		return nil, fmt.Errorf("building URL: %w", err)
	}
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	// Wait for rate limiter token (respects context cancellation).
	if err := c.Limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	// Guard against unbounded reads: read up to MaxBytes+1 to detect oversized responses.
	r := io.LimitReader(resp.Body, c.MaxBytes+1)
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, &UpstreamError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading response: %w", err)}
	}
	if int64(len(body)) > c.MaxBytes {
		return nil, &UpstreamError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("response exceeds maximum size of %d bytes", c.MaxBytes)}
	}

	return body, nil
}
