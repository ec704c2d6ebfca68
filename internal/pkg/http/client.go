package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"strings"
	"time"

	"github.com/scynett/momopay/internal/pkg/circuitbreaker"
	"github.com/scynett/momopay/internal/pkg/logger"
	nrpkg "github.com/scynett/momopay/internal/pkg/newrelic"
	"github.com/scynett/momopay/internal/pkg/retry"
)

// DefaultTimeout for HTTP requests
const DefaultTimeout = 30 * time.Second

// HTTPError is returned for non-2xx responses. Body holds the raw response body.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error: %d %s", e.StatusCode, nethttp.StatusText(e.StatusCode))
}

// Options configures a Client
type Options struct {
	Name       string
	BaseURL    string
	Username   string // Basic auth user, skipped when blank
	Password   string
	Timeout    time.Duration
	Retry      retry.Config
	Breaker    circuitbreaker.Config
	HTTPClient *nethttp.Client
	Headers    map[string]string
}

// Client is a JSON HTTP client with basic auth, retries and a circuit breaker
type Client struct {
	name     string
	baseURL  string
	username string
	password string
	headers  map[string]string
	client   *nethttp.Client
	retrier  *retry.Retrier
	breaker  *circuitbreaker.CircuitBreaker
}

// NewClient creates a client for opts.BaseURL
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &nethttp.Client{Timeout: timeout}
	}

	retryConfig := opts.Retry
	if retryConfig.Retryable == nil {
		retryConfig.Retryable = IsRetryable
	}

	breakerConfig := opts.Breaker
	breakerConfig.Name = opts.Name
	if breakerConfig.IsFailure == nil {
		breakerConfig.IsFailure = IsServerFailure
	}

	return &Client{
		name:     opts.Name,
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		username: opts.Username,
		password: opts.Password,
		headers:  opts.Headers,
		client:   httpClient,
		retrier:  retry.New(opts.Name, retryConfig),
		breaker:  circuitbreaker.New(breakerConfig),
	}
}

// BreakerState exposes the circuit state for health reporting
func (c *Client) BreakerState() circuitbreaker.State {
	return c.breaker.State()
}

// GetJSON performs a GET and decodes a 2xx JSON body into out
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.DoJSON(ctx, nethttp.MethodGet, path, query, nil, out)
}

// PostJSON performs a POST with body marshalled as JSON and decodes a 2xx body into out
func (c *Client) PostJSON(ctx context.Context, path string, body, out interface{}) error {
	return c.DoJSON(ctx, nethttp.MethodPost, path, nil, body, out)
}

// DoJSON sends the request through the circuit breaker and retrier.
// Non-2xx responses surface as *HTTPError.
func (c *Client) DoJSON(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var respBody []byte
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.retrier.Execute(ctx, func(ctx context.Context) error {
			var attemptErr error
			respBody, attemptErr = c.send(ctx, method, target, payload)
			return attemptErr
		})
	})
	if err != nil {
		return err
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", c.name, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, target string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := nethttp.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := nrpkg.InstrumentHTTPRequest(ctx, req, func() (*nethttp.Response, error) {
		return c.client.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", c.name, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", c.name, err)
	}

	logger.Debug("HTTP request completed",
		logger.String("client", c.name),
		logger.String("method", method),
		logger.String("path", req.URL.Path),
		logger.Int("status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return respBody, &HTTPError{StatusCode: resp.StatusCode, Body: respBody}
	}
	return respBody, nil
}

// IsRetryable retries transport errors, 408, 429 and 5xx
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == nethttp.StatusRequestTimeout ||
			httpErr.StatusCode == nethttp.StatusTooManyRequests ||
			httpErr.StatusCode >= 500
	}
	return true
}

// IsServerFailure counts transport errors and 5xx against the circuit
func IsServerFailure(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode >= 500
	}
	return true
}
