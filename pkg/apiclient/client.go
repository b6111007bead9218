// Package apiclient performs the single JSON-over-HTTP request a form submit
// needs: POST the field map as a JSON body and accept a 2xx response whose
// body is well-formed JSON. Everything else is an error.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
)

// Client posts form values to an endpoint.
type Client struct {
	endpoint string
	health   string
	http     *retryablehttp.Client
}

// Option configures a Client.
type Option func(*config)

type config struct {
	httpClient *http.Client
	retryMax   int
	retryWait  time.Duration
	timeout    time.Duration
	logger     *slog.Logger
	health     string
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) {
		c.httpClient = client
	}
}

// WithRetries retries transport failures and 5xx responses up to max times.
// The default is zero: a submit is a single request.
func WithRetries(max int, wait time.Duration) Option {
	return func(c *config) {
		if max >= 0 {
			c.retryMax = max
		}
		if wait > 0 {
			c.retryWait = wait
		}
	}
}

// WithTimeout bounds each request. Zero leaves requests unbounded.
func WithTimeout(timeout time.Duration) Option {
	return func(c *config) {
		c.timeout = timeout
	}
}

// WithLogger receives request and retry diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithHealthEndpoint sets the URL queried by Health.
func WithHealthEndpoint(url string) Option {
	return func(c *config) {
		c.health = strings.TrimSpace(url)
	}
}

// New returns a client posting to endpoint.
func New(endpoint string, opts ...Option) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("apiclient: endpoint is required")
	}
	cfg := &config{retryWait: 500 * time.Millisecond}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	rc := retryablehttp.NewClient()
	if cfg.httpClient != nil {
		clone := *cfg.httpClient
		rc.HTTPClient = &clone
	}
	if cfg.timeout > 0 {
		rc.HTTPClient.Timeout = cfg.timeout
	}
	rc.RetryMax = cfg.retryMax
	rc.RetryWaitMin = cfg.retryWait
	rc.RetryWaitMax = 4 * cfg.retryWait
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = nil
	if cfg.logger != nil {
		rc.Logger = cfg.logger
	}

	return &Client{
		endpoint: endpoint,
		health:   cfg.health,
		http:     rc,
	}, nil
}

// CloseIdleConnections releases pooled keep-alive connections.
func (c *Client) CloseIdleConnections() {
	c.http.HTTPClient.CloseIdleConnections()
}

// Endpoint reports the submit URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Submit posts values as JSON and returns the raw JSON response body.
func (c *Client) Submit(ctx context.Context, values map[string]string) (json.RawMessage, error) {
	if values == nil {
		values = map[string]string{}
	}
	payload, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("apiclient: encode request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("apiclient: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.do(req)
}

// HealthStatus is the payload of the service health endpoint.
type HealthStatus struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
	Timestamp   string `json:"timestamp"`
}

// Health queries the configured health endpoint.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	if c.health == "" {
		return HealthStatus{}, errors.New("apiclient: health endpoint is not configured")
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.health, nil)
	if err != nil {
		return HealthStatus{}, fmt.Errorf("apiclient: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return HealthStatus{}, err
	}
	var status HealthStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return HealthStatus{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return status, nil
}

func (c *Client) do(req *retryablehttp.Request) (json.RawMessage, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: body}
	}
	if !gjson.ValidBytes(body) {
		return nil, ErrMalformedResponse
	}
	return json.RawMessage(body), nil
}
