// Package restclient is the JSON-over-HTTP transport shared by the storefront's
// outbound collaborators. Every call runs through a circuit breaker.
package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	pkgerrors "github.com/pulseras/storefront-backend/pkg/errors"
)

const (
	defaultTimeout          = 10 * time.Second
	defaultBreakerFailures  = 5
	defaultBreakerOpenDelay = 30 * time.Second
)

const errorBodyReadLimit int64 = 1024

// Client issues JSON requests against one base URL.
type Client struct {
	name       string
	httpClient *http.Client
	baseURL    string
	apiKey     string
	failures   uint32
	openDelay  time.Duration
	onState    func(name string, from, to gobreaker.State)
	breaker    *gobreaker.CircuitBreaker[[]byte]
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// WithAPIKey sends the key as a bearer token.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = strings.TrimSpace(key)
	}
}

// WithBreaker tunes how many consecutive failures open the breaker and how long it stays open.
func WithBreaker(failures uint32, openDelay time.Duration) Option {
	return func(c *Client) {
		if failures > 0 {
			c.failures = failures
		}
		if openDelay > 0 {
			c.openDelay = openDelay
		}
	}
}

// WithStateChange observes breaker transitions.
func WithStateChange(fn func(name string, from, to gobreaker.State)) Option {
	return func(c *Client) {
		c.onState = fn
	}
}

// New builds a client. name labels the breaker.
func New(name, baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("%s base url is required", name)
	}

	client := &Client{
		name:       name,
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: defaultTimeout},
		failures:   defaultBreakerFailures,
		openDelay:  defaultBreakerOpenDelay,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	failures := client.failures
	client.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    name,
		Timeout: client.openDelay,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: client.onState,
		IsSuccessful:  isBackendHealthy,
	})
	return client, nil
}

// isBackendHealthy keeps client-side outcomes like 404 from tripping the breaker.
func isBackendHealthy(err error) bool {
	if err == nil {
		return true
	}
	return pkgerrors.IsCode(err, pkgerrors.CodeNotFound) || pkgerrors.IsCode(err, pkgerrors.CodeValidation)
}

// State reports the breaker state.
func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}

// Do sends body (JSON encoded when non-nil) and returns the raw response payload of a 2xx reply.
func (c *Client) Do(ctx context.Context, method, path string, body any) ([]byte, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "rest client not configured")
	}

	payload, err := c.breaker.Execute(func() ([]byte, error) {
		return c.do(ctx, method, path, body)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, c.name+" unavailable")
	}
	return payload, err
}

func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal "+c.name+" request")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+strings.TrimLeft(path, "/"), reader)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build "+c.name+" request")
	}
	req.Header.Set("Accept", "application/json")
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute "+c.name+" request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, c.name+" resource not found")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("%s returned %d: %s", c.name, resp.StatusCode, strings.TrimSpace(string(snippet))))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read "+c.name+" response")
	}
	return data, nil
}

// DecodeData unmarshals payload into dst, unwrapping a {"data": ...} envelope when present.
func DecodeData(payload []byte, dst any) error {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(payload, &envelope); err == nil && len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		payload = envelope.Data
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode response")
	}
	return nil
}
