package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/stwalsh4118/akmovies/internal/logger"
)

const (
	maxResponseBytes  = 8 << 20
	maxErrorBodyBytes = 512
	defaultRetryDelay = 200 * time.Millisecond
)

// Options configures an upstream Client
type Options struct {
	Timeout          time.Duration
	RetryAttempts    uint
	RetryDelay       time.Duration
	BreakerThreshold int
	BreakerReset     time.Duration
	HTTPClient       *http.Client
}

// Client performs JSON requests against one upstream service with retries
// and a circuit breaker
type Client struct {
	service  string
	http     *http.Client
	breaker  *CircuitBreaker
	attempts uint
	delay    time.Duration
}

// NewClient creates a Client for the named service
func NewClient(service string, opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.RetryAttempts == 0 {
		opts.RetryAttempts = 1
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultRetryDelay
	}
	if opts.BreakerThreshold < 1 {
		opts.BreakerThreshold = 5
	}
	if opts.BreakerReset <= 0 {
		opts.BreakerReset = 30 * time.Second
	}

	return &Client{
		service:  service,
		http:     httpClient,
		breaker:  NewCircuitBreaker(opts.BreakerThreshold, opts.BreakerReset),
		attempts: opts.RetryAttempts,
		delay:    opts.RetryDelay,
	}
}

// Service returns the service name used in errors and logs
func (c *Client) Service() string {
	return c.service
}

// BreakerState returns the current breaker state
func (c *Client) BreakerState() CircuitState {
	return c.breaker.GetState()
}

// GetJSON issues a GET to url and decodes the JSON body into dest
func (c *Client) GetJSON(ctx context.Context, url string, dest any) error {
	return c.do(ctx, http.MethodGet, url, nil, dest)
}

// PostJSON issues a POST with body encoded as JSON and decodes the reply into dest
func (c *Client) PostJSON(ctx context.Context, url string, body any, dest any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", c.service, err)
	}
	return c.do(ctx, http.MethodPost, url, payload, dest)
}

// do runs one logical request. Retries happen inside a single breaker call;
// only retryable failures count against the breaker.
func (c *Client) do(ctx context.Context, method, url string, payload []byte, dest any) error {
	var permanent error

	err := c.breaker.Call(func() error {
		err := retry.Do(
			func() error {
				return c.attempt(ctx, method, url, payload, dest)
			},
			retry.Context(ctx),
			retry.Attempts(c.attempts),
			retry.Delay(c.delay),
			retry.DelayType(retry.BackOffDelay),
			retry.LastErrorOnly(true),
			retry.RetryIf(isRetryable),
			retry.OnRetry(func(n uint, err error) {
				logger.Log.Warn().
					Str("service", c.service).
					Uint("attempt", n+1).
					Err(err).
					Msg("Retrying upstream request")
			}),
		)
		if err != nil && !isRetryable(err) {
			permanent = err
			return nil
		}
		return err
	})

	if permanent != nil {
		return permanent
	}
	if errors.Is(err, ErrCircuitOpen) {
		return fmt.Errorf("%s: %w", c.service, ErrCircuitOpen)
	}
	return err
}

func (c *Client) attempt(ctx context.Context, method, url string, payload []byte, dest any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return retry.Unrecoverable(fmt.Errorf("failed to build %s request: %w", c.service, err))
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", c.service, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return &StatusError{Service: c.service, StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", c.service, err)
	}
	if len(data) > maxResponseBytes {
		return ErrResponseTooLarge
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return &decodeError{err: err}
	}
	return nil
}
