// Package common provides the shared HTTP transport used by the REST
// client. It layers retries and rate limiting over net/http and exposes a
// narrow interface so endpoint code never touches the raw client.
package common

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go"
	"github.com/veiloq/bybit-client/pkg/logging"
	"github.com/veiloq/bybit-client/pkg/ratelimit"
)

// HTTPClient defines the interface for making HTTP requests
type HTTPClient interface {
	// Do executes an HTTP request with retries and rate limiting
	Do(ctx context.Context, req *http.Request) (*http.Response, error)

	// SetRateLimit updates the rate limiter configuration
	SetRateLimit(limit ratelimit.Rate) error
}

// ClientConfig holds configuration for the HTTP client
type ClientConfig struct {
	Timeout   time.Duration
	RateLimit ratelimit.Rate

	// Retry configuration. Requests are retried on transport errors and on
	// 5xx/429 responses.
	MaxRetries uint
	RetryDelay time.Duration

	Logger logging.Logger

	// Transport overrides the default http.RoundTripper. Used by tests.
	Transport http.RoundTripper
}

// DefaultConfig returns a default client configuration
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		Timeout: 30 * time.Second,
		RateLimit: ratelimit.Rate{
			Limit:    10,
			Interval: time.Second,
		},
		MaxRetries: 3,
		RetryDelay: time.Second,
		Logger:     logging.NewNopLogger(),
	}
}

// client implements the HTTPClient interface
type client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    ratelimit.RateLimiter
	logger     logging.Logger
}

// NewHTTPClient creates a new HTTP client with the given configuration
func NewHTTPClient(config *ClientConfig) HTTPClient {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Logger == nil {
		config.Logger = logging.NewNopLogger()
	}

	return &client{
		config: config,
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: config.Transport,
		},
		limiter: ratelimit.NewTokenBucketLimiter(config.RateLimit),
		logger:  config.Logger,
	}
}

// Do implements HTTPClient interface
func (c *client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	var resp *http.Response

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait error: %w", err)
	}

	// Buffer the body up front so each retry attempt sends identical bytes.
	var body []byte
	if req.Body != nil {
		var err error
		body, err = io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("error reading request body: %w", err)
		}
	}

	err := retry.Do(
		func() error {
			reqClone := req.Clone(ctx)
			if body != nil {
				reqClone.Body = io.NopCloser(bytes.NewReader(body))
			}

			var err error
			resp, err = c.httpClient.Do(reqClone)
			if err != nil {
				return fmt.Errorf("http request error: %w", err)
			}

			if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
				resp.Body.Close()
				return fmt.Errorf("retryable status code: %d", resp.StatusCode)
			}

			return nil
		},
		retry.Attempts(c.config.MaxRetries),
		retry.Delay(c.config.RetryDelay),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("retrying request",
				logging.Int("attempt", int(n)),
				logging.String("url", req.URL.String()),
				logging.Error(err),
			)
		}),
	)

	if err != nil {
		return nil, fmt.Errorf("request failed after %d attempts: %w", c.config.MaxRetries, err)
	}

	return resp, nil
}

// SetRateLimit implements HTTPClient interface
func (c *client) SetRateLimit(limit ratelimit.Rate) error {
	return c.limiter.SetLimit(limit)
}
