package common

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/veiloq/bybit-client/pkg/logging"
	"github.com/veiloq/bybit-client/pkg/ratelimit"
)

// redactedHeaders are never written to the log.
var redactedHeaders = []string{
	"X-BAPI-API-KEY",
	"X-BAPI-SIGN",
	"Authorization",
}

// DebugClientConfig holds configuration for the HTTP debug client
type DebugClientConfig struct {
	*ClientConfig

	LogRequestBody  bool
	LogResponseBody bool

	// MaxBodyLogSize caps how much of a body is logged.
	MaxBodyLogSize int
}

// DefaultDebugConfig returns a default debug client configuration
func DefaultDebugConfig() *DebugClientConfig {
	return &DebugClientConfig{
		ClientConfig:    DefaultConfig(),
		LogRequestBody:  true,
		LogResponseBody: true,
		MaxBodyLogSize:  4096,
	}
}

// NewDebugHTTPClient creates an HTTP client that logs every request and
// response at debug level. Credential-bearing headers are redacted.
func NewDebugHTTPClient(config *DebugClientConfig) HTTPClient {
	if config == nil {
		config = DefaultDebugConfig()
	}
	if config.ClientConfig == nil {
		config.ClientConfig = DefaultConfig()
	}
	if config.ClientConfig.Logger == nil {
		config.ClientConfig.Logger = logging.NewZapLogger(
			logging.WithDebugLevel(),
			logging.WithDevelopmentMode(),
		)
	}

	return &debugClient{
		client: NewHTTPClient(config.ClientConfig).(*client),
		config: config,
	}
}

type debugClient struct {
	client *client
	config *DebugClientConfig
}

// Do implements HTTPClient interface with debug logging
func (c *debugClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	start := time.Now()
	c.logRequest(req)

	resp, err := c.client.Do(ctx, req)

	duration := time.Since(start)
	if err != nil {
		c.client.logger.Debug("request failed",
			logging.String("method", req.Method),
			logging.String("url", req.URL.String()),
			logging.Duration("duration", duration),
			logging.Error(err),
		)
		return nil, err
	}

	c.logResponse(resp, duration)
	return resp, nil
}

// SetRateLimit implements HTTPClient interface
func (c *debugClient) SetRateLimit(limit ratelimit.Rate) error {
	return c.client.SetRateLimit(limit)
}

func (c *debugClient) logRequest(req *http.Request) {
	fields := []logging.Field{
		logging.String("method", req.Method),
		logging.String("url", req.URL.String()),
	}

	for name, values := range req.Header {
		if isRedacted(name) {
			fields = append(fields, logging.String("header."+name, "[redacted]"))
			continue
		}
		if len(values) > 0 {
			fields = append(fields, logging.String("header."+name, values[0]))
		}
	}

	if c.config.LogRequestBody && req.Body != nil {
		body, err := io.ReadAll(req.Body)
		if err == nil {
			req.Body = io.NopCloser(bytes.NewReader(body))
			fields = append(fields, logging.String("body", truncate(body, c.config.MaxBodyLogSize)))
		}
	}

	c.client.logger.Debug("outgoing request", fields...)
}

func (c *debugClient) logResponse(resp *http.Response, duration time.Duration) {
	fields := []logging.Field{
		logging.Int("status", resp.StatusCode),
		logging.Duration("duration", duration),
	}

	if c.config.LogResponseBody && resp.Body != nil {
		body, err := io.ReadAll(resp.Body)
		if err == nil {
			resp.Body = io.NopCloser(bytes.NewReader(body))
			fields = append(fields, logging.String("body", truncate(body, c.config.MaxBodyLogSize)))
		}
	}

	c.client.logger.Debug("incoming response", fields...)
}

func isRedacted(name string) bool {
	for _, h := range redactedHeaders {
		if http.CanonicalHeaderKey(h) == http.CanonicalHeaderKey(name) {
			return true
		}
	}
	return false
}

func truncate(body []byte, max int) string {
	if max > 0 && len(body) > max {
		return string(body[:max]) + "...(truncated)"
	}
	return string(body)
}
