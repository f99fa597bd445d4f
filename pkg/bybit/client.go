// Package bybit is a typed client for the Bybit v5 REST API. It covers
// market data, order management and account endpoints, and signs private
// requests with the HMAC-SHA256 scheme the exchange verifies server-side.
package bybit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/veiloq/bybit-client/pkg/common"
	"github.com/veiloq/bybit-client/pkg/logging"
	"github.com/veiloq/bybit-client/pkg/ratelimit"
)

// Base URLs for the production and test environments.
const (
	MainnetBaseURL = "https://api.bybit.com"
	TestnetBaseURL = "https://api-testnet.bybit.com"
)

// Client is a Bybit v5 REST API client. It is safe for concurrent use:
// all fields are set at construction and never mutated afterwards.
type Client struct {
	baseURL    string
	http       common.HTTPClient
	creds      Credentials
	recvWindow int64
	logger     logging.Logger

	// now supplies the per-request timestamp; replaced in tests.
	now func() time.Time
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	baseURL    string
	creds      Credentials
	recvWindow int64
	timeout    time.Duration
	rateLimit  ratelimit.Rate
	maxRetries uint
	logger     logging.Logger
	httpClient common.HTTPClient
}

// WithBaseURL points the client at a non-default environment, e.g.
// bybit.TestnetBaseURL.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) { o.baseURL = baseURL }
}

// WithCredentials supplies the API key pair used to sign private requests.
func WithCredentials(creds Credentials) Option {
	return func(o *clientOptions) { o.creds = creds }
}

// WithRecvWindow overrides the default clock-skew tolerance of 5000 ms.
func WithRecvWindow(ms int64) Option {
	return func(o *clientOptions) { o.recvWindow = ms }
}

// WithTimeout overrides the default HTTP timeout of 30 seconds.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) { o.timeout = timeout }
}

// WithRateLimit overrides the default transport pacing of 10 requests per
// second.
func WithRateLimit(rate ratelimit.Rate) Option {
	return func(o *clientOptions) { o.rateLimit = rate }
}

// WithLogger attaches a logger; the default discards everything.
func WithLogger(logger logging.Logger) Option {
	return func(o *clientOptions) { o.logger = logger }
}

// WithHTTPClient replaces the whole transport. Useful for tests and for
// callers that need the debug transport from pkg/common.
func WithHTTPClient(httpClient common.HTTPClient) Option {
	return func(o *clientOptions) { o.httpClient = httpClient }
}

// NewClient creates a client for the production environment.
//
// Example:
//
//	creds, err := bybit.CredentialsFromEnv()
//	if err != nil {
//		log.Fatal(err)
//	}
//	client := bybit.NewClient(
//		bybit.WithBaseURL(bybit.TestnetBaseURL),
//		bybit.WithCredentials(creds),
//	)
func NewClient(opts ...Option) *Client {
	options := &clientOptions{
		baseURL:    MainnetBaseURL,
		recvWindow: DefaultRecvWindow,
		timeout:    30 * time.Second,
		rateLimit:  ratelimit.Rate{Limit: 10, Interval: time.Second},
		maxRetries: 3,
		logger:     logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(options)
	}

	httpClient := options.httpClient
	if httpClient == nil {
		httpClient = common.NewHTTPClient(&common.ClientConfig{
			Timeout:    options.timeout,
			RateLimit:  options.rateLimit,
			MaxRetries: options.maxRetries,
			RetryDelay: time.Second,
			Logger:     options.logger,
		})
	}

	return &Client{
		baseURL:    options.baseURL,
		http:       httpClient,
		creds:      options.creds,
		recvWindow: options.recvWindow,
		logger:     options.logger,
		now:        time.Now,
	}
}

// HasCredentials reports whether the client can call private endpoints.
func (c *Client) HasCredentials() bool {
	return c.creds.valid()
}

// requireAuth guards private endpoints before any network call.
func (c *Client) requireAuth() error {
	if !c.creds.valid() {
		return ErrMissingCredentials
	}
	return nil
}

// get performs a GET request and decodes the result out of the response
// envelope. When credentials are configured the request is signed over the
// encoded query string, which is exactly what is placed on the URL.
func get[T any](ctx context.Context, c *Client, path string, query url.Values) (*T, error) {
	encoded := query.Encode()
	rawURL := c.baseURL + path
	if encoded != "" {
		rawURL += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	if err := c.attachAuth(req, encoded); err != nil {
		return nil, err
	}

	return do[T](ctx, c, req)
}

// post performs a POST request with a JSON body. The body is marshaled
// once; the signature covers those exact bytes.
func post[T any](ctx context.Context, c *Client, path string, body any) (*T, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if err := c.attachAuth(req, string(payload)); err != nil {
		return nil, err
	}

	return do[T](ctx, c, req)
}

// attachAuth signs the request when credentials are configured. A fresh
// timestamp is read per request; the server rejects stale ones.
func (c *Client) attachAuth(req *http.Request, payload string) error {
	if !c.creds.valid() {
		return nil
	}

	headers, err := Sign(c.creds, SignableRequest{
		Timestamp:  c.now().UnixMilli(),
		RecvWindow: c.recvWindow,
		Payload:    payload,
	})
	if err != nil {
		return err
	}

	for name, values := range headers {
		req.Header[name] = values
	}
	return nil
}

func do[T any](ctx context.Context, c *Client, req *http.Request) (*T, error) {
	c.logger.Debug("sending request",
		logging.String("method", req.Method),
		logging.String("path", req.URL.Path),
	)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var envelope response[T]
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if envelope.RetCode != 0 {
		return nil, &APIError{RetCode: envelope.RetCode, RetMsg: envelope.RetMsg}
	}

	return &envelope.Result, nil
}
