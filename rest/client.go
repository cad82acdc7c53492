package rest

import (
	"context"
	crand "crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/gaborage/go-restkit/internal/tracking"
	"github.com/gaborage/go-restkit/logger"
)

// client implements the Client interface. It holds no mutable state; the
// retry loop is a pure orchestration over the configured transport.
type client struct {
	transport Transport
	codec     Codec
	logger    logger.Logger
	config    *Config
}

// Ensure client implements the interface
var _ Client = (*client)(nil)

// NewClient creates a REST client with the default HTTP transport, JSON codec,
// and configuration.
func NewClient(log logger.Logger) Client {
	return NewBuilder(log).Build()
}

// Builder provides a fluent interface for configuring the REST client.
type Builder struct {
	config    *Config
	transport Transport
	codec     Codec
	logger    logger.Logger
}

// NewBuilder creates a new client builder.
func NewBuilder(log logger.Logger) *Builder {
	return &Builder{
		config: &Config{
			Timeout:            DefaultTimeout,
			MaxPayloadLogBytes: DefaultMaxPayloadLogBytes,
		},
		logger: log,
	}
}

// WithTransport sets the transport the client executes against.
func (b *Builder) WithTransport(t Transport) *Builder {
	b.transport = t
	return b
}

// WithCodec sets the codec used by the JSON entry points.
func (b *Builder) WithCodec(c Codec) *Builder {
	b.codec = c
	return b
}

// WithTimeout sets the default per-attempt timeout.
func (b *Builder) WithTimeout(timeout time.Duration) *Builder {
	b.config.Timeout = timeout
	return b
}

// WithRetryBackoff sets the base delay between checked-execution retries.
// Sleeps are exponential with full jitter. Zero disables pacing.
func (b *Builder) WithRetryBackoff(base time.Duration) *Builder {
	b.config.RetryBackoff = base
	return b
}

// WithBasicAuth sets client-level basic authentication credentials.
func (b *Builder) WithBasicAuth(username, password string) *Builder {
	b.config.BasicAuth = &BasicAuth{Username: username, Password: password}
	return b
}

// WithDefaultHeader adds a header sent with every request, ahead of
// request-specific headers.
func (b *Builder) WithDefaultHeader(name, value string) *Builder {
	b.config.DefaultHeaders = append(b.config.DefaultHeaders, Header{Name: name, Value: value})
	return b
}

// WithPayloadLogging toggles debug-level payload previews.
func (b *Builder) WithPayloadLogging(enabled bool) *Builder {
	b.config.LogPayloads = enabled
	return b
}

// WithMaxPayloadLogBytes bounds logged payload previews.
func (b *Builder) WithMaxPayloadLogBytes(n int) *Builder {
	b.config.MaxPayloadLogBytes = n
	return b
}

// Build creates the REST client with the configured options.
func (b *Builder) Build() Client {
	transport := b.transport
	if transport == nil {
		transport = NewHTTPTransport()
	}
	codec := b.codec
	if codec == nil {
		codec = DefaultCodec
	}
	return &client{
		transport: transport,
		codec:     codec,
		logger:    b.logger,
		config:    b.config,
	}
}

// Execute performs a single attempt against the transport and returns its
// result unchanged. Non-2xx statuses are not errors here.
func (c *client) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := c.validateRequest(req); err != nil {
		return nil, err
	}

	prepared := c.prepareRequest(req)
	callID := uuid.NewString()
	c.logRequest(prepared, callID)

	start := time.Now()
	resp, err := c.transport.Execute(ctx, prepared)
	elapsed := time.Since(start)

	logger.IncrementRESTCounter(ctx)
	logger.AddRESTElapsed(ctx, elapsed.Nanoseconds())

	if err != nil {
		tracking.RecordCall(ctx, prepared.Method, statusOf(err), errorKindOf(err), elapsed)
		c.logFailure(prepared, callID, err)
		return nil, err
	}

	if resp.Stats.Attempts == 0 {
		resp.Stats.Attempts = 1
	}
	tracking.RecordCall(ctx, prepared.Method, resp.StatusCode, "", elapsed)
	c.logResponse(resp, callID)
	return resp, nil
}

// ExecuteChecked loops attempts according to the request's retry policy.
// Transport-level failures propagate immediately and are never retried; only
// HTTP-status rejections enrolled in the policy trigger another attempt.
func (c *client) ExecuteChecked(ctx context.Context, req *Request) (*Response, error) {
	var attempts int64
	for attempt := 0; ; attempt++ {
		attempts++

		resp, err := c.Execute(ctx, req)
		if err != nil {
			return nil, err
		}

		if resp.IsSuccess() {
			resp.Stats.Attempts = attempts
			tracking.RecordAttempts(ctx, req.Method, attempts)
			return resp, nil
		}

		if req.Retry.allows(resp.StatusCode) && attempt < req.Retry.MaxRetries {
			c.sleepBackoff(attempt)
			continue
		}

		tracking.RecordAttempts(ctx, req.Method, attempts)
		return nil, NewRejectedError(
			resp.StatusCode,
			fmt.Sprintf("request rejected with status %d", resp.StatusCode),
			isRetryableStatus(resp.StatusCode),
		)
	}
}

// ExecuteJSONChecked runs the checked loop and decodes the successful body
// into out. Decode failures surface as Parse errors and are never retried.
func (c *client) ExecuteJSONChecked(ctx context.Context, req *Request, out any) error {
	resp, err := c.ExecuteChecked(ctx, req)
	if err != nil {
		return err
	}
	if err := c.codec.Decode(resp.Body, out); err != nil {
		return NewParseError("failed to decode response body", err)
	}
	return nil
}

// ExecuteJSONDirect performs a single attempt and decodes whatever body came
// back, regardless of status.
func (c *client) ExecuteJSONDirect(ctx context.Context, req *Request, out any) error {
	resp, err := c.Execute(ctx, req)
	if err != nil {
		return err
	}
	if err := c.codec.Decode(resp.Body, out); err != nil {
		return NewParseError("failed to decode response body", err)
	}
	return nil
}

// GetURL performs a single-attempt GET against url.
func (c *client) GetURL(ctx context.Context, url string) (*Response, error) {
	return c.Execute(ctx, Get(url))
}

// Post performs a single-attempt POST with a raw body.
func (c *client) Post(ctx context.Context, url string, body []byte) (*Response, error) {
	return c.Execute(ctx, Post(url).WithBody(body))
}

// PostJSON encodes payload with the client codec and POSTs it.
func (c *client) PostJSON(ctx context.Context, url string, payload any) (*Response, error) {
	body, err := c.codec.Encode(payload)
	if err != nil {
		return nil, NewParseError("failed to encode request payload", err)
	}
	return c.Post(ctx, url, body)
}

// validateRequest validates the request before sending.
func (c *client) validateRequest(req *Request) error {
	if req == nil {
		return NewInternalError("request cannot be nil", nil)
	}
	if req.URL == "" {
		return NewInternalError("request URL cannot be empty", nil)
	}
	if req.Method == "" {
		return NewInternalError("request method cannot be empty", nil)
	}
	return nil
}

// prepareRequest returns a shallow copy with client defaults merged in. The
// caller's request is never mutated.
func (c *client) prepareRequest(req *Request) *Request {
	prepared := *req

	if len(c.config.DefaultHeaders) > 0 {
		headers := make([]Header, 0, len(c.config.DefaultHeaders)+len(req.Headers))
		headers = append(headers, c.config.DefaultHeaders...)
		headers = append(headers, req.Headers...)
		prepared.Headers = headers
	}
	if prepared.Timeout <= 0 {
		prepared.Timeout = c.config.Timeout
	}
	if prepared.Auth == nil {
		prepared.Auth = c.config.BasicAuth
	}
	return &prepared
}

// sleepBackoff pauses between retry attempts when pacing is configured.
func (c *client) sleepBackoff(attempt int) {
	if delay := c.backoffDelay(attempt); delay > 0 {
		time.Sleep(delay)
	}
}

// backoffDelay returns the exponential backoff delay for the given attempt,
// using RetryBackoff as the base and capping to a reasonable maximum.
func (c *client) backoffDelay(attempt int) time.Duration {
	base := c.config.RetryBackoff
	if base <= 0 {
		return 0
	}
	// Cap attempt to avoid overflow when computing multiplier
	if attempt > 20 { // 2^20 = 1,048,576
		attempt = 20
	}
	// Exponential backoff: base * 2^attempt
	mult := 1 << attempt
	d := base * time.Duration(mult)
	// Cap to 30 seconds to avoid excessive sleeps
	const maxBackoff = 30 * time.Second
	if d > maxBackoff {
		d = maxBackoff
	}
	// Full jitter: random duration in [0, d)
	maxN := big.NewInt(int64(d))
	n, err := crand.Int(crand.Reader, maxN)
	if err != nil {
		// On RNG failure, fall back to the full delay
		return d
	}
	return time.Duration(n.Int64())
}

func isRetryableStatus(code int) bool {
	return code >= 500 && code < 600
}

func statusOf(err error) int {
	var restErr *RestError
	if errors.As(err, &restErr) {
		return restErr.StatusCode()
	}
	return 0
}

func errorKindOf(err error) string {
	if kind, ok := KindOf(err); ok {
		return string(kind)
	}
	return "unknown"
}
