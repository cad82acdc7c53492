package rest

import (
	"context"
	nethttp "net/http"
	"time"
)

const (
	// DefaultTimeout is the per-attempt timeout applied when a request does not set one.
	DefaultTimeout = 2 * time.Second

	// DefaultMaxPayloadLogBytes is the default payload preview limit for debug logging.
	DefaultMaxPayloadLogBytes = 1024
)

// Client defines the REST client interface for executing requests against a Transport.
type Client interface {
	// Execute performs a single attempt and returns the transport result unchanged.
	// Non-2xx statuses are not errors at this level.
	Execute(ctx context.Context, req *Request) (*Response, error)
	// ExecuteChecked loops attempts according to the request's retry policy and
	// classifies terminal non-2xx responses as Rejected errors.
	ExecuteChecked(ctx context.Context, req *Request) (*Response, error)
	// ExecuteJSONChecked behaves like ExecuteChecked and decodes the body into out
	// on success. Decode failures surface as Parse errors and are never retried.
	ExecuteJSONChecked(ctx context.Context, req *Request, out any) error
	// ExecuteJSONDirect performs a single attempt and decodes the body into out
	// regardless of status.
	ExecuteJSONDirect(ctx context.Context, req *Request, out any) error
	// GetURL performs a single-attempt GET against url.
	GetURL(ctx context.Context, url string) (*Response, error)
	// Post performs a single-attempt POST with a raw body.
	Post(ctx context.Context, url string, body []byte) (*Response, error)
	// PostJSON encodes payload with the client codec and POSTs it.
	PostJSON(ctx context.Context, url string, payload any) (*Response, error)
}

// Transport is the send/receive boundary the client depends on. The
// network-backed implementation and the resttest engine both satisfy it.
type Transport interface {
	Execute(ctx context.Context, req *Request) (*Response, error)
}

// RawTransport is an optional fast path for transports that can serve status,
// body, and elapsed time without materializing a full Response.
type RawTransport interface {
	ExecuteRaw(ctx context.Context, req *Request) (status int, body []byte, elapsed time.Duration, err error)
}

// ExecuteRaw uses the transport's fast path when available and derives the
// tuple from a regular Execute call otherwise.
func ExecuteRaw(ctx context.Context, t Transport, req *Request) (int, []byte, time.Duration, error) {
	if raw, ok := t.(RawTransport); ok {
		return raw.ExecuteRaw(ctx, req)
	}
	resp, err := t.Execute(ctx, req)
	if err != nil {
		return 0, nil, 0, err
	}
	return resp.StatusCode, resp.Body, resp.Stats.ElapsedTime, nil
}

// Header is a single name/value pair. Requests and responses carry ordered
// header lists so duplicates and ordering survive the round trip.
type Header struct {
	Name  string
	Value string
}

// Request represents an HTTP request. Build it with NewRequest/Get/Post and
// the With* chain; treat it as immutable once handed to a transport.
type Request struct {
	Method  string
	URL     string
	Headers []Header
	Body    []byte
	// Timeout bounds a single attempt. Zero means DefaultTimeout.
	Timeout time.Duration
	// Retry opts this request into checked-execution retries. Nil means none.
	Retry *RetryPolicy
	// Auth overrides the client-level basic auth for this request.
	Auth *BasicAuth
}

// NewRequest creates a request with the given method and URL.
func NewRequest(method, url string) *Request {
	return &Request{Method: method, URL: url}
}

// Get creates a GET request for url.
func Get(url string) *Request {
	return NewRequest(nethttp.MethodGet, url)
}

// Post creates a POST request for url.
func Post(url string) *Request {
	return NewRequest(nethttp.MethodPost, url)
}

// WithHeader appends a header pair. Duplicate names are allowed and order is preserved.
func (r *Request) WithHeader(name, value string) *Request {
	r.Headers = append(r.Headers, Header{Name: name, Value: value})
	return r
}

// WithBody sets the request body.
func (r *Request) WithBody(body []byte) *Request {
	r.Body = body
	return r
}

// WithTimeout overrides the per-attempt timeout for this request.
func (r *Request) WithTimeout(timeout time.Duration) *Request {
	r.Timeout = timeout
	return r
}

// WithRetryPolicy attaches a retry policy to this request.
func (r *Request) WithRetryPolicy(policy *RetryPolicy) *Request {
	r.Retry = policy
	return r
}

// WithRetryOnStatus attaches a single-status retry policy allowing up to
// maxRetries additional attempts when the response status equals status.
func (r *Request) WithRetryOnStatus(status, maxRetries int) *Request {
	r.Retry = &RetryPolicy{MaxRetries: maxRetries, Statuses: []int{status}}
	return r
}

// WithBasicAuth sets request-level basic auth credentials.
func (r *Request) WithBasicAuth(username, password string) *Request {
	r.Auth = &BasicAuth{Username: username, Password: password}
	return r
}

// RetryPolicy controls checked-execution retries. A retry happens only when
// the response status is in Statuses and fewer than MaxRetries retries have
// been performed. An empty status set disables the policy entirely.
type RetryPolicy struct {
	MaxRetries int
	Statuses   []int
}

// allows reports whether status is enrolled for retry.
func (p *RetryPolicy) allows(status int) bool {
	if p == nil {
		return false
	}
	for _, s := range p.Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// Response represents an HTTP response with execution statistics.
type Response struct {
	StatusCode int
	Headers    []Header
	// Body is owned by the response; transports hand it over without copying.
	Body  []byte
	Stats Stats
}

// Stats contains request execution statistics.
type Stats struct {
	ElapsedTime time.Duration
	// Attempts is the number of transport calls the checked loop performed.
	Attempts int64
}

// IsSuccess reports whether the status code is in [200, 300).
func (r *Response) IsSuccess() bool {
	return IsSuccessStatus(r.StatusCode)
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// JSON decodes the body into v using the default codec. Decode failures
// surface as Parse errors.
func (r *Response) JSON(v any) error {
	if err := DefaultCodec.Decode(r.Body, v); err != nil {
		return NewParseError("failed to decode response body", err)
	}
	return nil
}

// HeaderValue returns the first header value matching name, case-insensitively.
func (r *Response) HeaderValue(name string) (string, bool) {
	for _, h := range r.Headers {
		if equalFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

// WithHeader appends a header pair and returns the response. Used when
// constructing canned responses.
func (r *Response) WithHeader(name, value string) *Response {
	r.Headers = append(r.Headers, Header{Name: name, Value: value})
	return r
}

// equalFold matches ASCII header names without allocating.
func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// BasicAuth contains basic authentication credentials.
type BasicAuth struct {
	Username string
	Password string
}

// Config holds the REST client configuration.
type Config struct {
	// Timeout is the default per-attempt timeout for requests that do not set one.
	Timeout time.Duration
	// RetryBackoff is the base delay between checked-execution retries.
	// The actual sleep is exponential with full jitter. Zero disables pacing.
	RetryBackoff time.Duration
	// LogPayloads enables debug-level payload previews on request/response logs.
	LogPayloads bool
	// MaxPayloadLogBytes truncates logged payload previews. Zero means
	// DefaultMaxPayloadLogBytes.
	MaxPayloadLogBytes int
	BasicAuth          *BasicAuth
	DefaultHeaders     []Header
}
