package rest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	nethttp "net/http"
	"sort"
	"time"
)

// HTTPTransport is the network-backed Transport built on net/http. Per-attempt
// timeouts are enforced through the request context, not the underlying client.
type HTTPTransport struct {
	client *nethttp.Client
}

var (
	_ Transport    = (*HTTPTransport)(nil)
	_ RawTransport = (*HTTPTransport)(nil)
)

// NewHTTPTransport creates a transport with a default net/http client.
func NewHTTPTransport() *HTTPTransport {
	return &HTTPTransport{client: &nethttp.Client{}}
}

// NewHTTPTransportWithClient creates a transport using the provided client,
// e.g. one with a custom RoundTripper or proxy settings.
func NewHTTPTransportWithClient(client *nethttp.Client) *HTTPTransport {
	return &HTTPTransport{client: client}
}

// Execute performs one HTTP round trip and maps failures onto the error taxonomy.
func (t *HTTPTransport) Execute(ctx context.Context, req *Request) (*Response, error) {
	status, headers, body, elapsed, err := t.roundTrip(ctx, req)
	if err != nil {
		return nil, err
	}
	return &Response{
		StatusCode: status,
		Headers:    headers,
		Body:       body,
		Stats:      Stats{ElapsedTime: elapsed},
	}, nil
}

// ExecuteRaw is the fast path that skips header materialization.
func (t *HTTPTransport) ExecuteRaw(ctx context.Context, req *Request) (int, []byte, time.Duration, error) {
	status, _, body, elapsed, err := t.roundTrip(ctx, req)
	return status, body, elapsed, err
}

func (t *HTTPTransport) roundTrip(ctx context.Context, req *Request) (int, []Header, []byte, time.Duration, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := t.buildRequest(ctx, req)
	if err != nil {
		return 0, nil, nil, 0, err
	}

	start := time.Now()
	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		return 0, nil, nil, 0, classifySendError(err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return 0, nil, nil, 0, classifyReceiveError(err)
	}
	elapsed := time.Since(start)

	return httpResp.StatusCode, flattenHeaders(httpResp.Header), body, elapsed, nil
}

// buildRequest constructs an *http.Request and applies headers and auth.
func (t *HTTPTransport) buildRequest(ctx context.Context, req *Request) (*nethttp.Request, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := nethttp.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, NewInternalError("failed to build HTTP request", err)
	}

	for _, h := range req.Headers {
		httpReq.Header.Add(h.Name, h.Value)
	}
	if httpReq.Header.Get("Content-Type") == "" && req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.Auth != nil {
		httpReq.SetBasicAuth(req.Auth.Username, req.Auth.Password)
	}
	return httpReq, nil
}

// classifySendError maps a round-trip failure onto the taxonomy: timeouts to
// Timeout, dial-phase failures to Connect, everything else to Send.
func classifySendError(err error) *RestError {
	if isTimeout(err) {
		terr := NewTimeoutError("request timed out", 0, true)
		terr.wrapped = err
		return terr
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		cerr := NewConnectError("connection failed", 0, true)
		cerr.wrapped = err
		return cerr
	}
	serr := NewSendError("request execution failed", 0, false)
	serr.wrapped = err
	return serr
}

// classifyReceiveError maps a body-read failure onto the taxonomy.
func classifyReceiveError(err error) *RestError {
	if isTimeout(err) {
		terr := NewTimeoutError("response read timed out", 0, true)
		terr.wrapped = err
		return terr
	}
	rerr := NewReceiveError("failed to read response body", 0, false)
	rerr.wrapped = err
	return rerr
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// flattenHeaders converts a net/http header map into an ordered list. Go does
// not retain wire order across the map, so keys are sorted for determinism;
// per-key value order is preserved.
func flattenHeaders(h nethttp.Header) []Header {
	if len(h) == 0 {
		return nil
	}
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	headers := make([]Header, 0, len(h))
	for _, name := range names {
		for _, value := range h[name] {
			headers = append(headers, Header{Name: name, Value: value})
		}
	}
	return headers
}
