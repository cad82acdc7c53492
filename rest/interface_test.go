package rest

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestBuilders(t *testing.T) {
	t.Run("new request", func(t *testing.T) {
		req := NewRequest(http.MethodDelete, "https://api.local/v1/items/1")
		assert.Equal(t, http.MethodDelete, req.Method)
		assert.Equal(t, "https://api.local/v1/items/1", req.URL)
		assert.Empty(t, req.Headers)
		assert.Nil(t, req.Retry)
	})

	t.Run("get and post shorthands", func(t *testing.T) {
		assert.Equal(t, http.MethodGet, Get("u").Method)
		assert.Equal(t, http.MethodPost, Post("u").Method)
	})

	t.Run("with chain", func(t *testing.T) {
		req := Post("https://api.local/v1/items").
			WithHeader("Accept", "application/json").
			WithHeader("Accept", "text/plain").
			WithBody([]byte(`{"a":1}`)).
			WithTimeout(3*time.Second).
			WithBasicAuth("u", "p").
			WithRetryOnStatus(http.StatusServiceUnavailable, 2)

		// Duplicate header names survive in order
		assert.Equal(t, []Header{
			{Name: "Accept", Value: "application/json"},
			{Name: "Accept", Value: "text/plain"},
		}, req.Headers)
		assert.Equal(t, []byte(`{"a":1}`), req.Body)
		assert.Equal(t, 3*time.Second, req.Timeout)
		require.NotNil(t, req.Auth)
		assert.Equal(t, "u", req.Auth.Username)
		require.NotNil(t, req.Retry)
		assert.Equal(t, 2, req.Retry.MaxRetries)
		assert.Equal(t, []int{http.StatusServiceUnavailable}, req.Retry.Statuses)
	})
}

func TestRetryPolicyAllows(t *testing.T) {
	tests := []struct {
		name   string
		policy *RetryPolicy
		status int
		want   bool
	}{
		{"nil_policy", nil, 503, false},
		{"empty_statuses", &RetryPolicy{MaxRetries: 3}, 503, false},
		{"enrolled_status", &RetryPolicy{MaxRetries: 1, Statuses: []int{503}}, 503, true},
		{"other_status", &RetryPolicy{MaxRetries: 1, Statuses: []int{503}}, 500, false},
		{"multiple_statuses", &RetryPolicy{MaxRetries: 1, Statuses: []int{500, 502, 503}}, 502, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.allows(tt.status))
		})
	}
}

func TestResponseHelpers(t *testing.T) {
	resp := &Response{
		StatusCode: http.StatusOK,
		Body:       []byte(`{"name":"widget"}`),
	}
	resp.WithHeader("Content-Type", "application/json").
		WithHeader("X-Request-Id", "abc-123")

	t.Run("is success", func(t *testing.T) {
		assert.True(t, resp.IsSuccess())
		assert.False(t, (&Response{StatusCode: 404}).IsSuccess())
	})

	t.Run("text", func(t *testing.T) {
		assert.Equal(t, `{"name":"widget"}`, resp.Text())
	})

	t.Run("json decode", func(t *testing.T) {
		var out struct {
			Name string `json:"name"`
		}
		require.NoError(t, resp.JSON(&out))
		assert.Equal(t, "widget", out.Name)
	})

	t.Run("json decode failure is parse error", func(t *testing.T) {
		bad := &Response{StatusCode: 200, Body: []byte("nope")}
		var out map[string]any
		err := bad.JSON(&out)
		require.Error(t, err)
		assert.True(t, IsKind(err, ParseError))
	})

	t.Run("header lookup is case-insensitive", func(t *testing.T) {
		v, ok := resp.HeaderValue("content-type")
		assert.True(t, ok)
		assert.Equal(t, "application/json", v)

		v, ok = resp.HeaderValue("X-REQUEST-ID")
		assert.True(t, ok)
		assert.Equal(t, "abc-123", v)

		_, ok = resp.HeaderValue("Missing")
		assert.False(t, ok)
	})
}

func TestEqualFold(t *testing.T) {
	assert.True(t, equalFold("Content-Type", "content-type"))
	assert.True(t, equalFold("X-API-KEY", "x-api-key"))
	assert.False(t, equalFold("Accept", "Accepts"))
	assert.False(t, equalFold("Accept", "Except"))
}

// rawCapableTransport exposes both the regular and the fast path so the
// dispatch in ExecuteRaw can be observed.
type rawCapableTransport struct {
	rawCalled     bool
	executeCalled bool
}

func (r *rawCapableTransport) Execute(context.Context, *Request) (*Response, error) {
	r.executeCalled = true
	return &Response{StatusCode: 200, Body: []byte("full")}, nil
}

func (r *rawCapableTransport) ExecuteRaw(context.Context, *Request) (int, []byte, time.Duration, error) {
	r.rawCalled = true
	return 204, []byte("raw"), 5 * time.Millisecond, nil
}

func TestExecuteRawUsesFastPath(t *testing.T) {
	transport := &rawCapableTransport{}

	code, body, elapsed, err := ExecuteRaw(context.Background(), transport, Get("https://api.local"))
	require.NoError(t, err)
	assert.True(t, transport.rawCalled)
	assert.False(t, transport.executeCalled)
	assert.Equal(t, 204, code)
	assert.Equal(t, []byte("raw"), body)
	assert.Equal(t, 5*time.Millisecond, elapsed)
}

func TestExecuteRawFallsBackToExecute(t *testing.T) {
	transport := respondWith(&Response{
		StatusCode: 201,
		Body:       []byte("created"),
		Stats:      Stats{ElapsedTime: time.Millisecond},
	})

	code, body, elapsed, err := ExecuteRaw(context.Background(), transport, Get("https://api.local"))
	require.NoError(t, err)
	assert.Equal(t, 201, code)
	assert.Equal(t, []byte("created"), body)
	assert.Equal(t, time.Millisecond, elapsed)
	assert.Equal(t, 1, transport.calls())
}

func TestExecuteRawPropagatesError(t *testing.T) {
	transport := failWith(NewConnectError("connection failed", 0, true))

	code, body, _, err := ExecuteRaw(context.Background(), transport, Get("https://api.local"))
	require.Error(t, err)
	assert.Zero(t, code)
	assert.Nil(t, body)
	assert.True(t, IsKind(err, ConnectError))
}
