package resttest

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/go-restkit/rest"
)

func TestNewResponse(t *testing.T) {
	resp := NewResponse(http.StatusNoContent, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Nil(t, resp.Body)

	resp = NewResponse(http.StatusOK, []byte("raw")).WithHeader("X-Fixture", "yes")
	assert.Equal(t, "raw", resp.Text())
	v, ok := resp.HeaderValue("x-fixture")
	assert.True(t, ok)
	assert.Equal(t, "yes", v)
}

func TestTextResponse(t *testing.T) {
	resp := TextResponse(http.StatusTeapot, "short and stout")
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	assert.Equal(t, "short and stout", resp.Text())

	assert.Equal(t, resp, TextErrorResponse(http.StatusTeapot, "short and stout"))
}

func TestJSONResponse(t *testing.T) {
	resp, err := JSONResponse(http.StatusOK, map[string]int{"count": 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":3}`, resp.Text())

	var out map[string]int
	require.NoError(t, resp.JSON(&out))
	assert.Equal(t, 3, out["count"])
}

func TestJSONResponseEncodeFailure(t *testing.T) {
	resp, err := JSONResponse(http.StatusOK, func() {})
	require.Error(t, err)
	assert.Nil(t, resp)

	assert.True(t, rest.IsKind(err, rest.MockTransportError))
	assert.Contains(t, err.Error(), "failed to encode fixture payload")
}

func TestJSONErrorResponse(t *testing.T) {
	resp, err := JSONErrorResponse(http.StatusConflict, map[string]string{"error": "duplicate"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.False(t, resp.IsSuccess())
	assert.JSONEq(t, `{"error":"duplicate"}`, resp.Text())
}
