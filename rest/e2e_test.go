package rest_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/go-restkit/logger"
	"github.com/gaborage/go-restkit/rest"
)

type orderPayload struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// newOrderServer starts an echo server that exercises the client against real
// HTTP semantics: stable routes, a route that recovers after one 503, and a
// route slower than a tight request timeout.
func newOrderServer(t *testing.T) (*httptest.Server, *int32) {
	t.Helper()

	var warmupCalls int32

	e := echo.New()
	e.HideBanner = true

	e.GET("/orders/:id", func(c echo.Context) error {
		return c.JSON(http.StatusOK, orderPayload{ID: c.Param("id"), Status: "confirmed"})
	})
	e.POST("/orders", func(c echo.Context) error {
		var in orderPayload
		if err := c.Bind(&in); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad payload"})
		}
		in.Status = "created"
		return c.JSON(http.StatusCreated, in)
	})
	// First call reports 503, later calls succeed.
	e.GET("/queue/next", func(c echo.Context) error {
		if atomic.AddInt32(&warmupCalls, 1) == 1 {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "warming up"})
		}
		return c.JSON(http.StatusOK, orderPayload{ID: "ord-7", Status: "pending"})
	})
	e.GET("/reports/slow", func(c echo.Context) error {
		select {
		case <-c.Request().Context().Done():
			return c.Request().Context().Err()
		case <-time.After(150 * time.Millisecond):
			return c.JSON(http.StatusOK, map[string]string{"report": "done"})
		}
	})
	e.GET("/secure/ping", func(c echo.Context) error {
		user, pass, ok := c.Request().BasicAuth()
		if !ok || user != "svc-orders" || pass != "hunter2" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}
		return c.JSON(http.StatusOK, map[string]string{
			"caller":  user,
			"version": c.Request().Header.Get("X-Api-Version"),
		})
	})

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv, &warmupCalls
}

func newE2EClient(extra ...func(*rest.Builder) *rest.Builder) rest.Client {
	b := rest.NewBuilder(logger.New("disabled", false))
	for _, apply := range extra {
		b = apply(b)
	}
	return b.Build()
}

func TestEndToEndJSONRoundTrip(t *testing.T) {
	srv, _ := newOrderServer(t)
	c := newE2EClient()

	resp, err := c.PostJSON(context.Background(), srv.URL+"/orders", orderPayload{ID: "ord-42"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var created orderPayload
	require.NoError(t, resp.JSON(&created))
	assert.Equal(t, "ord-42", created.ID)
	assert.Equal(t, "created", created.Status)

	var fetched orderPayload
	err = c.ExecuteJSONChecked(context.Background(), rest.Get(srv.URL+"/orders/ord-42"), &fetched)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", fetched.Status)
}

func TestEndToEndRetryRecoversAfterOneRejection(t *testing.T) {
	srv, warmupCalls := newOrderServer(t)
	c := newE2EClient()

	req := rest.Get(srv.URL + "/queue/next").WithRetryOnStatus(http.StatusServiceUnavailable, 2)

	var out orderPayload
	require.NoError(t, c.ExecuteJSONChecked(context.Background(), req, &out))
	assert.Equal(t, "pending", out.Status)
	assert.Equal(t, int32(2), atomic.LoadInt32(warmupCalls))
}

func TestEndToEndRejectionWithoutPolicy(t *testing.T) {
	srv, warmupCalls := newOrderServer(t)
	c := newE2EClient()

	_, err := c.ExecuteChecked(context.Background(), rest.Get(srv.URL+"/queue/next"))
	require.Error(t, err)
	assert.True(t, rest.IsKind(err, rest.RejectedError))

	var restErr *rest.RestError
	require.ErrorAs(t, err, &restErr)
	assert.Equal(t, http.StatusServiceUnavailable, restErr.StatusCode())
	assert.True(t, restErr.IsRetryable())
	assert.Equal(t, int32(1), atomic.LoadInt32(warmupCalls))
}

func TestEndToEndTimeout(t *testing.T) {
	srv, _ := newOrderServer(t)
	c := newE2EClient(func(b *rest.Builder) *rest.Builder {
		return b.WithTimeout(40 * time.Millisecond)
	})

	_, err := c.Execute(context.Background(), rest.Get(srv.URL+"/reports/slow"))
	require.Error(t, err)
	assert.True(t, rest.IsKind(err, rest.TimeoutError))
	assert.True(t, rest.IsRetryable(err))
}

func TestEndToEndRequestTimeoutOverridesClient(t *testing.T) {
	srv, _ := newOrderServer(t)
	c := newE2EClient(func(b *rest.Builder) *rest.Builder {
		return b.WithTimeout(40 * time.Millisecond)
	})

	req := rest.Get(srv.URL + "/reports/slow").WithTimeout(500 * time.Millisecond)
	resp, err := c.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestEndToEndDefaultTimeoutCoversSlowRoutes(t *testing.T) {
	assert.Equal(t, 2*time.Second, rest.DefaultTimeout)

	srv, _ := newOrderServer(t)
	c := newE2EClient()

	// 150ms handler finishes comfortably inside the default window.
	resp, err := c.Execute(context.Background(), rest.Get(srv.URL+"/reports/slow"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestEndToEndClientDefaultsReachTheWire(t *testing.T) {
	srv, _ := newOrderServer(t)
	c := newE2EClient(func(b *rest.Builder) *rest.Builder {
		return b.WithBasicAuth("svc-orders", "hunter2").
			WithDefaultHeader("X-Api-Version", "2026-08")
	})

	var out map[string]string
	require.NoError(t, c.ExecuteJSONChecked(context.Background(), rest.Get(srv.URL+"/secure/ping"), &out))
	assert.Equal(t, "svc-orders", out["caller"])
	assert.Equal(t, "2026-08", out["version"])
}
