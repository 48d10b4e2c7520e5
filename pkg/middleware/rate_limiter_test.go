package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doRequest(t *testing.T, mw echo.MiddlewareFunc, ip string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", ip)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, handler(c))
	return rec
}

func TestRateLimiter_AllowsWithinBurst(t *testing.T) {
	rl := NewRateLimiter(60, 3)
	mw := rl.Middleware()

	for i := 0; i < 3; i++ {
		rec := doRequest(t, mw, "10.0.0.1")
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimiter_BlocksBeyondBurst(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	mw := rl.Middleware()

	doRequest(t, mw, "10.0.0.2")
	doRequest(t, mw, "10.0.0.2")
	rec := doRequest(t, mw, "10.0.0.2")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "rate_limit_exceeded")
}

func TestRateLimiter_TracksClientsSeparately(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	mw := rl.Middleware()

	assert.Equal(t, http.StatusOK, doRequest(t, mw, "10.0.0.3").Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(t, mw, "10.0.0.3").Code)
	// a different client has its own bucket
	assert.Equal(t, http.StatusOK, doRequest(t, mw, "10.0.0.4").Code)
}

func TestRateLimiter_ReusesBucketPerIP(t *testing.T) {
	rl := NewRateLimiter(60, 5)

	first := rl.limiter("10.0.0.5")
	second := rl.limiter("10.0.0.5")
	assert.Same(t, first, second)
}
