package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/minerasur/sac/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitMiddlewareAllowsWithinBudget(t *testing.T) {
	config := httpx.RateLimitConfig{RequestsPerWindow: 3, Window: time.Minute, Burst: 3}
	handler := httpx.RateLimitMiddleware(config, httpx.IPKeyExtractor)(okHandler())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimitMiddlewareBlocksOverBudget(t *testing.T) {
	config := httpx.RateLimitConfig{RequestsPerWindow: 2, Window: time.Minute, Burst: 2}
	handler := httpx.RateLimitMiddleware(config, httpx.IPKeyExtractor)(okHandler())

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		last = httptest.NewRecorder()
		handler.ServeHTTP(last, req)
	}

	require.Equal(t, http.StatusTooManyRequests, last.Code)
	require.NotEmpty(t, last.Header().Get("Retry-After"))
}

func TestRateLimitSeparatesKeys(t *testing.T) {
	config := httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
	handler := httpx.RateLimitMiddleware(config, httpx.IPKeyExtractor)(okHandler())

	first := httptest.NewRequest(http.MethodGet, "/", nil)
	first.RemoteAddr = "10.0.0.3:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	require.Equal(t, http.StatusOK, rec.Code)

	// A different IP gets its own bucket.
	second := httptest.NewRequest(http.MethodGet, "/", nil)
	second.RemoteAddr = "10.0.0.4:1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, second)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestIPKeyExtractorHonoursForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "127.0.0.1:9999"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	require.Equal(t, "203.0.113.7", httpx.IPKeyExtractor(req))
}
