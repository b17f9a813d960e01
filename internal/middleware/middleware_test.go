package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var quietLog = slog.New(slog.NewTextHandler(io.Discard, nil))

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestSimpleAPIKey(t *testing.T) {
	h := SimpleAPIKey("secret", "", "rotated")(okHandler)

	tests := []struct {
		name   string
		header map[string]string
		want   int
	}{
		{"missing", nil, http.StatusUnauthorized},
		{"wrong", map[string]string{"X-API-Key": "nope"}, http.StatusUnauthorized},
		{"header", map[string]string{"X-API-Key": "secret"}, http.StatusOK},
		{"bearer", map[string]string{"Authorization": "Bearer secret"}, http.StatusOK},
		{"second key", map[string]string{"X-API-Key": "rotated"}, http.StatusOK},
		{"basic auth", map[string]string{"Authorization": "Basic secret"}, http.StatusUnauthorized},
		{"empty bearer", map[string]string{"Authorization": "Bearer "}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/pipeline", nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func TestRateLimit_SlidingWindow(t *testing.T) {
	h := RateLimit(NewSlidingWindow(2, time.Minute), time.Minute, quietLog)(okHandler)

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1111").Code)
	assert.Equal(t, http.StatusOK, send("10.0.0.1:2222").Code)
	limited := send("10.0.0.1:3333")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "60", limited.Header().Get("Retry-After"))
	assert.Equal(t, http.StatusOK, send("[::1]:4444").Code)
}

func TestRateLimit_FailsOpen(t *testing.T) {
	h := RateLimit(failingLimiter{}, time.Minute, quietLog)(okHandler)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSlidingWindow_WindowSlidesAndSweeps(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sw := NewSlidingWindow(1, time.Minute)
	sw.now = func() time.Time { return now }
	ctx := context.Background()

	ok, _ := sw.Allow(ctx, "a")
	assert.True(t, ok)
	ok, _ = sw.Allow(ctx, "a")
	assert.False(t, ok)

	now = now.Add(61 * time.Second)
	ok, _ = sw.Allow(ctx, "a")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	sw.Sweep()
	assert.Zero(t, sw.tracked())
}

func TestClientIP(t *testing.T) {
	assert.Equal(t, "10.0.0.1", clientIP("10.0.0.1:8080"))
	assert.Equal(t, "::1", clientIP("[::1]:8080"))
	assert.Equal(t, "10.0.0.1", clientIP("10.0.0.1"))
}

func TestCORSPreflight(t *testing.T) {
	h := CORS([]string{"https://app.test"})(okHandler)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/overrides/x", nil)
	req.Header.Set("Origin", "https://app.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.test", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PUT")
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))
}

func TestCORS_UnknownOrigin(t *testing.T) {
	h := CORS([]string{"https://app.test"})(okHandler)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/pipeline", nil)
	req.Header.Set("Origin", "https://evil.test")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestLimitRequestBody(t *testing.T) {
	h := LimitRequestBody(8)(okHandler)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/records/ledger", strings.NewReader(`[{"id":"0x01"}]`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestSetJSONContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	SetJSONContentType(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
