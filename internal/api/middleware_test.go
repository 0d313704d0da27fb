package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestTimingMiddleware(t *testing.T) {
	rec := httptest.NewRecorder()
	TimingMiddleware(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("X-Process-Time"), "ms")
}

func TestRateLimitMiddleware(t *testing.T) {
	handler := RateLimitMiddleware(3, time.Minute)(okHandler)

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	// The full window allowance is available as burst; the next request
	// over it is rejected.
	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, send("10.0.0.1:1234").Code)
	}
	rec := send("10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	// Limits are per client.
	assert.Equal(t, http.StatusOK, send("10.0.0.2:1234").Code)
}

func TestClientLimitersPrune(t *testing.T) {
	l := newClientLimiters(10, time.Minute)

	l.get("10.0.0.1")
	l.clients["10.0.0.1"].seen = time.Now().Add(-time.Hour)
	l.get("10.0.0.2")

	l.mu.Lock()
	l.prune()
	l.mu.Unlock()

	assert.NotContains(t, l.clients, "10.0.0.1")
	assert.Contains(t, l.clients, "10.0.0.2")
}
