package api

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/civiclens/civiclens-data/internal/api/respond"
)

// TimingMiddleware reports server-side processing time on every response.
func TimingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		w.Header().Set("X-Process-Time",
			fmt.Sprintf("%.3fms", float64(time.Since(start).Microseconds())/1000.0))
	})
}

// --------------------------------------------------------------------------
// Per-client rate limiting
// --------------------------------------------------------------------------

// maxTrackedClients bounds the limiter map; idle entries are pruned once
// the bound is reached so a scan of spoofed addresses cannot grow it
// without limit.
const maxTrackedClients = 4096

// visitor pairs a client's token bucket with its last activity.
type visitor struct {
	limiter *rate.Limiter
	seen    time.Time
}

type clientLimiters struct {
	mu      sync.Mutex
	clients map[string]*visitor
	rate    rate.Limit
	burst   int
	idle    time.Duration
}

func newClientLimiters(requestsPerWindow int, window time.Duration) *clientLimiters {
	return &clientLimiters{
		clients: make(map[string]*visitor),
		rate:    rate.Limit(float64(requestsPerWindow) / window.Seconds()),
		burst:   requestsPerWindow,
		idle:    10 * window,
	}
}

func (l *clientLimiters) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if v, ok := l.clients[ip]; ok {
		v.seen = time.Now()
		return v.limiter
	}

	if len(l.clients) >= maxTrackedClients {
		l.prune()
	}
	v := &visitor{limiter: rate.NewLimiter(l.rate, l.burst), seen: time.Now()}
	l.clients[ip] = v
	return v.limiter
}

// prune drops clients idle longer than the retention window. Caller holds
// the lock.
func (l *clientLimiters) prune() {
	cutoff := time.Now().Add(-l.idle)
	for ip, v := range l.clients {
		if v.seen.Before(cutoff) {
			delete(l.clients, ip)
		}
	}
}

// RateLimitMiddleware limits each client IP to requestsPerWindow requests
// per window, with the full window allowance available as burst.
func RateLimitMiddleware(requestsPerWindow int, window time.Duration) func(http.Handler) http.Handler {
	limiters := newClientLimiters(requestsPerWindow, window)
	retryAfter := strconv.Itoa(int(window.Seconds()))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			if !limiters.get(ip).Allow() {
				w.Header().Set("Retry-After", retryAfter)
				respond.WriteError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
