// Rate limiting for the join endpoint, so one client cannot flood the
// world with throwaway players. Join is pre-auth, so requests are keyed by
// client address; authenticated actions are tick-gated in the engine and
// need no HTTP-level limiter.
package api

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimiter allows at most limit requests per key within a sliding
// window. Stale entries are pruned on access, so there is no background
// sweeper to manage.
type RateLimiter struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	limit  int
	window time.Duration
}

// NewRateLimiter creates a limiter allowing limit requests per window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		hits:   make(map[string][]time.Time),
		limit:  limit,
		window: window,
	}
}

// Allow records a hit for key and reports whether it stays within budget.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	kept := rl.prune(key, now)
	if len(kept) >= rl.limit {
		return false
	}
	rl.hits[key] = append(kept, now)
	return true
}

// RetryAfter returns whole seconds until the oldest hit for key ages out
// of the window, or 0 when the key is under budget.
func (rl *RateLimiter) RetryAfter(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	stamps := rl.prune(key, time.Now())
	if len(stamps) < rl.limit {
		return 0
	}
	wait := time.Until(stamps[0].Add(rl.window))
	if wait <= 0 {
		return 0
	}
	return int(wait.Seconds()) + 1
}

// prune drops hits older than the window and forgets idle keys. Caller
// holds the lock.
func (rl *RateLimiter) prune(key string, now time.Time) []time.Time {
	stamps := rl.hits[key]
	cutoff := now.Add(-rl.window)
	i := 0
	for i < len(stamps) && !stamps[i].After(cutoff) {
		i++
	}
	kept := stamps[i:]
	if len(kept) == 0 {
		delete(rl.hits, key)
	} else if i > 0 {
		rl.hits[key] = kept
	}
	return kept
}

// clientKey identifies the caller: the first hop of X-Forwarded-For when a
// proxy sets it, otherwise the remote address without its port.
func clientKey(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	host := r.RemoteAddr
	if i := strings.LastIndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	return host
}

// RateLimitMiddleware wraps a handler with rate limiting. Returns 429 with
// a Retry-After header when exceeded.
func RateLimitMiddleware(rl *RateLimiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := clientKey(r)
		if !rl.Allow(key) {
			w.Header().Set("Retry-After", strconv.Itoa(rl.RetryAfter(key)))
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}
