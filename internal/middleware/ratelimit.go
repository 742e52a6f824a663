package middleware

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// RateLimiter implements per-caller sliding window rate limiting.
// State is in-memory; each server instance enforces independently.
type RateLimiter struct {
	maxRequests int
	window      time.Duration
	mu          sync.Mutex
	callers     map[string]*callerWindow
}

type callerWindow struct {
	timestamps []time.Time
	lastAccess time.Time
}

// NewRateLimiter creates a rate limiter with the given requests-per-second limit.
func NewRateLimiter(maxPerSecond int) *RateLimiter {
	rl := &RateLimiter{
		maxRequests: maxPerSecond,
		window:      time.Second,
		callers:     make(map[string]*callerWindow),
	}
	go rl.cleanup()
	return rl
}

// Allow checks if a request from the given caller is allowed.
func (rl *RateLimiter) Allow(caller string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cw, ok := rl.callers[caller]
	if !ok {
		cw = &callerWindow{}
		rl.callers[caller] = cw
	}

	cutoff := now.Add(-rl.window)
	start := 0
	for start < len(cw.timestamps) && cw.timestamps[start].Before(cutoff) {
		start++
	}
	cw.timestamps = cw.timestamps[start:]
	cw.lastAccess = now

	if len(cw.timestamps) >= rl.maxRequests {
		return false
	}

	cw.timestamps = append(cw.timestamps, now)
	return true
}

// cleanup removes stale caller entries every 60 seconds.
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		rl.mu.Lock()
		cutoff := time.Now().Add(-5 * time.Minute)
		for caller, cw := range rl.callers {
			if cw.lastAccess.Before(cutoff) {
				delete(rl.callers, caller)
			}
		}
		rl.mu.Unlock()
	}
}

// Middleware returns an HTTP middleware that applies rate limiting.
// Must be placed AFTER Authenticate (reads caller identity from context).
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller := GetCaller(r.Context())
		if caller == "" {
			next.ServeHTTP(w, r)
			return
		}

		if !rl.Allow(caller) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error":   "RATE_LIMIT_EXCEEDED",
				"message": "Too many requests. Please slow down.",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
