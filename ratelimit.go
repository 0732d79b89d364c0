package main

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Rate limiting uses fixed windows: the first request for a key opens a
// window, every request inside it increments a counter, and the counter
// resets when the window rolls over. State lives in process memory, so
// limits are per instance.

const (
	externalAPILimit  = 60
	externalAPIWindow = time.Minute
	writeLimit        = 10
	writeWindow       = time.Minute

	limiterSweepInterval = 5 * time.Minute
)

// RateLimitResult reports one admission decision.
type RateLimitResult struct {
	Allowed           bool
	Limit             int
	Remaining         int
	ResetAt           time.Time
	RetryAfterSeconds int
}

type rateWindow struct {
	count   int
	resetAt time.Time
}

// RateLimiter tracks fixed-window counters keyed by caller identity.
// The clock is injectable for tests.
type RateLimiter struct {
	mu        sync.Mutex
	windows   map[string]*rateWindow
	lastSweep time.Time
	now       func() time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		windows: make(map[string]*rateWindow),
		now:     time.Now,
	}
}

// Check admits or rejects one request for key under the given limit and
// window. Rejections carry a RetryAfterSeconds of at least 1 so clients
// never receive a zero backoff.
func (rl *RateLimiter) Check(key string, limit int, window time.Duration) RateLimitResult {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweepLocked(now)

	w, ok := rl.windows[key]
	if !ok || !w.resetAt.After(now) {
		w = &rateWindow{resetAt: now.Add(window)}
		rl.windows[key] = w
	}

	if w.count >= limit {
		// Ceiling, so a partial second still buys the client a full one.
		retryAfter := int((w.resetAt.Sub(now) + time.Second - 1) / time.Second)
		if retryAfter < 1 {
			retryAfter = 1
		}
		return RateLimitResult{
			Allowed:           false,
			Limit:             limit,
			Remaining:         0,
			ResetAt:           w.resetAt,
			RetryAfterSeconds: retryAfter,
		}
	}

	w.count++
	return RateLimitResult{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - w.count,
		ResetAt:   w.resetAt,
	}
}

func (rl *RateLimiter) sweepLocked(now time.Time) {
	if now.Sub(rl.lastSweep) < limiterSweepInterval {
		return
	}
	rl.lastSweep = now
	for key, w := range rl.windows {
		if !w.resetAt.After(now) {
			delete(rl.windows, key)
		}
	}
}

// clientIP extracts the caller's address for rate-limit keying. X-Real-IP
// wins when set; otherwise the right-most X-Forwarded-For entry is used,
// since left-hand entries are client-controlled and trivially spoofed.
func clientIP(r *http.Request) string {
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}

	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		if ip := strings.TrimSpace(parts[len(parts)-1]); ip != "" {
			return ip
		}
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
