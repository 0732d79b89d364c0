package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_AllowsUpToLimit(t *testing.T) {
	rl := NewRateLimiter()

	for i := 0; i < 5; i++ {
		result := rl.Check("1.2.3.4", 5, time.Minute)
		require.True(t, result.Allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 5, result.Limit)
		assert.Equal(t, 4-i, result.Remaining)
	}

	result := rl.Check("1.2.3.4", 5, time.Minute)
	assert.False(t, result.Allowed)
	assert.Equal(t, 0, result.Remaining)
	assert.GreaterOrEqual(t, result.RetryAfterSeconds, 1)
}

func TestRateLimiter_WindowReset(t *testing.T) {
	rl := NewRateLimiter()

	clock := time.Date(2026, 2, 1, 20, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	for i := 0; i < 3; i++ {
		require.True(t, rl.Check("key", 3, time.Minute).Allowed)
	}
	require.False(t, rl.Check("key", 3, time.Minute).Allowed)

	clock = clock.Add(61 * time.Second)

	result := rl.Check("key", 3, time.Minute)
	assert.True(t, result.Allowed)
	assert.Equal(t, 2, result.Remaining)
}

func TestRateLimiter_RetryAfterNeverZero(t *testing.T) {
	rl := NewRateLimiter()

	clock := time.Date(2026, 2, 1, 20, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	require.True(t, rl.Check("key", 1, time.Minute).Allowed)

	// A rejection just before the rollover still reports at least 1s.
	clock = clock.Add(59*time.Second + 800*time.Millisecond)
	result := rl.Check("key", 1, time.Minute)
	require.False(t, result.Allowed)
	assert.Equal(t, 1, result.RetryAfterSeconds)
}

func TestRateLimiter_RetryAfterRoundsUp(t *testing.T) {
	rl := NewRateLimiter()

	clock := time.Date(2026, 2, 1, 20, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	require.True(t, rl.Check("key", 1, time.Minute).Allowed)

	// 30.4s left in the window: a client sleeping the reported backoff
	// must land after the rollover, so the fraction rounds up to 31.
	clock = clock.Add(29*time.Second + 600*time.Millisecond)
	result := rl.Check("key", 1, time.Minute)
	require.False(t, result.Allowed)
	assert.Equal(t, 31, result.RetryAfterSeconds)
}

func TestRateLimiter_IndependentKeys(t *testing.T) {
	rl := NewRateLimiter()

	require.True(t, rl.Check("alice", 1, time.Minute).Allowed)
	require.False(t, rl.Check("alice", 1, time.Minute).Allowed)

	assert.True(t, rl.Check("bob", 1, time.Minute).Allowed)
}

func TestRateLimiter_SweepsExpiredWindows(t *testing.T) {
	rl := NewRateLimiter()

	clock := time.Date(2026, 2, 1, 20, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	rl.Check("stale", 10, time.Minute)
	require.Len(t, rl.windows, 1)

	clock = clock.Add(limiterSweepInterval + time.Second)
	rl.Check("fresh", 10, time.Minute)

	assert.Len(t, rl.windows, 1)
	_, ok := rl.windows["stale"]
	assert.False(t, ok)
}

func TestClientIP(t *testing.T) {
	testCases := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expected   string
	}{
		{
			name:       "X-Real-IP preferred",
			headers:    map[string]string{"X-Real-IP": "10.0.0.1", "X-Forwarded-For": "2.2.2.2"},
			remoteAddr: "3.3.3.3:1234",
			expected:   "10.0.0.1",
		},
		{
			name:       "right-most forwarded entry wins",
			headers:    map[string]string{"X-Forwarded-For": "spoofed, 8.8.8.8"},
			remoteAddr: "3.3.3.3:1234",
			expected:   "8.8.8.8",
		},
		{
			name:       "falls back to remote address host",
			headers:    nil,
			remoteAddr: "3.3.3.3:1234",
			expected:   "3.3.3.3",
		},
		{
			name:       "remote address without port",
			headers:    nil,
			remoteAddr: "3.3.3.3",
			expected:   "3.3.3.3",
		},
		{
			name:       "unknown when nothing available",
			headers:    nil,
			remoteAddr: "",
			expected:   "unknown",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/tonightplan", nil)
			req.RemoteAddr = tc.remoteAddr
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}

			assert.Equal(t, tc.expected, clientIP(req))
		})
	}
}
