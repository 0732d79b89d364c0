package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// --- Mocks ---

// mockCache is a mock for the Cache interface.
type mockCache struct {
	getFunc   func(ctx context.Context, key string) (string, error)
	setFunc   func(ctx context.Context, key string, value any, expiration time.Duration) error
	flushFunc func(ctx context.Context) error
}

func (m *mockCache) Get(ctx context.Context, key string) (string, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, key)
	}
	return "", ErrCacheMiss
}

func (m *mockCache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	if m.setFunc != nil {
		return m.setFunc(ctx, key, value, expiration)
	}
	return nil
}

func (m *mockCache) Flush(ctx context.Context) error {
	if m.flushFunc != nil {
		return m.flushFunc(ctx)
	}
	return nil
}

// mockDarkSkyStore is a mock for the darkSkyStore interface.
type mockDarkSkyStore struct {
	sitesFunc func(ctx context.Context) ([]DarkSkySite, error)
}

func (m *mockDarkSkyStore) Sites(ctx context.Context) ([]DarkSkySite, error) {
	if m.sitesFunc != nil {
		return m.sitesFunc(ctx)
	}
	return NewStaticDarkSkyCatalog().sites, nil
}

// --- Test configuration ---

// newTestConfig builds an apiConfig with quiet logging, the in-memory
// cache and the static catalog. Tests override individual fields as
// needed, typically pointing the provider URLs at an httptest server.
func newTestConfig() *apiConfig {
	return &apiConfig{
		cache:           NewMemoryCache(),
		rateLimiter:     NewRateLimiter(),
		darkSkyStore:    NewStaticDarkSkyCatalog(),
		owmURL:          "http://owm.invalid/?",
		ometeoURL:       "http://ometeo.invalid/?",
		n2yoURL:         "http://n2yo.invalid/",
		openNotifyURL:   "http://open-notify.invalid/",
		skyProvider:     "auto",
		httpClient:      &http.Client{Timeout: 2 * time.Second},
		prewarmInterval: 10 * time.Minute,
		port:            "8080",
		devMode:         true,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}
