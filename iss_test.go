package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetISSPasses_N2YOPreferredWithKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "visualpasses/25544/")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{
			"info": {"passescount": 2},
			"passes": [
				{"startUTC": 1770000000, "duration": 540, "startAz": 221.5, "maxEl": 77.9, "endAz": 40.1, "mag": -3.1},
				{"startUTC": 1770060000, "duration": 300, "startAz": 300.0, "maxEl": 21.0, "endAz": 120.0, "mag": 0.8}
			]
		}`))
	}))
	defer server.Close()

	cfg := newTestConfig()
	cfg.n2yoURL = server.URL + "/"
	cfg.n2yoKey = "fake-key"

	passes := cfg.getISSPasses(context.Background(), Coordinates{Lat: 36.1, Lng: -115.1}, 5, 10)

	require.Len(t, passes, 2)
	assert.Equal(t, time.Unix(1770000000, 0).UTC(), passes[0].Risetime)
	assert.Equal(t, 540, passes[0].Duration)
	assert.Equal(t, 221.5, passes[0].RiseAzimuth)
	assert.Equal(t, 77.9, passes[0].MaxAltitude)
	assert.Equal(t, "visible", passes[0].Brightness)
	assert.Equal(t, "not-visible", passes[1].Brightness)
}

func TestGetISSPasses_FallsBackToOpenNotify(t *testing.T) {
	n2yoServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer n2yoServer.Close()

	openNotifyServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{
			"message": "success",
			"response": [{"risetime": 1770000000, "duration": 600}]
		}`))
	}))
	defer openNotifyServer.Close()

	cfg := newTestConfig()
	cfg.n2yoURL = n2yoServer.URL + "/"
	cfg.n2yoKey = "fake-key"
	cfg.openNotifyURL = openNotifyServer.URL + "/"

	passes := cfg.getISSPasses(context.Background(), Coordinates{Lat: 36.1, Lng: -115.1}, 5, 10)

	require.Len(t, passes, 1)
	assert.Equal(t, 600, passes[0].Duration)
	assert.Equal(t, 45.0, passes[0].MaxAltitude)
	assert.Equal(t, "possibly-visible", passes[0].Brightness)
	assert.Zero(t, passes[0].RiseAzimuth)
}

func TestGetISSPasses_SkipsN2YOWithoutKey(t *testing.T) {
	var n2yoCalled bool
	n2yoServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n2yoCalled = true
	}))
	defer n2yoServer.Close()

	openNotifyServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message": "success", "response": []}`))
	}))
	defer openNotifyServer.Close()

	cfg := newTestConfig()
	cfg.n2yoURL = n2yoServer.URL + "/"
	cfg.n2yoKey = ""
	cfg.openNotifyURL = openNotifyServer.URL + "/"

	passes := cfg.getISSPasses(context.Background(), Coordinates{Lat: 36.1, Lng: -115.1}, 5, 10)

	assert.Empty(t, passes)
	assert.False(t, n2yoCalled)
}

func TestGetISSPasses_AllProvidersFailReturnsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cfg := newTestConfig()
	cfg.n2yoURL = server.URL + "/"
	cfg.n2yoKey = "fake-key"
	cfg.openNotifyURL = server.URL + "/"

	passes := cfg.getISSPasses(context.Background(), Coordinates{Lat: 36.1, Lng: -115.1}, 5, 10)

	assert.NotNil(t, passes)
	assert.Empty(t, passes)
}

func TestGetISSPosition(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "iss-now.json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{
			"message": "success",
			"timestamp": 1770000000,
			"iss_position": {"latitude": "12.3456", "longitude": "-45.6789"}
		}`))
	}))
	defer server.Close()

	cfg := newTestConfig()
	cfg.openNotifyURL = server.URL + "/"

	pos := cfg.getISSPosition(context.Background())

	require.NotNil(t, pos)
	assert.Equal(t, 12.3456, pos.Latitude)
	assert.Equal(t, -45.6789, pos.Longitude)
	assert.Equal(t, 420.0, pos.Altitude)
	assert.Equal(t, 27600.0, pos.Velocity)
	assert.Equal(t, time.Unix(1770000000, 0).UTC(), pos.Timestamp)
}

func TestGetISSPosition_ProviderDownReturnsNil(t *testing.T) {
	cfg := newTestConfig()
	cfg.openNotifyURL = "http://localhost:1/"

	assert.Nil(t, cfg.getISSPosition(context.Background()))
}

func TestISSBrightness(t *testing.T) {
	assert.Equal(t, "visible", issBrightness(-3.2))
	assert.Equal(t, "visible", issBrightness(-2))
	assert.Equal(t, "possibly-visible", issBrightness(-0.5))
	assert.Equal(t, "possibly-visible", issBrightness(0))
	assert.Equal(t, "not-visible", issBrightness(1.4))
}
