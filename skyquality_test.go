package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSkyQualityOWM(t *testing.T) {
	body := strings.NewReader(`{
		"clouds": {"all": 19},
		"main": {"humidity": 42, "temp": 12},
		"wind": {"speed": 2.4}
	}`)

	sq, err := ParseSkyQualityOWM(body)

	require.NoError(t, err)
	assert.Equal(t, "openweather", sq.Source)
	assert.Equal(t, 19.0, sq.CloudCover)
	assert.Equal(t, 42.0, sq.Humidity)
	assert.InDelta(t, 8.6, sq.WindSpeed, 0.01) // 2.4 m/s -> km/h
	assert.Equal(t, 81.0, sq.Transparency)
	assert.Equal(t, "excellent", sq.Seeing)
	assert.Greater(t, sq.Quality, 70)
}

func TestParseSkyQualityOWM_InvalidJSON(t *testing.T) {
	_, err := ParseSkyQualityOWM(strings.NewReader(`not json`))
	assert.Error(t, err)
}

func TestParseSkyQualityOMeteo(t *testing.T) {
	body := strings.NewReader(`{
		"current": {
			"cloud_cover": 80,
			"relative_humidity_2m": 85,
			"wind_speed_10m": 33,
			"temperature_2m": 4.5
		}
	}`)

	sq, err := ParseSkyQualityOMeteo(body)

	require.NoError(t, err)
	assert.Equal(t, "openmeteo", sq.Source)
	assert.Equal(t, 80.0, sq.CloudCover)
	assert.Equal(t, "poor", sq.Seeing)
	assert.Less(t, sq.Quality, 40)
}

func TestSkyQualityScore(t *testing.T) {
	testCases := []struct {
		name     string
		cloud    float64
		humidity float64
		wind     float64
		expected int
	}{
		{"perfect night", 0, 0, 0, 100},
		{"fully overcast", 100, 0, 0, 40},
		{"typical desert night", 10, 30, 5, 86},
		{"wind capped at zero", 0, 0, 80, 80},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, skyQualityScore(tc.cloud, tc.humidity, tc.wind))
		})
	}
}

func TestSeeingCondition(t *testing.T) {
	testCases := []struct {
		name     string
		wind     float64
		humidity float64
		expected string
	}{
		{"calm and dry", 5, 40, "excellent"},
		{"light breeze", 15, 40, "good"},
		{"humid evening", 5, 65, "good"},
		{"moderate wind", 25, 40, "fair"},
		{"windy", 35, 40, "poor"},
		{"saturated air", 5, 85, "poor"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, seeingCondition(tc.wind, tc.humidity))
		})
	}
}

func TestFetchSkyQuality_PrefersOpenWeatherInAutoMode(t *testing.T) {
	var calledPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calledPath = r.URL.RawQuery
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"clouds":{"all":19},"main":{"humidity":42,"temp":12},"wind":{"speed":2.4}}`))
	}))
	defer server.Close()

	cfg := newTestConfig()
	cfg.owmURL = server.URL + "/?"
	cfg.owmKey = "fake-key"

	sq := cfg.fetchSkyQuality(context.Background(), Coordinates{Lat: 36.1, Lng: -115.1})

	assert.Equal(t, "openweather", sq.Source)
	assert.Contains(t, calledPath, "appid=fake-key")
}

func TestFetchSkyQuality_AutoModeWithoutKeySkipsOpenWeather(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"current":{"cloud_cover":30,"relative_humidity_2m":50,"wind_speed_10m":10,"temperature_2m":15}}`))
	}))
	defer server.Close()

	cfg := newTestConfig()
	cfg.ometeoURL = server.URL + "/?"
	cfg.owmKey = ""

	sq := cfg.fetchSkyQuality(context.Background(), Coordinates{Lat: 36.1, Lng: -115.1})

	assert.Equal(t, "openmeteo", sq.Source)
}

func TestFetchSkyQuality_FallsThroughChainToSecondProvider(t *testing.T) {
	owmServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer owmServer.Close()

	ometeoServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"current":{"cloud_cover":30,"relative_humidity_2m":50,"wind_speed_10m":10,"temperature_2m":15}}`))
	}))
	defer ometeoServer.Close()

	cfg := newTestConfig()
	cfg.owmURL = owmServer.URL + "/?"
	cfg.ometeoURL = ometeoServer.URL + "/?"
	cfg.owmKey = "fake-key"

	sq := cfg.fetchSkyQuality(context.Background(), Coordinates{Lat: 36.1, Lng: -115.1})

	assert.Equal(t, "openmeteo", sq.Source)
}

func TestFetchSkyQuality_AllProvidersFailReturnsEstimated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cfg := newTestConfig()
	cfg.owmURL = server.URL + "/?"
	cfg.ometeoURL = server.URL + "/?"
	cfg.owmKey = "fake-key"

	sq := cfg.fetchSkyQuality(context.Background(), Coordinates{Lat: 36.1, Lng: -115.1})

	assert.Equal(t, "estimated", sq.Source)
	assert.Greater(t, sq.Quality, 0)
	assert.Equal(t, 45.0, sq.CloudCover)
	assert.Equal(t, 55.0, sq.Humidity)
	assert.Equal(t, 8.0, sq.WindSpeed)
}

func TestFetchSkyQuality_PinnedProviderDoesNotFallThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cfg := newTestConfig()
	cfg.skyProvider = "openmeteo"
	cfg.ometeoURL = server.URL + "/?"

	sq := cfg.fetchSkyQuality(context.Background(), Coordinates{Lat: 36.1, Lng: -115.1})

	assert.Equal(t, "estimated", sq.Source)
}
