package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cor0nius/willitclear/internal/ephemeris"
)

// This file contains the main HTTP handlers. Each handler follows the same
// pattern: check the method, apply rate limiting, normalize query input
// (invalid coordinates or dates fall back to defaults rather than 400),
// call the engine, and write the JSON response.

// Endpoint classes for rate limiting.
const (
	rateClassExternal = "external"
	rateClassWrite    = "write"
)

// allowRequest applies the fixed-window limit for the endpoint class and
// writes the 429 response itself when the caller is over budget.
func (cfg *apiConfig) allowRequest(w http.ResponseWriter, r *http.Request, class string) bool {
	limit, window := externalAPILimit, externalAPIWindow
	if class == rateClassWrite {
		limit, window = writeLimit, writeWindow
	}

	result := cfg.rateLimiter.Check(class+":"+clientIP(r), limit, window)

	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))

	if !result.Allowed {
		rateLimitRejections.WithLabelValues(class).Inc()
		cfg.respondRateLimited(w, result)
		return false
	}
	return true
}

// coordsFromRequest reads lat/lng query parameters, falling back to the
// default location when they are missing or unusable.
func coordsFromRequest(r *http.Request) Coordinates {
	coords, ok := parseCoordinates(r.URL.Query().Get("lat"), r.URL.Query().Get("lng"))
	if !ok {
		return defaultLocation
	}
	return coords
}

// dateFromRequest reads an optional YYYY-MM-DD date parameter.
func dateFromRequest(r *http.Request, fallback time.Time) time.Time {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return fallback
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return fallback
	}
	return parsed
}

// handlerTonightPlan serves the full composed observation plan.
func (cfg *apiConfig) handlerTonightPlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}
	if !cfg.allowRequest(w, r, rateClassExternal) {
		return
	}

	coords := coordsFromRequest(r)
	date := dateFromRequest(r, time.Now())
	cfg.logger.Debug("tonight plan request", "lat", coords.Lat, "lng", coords.Lng)

	plan, err := cfg.tonightPlan(r.Context(), coords, date)
	if err != nil {
		cfg.respondWithError(w, http.StatusInternalServerError, "Error composing tonight plan", err)
		return
	}

	cfg.respondWithJSON(w, http.StatusOK, plan)
}

// handlerSkyQuality serves the fused weather reading for a location.
func (cfg *apiConfig) handlerSkyQuality(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}
	if !cfg.allowRequest(w, r, rateClassExternal) {
		return
	}

	coords := coordsFromRequest(r)
	cfg.logger.Debug("sky quality request", "lat", coords.Lat, "lng", coords.Lng)

	quality := cfg.fetchSkyQuality(r.Context(), coords)

	cfg.respondWithJSON(w, http.StatusOK, SkyQualityResponse{
		SkyQuality: quality,
		Location:   coords,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	})
}

// handlerEvents serves the astronomy event calendar. The days parameter
// is clamped to [1,365] with a 60-day default.
func (cfg *apiConfig) handlerEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}

	coords := coordsFromRequest(r)
	from := dateFromRequest(r, time.Now())

	days := 60
	if raw := r.URL.Query().Get("days"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			days = int(clamp(float64(parsed), 1, 365))
		}
	}
	cfg.logger.Debug("events request", "from", from.Format("2006-01-02"), "days", days)

	events := generateUpcomingEvents(&coords, from, days)

	cfg.respondWithJSON(w, http.StatusOK, EventsResponse{
		Location: &coords,
		From:     from.Format("2006-01-02"),
		Days:     days,
		Events:   events,
	})
}

// handlerISSPasses serves upcoming station passes plus the live position.
func (cfg *apiConfig) handlerISSPasses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}
	if !cfg.allowRequest(w, r, rateClassExternal) {
		return
	}

	coords := coordsFromRequest(r)
	cfg.logger.Debug("ISS passes request", "lat", coords.Lat, "lng", coords.Lng)

	passes := cfg.getISSPasses(r.Context(), coords, 5, 10)
	position := cfg.getISSPosition(r.Context())

	cfg.respondWithJSON(w, http.StatusOK, ISSResponse{
		Location: coords,
		Passes:   passes,
		Position: position,
	})
}

// darkSkyResponse is the payload of the dark-sky sites endpoint.
type darkSkyResponse struct {
	Location         Coordinates   `json:"location"`
	UserDarkSkyScore int           `json:"user_dark_sky_score"`
	MoonIllumination float64       `json:"moon_illumination"`
	WeatherSource    string        `json:"weather_source"`
	Sites            []DarkSkySite `json:"sites"`
}

// handlerDarkSky serves nearby observing sites ranked for tonight's
// conditions, alongside the observer's own adjusted darkness score.
func (cfg *apiConfig) handlerDarkSky(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}
	if !cfg.allowRequest(w, r, rateClassExternal) {
		return
	}

	coords := coordsFromRequest(r)

	maxDistance := 200.0
	if raw := r.URL.Query().Get("maxDistance"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed > 0 {
			maxDistance = parsed
		}
	}
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	cfg.logger.Debug("dark sky request", "lat", coords.Lat, "lng", coords.Lng, "maxDistance", maxDistance)

	sites, err := cfg.findNearbyDarkSkySites(r.Context(), coords, maxDistance, limit)
	if err != nil {
		cfg.respondWithError(w, http.StatusInternalServerError, "Error loading dark-sky sites", err)
		return
	}

	weather := cfg.fetchSkyQuality(r.Context(), coords)
	moonPhase := ephemeris.MoonPhaseAt(time.Now())

	cfg.respondWithJSON(w, http.StatusOK, darkSkyResponse{
		Location:         coords,
		UserDarkSkyScore: tonightDarkSkyScore(coords, moonPhase.Illumination, &weather),
		MoonIllumination: moonPhase.Illumination,
		WeatherSource:    weather.Source,
		Sites:            rankSitesForTonight(sites, moonPhase.Illumination, &weather),
	})
}

// handlerFlushCache is a development-only endpoint that clears the plan
// cache so a fresh compose can be observed immediately.
func (cfg *apiConfig) handlerFlushCache(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}
	if !cfg.allowRequest(w, r, rateClassWrite) {
		return
	}
	cfg.logger.Debug("cache flush request received")

	if err := cfg.cache.Flush(r.Context()); err != nil {
		cfg.respondWithError(w, http.StatusInternalServerError, "Failed to flush cache", err)
		return
	}

	cfg.respondWithJSON(w, http.StatusOK, map[string]string{"status": "cache flushed"})
}

// handlerConfig provides client-side applications with necessary configuration,
// such as whether the application is running in development mode.
func (cfg *apiConfig) handlerConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}

	backend := "memory"
	if _, ok := cfg.cache.(*RedisCache); ok {
		backend = "redis"
	}

	response := ConfigResponse{
		DevMode:         cfg.devMode,
		CacheBackend:    backend,
		SkyProvider:     cfg.skyProvider,
		RefreshInterval: cfg.prewarmInterval.String(),
	}

	cfg.respondWithJSON(w, http.StatusOK, response)
}
