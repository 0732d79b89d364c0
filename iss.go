package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ISS pass predictions come from a two-step fallback chain: N2YO's visual
// passes endpoint when an API key is configured (more detailed), then
// Open-Notify (keyless, sparse). When both fail the caller gets an empty
// slice, never an error.

const issNoradID = 25544

const (
	issAverageAltitudeKm  = 420
	issAverageVelocityKmh = 27600
)

func (cfg *apiConfig) wrapForN2YOPasses(coords Coordinates, count, minAltitude int) string {
	return fmt.Sprintf("%svisualpasses/%d/%.4f/%.4f/0/%d/%d?apiKey=%s",
		cfg.n2yoURL, issNoradID, coords.Lat, coords.Lng, count, minAltitude, cfg.n2yoKey)
}

func (cfg *apiConfig) wrapForOpenNotifyPasses(coords Coordinates, count int) string {
	return fmt.Sprintf("%siss-pass.json?lat=%.4f&lon=%.4f&n=%d", cfg.openNotifyURL, coords.Lat, coords.Lng, count)
}

func (cfg *apiConfig) wrapForOpenNotifyPosition() string {
	return fmt.Sprintf("%siss-now.json", cfg.openNotifyURL)
}

// getISSPasses returns up to count predicted passes above minAltitude
// degrees. Failures degrade to an empty slice so the tonight plan can
// still be served.
func (cfg *apiConfig) getISSPasses(ctx context.Context, coords Coordinates, count, minAltitude int) []ISSPass {
	if cfg.n2yoKey != "" {
		passes, err := cfg.fetchN2YOPasses(ctx, coords, count, minAltitude)
		if err == nil {
			return passes
		}
		cfg.logger.Warn("N2YO pass prediction failed, falling back to open-notify", "error", err)
		providerFailures.WithLabelValues("n2yo").Inc()
	}

	passes, err := cfg.fetchOpenNotifyPasses(ctx, coords, count)
	if err != nil {
		cfg.logger.Warn("all ISS pass providers failed", "error", err)
		providerFailures.WithLabelValues("open-notify").Inc()
		return []ISSPass{}
	}
	return passes
}

func (cfg *apiConfig) fetchN2YOPasses(ctx context.Context, coords Coordinates, count, minAltitude int) ([]ISSPass, error) {
	var response ResponseISSPassesN2YO
	if err := cfg.getJSON(ctx, cfg.wrapForN2YOPasses(coords, count, minAltitude), &response); err != nil {
		return nil, err
	}

	passes := make([]ISSPass, 0, len(response.Passes))
	for _, p := range response.Passes {
		passes = append(passes, ISSPass{
			Risetime:    time.Unix(p.StartUTC, 0).UTC(),
			Duration:    p.Duration,
			RiseAzimuth: p.StartAz,
			MaxAltitude: p.MaxEl,
			SetAzimuth:  p.EndAz,
			Brightness:  issBrightness(p.Mag),
		})
	}
	return passes, nil
}

func (cfg *apiConfig) fetchOpenNotifyPasses(ctx context.Context, coords Coordinates, count int) ([]ISSPass, error) {
	var response ResponseISSPassesOpenNotify
	if err := cfg.getJSON(ctx, cfg.wrapForOpenNotifyPasses(coords, count), &response); err != nil {
		return nil, err
	}
	if response.Message != "success" {
		return nil, fmt.Errorf("unexpected open-notify response: %q", response.Message)
	}

	// Open-Notify only reports rise time and duration; the rest is filled
	// with conservative estimates.
	passes := make([]ISSPass, 0, len(response.Response))
	for _, p := range response.Response {
		passes = append(passes, ISSPass{
			Risetime:    time.Unix(p.Risetime, 0).UTC(),
			Duration:    p.Duration,
			MaxAltitude: 45,
			Brightness:  "possibly-visible",
		})
	}
	return passes, nil
}

// getISSPosition reports the station's current ground track point, or nil
// when the provider is unreachable.
func (cfg *apiConfig) getISSPosition(ctx context.Context) *ISSPosition {
	var response ResponseISSPositionOpenNotify
	if err := cfg.getJSON(ctx, cfg.wrapForOpenNotifyPosition(), &response); err != nil {
		cfg.logger.Warn("failed to fetch ISS position", "error", err)
		providerFailures.WithLabelValues("open-notify").Inc()
		return nil
	}
	if response.Message != "success" {
		return nil
	}

	lat, err := strconv.ParseFloat(response.ISSPosition.Latitude, 64)
	if err != nil {
		return nil
	}
	lng, err := strconv.ParseFloat(response.ISSPosition.Longitude, 64)
	if err != nil {
		return nil
	}

	return &ISSPosition{
		Latitude:  lat,
		Longitude: lng,
		Altitude:  issAverageAltitudeKm,
		Velocity:  issAverageVelocityKmh,
		Timestamp: time.Unix(response.Timestamp, 0).UTC(),
	}
}

// issBrightness buckets a pass by its peak visual magnitude.
func issBrightness(magnitude float64) string {
	switch {
	case magnitude <= -2:
		return "visible"
	case magnitude <= 0:
		return "possibly-visible"
	default:
		return "not-visible"
	}
}

// getJSON fetches url and decodes the JSON body into out.
func (cfg *apiConfig) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := cfg.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
