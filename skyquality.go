package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Sky quality comes from an ordered chain of provider strategies. Each
// strategy is tried in turn; the first success wins, and the terminal
// "estimated" strategy never fails, so fetchSkyQuality always returns a
// usable reading.

type skyProvider struct {
	name   string
	url    func(coords Coordinates) string
	parser func(io.Reader) (SkyQuality, error)
}

func (cfg *apiConfig) wrapForOpenWeatherSky(coords Coordinates) string {
	return fmt.Sprintf("%slat=%.4f&lon=%.4f&units=metric&appid=%s", cfg.owmURL, coords.Lat, coords.Lng, cfg.owmKey)
}

func (cfg *apiConfig) wrapForOpenMeteoSky(coords Coordinates) string {
	parameters := "cloud_cover,relative_humidity_2m,wind_speed_10m,temperature_2m"
	return fmt.Sprintf("%slatitude=%.4f&longitude=%.4f&current=%s&timezone=auto", cfg.ometeoURL, coords.Lat, coords.Lng, parameters)
}

// skyProviders builds the strategy order from configuration. An explicit
// provider pins the chain to that provider alone; "auto" tries OpenWeather
// first when a key is configured and Open-Meteo (keyless) after it.
func (cfg *apiConfig) skyProviders() []skyProvider {
	openWeather := skyProvider{name: "openweather", url: cfg.wrapForOpenWeatherSky, parser: ParseSkyQualityOWM}
	openMeteo := skyProvider{name: "openmeteo", url: cfg.wrapForOpenMeteoSky, parser: ParseSkyQualityOMeteo}

	switch cfg.skyProvider {
	case "openweather":
		return []skyProvider{openWeather}
	case "openmeteo":
		return []skyProvider{openMeteo}
	default:
		if cfg.owmKey != "" {
			return []skyProvider{openWeather, openMeteo}
		}
		return []skyProvider{openMeteo}
	}
}

// fetchSkyQuality walks the provider chain and falls back to the estimated
// reading when every provider fails. It never returns an error: downstream
// scoring always gets a reading, degraded or not.
func (cfg *apiConfig) fetchSkyQuality(ctx context.Context, coords Coordinates) SkyQuality {
	for _, provider := range cfg.skyProviders() {
		reading, err := cfg.fetchSkyFromProvider(ctx, provider, coords)
		if err != nil {
			cfg.logger.Warn("sky quality provider failed", "provider", provider.name, "error", err)
			providerFailures.WithLabelValues(provider.name).Inc()
			continue
		}
		return reading
	}

	cfg.logger.Warn("all sky quality providers failed, using estimated conditions")
	return estimatedSkyQuality()
}

func (cfg *apiConfig) fetchSkyFromProvider(ctx context.Context, provider skyProvider, coords Coordinates) (SkyQuality, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, provider.url(coords), nil)
	if err != nil {
		return SkyQuality{}, err
	}

	resp, err := cfg.httpClient.Do(req)
	if err != nil {
		return SkyQuality{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return SkyQuality{}, fmt.Errorf("failed to fetch sky quality: %s", resp.Status)
	}

	return provider.parser(resp.Body)
}

// estimatedSkyQuality is the terminal strategy: fixed typical conditions
// that keep the plan useful when no provider answers.
func estimatedSkyQuality() SkyQuality {
	return buildSkyQuality(45, 55, 8, 15, "estimated")
}
