package main

import (
	"encoding/json"
	"io"
	"math"
)

func ParseSkyQualityOWM(body io.Reader) (SkyQuality, error) {
	var response ResponseSkyOpenWeather

	if err := json.NewDecoder(body).Decode(&response); err != nil {
		return SkyQuality{Source: "openweather"}, err
	}

	// OpenWeather reports wind in m/s.
	windKmh := response.Wind.Speed * 3.6

	return buildSkyQuality(
		response.Clouds.All,
		response.Main.Humidity,
		windKmh,
		response.Main.Temp,
		"openweather",
	), nil
}

func ParseSkyQualityOMeteo(body io.Reader) (SkyQuality, error) {
	var response ResponseSkyOpenMeteo

	if err := json.NewDecoder(body).Decode(&response); err != nil {
		return SkyQuality{Source: "openmeteo"}, err
	}

	return buildSkyQuality(
		response.Current.CloudCover,
		response.Current.RelativeHumidity2m,
		response.Current.WindSpeed10m,
		response.Current.Temperature2m,
		"openmeteo",
	), nil
}

// buildSkyQuality derives the astronomy-specific fields from the raw
// meteorological readings so every provider reports the same shape.
func buildSkyQuality(cloudCover, humidity, windKmh, temp float64, source string) SkyQuality {
	return SkyQuality{
		CloudCover:   math.Round(cloudCover),
		Humidity:     math.Round(humidity),
		WindSpeed:    math.Round(windKmh*10) / 10,
		Temperature:  temp,
		Transparency: 100 - math.Round(cloudCover),
		Quality:      skyQualityScore(cloudCover, humidity, windKmh),
		Seeing:       seeingCondition(windKmh, humidity),
		Source:       source,
	}
}

// skyQualityScore folds cloud cover, humidity and wind into a single 0-100
// score. Cloud cover dominates: a fully overcast sky is useless no matter
// how still the air is.
func skyQualityScore(cloudCover, humidity, windKmh float64) int {
	const (
		cloudWeight    = 0.6
		humidityWeight = 0.2
		windWeight     = 0.2
	)

	cloudScore := 100 - cloudCover
	humidityScore := math.Max(0, 100-humidity)
	windScore := math.Max(0, 100-math.Min(100, windKmh*2))

	return int(math.Round(cloudScore*cloudWeight + humidityScore*humidityWeight + windScore*windWeight))
}

// seeingCondition buckets atmospheric steadiness. Wind shakes the image,
// humidity blurs it.
func seeingCondition(windKmh, humidity float64) string {
	switch {
	case windKmh > 30 || humidity > 80:
		return "poor"
	case windKmh > 20 || humidity > 70:
		return "fair"
	case windKmh > 10 || humidity > 60:
		return "good"
	default:
		return "excellent"
	}
}
