package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateVisibilityScore(t *testing.T) {
	t.Run("HighTargetDarkSiteNoMoon", func(t *testing.T) {
		score := calculateVisibilityScore(visibilityParams{
			Altitude:     60,
			MoonAltitude: -10,
			BortleClass:  2,
			Humidity:     50,
		})

		// 85*0.3 + 100*0.25 + 100*0.25 + 87.5*0.2
		assert.Equal(t, 93, score.Score)
		assert.Equal(t, ratingExcellent, score.Rating)
		assert.Equal(t, 100, score.Factors.MoonInterference)
		assert.Equal(t, 85, score.Factors.Altitude)
		assert.Equal(t, 88, score.Factors.LightPollution)
	})

	t.Run("LowAltitudePenalty", func(t *testing.T) {
		score := calculateVisibilityScore(visibilityParams{
			Altitude:     10,
			MoonAltitude: -5,
			BortleClass:  5,
			Humidity:     50,
		})

		// 30*0.3 + 100*0.25 + 100*0.25 + 50*0.2
		assert.Equal(t, 69, score.Score)
		assert.Equal(t, ratingGood, score.Rating)
		assert.Equal(t, 30, score.Factors.Altitude)
	})

	t.Run("FullMoonCloseBy", func(t *testing.T) {
		score := calculateVisibilityScore(visibilityParams{
			Altitude:          45,
			MoonPhase:         0.5,
			MoonAltitude:      40,
			AngularSeparation: 10,
			BortleClass:       5,
			Humidity:          50,
		})

		assert.Equal(t, 11, score.Factors.MoonInterference)
		assert.Equal(t, 61, score.Score)
		assert.Equal(t, ratingGood, score.Rating)
	})

	t.Run("WideSeparationNeutralizesMoon", func(t *testing.T) {
		score := calculateVisibilityScore(visibilityParams{
			Altitude:          45,
			MoonPhase:         0.5,
			MoonAltitude:      40,
			AngularSeparation: 90,
			BortleClass:       5,
			Humidity:          50,
		})

		assert.Equal(t, 100, score.Factors.MoonInterference)
	})

	t.Run("CloudsAndHumidityDegradeAtmosphere", func(t *testing.T) {
		score := calculateVisibilityScore(visibilityParams{
			Altitude:     45,
			MoonAltitude: -10,
			BortleClass:  5,
			CloudCover:   80,
			Humidity:     90,
		})

		// 100 - 80 - (90-70)*0.5
		assert.Equal(t, 10, score.Factors.AtmosphericConditions)
		assert.Equal(t, 61, score.Score)
	})

	t.Run("ZeroValuesGetDefaults", func(t *testing.T) {
		score := calculateVisibilityScore(visibilityParams{
			Altitude:     45,
			MoonAltitude: -10,
		})

		// Bortle defaults to 5, humidity to 50.
		assert.Equal(t, 50, score.Factors.LightPollution)
		assert.Equal(t, 100, score.Factors.AtmosphericConditions)
	})
}

func TestRatingForScore(t *testing.T) {
	tests := []struct {
		score    int
		expected string
	}{
		{100, ratingExcellent},
		{80, ratingExcellent},
		{79, ratingGood},
		{60, ratingGood},
		{59, ratingFair},
		{40, ratingFair},
		{39, ratingPoor},
		{0, ratingPoor},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ratingForScore(tt.score), "score %d", tt.score)
	}
}

func TestCalculateOptimalWindow(t *testing.T) {
	t.Run("MidLatitudeNight", func(t *testing.T) {
		date := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
		window := calculateOptimalWindow(defaultLocation, date)

		assert.True(t, window.End.After(window.Start))
		duration := window.End.Sub(window.Start)
		assert.Greater(t, duration, 4*time.Hour)
		assert.Less(t, duration, 12*time.Hour)
		assert.GreaterOrEqual(t, window.Quality, 20)
		assert.LessOrEqual(t, window.Quality, 100)
	})

	t.Run("PolarSummerUsesFallbackOffsets", func(t *testing.T) {
		// Svalbard in June: the sun never reaches astronomical darkness,
		// so both window edges come from the fixed offsets.
		date := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
		window := calculateOptimalWindow(Coordinates{Lat: 78.22, Lng: 15.64}, date)

		assert.Equal(t, 19, window.Start.Hour())
		assert.Equal(t, 30, window.Start.Minute())
		assert.Equal(t, 9*time.Hour+30*time.Minute, window.End.Sub(window.Start))
	})
}

func TestMoonInterferenceLevel(t *testing.T) {
	tests := []struct {
		illumination float64
		expected     string
	}{
		{0, "minimal"},
		{24.9, "minimal"},
		{25, "low"},
		{49.9, "low"},
		{50, "moderate"},
		{74.9, "moderate"},
		{75, "high"},
		{100, "high"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, moonInterferenceLevel(tt.illumination), "illumination %.1f", tt.illumination)
	}
}
