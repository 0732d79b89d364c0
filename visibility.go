package main

import (
	"math"
	"time"

	"github.com/cor0nius/willitclear/internal/ephemeris"
)

// This file implements the per-object visibility scoring model and the
// optimal observation window. Both are pure calculations: weather is
// folded in by the planner afterwards, not here.

// visibilityParams are the inputs to calculateVisibilityScore. Zero values
// for the optional fields are replaced by the documented defaults.
type visibilityParams struct {
	Altitude          float64 // degrees above horizon
	MoonPhase         float64 // [0,1)
	MoonAltitude      float64 // degrees
	AngularSeparation float64 // degrees from the moon
	BortleClass       int     // 1-9, default 5
	CloudCover        float64 // percent, default 0
	Humidity          float64 // percent, default 50
}

const (
	ratingExcellent = "excellent"
	ratingGood      = "good"
	ratingFair      = "fair"
	ratingPoor      = "poor"
)

// calculateVisibilityScore produces a 0-100 score from altitude, moon
// interference, light pollution and atmospheric conditions, weighted
// 0.30/0.25/0.20/0.25.
func calculateVisibilityScore(p visibilityParams) VisibilityScore {
	if p.BortleClass == 0 {
		p.BortleClass = 5
	}
	if p.Humidity == 0 {
		p.Humidity = 50
	}

	// Piecewise altitude factor: steep penalty under 15 degrees where
	// atmospheric extinction dominates, diminishing returns above 30.
	var altitudeFactor float64
	switch {
	case p.Altitude < 15:
		altitudeFactor = p.Altitude * 3
	case p.Altitude < 30:
		altitudeFactor = 45 + (p.Altitude-15)*2
	default:
		altitudeFactor = 70 + (p.Altitude-30)*0.5
	}
	altitudeFactor = clamp(altitudeFactor, 0, 100)

	// Moonlight only interferes while the moon is up. Separation of 90
	// degrees or more makes the interference negligible.
	moonInterference := 100.0
	if p.MoonAltitude > 0 {
		moonIllum := p.MoonPhase * 2
		if p.MoonPhase >= 0.5 {
			moonIllum = (1 - p.MoonPhase) * 2
		}
		moonBrightness := moonIllum * 100
		separationFactor := math.Min(100, p.AngularSeparation/90*100)
		moonInterference = 100 - moonBrightness*(100-separationFactor)/100
	}

	lightPollution := math.Max(0, 100-float64(p.BortleClass-1)*12.5)

	humidityPenalty := 0.0
	if p.Humidity > 70 {
		humidityPenalty = (p.Humidity - 70) * 0.5
	}
	atmospheric := math.Max(0, 100-p.CloudCover-humidityPenalty)

	score := int(math.Round(
		altitudeFactor*0.3 +
			moonInterference*0.25 +
			atmospheric*0.25 +
			lightPollution*0.2))

	return VisibilityScore{
		Score:  score,
		Rating: ratingForScore(score),
		Factors: VisibilityFactors{
			MoonInterference:      int(math.Round(moonInterference)),
			Altitude:              int(math.Round(altitudeFactor)),
			AtmosphericConditions: int(math.Round(atmospheric)),
			LightPollution:        int(math.Round(lightPollution)),
		},
	}
}

// ratingForScore maps a score onto the four-tier rating scale. The
// boundaries are inclusive: 80 is excellent, 79 is good.
func ratingForScore(score int) string {
	switch {
	case score >= 80:
		return ratingExcellent
	case score >= 60:
		return ratingGood
	case score >= 40:
		return ratingFair
	default:
		return ratingPoor
	}
}

// optimalWindow is tonight's best observation interval: astronomical dusk
// to astronomical dawn, with quality driven by moon illumination alone.
type optimalWindow struct {
	Start   time.Time
	End     time.Time
	Quality int
}

// Fixed offsets from local midnight substituted when the twilight search
// finds no crossing (polar latitudes).
const (
	fallbackDuskOffset    = 19*time.Hour + 30*time.Minute
	fallbackDawnOffset    = 5 * time.Hour
	fallbackSunsetOffset  = 18 * time.Hour
	fallbackSunriseOffset = 6*time.Hour + 30*time.Minute
)

// calculateOptimalWindow derives the dusk-to-dawn window for the local
// calendar day of date. Quality is 100 - illumination*0.8: a new moon
// scores 100, a full moon 20.
func calculateOptimalWindow(coords Coordinates, date time.Time) optimalWindow {
	sun := ephemeris.SunTimesFor(coords.Lat, coords.Lng, date)
	moon := ephemeris.MoonPhaseAt(date)

	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	start := midnight.Add(fallbackDuskOffset)
	if sun.AstronomicalDusk != nil {
		start = *sun.AstronomicalDusk
	}
	end := midnight.Add(24*time.Hour + fallbackDawnOffset)
	if sun.AstronomicalDawn != nil {
		end = sun.AstronomicalDawn.Add(24 * time.Hour)
		if sun.AstronomicalDawn.After(start) {
			end = *sun.AstronomicalDawn
		}
	}

	return optimalWindow{
		Start:   start,
		End:     end,
		Quality: int(math.Round(100 - moon.Illumination*0.8)),
	}
}

// moonInterferenceLevel describes the window's moonlight burden.
func moonInterferenceLevel(illumination float64) string {
	switch {
	case illumination < 25:
		return "minimal"
	case illumination < 50:
		return "low"
	case illumination < 75:
		return "moderate"
	default:
		return "high"
	}
}
