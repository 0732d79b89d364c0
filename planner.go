package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/cor0nius/willitclear/internal/ephemeris"
)

// The planner composes the full tonight plan for one location: ephemeris
// facts are computed synchronously, the three remote branches (weather,
// ISS passes, planet positions) run concurrently with per-branch
// timeouts, and every branch degrades independently. A finished plan is
// cached for plannerTTL so nearby repeat requests skip the fan-out.

const plannerTTL = 10 * time.Minute

const (
	weatherTimeout = 10 * time.Second
	issTimeout     = 10 * time.Second
	planetsTimeout = 7 * time.Second
)

// plannerCacheKey rounds coordinates to two decimals (~1 km) so nearby
// observers share a cache entry.
func plannerCacheKey(coords Coordinates, date time.Time) string {
	return fmt.Sprintf("tonightplan:%.2f:%.2f:%s", coords.Lat, coords.Lng, date.Format("2006-01-02"))
}

// tonightPlan returns the composed plan for coords on the local day of
// now, serving from cache when possible.
func (cfg *apiConfig) tonightPlan(ctx context.Context, coords Coordinates, now time.Time) (TonightPlan, error) {
	cacheKey := plannerCacheKey(coords, now)

	if cached, err := cfg.cache.Get(ctx, cacheKey); err == nil {
		var plan TonightPlan
		if err := json.Unmarshal([]byte(cached), &plan); err == nil {
			cacheHits.WithLabelValues("tonightplan").Inc()
			return plan, nil
		}
		cfg.logger.Warn("discarding unreadable cached plan", "key", cacheKey, "error", err)
	}
	cacheMisses.WithLabelValues("tonightplan").Inc()

	// Ephemeris phase: pure computation, no I/O.
	moonPhase := ephemeris.MoonPhaseAt(now)
	sunTimes := ephemeris.SunTimesFor(coords.Lat, coords.Lng, now)
	moonTimes := ephemeris.MoonTimesFor(coords.Lat, coords.Lng, now)
	window := calculateOptimalWindow(coords, now)

	// Fan-out phase: each branch owns its variable and its timeout, so a
	// slow provider can neither block siblings nor sink the plan.
	var (
		weather SkyQuality
		passes  []ISSPass
		planets []VisiblePlanet
	)
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		wctx, cancel := context.WithTimeout(ctx, weatherTimeout)
		defer cancel()
		weather = cfg.fetchSkyQuality(wctx, coords)
	}()
	go func() {
		defer wg.Done()
		ictx, cancel := context.WithTimeout(ctx, issTimeout)
		defer cancel()
		passes = cfg.getISSPasses(ictx, coords, 3, 10)
	}()
	go func() {
		defer wg.Done()
		pctx, cancel := context.WithTimeout(ctx, planetsTimeout)
		defer cancel()
		planets = visiblePlanetsAt(pctx, coords, window.Start.Add(window.End.Sub(window.Start)/2), moonPhase)
	}()
	wg.Wait()

	tonightEvents := getTonightEvents(&coords, now)
	activeShowers := getActiveMeteorShowers(now)

	localDarkSky := estimateDarkSkyScore(coords)
	overall := calculateOverallQuality(moonPhase.Illumination, window.Quality, localDarkSky, &weather)
	recommendations := buildRecommendations(moonPhase, activeShowers, planets, passes, &weather)

	plan := TonightPlan{
		Location: coords,
		Date:     now.Format(time.RFC3339),
		Moon: MoonJSON{
			Phase:        moonPhase.Name,
			Illumination: moonPhase.Illumination,
			Age:          moonPhase.Age,
			Rise:         moonTimes.Moonrise,
			Set:          moonTimes.Moonset,
		},
		Sun:             buildSunJSON(coords, sunTimes, now),
		OptimalWindow:   buildWindowJSON(window),
		LocalDarkSky:    localDarkSky,
		Weather:         &weather,
		VisiblePlanets:  planets,
		TonightEvents:   tonightEvents,
		ActiveShowers:   buildActiveShowersJSON(activeShowers),
		ISSPasses:       buildISSPassesJSON(passes),
		Recommendations: recommendations,
		OverallQuality:  overall,
		GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
	}

	if err := cfg.cache.Set(ctx, cacheKey, plan, plannerTTL); err != nil {
		cfg.logger.Warn("failed to cache tonight plan", "key", cacheKey, "error", err)
	}

	return plan, nil
}

// buildSunJSON substitutes fixed offsets from local midnight for any
// twilight time the search could not find (polar day or night), so the
// payload never carries a missing sun time.
func buildSunJSON(coords Coordinates, sun ephemeris.SunTimes, date time.Time) SunJSON {
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	pick := func(t *time.Time, fallback time.Duration) time.Time {
		if t != nil {
			return *t
		}
		return midnight.Add(fallback)
	}

	return SunJSON{
		Sunset:           pick(sun.Sunset, fallbackSunsetOffset),
		Sunrise:          pick(sun.Sunrise, fallbackSunriseOffset),
		AstronomicalDusk: pick(sun.AstronomicalDusk, fallbackDuskOffset),
		AstronomicalDawn: pick(sun.AstronomicalDawn, fallbackDawnOffset),
	}
}

func buildWindowJSON(window optimalWindow) OptimalWindowJSON {
	return OptimalWindowJSON{
		Start:    window.Start,
		End:      window.End,
		Quality:  window.Quality,
		Duration: int(math.Round(window.End.Sub(window.Start).Hours())),
	}
}

func buildActiveShowersJSON(showers []MeteorShower) []ActiveShowerJSON {
	out := make([]ActiveShowerJSON, 0, len(showers))
	for _, s := range showers {
		out = append(out, ActiveShowerJSON{Name: s.Name, ZHR: s.ZHR, Peak: s.Peak})
	}
	return out
}

func buildISSPassesJSON(passes []ISSPass) []ISSPassJSON {
	out := make([]ISSPassJSON, 0, len(passes))
	for _, p := range passes {
		out = append(out, ISSPassJSON{
			Risetime:    p.Risetime.Format(time.RFC3339),
			Duration:    p.Duration,
			MaxAltitude: p.MaxAltitude,
			Brightness:  p.Brightness,
			Formatted:   formatPassTime(p),
		})
	}
	return out
}

// formatPassTime renders a pass as "8:45 PM (6 min)".
func formatPassTime(pass ISSPass) string {
	return fmt.Sprintf("%s (%d min)", pass.Risetime.Format("3:04 PM"), int(math.Round(float64(pass.Duration)/60)))
}

// visiblePlanetsAt scores each planet at the reference instant, keeping
// those more than 15 degrees above the horizon. The context lets the
// planner bound the calculation alongside its remote siblings even though
// the work is local.
func visiblePlanetsAt(ctx context.Context, coords Coordinates, at time.Time, moonPhase ephemeris.MoonPhase) []VisiblePlanet {
	moonRA, moonDec, _ := ephemeris.EquatorialPosition(ephemeris.Moon, at)
	moonAlt := ephemeris.BodyPosition(ephemeris.Moon, coords.Lat, coords.Lng, at).Altitude

	visible := make([]VisiblePlanet, 0, len(ephemeris.Planets))
	for _, planet := range ephemeris.Planets {
		if ctx.Err() != nil {
			break
		}

		pos := ephemeris.BodyPosition(planet, coords.Lat, coords.Lng, at)
		if pos.Altitude <= 15 {
			continue
		}

		ra, dec, _ := ephemeris.EquatorialPosition(planet, at)
		score := calculateVisibilityScore(visibilityParams{
			Altitude:          pos.Altitude,
			MoonPhase:         moonPhase.Phase,
			MoonAltitude:      moonAlt,
			AngularSeparation: ephemeris.AngularSeparation(ra, dec, moonRA, moonDec),
		})

		visible = append(visible, VisiblePlanet{
			Name:          planet.String(),
			Altitude:      math.Round(pos.Altitude*10) / 10,
			Azimuth:       math.Round(pos.Azimuth*10) / 10,
			Visibility:    score.Rating,
			BestDirection: compassDirection(pos.Azimuth),
		})
	}
	return visible
}

var compassPoints = []string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

func compassDirection(azimuth float64) string {
	index := int(math.Round(azimuth/22.5)) % 16
	if index < 0 {
		index += 16
	}
	return compassPoints[index]
}

// buildRecommendations emits observing advice in a fixed order: moon
// strategy first, then showers, planets, ISS, weather. Fixed order keeps
// the payload deterministic for a given set of inputs.
func buildRecommendations(moonPhase ephemeris.MoonPhase, showers []MeteorShower, planets []VisiblePlanet, passes []ISSPass, weather *SkyQuality) []Recommendation {
	recommendations := make([]Recommendation, 0, 5)

	if moonPhase.Illumination > 20 {
		recommendations = append(recommendations, Recommendation{
			Priority:    "high",
			Title:       fmt.Sprintf("Observe the %s", moonPhase.Name),
			Description: fmt.Sprintf("%d%% illuminated. Great for lunar features.", int(math.Round(moonPhase.Illumination))),
			Timing:      "After sunset",
		})
	} else {
		recommendations = append(recommendations, Recommendation{
			Priority:    "high",
			Title:       "Dark sky advantage",
			Description: "Low moonlight - perfect for deep-sky objects and galaxies.",
			Timing:      "All night",
		})
	}

	if len(showers) > 0 {
		shower := showers[0]
		recommendations = append(recommendations, Recommendation{
			Priority:    "medium",
			Title:       fmt.Sprintf("%s active", shower.Name),
			Description: fmt.Sprintf("Peak rate: %d meteors/hour. Best after midnight.", shower.ZHR),
			Timing:      "After midnight",
		})
	}

	if len(planets) > 0 {
		names := planets[0].Name
		for _, p := range planets[1:] {
			names += ", " + p.Name
		}
		plural := ""
		if len(planets) > 1 {
			plural = "s"
		}
		recommendations = append(recommendations, Recommendation{
			Priority:    "medium",
			Title:       fmt.Sprintf("%d planet%s visible", len(planets), plural),
			Description: names,
			Timing:      "Check individual times",
		})
	}

	if len(passes) > 0 {
		next := passes[0]
		recommendations = append(recommendations, Recommendation{
			Priority:    "high",
			Title:       "ISS pass tonight",
			Description: fmt.Sprintf("Visible for %d minutes, reaching %d° altitude.", int(math.Round(float64(next.Duration)/60)), int(math.Round(next.MaxAltitude))),
			Timing:      formatPassTime(next),
		})
	}

	if weather != nil {
		if weather.CloudCover > 55 {
			recommendations = append(recommendations, Recommendation{
				Priority:    "medium",
				Title:       "Cloud cover elevated",
				Description: fmt.Sprintf("%d%% cloud cover. Prioritize brighter targets and lunar features.", int(weather.CloudCover)),
				Timing:      "Check for short clear windows",
			})
		} else {
			recommendations = append(recommendations, Recommendation{
				Priority:    "high",
				Title:       "Weather supports deep-sky viewing",
				Description: fmt.Sprintf("%d%% clouds and %s seeing conditions right now.", int(weather.CloudCover), weather.Seeing),
				Timing:      "Use optimal window",
			})
		}
	}

	return recommendations
}

// calculateOverallQuality folds the night's four signals into one score.
// A missing weather reading contributes the neutral default of 65.
func calculateOverallQuality(moonIllumination float64, windowQuality, darkSkyScore int, weather *SkyQuality) OverallQuality {
	weatherQuality := 65.0
	if weather != nil {
		weatherQuality = float64(weather.Quality)
	}

	score := int(math.Round(
		float64(windowQuality)*0.35 +
			(100-moonIllumination)*0.25 +
			weatherQuality*0.25 +
			float64(darkSkyScore)*0.15))

	var rating, description string
	switch {
	case score >= 85:
		rating = "Exceptional"
		description = "Outstanding conditions for all types of observation"
	case score >= 70:
		rating = "Excellent"
		description = "Great conditions for most celestial objects"
	case score >= 55:
		rating = "Good"
		description = "Favorable conditions for bright objects"
	case score >= 40:
		rating = "Fair"
		description = "Challenging but still worthwhile"
	default:
		rating = "Poor"
		description = "Consider observing brighter objects only"
	}

	return OverallQuality{Score: score, Rating: rating, Description: description}
}
