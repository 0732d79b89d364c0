package main

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/cor0nius/willitclear/internal/ephemeris"
)

// This file generates the astronomy event calendar: moon-phase milestones
// found by scanning each day of the range, meteor showers from the static
// reference catalog, and a fixed table of notable planetary and seasonal
// events. Generation is deterministic: the same range always reproduces
// the same events with the same ids.

// meteorShowersByYear is the versioned shower reference dataset. Peaks and
// activity intervals shift slightly from year to year, so each supported
// year carries its own table; extending coverage is a data update.
var meteorShowersByYear = map[int][]MeteorShower{
	2026: {
		{Name: "Quadrantids", Peak: date(2026, 1, 3), ZHR: 120, ActiveStart: date(2026, 1, 1), ActiveEnd: date(2026, 1, 12)},
		{Name: "Lyrids", Peak: date(2026, 4, 22), ZHR: 18, ActiveStart: date(2026, 4, 16), ActiveEnd: date(2026, 4, 25)},
		{Name: "Eta Aquariids", Peak: date(2026, 5, 6), ZHR: 50, ActiveStart: date(2026, 4, 19), ActiveEnd: date(2026, 5, 28)},
		{Name: "Perseids", Peak: date(2026, 8, 12), ZHR: 100, ActiveStart: date(2026, 7, 17), ActiveEnd: date(2026, 8, 24)},
		{Name: "Orionids", Peak: date(2026, 10, 21), ZHR: 25, ActiveStart: date(2026, 10, 2), ActiveEnd: date(2026, 11, 7)},
		{Name: "Leonids", Peak: date(2026, 11, 17), ZHR: 15, ActiveStart: date(2026, 11, 6), ActiveEnd: date(2026, 11, 30)},
		{Name: "Geminids", Peak: date(2026, 12, 14), ZHR: 150, ActiveStart: date(2026, 12, 4), ActiveEnd: date(2026, 12, 20)},
	},
}

// notableEvent is one fixed calendar entry (oppositions, elongations,
// solstices) that does not depend on the observer.
type notableEvent struct {
	Date       time.Time
	Title      string
	Summary    string
	Visibility string
	Score      int
}

var notableEvents = []notableEvent{
	{date(2026, 2, 9), "Venus at Greatest Elongation East", "Venus reaches maximum separation from the Sun. Best evening viewing.", ratingExcellent, 95},
	{date(2026, 3, 15), "Mars-Jupiter Conjunction", "Mars and Jupiter appear very close in the evening sky.", ratingGood, 85},
	{date(2026, 4, 18), "Saturn at Opposition", "Saturn at its brightest and best positioned for observation.", ratingExcellent, 92},
	{date(2026, 6, 20), "Summer Solstice", "Longest day of the year in the Northern Hemisphere. Shortest night.", ratingGood, 70},
	{date(2026, 9, 22), "Jupiter at Opposition", "Jupiter at closest approach to Earth. Prime viewing all night.", ratingExcellent, 98},
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// generateUpcomingEvents unions the three sub-generators over
// [fromDate, fromDate+daysAhead] and returns the result sorted ascending
// by date. Coordinates are accepted for interface stability but the
// generated events are currently observer-independent.
func generateUpcomingEvents(coords *Coordinates, fromDate time.Time, daysAhead int) []AstronomyEvent {
	toDate := fromDate.AddDate(0, 0, daysAhead)

	events := generateMoonEvents(fromDate, toDate)
	events = append(events, generateMeteorShowerEvents(fromDate, toDate)...)
	events = append(events, generateNotableEvents(fromDate, toDate)...)

	// Sort on the instant, not the formatted string: moon events carry
	// fromDate's zone offset while shower and notable events are UTC, and
	// mixed-offset RFC3339 strings do not compare chronologically.
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].at.Before(events[j].at)
	})

	return events
}

// getTonightEvents restricts generation to a one-day window starting at
// local midnight of now.
func getTonightEvents(coords *Coordinates, now time.Time) []AstronomyEvent {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return generateUpcomingEvents(coords, midnight, 1)
}

// getActiveMeteorShowers returns catalog entries whose activity interval
// contains date, boundaries inclusive. A shower is worth mentioning for
// weeks around its peak, not just on the peak day.
func getActiveMeteorShowers(at time.Time) []MeteorShower {
	var active []MeteorShower
	for _, shower := range meteorShowersByYear[at.Year()] {
		if at.Before(shower.ActiveStart) || at.After(shower.ActiveEnd.Add(24*time.Hour-time.Nanosecond)) {
			continue
		}
		active = append(active, shower)
	}
	return active
}

// moonMilestone pairs a target phase value with its display copy.
type moonMilestone struct {
	phase   float64
	title   string
	summary string
}

var moonMilestones = []moonMilestone{
	{0.0, "New Moon", "Ideal for deep-sky observation. No moonlight interference."},
	{0.25, "First Quarter Moon", "Half-illuminated moon visible in the evening sky."},
	{0.5, "Full Moon", "Bright moonlight affects deep-sky viewing. Great for lunar observation."},
	{0.75, "Last Quarter Moon", "Half-illuminated moon visible in the morning sky."},
}

const milestoneTolerance = 0.02

// generateMoonEvents walks each day of the range and emits one event per
// day whose noon phase lands within the tolerance band of a milestone.
// After a hit the next day is skipped: the band is wide enough that two
// consecutive days can straddle the same milestone, and one milestone
// must yield one event.
func generateMoonEvents(fromDate, toDate time.Time) []AstronomyEvent {
	var events []AstronomyEvent

	for day := fromDate; !day.After(toDate); day = day.AddDate(0, 0, 1) {
		noon := time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, day.Location())
		mp := ephemeris.MoonPhaseAt(noon)

		milestone, ok := matchMilestone(mp.Phase)
		if !ok {
			continue
		}

		visibility := ratingGood
		if mp.Illumination > 80 {
			visibility = ratingExcellent
		}

		events = append(events, AstronomyEvent{
			ID:              fmt.Sprintf("moon-%s", day.Format("2006-01-02")),
			Title:           milestone.title,
			Date:            day.Format(time.RFC3339),
			Window:          "All night",
			Visibility:      visibility,
			VisibilityScore: int(math.Round(100 - mp.Illumination)),
			Summary:         milestone.summary,
			Type:            "moon",
			at:              day,
		})
		day = day.AddDate(0, 0, 1)
	}

	return events
}

func matchMilestone(phase float64) (moonMilestone, bool) {
	for _, m := range moonMilestones {
		delta := math.Abs(phase - m.phase)
		// The new-moon band wraps around the 1.0 -> 0.0 seam.
		if m.phase == 0 && phase > 0.5 {
			delta = 1 - phase
		}
		if delta < milestoneTolerance {
			return m, true
		}
	}
	return moonMilestone{}, false
}

// generateMeteorShowerEvents emits one event per catalog shower whose peak
// falls inside the range. Visibility folds the peak night's moon
// illumination into the shower's ZHR.
func generateMeteorShowerEvents(fromDate, toDate time.Time) []AstronomyEvent {
	var events []AstronomyEvent

	for year := fromDate.Year(); year <= toDate.Year(); year++ {
		for _, shower := range meteorShowersByYear[year] {
			if shower.Peak.Before(fromDate) || shower.Peak.After(toDate) {
				continue
			}

			mp := ephemeris.MoonPhaseAt(shower.Peak)
			score := meteorVisibilityScore(shower.ZHR, mp.Illumination)

			moonCondition := "Bright moonlight may reduce visibility."
			if mp.Illumination < 30 {
				moonCondition = "Dark skies - excellent conditions!"
			} else if mp.Illumination < 60 {
				moonCondition = "Some moonlight, but still observable."
			}

			events = append(events, AstronomyEvent{
				ID:              fmt.Sprintf("meteor-%s-%d", normalizeSlug(shower.Name), year),
				Title:           fmt.Sprintf("%s Meteor Shower", shower.Name),
				Date:            shower.Peak.Format(time.RFC3339),
				Window:          "10:00 PM - 4:00 AM",
				Peak:            "Around 2:00 AM local time",
				Visibility:      ratingForScore(score),
				VisibilityScore: score,
				Summary:         fmt.Sprintf("Peak rate: %d meteors/hour. %s", shower.ZHR, moonCondition),
				Type:            "meteor",
				at:              shower.Peak,
			})
		}
	}

	return events
}

// meteorVisibilityScore caps the ZHR at 100 and discounts it by moon
// illumination, floored at zero.
func meteorVisibilityScore(zhr int, moonIllumination float64) int {
	base := math.Min(100, float64(zhr))
	return int(math.Max(0, math.Round(base*(1-moonIllumination/150))))
}

func generateNotableEvents(fromDate, toDate time.Time) []AstronomyEvent {
	var events []AstronomyEvent

	for _, ev := range notableEvents {
		if ev.Date.Before(fromDate) || ev.Date.After(toDate) {
			continue
		}
		events = append(events, AstronomyEvent{
			ID:              fmt.Sprintf("planet-%s", ev.Date.Format("2006-01-02")),
			Title:           ev.Title,
			Date:            ev.Date.Format(time.RFC3339),
			Window:          "Dusk - Dawn",
			Visibility:      ev.Visibility,
			VisibilityScore: ev.Score,
			Summary:         ev.Summary,
			Type:            "planet",
			at:              ev.Date,
		})
	}

	return events
}
