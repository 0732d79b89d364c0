// Package ephemeris computes medium-precision positions and events for the
// Sun, Moon and planets: moon phase and illumination, rise/set and twilight
// times found by altitude-crossing search, horizontal coordinates for an
// arbitrary body, angular separations and season boundaries.
//
// The models are truncated Meeus-style series, accurate to a few arcminutes.
// That places rise/set times within a minute or two of ephemeris-grade
// results, which is far below the precision anything downstream (visibility
// scoring, observation windows) can make use of.
//
// Events that do not occur in the searched day (polar day and night) are
// reported as nil times, never errors. Callers substitute fixed offsets.
package ephemeris

import (
	"math"
	"time"
)

// Body identifies a celestial body.
type Body int

const (
	Sun Body = iota
	Moon
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
)

var bodyNames = map[Body]string{
	Sun: "Sun", Moon: "Moon", Mercury: "Mercury", Venus: "Venus",
	Mars: "Mars", Jupiter: "Jupiter", Saturn: "Saturn",
	Uranus: "Uranus", Neptune: "Neptune",
}

func (b Body) String() string { return bodyNames[b] }

// Planets lists the seven planets in distance order.
var Planets = []Body{Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune}

// SynodicMonth is the length of the mean lunar phase cycle in days.
const SynodicMonth = 29.53059

// standardHorizon is the rise/set altitude threshold: 34 arcminutes of
// refraction plus half the solar/lunar disc.
const standardHorizon = -0.833

// MoonPhase describes the Moon's phase at an instant. Phase runs [0, 1)
// with 0 = new and 0.5 = full; it is a property of the instant alone,
// independent of the observer.
type MoonPhase struct {
	Phase        float64 // [0, 1)
	Illumination float64 // percent, one decimal
	Age          float64 // days since new moon, one decimal
	Name         string  // one of the 8 canonical phase names
}

// MoonPhaseAt computes the Moon's phase from the Sun-Moon ecliptic
// longitude difference.
func MoonPhaseAt(t time.Time) MoonPhase {
	moonLon, _, _ := moonEcliptic(t.UTC())
	sunLon := sunEclipticLongitude(t.UTC())

	phase := norm360(moonLon-sunLon) / 360.0
	if phase >= 1 {
		phase = 0
	}

	illumination := (1 - math.Cos(2*math.Pi*phase)) / 2 * 100

	return MoonPhase{
		Phase:        phase,
		Illumination: round1(illumination),
		Age:          round1(phase * SynodicMonth),
		Name:         phaseName(phase),
	}
}

func phaseName(phase float64) string {
	switch {
	case phase < 0.033 || phase > 0.967:
		return "New Moon"
	case phase < 0.216:
		return "Waxing Crescent"
	case phase < 0.284:
		return "First Quarter"
	case phase < 0.466:
		return "Waxing Gibbous"
	case phase < 0.534:
		return "Full Moon"
	case phase < 0.716:
		return "Waning Gibbous"
	case phase < 0.784:
		return "Last Quarter"
	default:
		return "Waning Crescent"
	}
}

// SunTimes holds the Sun's crossings for one local calendar day. A nil
// entry means the crossing does not occur within the day.
type SunTimes struct {
	Sunrise          *time.Time
	Sunset           *time.Time
	CivilDawn        *time.Time
	CivilDusk        *time.Time
	NauticalDawn     *time.Time
	NauticalDusk     *time.Time
	AstronomicalDawn *time.Time
	AstronomicalDusk *time.Time
}

// MoonTimes holds the Moon's rise and set for one local calendar day.
type MoonTimes struct {
	Moonrise *time.Time
	Moonset  *time.Time
}

// SunTimesFor searches the local calendar day of date for the Sun's
// rise/set and the three twilight boundaries at (lat, lng).
func SunTimesFor(lat, lng float64, date time.Time) SunTimes {
	start, end := dayWindow(date)
	f := func(t time.Time) float64 { return sunAltitude(lat, lng, t) }

	search := func(target float64, dir crossing) *time.Time {
		t, ok := findCrossing(f, start, end, target, dir)
		if !ok {
			return nil
		}
		return &t
	}

	return SunTimes{
		Sunrise:          search(standardHorizon, crossingUp),
		Sunset:           search(standardHorizon, crossingDown),
		CivilDawn:        search(-6, crossingUp),
		CivilDusk:        search(-6, crossingDown),
		NauticalDawn:     search(-12, crossingUp),
		NauticalDusk:     search(-12, crossingDown),
		AstronomicalDawn: search(-18, crossingUp),
		AstronomicalDusk: search(-18, crossingDown),
	}
}

// MoonTimesFor searches the local calendar day of date for moonrise and
// moonset at (lat, lng).
func MoonTimesFor(lat, lng float64, date time.Time) MoonTimes {
	start, end := dayWindow(date)
	f := func(t time.Time) float64 { return moonAltitude(lat, lng, t) }

	var times MoonTimes
	if t, ok := findCrossing(f, start, end, standardHorizon, crossingUp); ok {
		times.Moonrise = &t
	}
	if t, ok := findCrossing(f, start, end, standardHorizon, crossingDown); ok {
		times.Moonset = &t
	}
	return times
}

func dayWindow(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return start, start.Add(24 * time.Hour)
}

// HorizontalPosition is a body's position in the observer's sky.
type HorizontalPosition struct {
	Altitude float64 // degrees above the horizon
	Azimuth  float64 // degrees clockwise from north
	Distance float64 // AU for Sun and planets, km for the Moon
}

// BodyPosition returns horizontal coordinates for a body at (lat, lng)
// and time t. The Moon's altitude is topocentric; the others are
// geocentric, where parallax is negligible.
func BodyPosition(body Body, lat, lng float64, t time.Time) HorizontalPosition {
	ra, dec, dist := EquatorialPosition(body, t)
	alt, az := altAz(ra, dec, lat, lng, t)
	if body == Moon {
		alt = moonAltitude(lat, lng, t)
	}
	return HorizontalPosition{Altitude: alt, Azimuth: az, Distance: dist}
}

// EquatorialPosition returns geocentric RA/Dec in degrees and the distance
// (AU, km for the Moon) for any supported body.
func EquatorialPosition(body Body, t time.Time) (ra, dec, dist float64) {
	switch body {
	case Sun:
		return sunEquatorial(t)
	case Moon:
		return moonEquatorial(t)
	default:
		return planetEquatorial(body, t)
	}
}

// AngularSeparation returns the angle in degrees between two equatorial
// positions, via the spherical law of cosines with a clamped acos.
func AngularSeparation(ra1, dec1, ra2, dec2 float64) float64 {
	d1 := deg2rad(dec1)
	d2 := deg2rad(dec2)
	dRA := deg2rad(ra2 - ra1)

	cosSep := math.Sin(d1)*math.Sin(d2) + math.Cos(d1)*math.Cos(d2)*math.Cos(dRA)
	return rad2deg(math.Acos(clampUnit(cosSep)))
}

// SeasonEvent is an equinox or solstice instant.
type SeasonEvent struct {
	Name string
	Time time.Time
}

// Seasons returns the four equinox/solstice instants of a year, in order.
// Each is found by searching for the Sun's ecliptic longitude crossing the
// relevant quadrant boundary near its usual date.
func Seasons(year int) []SeasonEvent {
	type target struct {
		name   string
		lonDeg float64
		month  time.Month
		day    int
	}
	targets := []target{
		{"March Equinox", 0, time.March, 20},
		{"June Solstice", 90, time.June, 21},
		{"September Equinox", 180, time.September, 22},
		{"December Solstice", 270, time.December, 21},
	}

	events := make([]SeasonEvent, 0, len(targets))
	for _, tg := range targets {
		guess := time.Date(year, tg.month, tg.day, 12, 0, 0, 0, time.UTC)
		events = append(events, SeasonEvent{Name: tg.name, Time: searchSunLongitude(tg.lonDeg, guess)})
	}
	return events
}

// searchSunLongitude bisects a +/-5 day window around guess for the instant
// the Sun's ecliptic longitude crosses targetDeg.
func searchSunLongitude(targetDeg float64, guess time.Time) time.Time {
	// Signed angular offset from the target in (-180, 180].
	diff := func(t time.Time) float64 {
		d := norm360(sunEclipticLongitude(t) - targetDeg)
		if d > 180 {
			d -= 360
		}
		return d
	}

	a := guess.Add(-5 * 24 * time.Hour)
	b := guess.Add(5 * 24 * time.Hour)
	for b.Sub(a) > time.Minute {
		mid := a.Add(b.Sub(a) / 2)
		if diff(mid) < 0 {
			a = mid
		} else {
			b = mid
		}
	}
	return a.Add(b.Sub(a) / 2)
}

// CurrentSeason classifies a date by calendar month, northern-hemisphere
// convention.
func CurrentSeason(date time.Time) string {
	switch date.Month() {
	case time.March, time.April, time.May:
		return "Spring"
	case time.June, time.July, time.August:
		return "Summer"
	case time.September, time.October, time.November:
		return "Fall"
	default:
		return "Winter"
	}
}

// NextSeasonEvent returns the first equinox or solstice after date.
func NextSeasonEvent(date time.Time) SeasonEvent {
	for _, ev := range Seasons(date.Year()) {
		if ev.Time.After(date) {
			return ev
		}
	}
	return Seasons(date.Year() + 1)[0]
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
