package ephemeris

import (
	"math"
	"time"
)

// j2000 is the J2000.0 epoch: 2000-01-01 12:00:00 UTC.
var j2000 = time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC)

// daysSinceJ2000 returns the number of UTC days since the J2000.0 epoch.
// Good enough for the medium-precision series used here; a TT-based Julian
// day would only matter at sub-second accuracy.
func daysSinceJ2000(t time.Time) float64 {
	return t.UTC().Sub(j2000).Hours() / 24.0
}

// julianCenturies returns Julian centuries since J2000.0.
func julianCenturies(t time.Time) float64 {
	return daysSinceJ2000(t) / 36525.0
}

func deg2rad(d float64) float64 { return d * math.Pi / 180.0 }

func rad2deg(r float64) float64 { return r * 180.0 / math.Pi }

// norm360 wraps an angle in degrees into [0, 360).
func norm360(d float64) float64 {
	d = math.Mod(d, 360.0)
	if d < 0 {
		d += 360.0
	}
	return d
}

// localSiderealDeg returns the local sidereal time at longitude lng
// (east positive) as an angle in degrees.
func localSiderealDeg(lng float64, t time.Time) float64 {
	d := daysSinceJ2000(t)
	gmst := 280.46061837 + 360.98564736629*d
	return norm360(gmst + lng)
}

// clampUnit clamps x into [-1, 1] before feeding it to Acos/Asin.
func clampUnit(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}
