package ephemeris

import (
	"math"
	"time"
)

// sunEclipticLongitude returns the Sun's apparent ecliptic longitude in
// degrees, using the standard NOAA/Meeus low-precision model (mean longitude
// plus equation of center). Accurate to about an arcminute, which is plenty
// for phase and rise/set work.
func sunEclipticLongitude(t time.Time) float64 {
	d := daysSinceJ2000(t)

	g := deg2rad(357.529 + 0.98560028*d) // mean anomaly
	q := 280.459 + 0.98564736*d          // mean longitude

	return norm360(q + 1.915*math.Sin(g) + 0.020*math.Sin(2*g))
}

// sunEquatorial returns the Sun's approximate geocentric RA/Dec in degrees
// and its distance in AU.
func sunEquatorial(t time.Time) (ra, dec, distAU float64) {
	d := daysSinceJ2000(t)

	g := deg2rad(357.529 + 0.98560028*d)
	lambda := deg2rad(sunEclipticLongitude(t))
	eps := deg2rad(23.439 - 0.00000036*d)

	x := math.Cos(lambda)
	y := math.Cos(eps) * math.Sin(lambda)
	z := math.Sin(eps) * math.Sin(lambda)

	raRad := math.Atan2(y, x)
	if raRad < 0 {
		raRad += 2 * math.Pi
	}

	distAU = 1.00014 - 0.01671*math.Cos(g) - 0.00014*math.Cos(2*g)

	return rad2deg(raRad), rad2deg(math.Asin(z)), distAU
}

// sunAltitude returns the Sun's geocentric altitude in degrees for an
// observer at (lat, lng). Refraction is folded into the crossing thresholds
// (-0.833 degrees for rise/set) rather than applied here.
func sunAltitude(lat, lng float64, t time.Time) float64 {
	ra, dec, _ := sunEquatorial(t)
	alt, _ := altAz(ra, dec, lat, lng, t)
	return alt
}

// altAz converts equatorial coordinates (degrees) to horizontal altitude and
// azimuth (degrees, azimuth clockwise from north) at (lat, lng) and time t.
func altAz(raDeg, decDeg, lat, lng float64, t time.Time) (alt, az float64) {
	ra := deg2rad(raDeg)
	dec := deg2rad(decDeg)
	phi := deg2rad(lat)

	h := deg2rad(localSiderealDeg(lng, t)) - ra
	for h > math.Pi {
		h -= 2 * math.Pi
	}
	for h < -math.Pi {
		h += 2 * math.Pi
	}

	sinAlt := math.Sin(phi)*math.Sin(dec) + math.Cos(phi)*math.Cos(dec)*math.Cos(h)
	altRad := math.Asin(clampUnit(sinAlt))

	// Azimuth measured from south, flipped to the north-clockwise convention.
	azRad := math.Atan2(math.Sin(h), math.Cos(h)*math.Sin(phi)-math.Tan(dec)*math.Cos(phi))
	az = norm360(rad2deg(azRad) + 180.0)

	return rad2deg(altRad), az
}
