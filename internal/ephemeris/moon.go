package ephemeris

import (
	"math"
	"time"
)

// moonEcliptic returns the Moon's geocentric ecliptic longitude and latitude
// in degrees plus its distance in km, from a truncated Meeus-style series
// over the five fundamental lunar arguments. Good to a few arcminutes.
func moonEcliptic(t time.Time) (lonDeg, latDeg, distKm float64) {
	d := daysSinceJ2000(t)

	lp := norm360(218.3164477 + 13.17639648*d) // mean longitude
	m := norm360(357.5291092 + 0.98560028*d)   // Sun mean anomaly
	mm := norm360(134.9633964 + 13.06499295*d) // Moon mean anomaly
	el := norm360(297.8501921 + 12.19074912*d) // mean elongation from Sun
	f := norm360(93.2720950 + 13.22935024*d)   // argument of latitude

	mr := deg2rad(m)
	mmr := deg2rad(mm)
	elr := deg2rad(el)
	fr := deg2rad(f)

	lonDeg = lp +
		6.289*math.Sin(mmr) +
		1.274*math.Sin(2*elr-mmr) +
		0.658*math.Sin(2*elr) +
		0.214*math.Sin(2*mmr) -
		0.186*math.Sin(mr) -
		0.114*math.Sin(2*fr)
	lonDeg = norm360(lonDeg)

	latDeg = 5.128*math.Sin(fr) +
		0.280*math.Sin(mmr+fr) +
		0.277*math.Sin(mmr-fr) +
		0.173*math.Sin(2*elr-fr)

	distKm = 385000.56 -
		20905.0*math.Cos(mmr) -
		3699.0*math.Cos(2*elr-mmr) -
		2956.0*math.Cos(2*elr) -
		570.0*math.Cos(2*mmr) -
		246.0*math.Cos(2*elr+mmr)

	return lonDeg, latDeg, distKm
}

// moonEquatorial returns the Moon's geocentric RA/Dec in degrees and
// distance in km.
func moonEquatorial(t time.Time) (ra, dec, distKm float64) {
	lon, lat, dist := moonEcliptic(t)
	d := daysSinceJ2000(t)
	eps := deg2rad(23.439291 - 0.0000137*d)

	lonR := deg2rad(lon)
	latR := deg2rad(lat)

	x := math.Cos(latR) * math.Cos(lonR)
	y := math.Cos(latR)*math.Sin(lonR)*math.Cos(eps) - math.Sin(latR)*math.Sin(eps)
	z := math.Cos(latR)*math.Sin(lonR)*math.Sin(eps) + math.Sin(latR)*math.Cos(eps)

	raRad := math.Atan2(y, x)
	if raRad < 0 {
		raRad += 2 * math.Pi
	}

	return rad2deg(raRad), rad2deg(math.Asin(clampUnit(z))), dist
}

// moonAltitude returns the Moon's topocentric altitude in degrees at
// (lat, lng). The geocentric altitude is corrected for horizontal parallax,
// which for the Moon shifts rise/set by several minutes and cannot be
// ignored the way it can for the planets.
func moonAltitude(lat, lng float64, t time.Time) float64 {
	ra, dec, dist := moonEquatorial(t)
	alt, _ := altAz(ra, dec, lat, lng, t)

	const earthRadiusKm = 6378.14
	if dist > earthRadiusKm {
		parallax := rad2deg(math.Asin(earthRadiusKm / dist))
		alt -= parallax * math.Cos(deg2rad(alt))
	}
	return alt
}
