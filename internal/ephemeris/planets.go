package ephemeris

import (
	"math"
	"time"
)

// Keplerian mean elements at J2000 plus per-century rates, from the JPL
// approximate-position tables (valid 1800-2050). Angles in degrees,
// semi-major axis in AU.
type elements struct {
	a, aDot     float64 // semi-major axis
	e, eDot     float64 // eccentricity
	i, iDot     float64 // inclination
	l, lDot     float64 // mean longitude
	peri, pDot  float64 // longitude of perihelion
	node, nDot  float64 // longitude of ascending node
}

var planetElements = map[Body]elements{
	Mercury: {0.38709927, 0.00000037, 0.20563593, 0.00001906, 7.00497902, -0.00594749,
		252.25032350, 149472.67411175, 77.45779628, 0.16047689, 48.33076593, -0.12534081},
	Venus: {0.72333566, 0.00000390, 0.00677672, -0.00004107, 3.39467605, -0.00078890,
		181.97909950, 58517.81538729, 131.60246718, 0.00268329, 76.67984255, -0.27769418},
	Mars: {1.52371034, 0.00001847, 0.09339410, 0.00007882, 1.84969142, -0.00813131,
		-4.55343205, 19140.30268499, -23.94362959, 0.44441088, 49.55953891, -0.29257343},
	Jupiter: {5.20288700, -0.00011607, 0.04838624, -0.00013253, 1.30439695, -0.00183714,
		34.39644051, 3034.74612775, 14.72847983, 0.21252668, 100.47390909, 0.20469106},
	Saturn: {9.53667594, -0.00125060, 0.05386179, -0.00050991, 2.48599187, 0.00193609,
		49.95424423, 1222.49362201, 92.59887831, -0.41897216, 113.66242448, -0.28867794},
	Uranus: {19.18916464, -0.00196176, 0.04725744, -0.00004397, 0.77263783, -0.00242939,
		313.23810451, 428.48202785, 170.95427630, 0.40805281, 74.01692503, 0.04240589},
	Neptune: {30.06992276, 0.00026291, 0.00859048, 0.00005105, 1.77004347, 0.00035372,
		-55.12002969, 218.45945325, 44.96476227, -0.32241464, 131.78422574, -0.00508664},
}

// earthElements is the Earth-Moon barycenter entry from the same table.
var earthElements = elements{1.00000261, 0.00000562, 0.01671123, -0.00004392, -0.00001531, -0.01294668,
	100.46457166, 35999.37244981, 102.93768193, 0.32327364, 0.0, 0.0}

// heliocentric returns a body's heliocentric ecliptic rectangular
// coordinates in AU at Julian-century offset tc.
func (el elements) heliocentric(tc float64) (x, y, z float64) {
	a := el.a + el.aDot*tc
	e := el.e + el.eDot*tc
	i := deg2rad(el.i + el.iDot*tc)
	l := el.l + el.lDot*tc
	peri := el.peri + el.pDot*tc
	node := deg2rad(el.node + el.nDot*tc)

	argPeri := deg2rad(peri) - node
	m := deg2rad(norm360(l - peri))

	// Kepler's equation, Newton iteration. Converges in a handful of steps
	// for every planetary eccentricity.
	ec := m
	for range [8]int{} {
		ec -= (ec - e*math.Sin(ec) - m) / (1 - e*math.Cos(ec))
	}

	// Position in the orbital plane.
	xp := a * (math.Cos(ec) - e)
	yp := a * math.Sqrt(1-e*e) * math.Sin(ec)

	cosW, sinW := math.Cos(argPeri), math.Sin(argPeri)
	cosO, sinO := math.Cos(node), math.Sin(node)
	cosI, sinI := math.Cos(i), math.Sin(i)

	x = (cosW*cosO-sinW*sinO*cosI)*xp + (-sinW*cosO-cosW*sinO*cosI)*yp
	y = (cosW*sinO+sinW*cosO*cosI)*xp + (-sinW*sinO+cosW*cosO*cosI)*yp
	z = sinW*sinI*xp + cosW*sinI*yp
	return x, y, z
}

// planetEquatorial returns a planet's geocentric RA/Dec in degrees and its
// distance from Earth in AU.
func planetEquatorial(body Body, t time.Time) (ra, dec, distAU float64) {
	tc := julianCenturies(t)

	px, py, pz := planetElements[body].heliocentric(tc)
	ex, ey, ez := earthElements.heliocentric(tc)

	// Geocentric ecliptic vector.
	gx := px - ex
	gy := py - ey
	gz := pz - ez

	eps := deg2rad(23.439291 - 0.0130042*tc)
	qx := gx
	qy := gy*math.Cos(eps) - gz*math.Sin(eps)
	qz := gy*math.Sin(eps) + gz*math.Cos(eps)

	distAU = math.Sqrt(qx*qx + qy*qy + qz*qz)

	raRad := math.Atan2(qy, qx)
	if raRad < 0 {
		raRad += 2 * math.Pi
	}
	decRad := math.Asin(clampUnit(qz / distAU))

	return rad2deg(raRad), rad2deg(decRad), distAU
}
