package main

import (
	"math"
	"strconv"
)

// This file contains coordinate parsing and small geographic helpers.
// Invalid input never produces an error for callers: the handlers fall
// back to the default location instead, so the engine stays usable with
// partial input.

// defaultLocation is used whenever a request carries no usable
// coordinates (Las Vegas, a common dark-sky tourism origin).
var defaultLocation = Coordinates{Lat: 36.1147, Lng: -115.1728}

// parseCoordinates validates a lat/lng string pair. ok is false when
// either value is missing, unparseable, non-finite or out of range.
func parseCoordinates(latStr, lngStr string) (Coordinates, bool) {
	if latStr == "" || lngStr == "" {
		return Coordinates{}, false
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return Coordinates{}, false
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return Coordinates{}, false
	}

	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return Coordinates{}, false
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return Coordinates{}, false
	}

	return Coordinates{Lat: lat, Lng: lng}, true
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// haversineKm returns the great-circle distance between two coordinates
// in kilometers.
func haversineKm(from, to Coordinates) float64 {
	const earthRadiusKm = 6371.0

	dLat := deg2rad(to.Lat - from.Lat)
	dLng := deg2rad(to.Lng - from.Lng)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(from.Lat))*math.Cos(deg2rad(to.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func deg2rad(d float64) float64 {
	return d * math.Pi / 180.0
}
