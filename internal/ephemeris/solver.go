package ephemeris

import "time"

// altitudeFunc returns a body's apparent altitude in degrees at time t.
type altitudeFunc func(t time.Time) float64

type crossing int

const (
	crossingUp   crossing = iota // altitude rising through the target (rise, dawn)
	crossingDown                 // altitude falling through the target (set, dusk)
)

const (
	searchSteps     = 48               // samples across the one-day window
	searchTolerance = 30 * time.Second // bisection stop
)

// findCrossing searches [start, end] for the instant where f crosses
// targetDeg in the given direction. It samples the window to bracket a sign
// change of (altitude - target), then bisects the bracket. The second return
// is false when no crossing exists in the window, which is the normal case
// at polar latitudes: callers substitute fixed offsets instead of failing.
func findCrossing(f altitudeFunc, start, end time.Time, targetDeg float64, dir crossing) (time.Time, bool) {
	if !start.Before(end) {
		return time.Time{}, false
	}

	interval := end.Sub(start) / time.Duration(searchSteps-1)
	prevT := start
	prev := f(prevT) - targetDeg

	for i := 1; i < searchSteps; i++ {
		t := start.Add(time.Duration(i) * interval)
		cur := f(t) - targetDeg
		if crosses(prev, cur, dir) {
			return bisect(f, prevT, t, targetDeg, dir), true
		}
		prevT, prev = t, cur
	}

	return time.Time{}, false
}

func crosses(a, b float64, dir crossing) bool {
	switch dir {
	case crossingUp:
		return a < 0 && b >= 0
	case crossingDown:
		return a > 0 && b <= 0
	}
	return a*b <= 0
}

func bisect(f altitudeFunc, a, b time.Time, targetDeg float64, dir crossing) time.Time {
	altA := f(a) - targetDeg
	for b.Sub(a) > searchTolerance {
		mid := a.Add(b.Sub(a) / 2)
		altM := f(mid) - targetDeg
		if crosses(altA, altM, dir) {
			b = mid
		} else {
			a = mid
			altA = altM
		}
	}
	return a.Add(b.Sub(a) / 2)
}
