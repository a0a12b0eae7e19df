package pose

import "math"

// NormalizeHalfPi maps alpha into [-pi/2, pi/2] with at most one shift of pi.
func NormalizeHalfPi(alpha float64) float64 {
	switch {
	case alpha > math.Pi/2:
		return alpha - math.Pi
	case alpha < -math.Pi/2:
		return alpha + math.Pi
	default:
		return alpha
	}
}

// NormalizePi maps alpha into [-pi, pi] with at most one shift of 2pi.
func NormalizePi(alpha float64) float64 {
	switch {
	case alpha > math.Pi:
		return alpha - 2*math.Pi
	case alpha < -math.Pi:
		return alpha + 2*math.Pi
	default:
		return alpha
	}
}

// Sign returns 1 for x >= 0 and -1 otherwise (NaN included).
func Sign(x float64) float64 {
	if x >= 0 {
		return 1
	}
	return -1
}

// Wrap folds any angle into [-pi, pi]. Used for reporting, never by the
// control law itself.
func Wrap(alpha float64) float64 {
	return math.Atan2(math.Sin(alpha), math.Cos(alpha))
}

func Degrees(rad float64) float64 { return rad * 180 / math.Pi }
func Radians(deg float64) float64 { return deg * math.Pi / 180 }
