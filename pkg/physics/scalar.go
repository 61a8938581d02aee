package physics

import "math"

// Angle unit conversions.
const (
	Deg2Rad = math.Pi / 180
	Rad2Deg = 180 / math.Pi
)

// Clamp limits value to [min, max].
func Clamp(value, min, max float64) float64 {
	return math.Max(min, math.Min(max, value))
}

// Clamp01 limits value to [0, 1].
func Clamp01(value float64) float64 {
	return Clamp(value, 0, 1)
}

// Lerp interpolates from a to b by t clamped into [0, 1].
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*Clamp01(t)
}

// InverseLerp returns where value lies between a and b as a fraction in [0, 1].
func InverseLerp(a, b, value float64) float64 {
	if a == b {
		return 0
	}
	return Clamp01((value - a) / (b - a))
}
