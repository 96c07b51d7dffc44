package common

import "math"

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Clamp01 clamps t into [0, 1].
func Clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// InverseLerp returns where v sits between a and b. Equal bounds yield 0.
func InverseLerp(a, b, v float64) float64 {
	if a == b {
		return 0
	}
	return (v - a) / (b - a)
}

// Remap maps v from [inMin, inMax] onto [outMin, outMax] without clamping.
func Remap(v, inMin, inMax, outMin, outMax float64) float64 {
	return Lerp(outMin, outMax, InverseLerp(inMin, inMax, v))
}

func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
