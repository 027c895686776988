package mathutil

import "math"

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}

// Rad2Deg converts radians to degrees.
func Rad2Deg(r float64) float64 {
	return r * 180 / math.Pi
}

// Round2 rounds to two decimal places with halves going up, so -0.125
// becomes -0.12 and 0.125 becomes 0.13. Browsers round marker positions the
// same way, keeping layouts identical across hosts.
func Round2(v float64) float64 {
	r := math.Floor(v*100+0.5) / 100
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}

// WrapDegrees maps an angle that landed exactly on 360 back to 0.
func WrapDegrees(d float64) float64 {
	if d == 360 {
		return 0
	}
	return d
}

// AngleDist returns the shortest angular distance between two angles in degrees (0–180).
func AngleDist(a, b float64) float64 {
	d := math.Mod(a-b, 360)
	if d < 0 {
		d += 360
	}
	if d > 180 {
		return 360 - d
	}
	return d
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
