package common

import "math"

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampInt limits v to [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

func RadToDeg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// RotateOffset rotates a local offset by angleDeg (counter-clockwise, y up).
func RotateOffset(x, y, angleDeg float64) (float64, float64) {
	rad := DegToRad(angleDeg)
	s, c := math.Sincos(rad)
	return x*c - y*s, x*s + y*c
}

// LocalToWorld maps a body-local offset into world space given the body's
// position and angle in degrees.
func LocalToWorld(bodyX, bodyY, angleDeg, localX, localY float64) (float64, float64) {
	rx, ry := RotateOffset(localX, localY, angleDeg)
	return bodyX + rx, bodyY + ry
}
