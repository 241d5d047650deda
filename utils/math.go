package utils

import (
	"math"
)

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// Float64AlmostEqual compares two float64s and returns if the difference between them is less than epsilon.
func Float64AlmostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

// CubeRoot returns the real cube root of x, keeping the sign of x. CubeRoot(0) is 0.
func CubeRoot(x float64) float64 {
	p := 1.0 / 3.0
	switch {
	case x > 0:
		return math.Pow(x, p)
	case x < 0:
		return -math.Pow(-x, p)
	default:
		return 0
	}
}

// Square returns n*n.
// Math.pow( x, 2 ) is slow, this is faster.
func Square(n float64) float64 {
	return n * n
}

// Cube returns n*n*n.
func Cube(n float64) float64 {
	return n * n * n
}

// Clamp returns value clamped to [lo, hi].
func Clamp(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// Sign returns -1 for negative numbers and 1 otherwise.
func Sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}
