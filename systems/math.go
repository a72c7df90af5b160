package systems

import "math"

const (
	degToRad = math.Pi / 180
	radToDeg = 180 / math.Pi
)

// clampFloat clamps a float32 value between min and max.
func clampFloat(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// NormalizeDegrees wraps an angle to [-180, 180).
func NormalizeDegrees(a float32) float32 {
	for a >= 180 {
		a -= 360
	}
	for a < -180 {
		a += 360
	}
	return a
}

// distanceSq returns the squared distance between two points.
func distanceSq(x1, y1, x2, y2 float32) float32 {
	dx := x1 - x2
	dy := y1 - y2
	return dx*dx + dy*dy
}

func sqrtf(x float32) float32 { return float32(math.Sqrt(float64(x))) }
func expf(x float32) float32  { return float32(math.Exp(float64(x))) }

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// unitVector returns the direction of a heading given in degrees.
func unitVector(deg float32) (float32, float32) {
	s, c := math.Sincos(float64(deg) * degToRad)
	return float32(c), float32(s)
}
