package world

import "math"

// Vec2 captures a 2D position or direction in pixel space.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func distance(a, b Vec2) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// normalize returns the unit components of v, or zeros for a zero vector.
func normalize(v Vec2) (float64, float64) {
	length := math.Hypot(v.X, v.Y)
	if length == 0 {
		return 0, 0
	}
	return v.X / length, v.Y / length
}

func isFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}
