package ml

import (
	"errors"
	"math"
)

// Canvas dimensions shared by the drivers that scan or draw across the plane.
const (
	CanvasWidth  = 800
	CanvasHeight = 450
)

// ErrDiverged is returned by iterative drivers whose parameters stop being
// finite.
var ErrDiverged = errors.New("ml: parameters diverged")

// Point is a 2D sample. Label is the class for supervised drivers and is
// ignored by clustering.
type Point struct {
	X     float64 `json:"x" yaml:"x"`
	Y     float64 `json:"y" yaml:"y"`
	Label int     `json:"label,omitempty" yaml:"label,omitempty"`
}

func Dist(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func clonePoints(pts []Point) []Point {
	out := make([]Point, len(pts))
	copy(out, pts)
	return out
}

func cloneInts(s []int) []int {
	out := make([]int, len(s))
	copy(out, s)
	return out
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
