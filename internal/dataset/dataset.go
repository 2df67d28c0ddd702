// Package dataset generates reproducible inputs for the drivers from a
// seeded random source.
package dataset

import (
	"math"
	"math/rand"

	"github.com/san-kum/algostep/internal/ml"
	"github.com/san-kum/algostep/internal/pathfind"
)

// Array returns n values in [1, max].
func Array(rng *rand.Rand, n, max int) []int {
	if max < 1 {
		max = 1
	}
	out := make([]int, n)
	for i := range out {
		out[i] = 1 + rng.Intn(max)
	}
	return out
}

// Walls scatters walls over a rows x cols grid with the given density,
// keeping every position in keep open.
func Walls(rng *rand.Rand, rows, cols int, density float64, keep ...pathfind.Pos) *pathfind.Grid {
	g := pathfind.NewGrid(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if rng.Float64() < density {
				g.SetWall(pathfind.Pos{Row: r, Col: c}, true)
			}
		}
	}
	for _, p := range keep {
		g.SetWall(p, false)
	}
	return g
}

// Blobs places k groups of perBlob points around random centres inside a
// width x height canvas, with a margin of spread. Each point is labelled
// with its group index starting at 1.
func Blobs(rng *rand.Rand, k, perBlob int, spread, width, height float64) []ml.Point {
	pts := make([]ml.Point, 0, k*perBlob)
	for b := 0; b < k; b++ {
		cx := spread + rng.Float64()*math.Max(width-2*spread, 0)
		cy := spread + rng.Float64()*math.Max(height-2*spread, 0)
		for i := 0; i < perBlob; i++ {
			pts = append(pts, ml.Point{
				X:     clamp(cx+rng.NormFloat64()*spread/2, 0, width),
				Y:     clamp(cy+rng.NormFloat64()*spread/2, 0, height),
				Label: b + 1,
			})
		}
	}
	return pts
}

// NoisyLine samples n points of slope*x+intercept across [0, width) with
// gaussian noise on y.
func NoisyLine(rng *rand.Rand, n int, slope, intercept, noise, width float64) []ml.Point {
	pts := make([]ml.Point, n)
	for i := range pts {
		x := rng.Float64() * width
		pts[i] = ml.Point{X: x, Y: slope*x + intercept + rng.NormFloat64()*noise}
	}
	return pts
}

// Scatter returns n unlabelled points spread uniformly over the canvas.
func Scatter(rng *rand.Rand, n int, width, height float64) []ml.Point {
	pts := make([]ml.Point, n)
	for i := range pts {
		pts[i] = ml.Point{X: rng.Float64() * width, Y: rng.Float64() * height}
	}
	return pts
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
