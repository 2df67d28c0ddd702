package ml

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/algostep/internal/engine"
)

type KMeansOptions struct {
	K         int
	Tolerance float64
	MaxIter   int
	// Rand seeds the initial centroids. A nil Rand uses a fixed seed.
	Rand *rand.Rand
}

func DefaultKMeansOptions() KMeansOptions {
	return KMeansOptions{K: 3, Tolerance: 0.1, MaxIter: 100}
}

type KMeansSnapshot struct {
	Centroids   []Point `json:"centroids"`
	Assignments []int   `json:"assignments"`
	Iteration   int     `json:"iteration"`
}

type KMeansResult struct {
	Centroids   []Point `json:"centroids"`
	Assignments []int   `json:"assignments"`
	Iterations  int     `json:"iterations"`
	Converged   bool    `json:"converged"`
}

// KMeans performs one full assign-and-update iteration per step.
type KMeans struct {
	points    []Point
	opts      KMeansOptions
	centroids []Point
	assign    []int
	iter      int
	converged bool
}

func NewKMeans(points []Point, opts KMeansOptions) *KMeans {
	def := DefaultKMeansOptions()
	if opts.Tolerance <= 0 {
		opts.Tolerance = def.Tolerance
	}
	if opts.MaxIter <= 0 {
		opts.MaxIter = def.MaxIter
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(1))
	}
	km := &KMeans{points: clonePoints(points), opts: opts, assign: make([]int, len(points))}
	if km.Validate() == nil {
		for _, i := range opts.Rand.Perm(len(km.points))[:opts.K] {
			km.centroids = append(km.centroids, Point{X: km.points[i].X, Y: km.points[i].Y})
		}
	}
	return km
}

func (km *KMeans) Name() string { return "kmeans" }

func (km *KMeans) Validate() error {
	if km.opts.K < 1 {
		return fmt.Errorf("%w: k must be positive, got %d", engine.ErrInvalidInput, km.opts.K)
	}
	if len(km.points) < km.opts.K {
		return fmt.Errorf("%w: %d points for %d clusters", engine.ErrInvalidInput, len(km.points), km.opts.K)
	}
	return nil
}

func (km *KMeans) Done() bool {
	return km.centroids == nil || km.converged || km.iter >= km.opts.MaxIter
}

func (km *KMeans) Step() (engine.Step, error) {
	if km.Done() {
		return engine.Step{}, engine.ErrStepAfterDone
	}

	for i, p := range km.points {
		best, bestDist := 0, math.Inf(1)
		for c, centroid := range km.centroids {
			if d := Dist(p, centroid); d < bestDist {
				best, bestDist = c, d
			}
		}
		km.assign[i] = best
	}

	sums := make([]Point, len(km.centroids))
	counts := make([]int, len(km.centroids))
	for i, p := range km.points {
		c := km.assign[i]
		sums[c].X += p.X
		sums[c].Y += p.Y
		counts[c]++
	}

	moved := false
	for c := range km.centroids {
		if counts[c] == 0 {
			continue
		}
		next := Point{X: sums[c].X / float64(counts[c]), Y: sums[c].Y / float64(counts[c])}
		if !finite(next.X, next.Y) {
			return engine.Step{}, fmt.Errorf("%w: centroid %d", ErrDiverged, c)
		}
		old := km.centroids[c]
		if math.Abs(next.X-old.X) >= km.opts.Tolerance || math.Abs(next.Y-old.Y) >= km.opts.Tolerance {
			moved = true
		}
		km.centroids[c] = next
	}
	km.iter++
	km.converged = !moved

	return engine.Step{Snapshot: KMeansSnapshot{
		Centroids:   clonePoints(km.centroids),
		Assignments: cloneInts(km.assign),
		Iteration:   km.iter,
	}}, nil
}

// Result is Exhausted when the iteration cap was reached before the
// centroids settled.
func (km *KMeans) Result() engine.Result {
	return engine.Result{
		Payload: KMeansResult{
			Centroids:   clonePoints(km.centroids),
			Assignments: cloneInts(km.assign),
			Iterations:  km.iter,
			Converged:   km.converged,
		},
		Exhausted: !km.converged,
	}
}
