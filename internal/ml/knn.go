package ml

import (
	"fmt"
	"sort"

	"github.com/san-kum/algostep/internal/engine"
)

type KNNOptions struct {
	K        int
	Width    int
	Height   int
	CellSize int
}

func DefaultKNNOptions() KNNOptions {
	return KNNOptions{K: 3, Width: CanvasWidth, Height: CanvasHeight, CellSize: 20}
}

type Prediction struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label int     `json:"label"`
}

type KNNSnapshot struct {
	Predictions []Prediction `json:"predictions"`
}

type neighbour struct {
	dist  float64
	label int
}

// KNN classifies one grid cell per step, scanning columns left to right and
// each column top to bottom.
type KNN struct {
	points []Point
	opts   KNNOptions
	x, y   int
	preds  []Prediction
	near   []neighbour
}

func NewKNN(points []Point, opts KNNOptions) *KNN {
	def := DefaultKNNOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.CellSize <= 0 {
		opts.CellSize = def.CellSize
	}
	if opts.K > len(points) {
		opts.K = len(points)
	}
	return &KNN{points: clonePoints(points), opts: opts, near: make([]neighbour, len(points))}
}

func (k *KNN) Name() string { return "knn" }

func (k *KNN) Validate() error {
	if len(k.points) == 0 {
		return fmt.Errorf("%w: no labelled points", engine.ErrInvalidInput)
	}
	if k.opts.K < 1 {
		return fmt.Errorf("%w: k must be positive, got %d", engine.ErrInvalidInput, k.opts.K)
	}
	return nil
}

func (k *KNN) Done() bool {
	return len(k.points) == 0 || k.opts.K < 1 || k.x >= k.opts.Width
}

func (k *KNN) Step() (engine.Step, error) {
	if k.Done() {
		return engine.Step{}, engine.ErrStepAfterDone
	}
	q := Point{X: float64(k.x), Y: float64(k.y)}
	k.preds = append(k.preds, Prediction{X: q.X, Y: q.Y, Label: k.Classify(q)})

	k.y += k.opts.CellSize
	if k.y >= k.opts.Height {
		k.y = 0
		k.x += k.opts.CellSize
	}

	// Appends never touch earlier elements, so a capped view stays stable.
	n := len(k.preds)
	return engine.Step{Snapshot: KNNSnapshot{Predictions: k.preds[:n:n]}}, nil
}

// Classify returns the majority label among the K nearest points. Equal
// counts go to the smallest label.
func (k *KNN) Classify(q Point) int {
	for i, p := range k.points {
		k.near[i] = neighbour{dist: Dist(q, p), label: p.Label}
	}
	sort.SliceStable(k.near, func(i, j int) bool { return k.near[i].dist < k.near[j].dist })

	counts := make(map[int]int, k.opts.K)
	labels := make([]int, 0, k.opts.K)
	for _, n := range k.near[:k.opts.K] {
		if counts[n.label] == 0 {
			labels = append(labels, n.label)
		}
		counts[n.label]++
	}
	sort.Ints(labels)
	best, bestCount := 0, 0
	for _, label := range labels {
		if counts[label] > bestCount {
			best, bestCount = label, counts[label]
		}
	}
	return best
}

func (k *KNN) Result() engine.Result {
	out := make([]Prediction, len(k.preds))
	copy(out, k.preds)
	return engine.Result{Payload: out}
}
