package ml

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/algostep/internal/engine"
)

type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "y"
}

type Split struct {
	Axis      Axis    `json:"axis"`
	Threshold float64 `json:"threshold"`
	Gain      float64 `json:"gain"`
}

// TreeNode is one region of the plane. Points with value < Threshold on the
// split axis go Left.
type TreeNode struct {
	ID     int    `json:"id"`
	Parent int    `json:"parent"`
	Depth  int    `json:"depth"`
	Count  int    `json:"count"`
	Label  int    `json:"label"`
	Leaf   bool   `json:"leaf"`
	Split  *Split `json:"split,omitempty"`
	Left   int    `json:"left"`
	Right  int    `json:"right"`
}

type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

// Predict walks the tree from the root. Regions not yet resolved answer
// with their majority label.
func (t Tree) Predict(p Point) int {
	if len(t.Nodes) == 0 {
		return 0
	}
	n := t.Nodes[0]
	for n.Split != nil {
		v := p.X
		if n.Split.Axis == AxisY {
			v = p.Y
		}
		if v < n.Split.Threshold {
			n = t.Nodes[n.Left]
		} else {
			n = t.Nodes[n.Right]
		}
	}
	return n.Label
}

type TreeOptions struct {
	MaxDepth  int
	MinPoints int
	Width     float64
	Height    float64
	// Grid is the spacing between candidate thresholds.
	Grid float64
}

func DefaultTreeOptions() TreeOptions {
	return TreeOptions{MaxDepth: 4, MinPoints: 2, Width: CanvasWidth, Height: CanvasHeight, Grid: 50}
}

type TreeSnapshot struct {
	Tree    Tree `json:"tree"`
	Current int  `json:"current"`
}

type region struct {
	node int
	idx  []int
}

// DecisionTree resolves one pending region per step, breadth first: it
// either splits the region on the threshold with the best information gain
// or closes it as a leaf with the majority label.
type DecisionTree struct {
	points  []Point
	opts    TreeOptions
	nodes   []TreeNode
	pending []region
}

func NewDecisionTree(points []Point, opts TreeOptions) *DecisionTree {
	def := DefaultTreeOptions()
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = def.MaxDepth
	}
	if opts.MinPoints < 2 {
		opts.MinPoints = def.MinPoints
	}
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.Grid <= 0 {
		opts.Grid = def.Grid
	}
	t := &DecisionTree{points: clonePoints(points), opts: opts}
	if t.Validate() == nil {
		all := make([]int, len(t.points))
		for i := range all {
			all[i] = i
		}
		t.nodes = []TreeNode{t.node(-1, 0, all)}
		t.pending = []region{{node: 0, idx: all}}
	}
	return t
}

func (t *DecisionTree) Name() string { return "tree" }

func (t *DecisionTree) Validate() error {
	if len(t.points) < 2 {
		return fmt.Errorf("%w: need at least 2 points, got %d", engine.ErrInvalidInput, len(t.points))
	}
	return nil
}

func (t *DecisionTree) Done() bool { return len(t.pending) == 0 }

func (t *DecisionTree) Step() (engine.Step, error) {
	if t.Done() {
		return engine.Step{}, engine.ErrStepAfterDone
	}
	r := t.pending[0]
	t.pending = t.pending[1:]
	n := &t.nodes[r.node]

	split, ok := t.bestSplit(r.idx)
	if !ok || n.Depth >= t.opts.MaxDepth || len(r.idx) < t.opts.MinPoints || entropy(t.points, r.idx) == 0 {
		n.Leaf = true
		return t.snapshot(r.node), nil
	}

	var left, right []int
	for _, i := range r.idx {
		if axisValue(t.points[i], split.Axis) < split.Threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	depth := n.Depth + 1
	n.Split = &split
	n.Left = len(t.nodes)
	n.Right = len(t.nodes) + 1
	// n is invalid after the append below.
	t.nodes = append(t.nodes, t.node(r.node, depth, left), t.node(r.node, depth, right))
	t.pending = append(t.pending,
		region{node: len(t.nodes) - 2, idx: left},
		region{node: len(t.nodes) - 1, idx: right},
	)
	return t.snapshot(r.node), nil
}

func (t *DecisionTree) Result() engine.Result {
	return engine.Result{Payload: t.tree()}
}

func (t *DecisionTree) node(parent, depth int, idx []int) TreeNode {
	return TreeNode{
		ID:     len(t.nodes),
		Parent: parent,
		Depth:  depth,
		Count:  len(idx),
		Label:  majority(t.points, idx),
		Left:   -1,
		Right:  -1,
	}
}

// bestSplit scans vertical thresholds over [2g, width-2g) and horizontal
// ones over [g, height-g). Only splits with positive gain qualify.
func (t *DecisionTree) bestSplit(idx []int) (Split, bool) {
	best := Split{Gain: 1e-12}
	found := false
	try := func(axis Axis, from, to float64) {
		for th := from; th < to; th += t.opts.Grid {
			if g := gain(t.points, idx, axis, th); g > best.Gain {
				best = Split{Axis: axis, Threshold: th, Gain: g}
				found = true
			}
		}
	}
	try(AxisX, 2*t.opts.Grid, t.opts.Width-2*t.opts.Grid)
	try(AxisY, t.opts.Grid, t.opts.Height-t.opts.Grid)
	return best, found
}

func (t *DecisionTree) snapshot(current int) engine.Step {
	return engine.Step{Snapshot: TreeSnapshot{Tree: t.tree(), Current: current}}
}

func (t *DecisionTree) tree() Tree {
	nodes := make([]TreeNode, len(t.nodes))
	for i, n := range t.nodes {
		if n.Split != nil {
			s := *n.Split
			n.Split = &s
		}
		nodes[i] = n
	}
	return Tree{Nodes: nodes}
}

func axisValue(p Point, a Axis) float64 {
	if a == AxisY {
		return p.Y
	}
	return p.X
}

func gain(pts []Point, idx []int, axis Axis, th float64) float64 {
	var left, right []int
	for _, i := range idx {
		if axisValue(pts[i], axis) < th {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return 0
	}
	n := float64(len(idx))
	return entropy(pts, idx) -
		float64(len(left))/n*entropy(pts, left) -
		float64(len(right))/n*entropy(pts, right)
}

func entropy(pts []Point, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	counts, labels := labelCounts(pts, idx)
	var h float64
	n := float64(len(idx))
	for _, l := range labels {
		p := float64(counts[l]) / n
		h -= p * math.Log2(p)
	}
	return h
}

// majority returns the most frequent label, the smallest on ties.
func majority(pts []Point, idx []int) int {
	counts, labels := labelCounts(pts, idx)
	best, bestCount := 0, -1
	for _, l := range labels {
		if counts[l] > bestCount {
			best, bestCount = l, counts[l]
		}
	}
	return best
}

// labelCounts tallies the labels of idx and returns them in ascending order.
func labelCounts(pts []Point, idx []int) (map[int]int, []int) {
	counts := map[int]int{}
	for _, i := range idx {
		counts[pts[i].Label]++
	}
	labels := make([]int, 0, len(counts))
	for l := range counts {
		labels = append(labels, l)
	}
	sort.Ints(labels)
	return counts, labels
}
