package sorting

import "github.com/san-kum/algostep/internal/engine"

type frame struct {
	left, right int
	split       bool
}

type merging struct {
	left, mid, right int
	lhs, rhs         []int
	i, j, k          int
}

// Merge is a top-down merge sort. Frames are pushed once to split and once
// more to merge after both halves are done; each step writes one element.
type Merge struct {
	base
	stack  []frame
	active *merging
}

func NewMerge(values []int) *Merge {
	m := &Merge{base: newBase(values)}
	if n := len(m.values); n > 1 {
		m.stack = append(m.stack, frame{left: 0, right: n - 1})
	}
	return m
}

func (m *Merge) Name() string { return "merge" }

func (m *Merge) Done() bool { return m.active == nil && len(m.stack) == 0 }

// prepare unwinds split frames until a merge is ready.
func (m *Merge) prepare() {
	for m.active == nil && len(m.stack) > 0 {
		f := m.stack[len(m.stack)-1]
		m.stack = m.stack[:len(m.stack)-1]
		mid := (f.left + f.right) / 2
		if f.split {
			m.active = &merging{
				left:  f.left,
				mid:   mid,
				right: f.right,
				lhs:   clone(m.values[f.left : mid+1]),
				rhs:   clone(m.values[mid+1 : f.right+1]),
				k:     f.left,
			}
			return
		}
		m.stack = append(m.stack, frame{left: f.left, right: f.right, split: true})
		if mid+1 < f.right {
			m.stack = append(m.stack, frame{left: mid + 1, right: f.right})
		}
		if f.left < mid {
			m.stack = append(m.stack, frame{left: f.left, right: mid})
		}
	}
}

func (m *Merge) Step() (engine.Step, error) {
	if m.Done() {
		return engine.Step{}, engine.ErrStepAfterDone
	}
	m.prepare()

	a := m.active
	var comparing []int
	switch {
	case a.i < len(a.lhs) && a.j < len(a.rhs):
		comparing = []int{a.left + a.i, a.mid + 1 + a.j}
		if a.lhs[a.i] <= a.rhs[a.j] {
			m.values[a.k] = a.lhs[a.i]
			a.i++
		} else {
			m.values[a.k] = a.rhs[a.j]
			a.j++
		}
	case a.i < len(a.lhs):
		m.values[a.k] = a.lhs[a.i]
		a.i++
	default:
		m.values[a.k] = a.rhs[a.j]
		a.j++
	}
	written := a.k
	a.k++

	if a.k > a.right {
		m.active = nil
		if m.Done() {
			m.markAll()
		}
	}
	return m.snapshot(comparing, []int{written}), nil
}
