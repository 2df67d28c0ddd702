package sorting

import (
	"github.com/san-kum/algostep/internal/engine"
)

type Snapshot struct {
	Values    []int `json:"values"`
	Comparing []int `json:"comparing,omitempty"`
	Swapping  []int `json:"swapping,omitempty"`
	Sorted    []int `json:"sorted,omitempty"`
}

const phaseSort = "sort"

type base struct {
	values []int
	sorted []int
}

func newBase(values []int) base {
	v := make([]int, len(values))
	copy(v, values)
	return base{values: v}
}

// Values returns a copy of the working array.
func (b *base) Values() []int { return clone(b.values) }

func (b *base) Result() engine.Result {
	return engine.Result{Payload: Indices(len(b.values))}
}

func (b *base) markSorted(idx ...int) {
	b.sorted = append(b.sorted, idx...)
}

func (b *base) markAll() {
	b.sorted = Indices(len(b.values))
}

func (b *base) swap(i, j int) {
	b.values[i], b.values[j] = b.values[j], b.values[i]
}

func (b *base) snapshot(comparing, swapping []int) engine.Step {
	return engine.Step{
		Snapshot: Snapshot{
			Values:    clone(b.values),
			Comparing: comparing,
			Swapping:  swapping,
			Sorted:    clone(b.sorted),
		},
		Phase: phaseSort,
	}
}

// Indices returns 0..n-1.
func Indices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func clone(s []int) []int {
	if s == nil {
		return nil
	}
	c := make([]int, len(s))
	copy(c, s)
	return c
}
