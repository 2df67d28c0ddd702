package sorting

import "github.com/san-kum/algostep/internal/engine"

type span struct {
	low, high int
}

type partition struct {
	low, high int
	i, j      int
	pivot     int
}

// Quick is a Lomuto quicksort. Pending spans live on an explicit stack; only
// spans with at least two elements are ever pushed.
type Quick struct {
	base
	stack []span
	part  *partition
}

func NewQuick(values []int) *Quick {
	q := &Quick{base: newBase(values)}
	if n := len(q.values); n > 1 {
		q.stack = append(q.stack, span{0, n - 1})
	}
	return q
}

func (q *Quick) Name() string { return "quick" }

func (q *Quick) Done() bool { return q.part == nil && len(q.stack) == 0 }

func (q *Quick) Step() (engine.Step, error) {
	if q.Done() {
		return engine.Step{}, engine.ErrStepAfterDone
	}
	if q.part == nil {
		top := q.stack[len(q.stack)-1]
		q.stack = q.stack[:len(q.stack)-1]
		q.part = &partition{low: top.low, high: top.high, i: top.low - 1, j: top.low, pivot: q.values[top.high]}
	}

	p := q.part
	if p.j < p.high {
		comparing := []int{p.j, p.high}
		var swapping []int
		if q.values[p.j] <= p.pivot {
			p.i++
			q.swap(p.i, p.j)
			swapping = []int{p.i, p.j}
		}
		p.j++
		return q.snapshot(comparing, swapping), nil
	}

	pi := p.i + 1
	q.swap(pi, p.high)
	q.markSorted(pi)
	q.part = nil
	q.push(pi+1, p.high)
	q.push(p.low, pi-1)
	if q.Done() {
		q.markAll()
	}
	return q.snapshot(nil, []int{pi, p.high}), nil
}

// push queues a span for partitioning; single elements are already final.
func (q *Quick) push(low, high int) {
	switch {
	case low < high:
		q.stack = append(q.stack, span{low, high})
	case low == high:
		q.markSorted(low)
	}
}
