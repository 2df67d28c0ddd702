package sorting

import "github.com/san-kum/algostep/internal/engine"

type Bubble struct {
	base
	i, j int
}

func NewBubble(values []int) *Bubble {
	return &Bubble{base: newBase(values)}
}

func (b *Bubble) Name() string { return "bubble" }

func (b *Bubble) Done() bool { return b.i >= len(b.values)-1 }

func (b *Bubble) Step() (engine.Step, error) {
	if b.Done() {
		return engine.Step{}, engine.ErrStepAfterDone
	}
	n := len(b.values)
	j := b.j
	comparing := []int{j, j + 1}
	var swapping []int
	if b.values[j] > b.values[j+1] {
		b.swap(j, j+1)
		swapping = []int{j, j + 1}
	}

	b.j++
	if b.j >= n-b.i-1 {
		b.markSorted(n - b.i - 1)
		b.j = 0
		b.i++
	}
	if b.Done() {
		b.markAll()
	}
	return b.snapshot(comparing, swapping), nil
}
