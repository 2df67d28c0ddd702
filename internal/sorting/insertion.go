package sorting

import "github.com/san-kum/algostep/internal/engine"

// Insertion shifts larger elements right one position per step and writes
// the held key once its slot is found.
type Insertion struct {
	base
	i, j   int
	key    int
	active bool
}

func NewInsertion(values []int) *Insertion {
	return &Insertion{base: newBase(values), i: 1}
}

func (s *Insertion) Name() string { return "insertion" }

func (s *Insertion) Done() bool { return s.i >= len(s.values) }

func (s *Insertion) Step() (engine.Step, error) {
	if s.Done() {
		return engine.Step{}, engine.ErrStepAfterDone
	}
	if !s.active {
		s.key = s.values[s.i]
		s.j = s.i - 1
		s.active = true
	}

	j := s.j
	if j >= 0 && s.values[j] > s.key {
		s.values[j+1] = s.values[j]
		s.j--
		return s.snapshot([]int{j, j + 1}, []int{j, j + 1}), nil
	}

	var comparing []int
	if j >= 0 {
		comparing = []int{j, j + 1}
	}
	s.values[j+1] = s.key
	s.i++
	s.active = false
	if s.Done() {
		s.markAll()
	}
	return s.snapshot(comparing, []int{j + 1}), nil
}
