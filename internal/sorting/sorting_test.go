package sorting_test

import (
	"context"
	"io"
	"math/rand"
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"

	"github.com/san-kum/algostep/internal/control"
	"github.com/san-kum/algostep/internal/engine"
	"github.com/san-kum/algostep/internal/sorting"
)

type sorter interface {
	engine.Driver
	Values() []int
}

func drain(t *testing.T, d engine.Driver) []sorting.Snapshot {
	t.Helper()
	var out []sorting.Snapshot
	for i := 0; !d.Done(); i++ {
		if i > 100000 {
			t.Fatalf("%s did not finish", d.Name())
		}
		step, err := d.Step()
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		out = append(out, step.Snapshot.(sorting.Snapshot))
	}
	return out
}

func constructors() map[string]func([]int) sorter {
	return map[string]func([]int) sorter{
		"bubble":    func(v []int) sorter { return sorting.NewBubble(v) },
		"insertion": func(v []int) sorter { return sorting.NewInsertion(v) },
		"quick":     func(v []int) sorter { return sorting.NewQuick(v) },
		"merge":     func(v []int) sorter { return sorting.NewMerge(v) },
	}
}

func TestBubbleComparisonOrder(t *testing.T) {
	d := sorting.NewBubble([]int{5, 3, 8, 1})
	snaps := drain(t, d)

	var got [][]int
	for _, s := range snaps {
		got = append(got, s.Comparing)
	}
	want := [][]int{{0, 1}, {1, 2}, {2, 3}, {0, 1}, {1, 2}, {0, 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("comparisons (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 3, 5, 8}, snaps[len(snaps)-1].Values); diff != "" {
		t.Errorf("final values (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 1, 2, 3}, d.Result().Payload); diff != "" {
		t.Errorf("payload (-want +got):\n%s", diff)
	}
}

func TestSortersProduceSortedOutput(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	inputs := [][]int{
		nil,
		{42},
		{2, 1},
		{1, 2, 3, 4, 5},
		{5, 4, 3, 2, 1},
		{3, 3, 1, 3, 1},
	}
	for i := 0; i < 5; i++ {
		v := make([]int, 20+rng.Intn(30))
		for j := range v {
			v[j] = rng.Intn(100)
		}
		inputs = append(inputs, v)
	}

	for name, build := range constructors() {
		for _, in := range inputs {
			d := build(in)
			snaps := drain(t, d)

			want := slices.Clone(in)
			slices.Sort(want)
			got := d.Values()
			if len(want) == 0 {
				want, got = nil, nil
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("%s(%v) (-want +got):\n%s", name, in, diff)
			}
			if len(snaps) > 0 {
				last := snaps[len(snaps)-1]
				if diff := cmp.Diff(sorting.Indices(len(in)), last.Sorted); diff != "" {
					t.Errorf("%s(%v) final sorted markers (-want +got):\n%s", name, in, diff)
				}
			}
			if diff := cmp.Diff(sorting.Indices(len(in)), d.Result().Payload); diff != "" {
				t.Errorf("%s payload (-want +got):\n%s", name, diff)
			}
		}
	}
}

func TestOneComparisonPerStep(t *testing.T) {
	in := []int{9, 2, 7, 4, 4, 1, 8, 3}
	for name, build := range constructors() {
		for i, s := range drain(t, build(in)) {
			if len(s.Comparing) > 2 {
				t.Errorf("%s step %d compares %v", name, i, s.Comparing)
			}
			if len(s.Swapping) > 2 {
				t.Errorf("%s step %d writes %v", name, i, s.Swapping)
			}
		}
	}
}

func TestInputNotMutated(t *testing.T) {
	in := []int{4, 3, 2, 1}
	for name, build := range constructors() {
		drain(t, build(in))
		if diff := cmp.Diff([]int{4, 3, 2, 1}, in); diff != "" {
			t.Errorf("%s mutated caller slice (-want +got):\n%s", name, diff)
		}
	}
}

func TestSnapshotsAreIndependent(t *testing.T) {
	d := sorting.NewQuick([]int{3, 1, 2})
	first, err := d.Step()
	if err != nil {
		t.Fatal(err)
	}
	before := slices.Clone(first.Snapshot.(sorting.Snapshot).Values)
	drain(t, d)
	if diff := cmp.Diff(before, first.Snapshot.(sorting.Snapshot).Values); diff != "" {
		t.Errorf("snapshot changed after later steps (-want +got):\n%s", diff)
	}
}

func TestStepAfterDone(t *testing.T) {
	for name, build := range constructors() {
		d := build([]int{1})
		if !d.Done() {
			t.Fatalf("%s: single element should be done", name)
		}
		if _, err := d.Step(); err != engine.ErrStepAfterDone {
			t.Errorf("%s: got %v, want ErrStepAfterDone", name, err)
		}
	}
}

func TestBubbleThroughScheduler(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := engine.Config{BaseDelay: time.Millisecond, PollInterval: time.Millisecond, MinSpeed: 1, MaxSpeed: 20}
	s, err := engine.New(cfg, engine.WithLogger(logrus.NewEntry(log)))
	if err != nil {
		t.Fatal(err)
	}

	rec := engine.NewRecorder()
	var payload any
	h := s.Start(context.Background(), sorting.NewBubble([]int{5, 3, 8, 1}), rec, control.NewFixed(20), func(p any) { payload = p })
	h.Wait()

	if h.Reason() != engine.ReasonCompleted {
		t.Fatalf("reason = %v", h.Reason())
	}
	if rec.Len() != 6 {
		t.Errorf("frames = %d, want 6", rec.Len())
	}
	if diff := cmp.Diff([]int{0, 1, 2, 3}, payload); diff != "" {
		t.Errorf("payload (-want +got):\n%s", diff)
	}
}
