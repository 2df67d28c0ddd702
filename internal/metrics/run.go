package metrics

import (
	"time"

	"github.com/san-kum/algostep/internal/engine"
)

type Steps struct {
	n int
}

func NewSteps() *Steps { return &Steps{} }

func (s *Steps) Name() string         { return "steps" }
func (s *Steps) Observe(engine.Frame) { s.n++ }
func (s *Steps) Value() float64       { return float64(s.n) }
func (s *Steps) Reset()               { s.n = 0 }

// Duration is the wall time in seconds between the first and last frame.
type Duration struct {
	first, last time.Time
}

func NewDuration() *Duration { return &Duration{} }

func (d *Duration) Name() string { return "duration_s" }

func (d *Duration) Observe(f engine.Frame) {
	if d.first.IsZero() {
		d.first = f.Time
	}
	d.last = f.Time
}

func (d *Duration) Value() float64 {
	if d.first.IsZero() {
		return 0
	}
	return d.last.Sub(d.first).Seconds()
}

func (d *Duration) Reset() {
	d.first, d.last = time.Time{}, time.Time{}
}
