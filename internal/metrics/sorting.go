package metrics

import (
	"github.com/san-kum/algostep/internal/engine"
	"github.com/san-kum/algostep/internal/sorting"
)

type Comparisons struct {
	n int
}

func NewComparisons() *Comparisons { return &Comparisons{} }

func (c *Comparisons) Name() string { return "comparisons" }

func (c *Comparisons) Observe(f engine.Frame) {
	if s, ok := f.Snapshot.(sorting.Snapshot); ok && len(s.Comparing) > 0 {
		c.n++
	}
}

func (c *Comparisons) Value() float64 { return float64(c.n) }
func (c *Comparisons) Reset()         { c.n = 0 }

// Writes counts steps that swapped or wrote at least one element.
type Writes struct {
	n int
}

func NewWrites() *Writes { return &Writes{} }

func (w *Writes) Name() string { return "writes" }

func (w *Writes) Observe(f engine.Frame) {
	if s, ok := f.Snapshot.(sorting.Snapshot); ok && len(s.Swapping) > 0 {
		w.n++
	}
}

func (w *Writes) Value() float64 { return float64(w.n) }
func (w *Writes) Reset()         { w.n = 0 }
