package metrics

import (
	"github.com/san-kum/algostep/internal/engine"
	"github.com/san-kum/algostep/internal/pathfind"
)

type Visited struct {
	n int
}

func NewVisited() *Visited { return &Visited{} }

func (v *Visited) Name() string { return "visited" }

func (v *Visited) Observe(f engine.Frame) {
	if s, ok := f.Snapshot.(pathfind.Snapshot); ok {
		v.n = s.Visited
	}
}

func (v *Visited) Value() float64 { return float64(v.n) }
func (v *Visited) Reset()         { v.n = 0 }

// PathLength is the number of path cells revealed so far.
type PathLength struct {
	n int
}

func NewPathLength() *PathLength { return &PathLength{} }

func (p *PathLength) Name() string { return "path_length" }

func (p *PathLength) Observe(f engine.Frame) {
	if s, ok := f.Snapshot.(pathfind.Snapshot); ok {
		p.n = s.PathLen
	}
}

func (p *PathLength) Value() float64 { return float64(p.n) }
func (p *PathLength) Reset()         { p.n = 0 }
