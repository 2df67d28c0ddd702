package metrics

import (
	"github.com/san-kum/algostep/internal/engine"
	"github.com/san-kum/algostep/internal/ml"
)

// Iterations tracks the latest iteration reported by iterative drivers.
type Iterations struct {
	n int
}

func NewIterations() *Iterations { return &Iterations{} }

func (i *Iterations) Name() string { return "iterations" }

func (i *Iterations) Observe(f engine.Frame) {
	switch s := f.Snapshot.(type) {
	case ml.KMeansSnapshot:
		i.n = s.Iteration
	case ml.RegressionSnapshot:
		i.n = s.Iteration
	}
}

func (i *Iterations) Value() float64 { return float64(i.n) }
func (i *Iterations) Reset()         { i.n = 0 }

// Loss is the last mean squared error seen from gradient descent.
type Loss struct {
	mse float64
}

func NewLoss() *Loss { return &Loss{} }

func (l *Loss) Name() string { return "mse" }

func (l *Loss) Observe(f engine.Frame) {
	if s, ok := f.Snapshot.(ml.RegressionSnapshot); ok {
		l.mse = s.MSE
	}
}

func (l *Loss) Value() float64 { return l.mse }
func (l *Loss) Reset()         { l.mse = 0 }
