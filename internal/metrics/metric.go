// Package metrics derives run statistics from published frames.
package metrics

import (
	"sort"
	"sync"

	"github.com/san-kum/algostep/internal/engine"
)

type Metric interface {
	Name() string
	Observe(f engine.Frame)
	Value() float64
	Reset()
}

// Set feeds every frame to its metrics. It is an engine.Sink.
type Set struct {
	mu      sync.Mutex
	metrics []Metric
}

func NewSet(ms ...Metric) *Set {
	return &Set{metrics: ms}
}

func (s *Set) Add(m Metric) {
	s.mu.Lock()
	s.metrics = append(s.metrics, m)
	s.mu.Unlock()
}

func (s *Set) Publish(f engine.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.metrics {
		m.Observe(f)
	}
}

func (s *Set) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.metrics {
		m.Reset()
	}
}

func (s *Set) Values() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

// Names lists metric names in sorted order.
func (s *Set) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.metrics))
	for _, m := range s.metrics {
		names = append(names, m.Name())
	}
	sort.Strings(names)
	return names
}

// ForAlgorithm returns the metrics that make sense for a snapshot family.
func ForAlgorithm(family string) []Metric {
	ms := []Metric{NewSteps(), NewDuration()}
	switch family {
	case "sorting":
		ms = append(ms, NewComparisons(), NewWrites())
	case "graph":
		ms = append(ms, NewVisited(), NewPathLength())
	case "ml":
		ms = append(ms, NewIterations(), NewLoss())
	}
	return ms
}
