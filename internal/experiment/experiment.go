package experiment

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/algostep/internal/config"
	"github.com/san-kum/algostep/internal/dataset"
	"github.com/san-kum/algostep/internal/engine"
	"github.com/san-kum/algostep/internal/ml"
	"github.com/san-kum/algostep/internal/pathfind"
)

// Experiment turns a config into scheduler settings and a generated input.
type Experiment struct {
	cfg      *config.Config
	registry *Registry
	rng      *rand.Rand
}

func New(cfg *config.Config, r *Registry) *Experiment {
	if r == nil {
		r = NewRegistry()
	}
	return &Experiment{cfg: cfg, registry: r, rng: rand.New(rand.NewSource(cfg.Seed))}
}

func (e *Experiment) Registry() *Registry { return e.registry }

// EngineConfig maps the playback section onto scheduler timings.
func (e *Experiment) EngineConfig() engine.Config {
	p := e.cfg.Playback
	return engine.Config{
		BaseDelay:    p.BaseDelay(),
		SpeedStep:    p.SpeedStep(),
		PollInterval: p.PollInterval(),
		MinSpeed:     p.MinSpeed,
		MaxSpeed:     p.MaxSpeed,
	}
}

// Input generates fresh data for the configured algorithm. Successive calls
// draw from the same seeded source and so differ from each other.
func (e *Experiment) Input() (Input, error) {
	return e.InputFor(e.cfg.Algorithm)
}

func (e *Experiment) InputFor(kind string) (Input, error) {
	fam, err := e.registry.Family(kind)
	if err != nil {
		return Input{}, err
	}
	c := e.cfg
	in := Input{
		Seed: e.rng.Int63(),
		Params: Params{
			K:            c.Params.K,
			Tolerance:    c.Params.Tolerance,
			MaxIter:      c.Params.MaxIter,
			CellSize:     c.Params.CellSize,
			LearningRate: c.Params.LearningRate,
			Iterations:   c.Params.Iterations,
			Frames:       c.Params.Frames,
			Eps:          c.Params.Eps,
			MinPts:       c.Params.MinPts,
			MaxDepth:     c.Params.MaxDepth,
		},
	}

	switch fam {
	case FamilySorting:
		if len(c.Array.Values) > 0 {
			in.Values = append([]int(nil), c.Array.Values...)
		} else {
			in.Values = dataset.Array(e.rng, c.Array.Size, c.Array.Max)
		}
	case FamilyGraph:
		in.Start = pathfind.Pos{Row: c.Grid.Start[0], Col: c.Grid.Start[1]}
		in.Goal = pathfind.Pos{Row: c.Grid.Goal[0], Col: c.Grid.Goal[1]}
		in.Search = pathfind.Options{PathDelay: c.Playback.PathDelay()}
		if len(c.Grid.Layout) > 0 {
			g, err := pathfind.ParseGrid(c.Grid.Layout)
			if err != nil {
				return Input{}, fmt.Errorf("grid layout: %w", err)
			}
			in.Grid = g
		} else {
			in.Grid = dataset.Walls(e.rng, c.Grid.Rows, c.Grid.Cols, c.Grid.Density, in.Start, in.Goal)
		}
	case FamilyML:
		in.Points = e.points(kind)
	}
	return in, nil
}

func (e *Experiment) points(kind string) []ml.Point {
	p := e.cfg.Points
	switch kind {
	case "regression", "linefit":
		return dataset.NoisyLine(e.rng, p.Count, p.Slope, p.Intercept, p.Noise, ml.CanvasWidth)
	default:
		clusters := max(p.Clusters, 1)
		return dataset.Blobs(e.rng, clusters, p.Count/clusters, p.Spread, ml.CanvasWidth, ml.CanvasHeight)
	}
}
