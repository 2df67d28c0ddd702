package experiment

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/san-kum/algostep/internal/engine"
	"github.com/san-kum/algostep/internal/ml"
	"github.com/san-kum/algostep/internal/pathfind"
	"github.com/san-kum/algostep/internal/sorting"
)

type Family string

const (
	FamilySorting Family = "sorting"
	FamilyGraph   Family = "graph"
	FamilyML      Family = "ml"
)

// Input is the caller-owned data a run starts from. Only the fields of the
// algorithm's family are read; drivers copy what they keep.
type Input struct {
	Values []int

	Grid        *pathfind.Grid
	Start, Goal pathfind.Pos
	Search      pathfind.Options

	Points []ml.Point
	Params Params
	Seed   int64
}

// Params tunes the ML drivers. Zero fields fall back to driver defaults.
type Params struct {
	K            int
	Tolerance    float64
	MaxIter      int
	CellSize     int
	LearningRate float64
	Iterations   int
	Frames       int
	Eps          float64
	MinPts       int
	MaxDepth     int
}

type Factory func(in Input) (engine.Driver, error)

type entry struct {
	family  Family
	summary string
	build   Factory
}

type Registry struct {
	kinds map[string]entry
}

func NewRegistry() *Registry {
	r := &Registry{kinds: make(map[string]entry)}

	sortKind := func(name, summary string, fn func([]int) engine.Driver) {
		r.Register(name, FamilySorting, summary, func(in Input) (engine.Driver, error) {
			return fn(in.Values), nil
		})
	}
	sortKind("bubble", "bubble sort, adjacent compare and swap", func(v []int) engine.Driver { return sorting.NewBubble(v) })
	sortKind("insertion", "insertion sort, shift then place", func(v []int) engine.Driver { return sorting.NewInsertion(v) })
	sortKind("quick", "quicksort, Lomuto partition", func(v []int) engine.Driver { return sorting.NewQuick(v) })
	sortKind("merge", "top-down merge sort", func(v []int) engine.Driver { return sorting.NewMerge(v) })

	for _, alg := range []pathfind.Algorithm{pathfind.BFS, pathfind.DFS, pathfind.Dijkstra, pathfind.AStar} {
		r.Register(alg.String(), FamilyGraph, graphSummaries[alg], func(in Input) (engine.Driver, error) {
			if in.Grid == nil {
				return nil, fmt.Errorf("%w: %s needs a grid", engine.ErrInvalidInput, alg)
			}
			return pathfind.NewSearch(alg, in.Grid, in.Start, in.Goal, in.Search), nil
		})
	}

	r.Register("kmeans", FamilyML, "k-means clustering", func(in Input) (engine.Driver, error) {
		return ml.NewKMeans(in.Points, ml.KMeansOptions{
			K:         orInt(in.Params.K, ml.DefaultKMeansOptions().K),
			Tolerance: in.Params.Tolerance,
			MaxIter:   in.Params.MaxIter,
			Rand:      rand.New(rand.NewSource(in.Seed)),
		}), nil
	})
	r.Register("knn", FamilyML, "k-nearest-neighbour decision surface", func(in Input) (engine.Driver, error) {
		return ml.NewKNN(in.Points, ml.KNNOptions{
			K:        orInt(in.Params.K, ml.DefaultKNNOptions().K),
			CellSize: in.Params.CellSize,
		}), nil
	})
	r.Register("regression", FamilyML, "linear regression by gradient descent", func(in Input) (engine.Driver, error) {
		return ml.NewRegression(in.Points, ml.RegressionOptions{
			LearningRate: in.Params.LearningRate,
			Iterations:   in.Params.Iterations,
		}), nil
	})
	r.Register("linefit", FamilyML, "least-squares line, closed form", func(in Input) (engine.Driver, error) {
		return ml.NewClosedForm(in.Points, ml.ClosedFormOptions{Frames: in.Params.Frames}), nil
	})
	r.Register("dbscan", FamilyML, "density-based clustering", func(in Input) (engine.Driver, error) {
		def := ml.DefaultDBSCANOptions()
		return ml.NewDBSCAN(in.Points, ml.DBSCANOptions{
			Eps:    orFloat(in.Params.Eps, def.Eps),
			MinPts: orInt(in.Params.MinPts, def.MinPts),
		}), nil
	})
	r.Register("tree", FamilyML, "decision tree, breadth-first splits", func(in Input) (engine.Driver, error) {
		return ml.NewDecisionTree(in.Points, ml.TreeOptions{MaxDepth: in.Params.MaxDepth}), nil
	})

	return r
}

var graphSummaries = map[pathfind.Algorithm]string{
	pathfind.BFS:      "breadth-first search",
	pathfind.DFS:      "depth-first search",
	pathfind.Dijkstra: "Dijkstra shortest path",
	pathfind.AStar:    "A* with Manhattan heuristic",
}

// Register adds or replaces a kind.
func (r *Registry) Register(kind string, family Family, summary string, build Factory) {
	r.kinds[kind] = entry{family: family, summary: summary, build: build}
}

func (r *Registry) Build(kind string, in Input) (engine.Driver, error) {
	e, ok := r.kinds[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", engine.ErrUnknownAlgorithm, kind)
	}
	return e.build(in)
}

func (r *Registry) Family(kind string) (Family, error) {
	e, ok := r.kinds[kind]
	if !ok {
		return "", fmt.Errorf("%w: %s", engine.ErrUnknownAlgorithm, kind)
	}
	return e.family, nil
}

func (r *Registry) Summary(kind string) string {
	return r.kinds[kind].summary
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.kinds))
	for name := range r.kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func orInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func orFloat(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
