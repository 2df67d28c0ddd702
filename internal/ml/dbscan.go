package ml

import (
	"fmt"

	"github.com/san-kum/algostep/internal/engine"
)

const (
	Unassigned = 0
	Noise      = -1
)

type DBSCANOptions struct {
	Eps    float64
	MinPts int
}

func DefaultDBSCANOptions() DBSCANOptions {
	return DBSCANOptions{Eps: 50, MinPts: 4}
}

type DBSCANSnapshot struct {
	Labels   []int `json:"labels"`
	Current  int   `json:"current"`
	Clusters int   `json:"clusters"`
}

type DBSCANResult struct {
	Labels   []int `json:"labels"`
	Clusters int   `json:"clusters"`
	Noise    int   `json:"noise"`
}

// DBSCAN visits one unvisited point per step. A core point grows a whole
// cluster within that step; anything else is provisionally noise and may be
// claimed later as a border point of a cluster.
type DBSCAN struct {
	points   []Point
	opts     DBSCANOptions
	labels   []int
	visited  []bool
	next     int
	clusters int
}

func NewDBSCAN(points []Point, opts DBSCANOptions) *DBSCAN {
	d := &DBSCAN{
		points:  clonePoints(points),
		opts:    opts,
		labels:  make([]int, len(points)),
		visited: make([]bool, len(points)),
	}
	return d
}

func (d *DBSCAN) Name() string { return "dbscan" }

func (d *DBSCAN) Validate() error {
	if d.opts.Eps <= 0 || d.opts.MinPts < 1 {
		return fmt.Errorf("%w: eps=%g minPts=%d", engine.ErrInvalidInput, d.opts.Eps, d.opts.MinPts)
	}
	return nil
}

func (d *DBSCAN) Done() bool {
	return d.Validate() != nil || d.next >= len(d.points)
}

func (d *DBSCAN) Step() (engine.Step, error) {
	if d.Done() {
		return engine.Step{}, engine.ErrStepAfterDone
	}
	i := d.next
	d.visited[i] = true

	seeds := d.region(i)
	if len(seeds) < d.opts.MinPts {
		d.labels[i] = Noise
	} else {
		d.clusters++
		d.expand(i, seeds, d.clusters)
	}

	for d.next < len(d.points) && d.visited[d.next] {
		d.next++
	}
	return engine.Step{Snapshot: DBSCANSnapshot{
		Labels:   cloneInts(d.labels),
		Current:  i,
		Clusters: d.clusters,
	}}, nil
}

// expand absorbs every point density-reachable from core breadth first.
func (d *DBSCAN) expand(core int, seeds []int, cluster int) {
	d.labels[core] = cluster
	for q := 0; q < len(seeds); q++ {
		j := seeds[q]
		if d.labels[j] == Noise {
			d.labels[j] = cluster
		}
		if d.visited[j] {
			continue
		}
		d.visited[j] = true
		d.labels[j] = cluster
		if more := d.region(j); len(more) >= d.opts.MinPts {
			seeds = append(seeds, more...)
		}
	}
}

// region lists the points within Eps of i, excluding i.
func (d *DBSCAN) region(i int) []int {
	var out []int
	for j, p := range d.points {
		if j != i && Dist(p, d.points[i]) <= d.opts.Eps {
			out = append(out, j)
		}
	}
	return out
}

func (d *DBSCAN) Result() engine.Result {
	noise := 0
	for _, l := range d.labels {
		if l == Noise {
			noise++
		}
	}
	return engine.Result{Payload: DBSCANResult{
		Labels:   cloneInts(d.labels),
		Clusters: d.clusters,
		Noise:    noise,
	}}
}
