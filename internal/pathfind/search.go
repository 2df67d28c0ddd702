package pathfind

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/san-kum/algostep/internal/engine"
)

type Algorithm int

const (
	BFS Algorithm = iota
	DFS
	Dijkstra
	AStar
)

var algorithmNames = map[Algorithm]string{
	BFS:      "bfs",
	DFS:      "dfs",
	Dijkstra: "dijkstra",
	AStar:    "astar",
}

func (a Algorithm) String() string {
	if s, ok := algorithmNames[a]; ok {
		return s
	}
	return fmt.Sprintf("algorithm(%d)", int(a))
}

func ParseAlgorithm(s string) (Algorithm, error) {
	for a, name := range algorithmNames {
		if strings.EqualFold(s, name) {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", engine.ErrUnknownAlgorithm, s)
}

const (
	PhaseSearch = "search"
	PhasePath   = "path"

	DefaultPathDelay = 50 * time.Millisecond
)

type Options struct {
	PathDelay time.Duration
}

func DefaultOptions() Options {
	return Options{PathDelay: DefaultPathDelay}
}

type Cell uint8

const (
	Open Cell = iota
	Wall
	Queued
	Visited
	Path
	Start
	Goal
)

// Rune is the single-character form used by text renderers.
func (c Cell) Rune() rune {
	return []rune(".#+o*SG")[c]
}

type Snapshot struct {
	Rows     int    `json:"rows"`
	Cols     int    `json:"cols"`
	Cells    []Cell `json:"cells"`
	Current  Pos    `json:"current"`
	Visited  int    `json:"visited"`
	Frontier int    `json:"frontier"`
	PathLen  int    `json:"path_len,omitempty"`
}

func (s Snapshot) At(p Pos) Cell {
	return s.Cells[p.Row*s.Cols+p.Col]
}

func (s Snapshot) String() string {
	var sb strings.Builder
	for r := 0; r < s.Rows; r++ {
		for c := 0; c < s.Cols; c++ {
			sb.WriteRune(s.Cells[r*s.Cols+c].Rune())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Search is the step driver shared by all four algorithms.
type Search struct {
	alg         Algorithm
	grid        *Grid
	start, goal Pos
	opts        Options

	front    frontier
	seq      int
	dist     []int
	prev     []int
	queued   []bool
	visited  []bool
	nvisited int
	current  Pos

	found   bool
	path    []Pos
	shown   int
	scratch []Pos
}

// NewSearch clones grid; the caller keeps ownership of the original.
func NewSearch(alg Algorithm, grid *Grid, start, goal Pos, opts Options) *Search {
	if opts.PathDelay <= 0 {
		opts.PathDelay = DefaultPathDelay
	}
	s := &Search{alg: alg, start: start, goal: goal, opts: opts, current: start}
	if grid == nil {
		grid = NewGrid(0, 0)
	}
	s.grid = grid.Clone()

	switch alg {
	case BFS:
		s.front = &queue{}
	case DFS:
		s.front = &stack{}
	default:
		s.front = &priority{}
	}

	n := s.grid.Rows * s.grid.Cols
	s.dist = make([]int, n)
	s.prev = make([]int, n)
	s.queued = make([]bool, n)
	s.visited = make([]bool, n)
	for i := range s.dist {
		s.dist[i] = math.MaxInt
		s.prev[i] = -1
	}

	if s.Validate() == nil {
		i := s.grid.index(start)
		s.dist[i] = 0
		s.enqueue(i, 0)
	}
	return s
}

func (s *Search) Name() string { return s.alg.String() }

func (s *Search) Validate() error {
	if s.grid.Rows == 0 || s.grid.Cols == 0 {
		return fmt.Errorf("%w: %w", engine.ErrInvalidInput, ErrEmptyGrid)
	}
	for _, p := range []Pos{s.start, s.goal} {
		if !s.grid.In(p) {
			return fmt.Errorf("%w: %w: %v in %dx%d", engine.ErrInvalidInput, ErrOutOfRange, p, s.grid.Rows, s.grid.Cols)
		}
		if s.grid.Wall(p) {
			return fmt.Errorf("%w: %w: %v", engine.ErrInvalidInput, ErrBlocked, p)
		}
	}
	return nil
}

func (s *Search) Done() bool {
	if s.found {
		return s.shown >= len(s.path)
	}
	return s.front.size() == 0
}

func (s *Search) Step() (engine.Step, error) {
	if s.Done() {
		return engine.Step{}, engine.ErrStepAfterDone
	}
	if s.found {
		s.shown++
		return engine.Step{Snapshot: s.snapshot(), Delay: s.opts.PathDelay, Phase: PhasePath}, nil
	}

	e := s.front.pop()
	cur := s.grid.pos(e.cell)
	s.visited[e.cell] = true
	s.nvisited++
	s.current = cur

	if cur == s.goal {
		s.found = true
		s.path = s.trace(e.cell)
		return engine.Step{Snapshot: s.snapshot(), Phase: PhaseSearch}, nil
	}

	s.scratch = s.grid.neighbours(s.scratch[:0], cur)
	for _, n := range s.scratch {
		ni := s.grid.index(n)
		if s.visited[ni] {
			continue
		}
		nd := s.dist[e.cell] + 1
		switch s.alg {
		case BFS:
			if s.queued[ni] {
				continue
			}
		case DFS:
		default:
			if nd >= s.dist[ni] {
				continue
			}
		}
		s.dist[ni] = nd
		s.prev[ni] = e.cell
		s.enqueue(ni, nd)
	}
	s.discardStale()
	return engine.Step{Snapshot: s.snapshot(), Phase: PhaseSearch}, nil
}

// Result returns the start-to-goal path, or nil with Exhausted set when the
// goal is unreachable.
func (s *Search) Result() engine.Result {
	if !s.found {
		return engine.Result{Exhausted: true}
	}
	path := make([]Pos, len(s.path))
	copy(path, s.path)
	return engine.Result{Payload: path}
}

func (s *Search) enqueue(i, d int) {
	e := entry{cell: i, seq: s.seq}
	s.seq++
	switch s.alg {
	case Dijkstra:
		e.priority = d
	case AStar:
		e.h = Manhattan(s.grid.pos(i), s.goal)
		e.priority = d + e.h
	}
	s.queued[i] = true
	s.front.push(e)
}

// discardStale drops already-visited entries at the head of the frontier so
// Done is exact and every step pops a fresh cell.
func (s *Search) discardStale() {
	for s.front.size() > 0 && s.visited[s.front.peek().cell] {
		s.front.pop()
	}
}

func (s *Search) trace(goal int) []Pos {
	var rev []Pos
	for i := goal; i >= 0; i = s.prev[i] {
		rev = append(rev, s.grid.pos(i))
	}
	path := make([]Pos, len(rev))
	for i, p := range rev {
		path[len(rev)-1-i] = p
	}
	return path
}

func (s *Search) snapshot() Snapshot {
	cells := make([]Cell, len(s.visited))
	for i := range cells {
		switch {
		case s.grid.walls[i]:
			cells[i] = Wall
		case s.visited[i]:
			cells[i] = Visited
		case s.queued[i]:
			cells[i] = Queued
		}
	}
	for _, p := range s.path[:s.shown] {
		cells[s.grid.index(p)] = Path
	}
	cells[s.grid.index(s.start)] = Start
	cells[s.grid.index(s.goal)] = Goal

	frontier := 0
	for i, q := range s.queued {
		if q && !s.visited[i] {
			frontier++
		}
	}
	return Snapshot{
		Rows:     s.grid.Rows,
		Cols:     s.grid.Cols,
		Cells:    cells,
		Current:  s.current,
		Visited:  s.nvisited,
		Frontier: frontier,
		PathLen:  s.shown,
	}
}
