package pathfind

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyGrid  = errors.New("pathfind: grid has no cells")
	ErrRagged     = errors.New("pathfind: rows differ in length")
	ErrOutOfRange = errors.New("pathfind: position outside grid")
	ErrBlocked    = errors.New("pathfind: position is a wall")
)

type Pos struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

func (p Pos) String() string { return fmt.Sprintf("(%d,%d)", p.Row, p.Col) }

// Manhattan returns |dr| + |dc|.
func Manhattan(a, b Pos) int {
	return abs(a.Row-b.Row) + abs(a.Col-b.Col)
}

// Grid is a rectangular field of open cells and walls.
type Grid struct {
	Rows, Cols int
	walls      []bool
}

func NewGrid(rows, cols int) *Grid {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return &Grid{Rows: rows, Cols: cols, walls: make([]bool, rows*cols)}
}

// ParseGrid reads one string per row: '#' is a wall, anything else is open.
func ParseGrid(rows []string) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	g := NewGrid(len(rows), len(rows[0]))
	for r, line := range rows {
		if len(line) != g.Cols {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrRagged, r, len(line), g.Cols)
		}
		for c, ch := range line {
			if ch == '#' {
				g.walls[r*g.Cols+c] = true
			}
		}
	}
	return g, nil
}

func (g *Grid) In(p Pos) bool {
	return p.Row >= 0 && p.Row < g.Rows && p.Col >= 0 && p.Col < g.Cols
}

func (g *Grid) Wall(p Pos) bool {
	return g.In(p) && g.walls[g.index(p)]
}

func (g *Grid) SetWall(p Pos, wall bool) {
	if g.In(p) {
		g.walls[g.index(p)] = wall
	}
}

func (g *Grid) Walls() int {
	n := 0
	for _, w := range g.walls {
		if w {
			n++
		}
	}
	return n
}

func (g *Grid) Clone() *Grid {
	c := &Grid{Rows: g.Rows, Cols: g.Cols, walls: make([]bool, len(g.walls))}
	copy(c.walls, g.walls)
	return c
}

func (g *Grid) String() string {
	var sb strings.Builder
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			if g.walls[r*g.Cols+c] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (g *Grid) index(p Pos) int { return p.Row*g.Cols + p.Col }

func (g *Grid) pos(i int) Pos { return Pos{Row: i / g.Cols, Col: i % g.Cols} }

var offsets = [4]Pos{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// neighbours appends open in-bounds cells around p in up, down, left, right order.
func (g *Grid) neighbours(dst []Pos, p Pos) []Pos {
	for _, o := range offsets {
		n := Pos{Row: p.Row + o.Row, Col: p.Col + o.Col}
		if g.In(n) && !g.walls[g.index(n)] {
			dst = append(dst, n)
		}
	}
	return dst
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
