package viz

import (
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// NoInk marks a cell nothing has been drawn into.
const NoInk = -1

// Canvas is a braille pixel canvas. Each character cell also remembers the
// ink of the last dot set in it, so a renderer can colour cells.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Ink           [][]int
	// Extent of the plotted space; Project maps it onto the sub-pixels.
	SpanX, SpanY float64
}

func NewCanvas(w, h int, spanX, spanY float64) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Ink:    make([][]int, h),
		SpanX:  spanX,
		SpanY:  spanY,
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Ink[i] = make([]int, w)
	}
	c.Clear()
	return c
}

// Set sets a pixel at (x, y) in sub-pixel coordinates. The canvas size in
// sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y, ink int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	c.Ink[row][col] = ink
}

// Unset clears a pixel
func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] &^= rune(pixelMap[y%4][x%2])
	if c.Grid[row][col] == blank {
		c.Ink[row][col] = NoInk
	}
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Ink[i][j] = NoInk
		}
	}
}

// Project maps a point in plot space to sub-pixel coordinates.
func (c *Canvas) Project(x, y float64) (int, int) {
	px := int(x / c.SpanX * float64(c.Width*2))
	py := int(y / c.SpanY * float64(c.Height*4))
	return px, py
}

// Dot draws a 2x2 mark centred on a plot-space point.
func (c *Canvas) Dot(x, y float64, ink int) {
	px, py := c.Project(x, y)
	c.Set(px, py, ink)
	c.Set(px+1, py, ink)
	c.Set(px, py+1, ink)
	c.Set(px+1, py+1, ink)
}

// Cross draws an x over a plot-space point.
func (c *Canvas) Cross(x, y float64, ink int) {
	px, py := c.Project(x, y)
	for d := -2; d <= 2; d++ {
		c.Set(px+d, py+d, ink)
		c.Set(px+d, py-d, ink)
	}
}

// Line draws a segment between two plot-space points.
func (c *Canvas) Line(x0, y0, x1, y1 float64, ink int) {
	ax, ay := c.Project(x0, y0)
	bx, by := c.Project(x1, y1)
	c.DrawLine(ax, ay, bx, by, ink)
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1, ink int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0, ink)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Render joins the rows, passing each run of same-ink cells through paint.
func (c *Canvas) Render(paint func(ink int, s string) string) string {
	var b strings.Builder
	for r, row := range c.Grid {
		start := 0
		for i := 1; i <= len(row); i++ {
			if i < len(row) && c.Ink[r][i] == c.Ink[r][start] {
				continue
			}
			b.WriteString(paint(c.Ink[r][start], string(row[start:i])))
			start = i
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (c *Canvas) String() string {
	return c.Render(func(_ int, s string) string { return s })
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
