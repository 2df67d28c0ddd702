package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/algostep/internal/ml"
	"github.com/san-kum/algostep/internal/pathfind"
	"github.com/san-kum/algostep/internal/sorting"
)

// Inks beyond the label range.
const (
	inkPoint = 1000 + iota
	inkCentroid
	inkLine
	inkSplit
)

// Render draws a snapshot into a width x height character area. Points
// supplies the data set for snapshots that do not carry it.
func Render(snapshot any, points []ml.Point, width, height int, th Theme) string {
	switch s := snapshot.(type) {
	case sorting.Snapshot:
		return renderBars(s, width, height, th)
	case pathfind.Snapshot:
		return renderGrid(s, th)
	case nil:
		return ""
	}

	c := NewCanvas(width, height, ml.CanvasWidth, ml.CanvasHeight)
	switch s := snapshot.(type) {
	case ml.KMeansSnapshot:
		for i, p := range points {
			c.Dot(p.X, p.Y, labelAt(s.Assignments, i))
		}
		for _, ctr := range s.Centroids {
			c.Cross(ctr.X, ctr.Y, inkCentroid)
		}
	case ml.DBSCANSnapshot:
		for i, p := range points {
			ink := labelAt(s.Labels, i)
			if ink == ml.Unassigned {
				ink = inkPoint
			}
			c.Dot(p.X, p.Y, ink)
		}
	case ml.KNNSnapshot:
		for _, p := range s.Predictions {
			px, py := c.Project(p.X, p.Y)
			c.Set(px, py, p.Label)
		}
		for _, p := range points {
			c.Dot(p.X, p.Y, p.Label)
		}
	case ml.RegressionSnapshot:
		plain(c, points)
		c.Line(0, s.Line.At(0), ml.CanvasWidth, s.Line.At(ml.CanvasWidth), inkLine)
	case ml.LineSnapshot:
		plain(c, points)
		for i := 1; i < len(s.Points); i++ {
			a, b := s.Points[i-1], s.Points[i]
			c.Line(a.X, a.Y, b.X, b.Y, inkLine)
		}
	case ml.TreeSnapshot:
		for _, n := range s.Tree.Nodes {
			if n.Split == nil {
				continue
			}
			t := n.Split.Threshold
			if n.Split.Axis == ml.AxisX {
				c.Line(t, 0, t, ml.CanvasHeight-1, inkSplit)
			} else {
				c.Line(0, t, ml.CanvasWidth-1, t, inkSplit)
			}
		}
		for _, p := range points {
			c.Dot(p.X, p.Y, p.Label)
		}
	default:
		return fmt.Sprintf("%v\n", snapshot)
	}
	return c.Render(func(ink int, s string) string {
		switch ink {
		case NoInk:
			return s
		case inkPoint:
			return fg(th.Text).Render(s)
		case inkCentroid:
			return fg(th.Accent).Bold(true).Render(s)
		case inkLine:
			return fg(th.Accent).Render(s)
		case inkSplit:
			return fg(th.Muted).Render(s)
		}
		return fg(th.Label(ink)).Render(s)
	})
}

func plain(c *Canvas, points []ml.Point) {
	for _, p := range points {
		c.Dot(p.X, p.Y, inkPoint)
	}
}

func labelAt(labels []int, i int) int {
	if i < len(labels) {
		return labels[i]
	}
	return ml.Noise
}

// renderBars draws one column per value, scaled to height rows. Arrays
// wider than the area are truncated.
func renderBars(s sorting.Snapshot, width, height int, th Theme) string {
	n := min(len(s.Values), width)
	if n == 0 || height <= 0 {
		return ""
	}
	top := 1
	for _, v := range s.Values[:n] {
		top = max(top, v)
	}
	styles := make([]lipgloss.Style, n)
	for i := range styles {
		c := th.Bar
		switch {
		case contains(s.Swapping, i):
			c = th.Swap
		case contains(s.Comparing, i):
			c = th.Compare
		case contains(s.Sorted, i):
			c = th.Sorted
		}
		styles[i] = fg(c)
	}

	var b strings.Builder
	for row := height; row >= 1; row-- {
		for i, v := range s.Values[:n] {
			if v*height >= row*top {
				b.WriteString(styles[i].Render("█"))
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// renderGrid draws each cell as two characters so cells come out roughly
// square.
func renderGrid(s pathfind.Snapshot, th Theme) string {
	var b strings.Builder
	for r := 0; r < s.Rows; r++ {
		for col := 0; col < s.Cols; col++ {
			cell := s.At(pathfind.Pos{Row: r, Col: col})
			var glyph string
			switch cell {
			case pathfind.Open:
				glyph = "  "
			case pathfind.Wall:
				glyph = fg(th.Wall).Render("██")
			case pathfind.Queued:
				glyph = fg(th.Frontier).Render("░░")
			case pathfind.Visited:
				glyph = fg(th.Visited).Render("▒▒")
			case pathfind.Path:
				glyph = fg(th.Path).Render("██")
			case pathfind.Start, pathfind.Goal:
				glyph = fg(th.Endpoint).Bold(true).Render(string(cell.Rune()) + " ")
			}
			b.WriteString(glyph)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func contains(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
