// Package export renders snapshots as standalone SVG documents.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/algostep/internal/ml"
	"github.com/san-kum/algostep/internal/pathfind"
	"github.com/san-kum/algostep/internal/sorting"
)

const (
	background = "#0a0a0a"
	foreground = "#00ff00"
	compareCol = "#ffd000"
	swapCol    = "#ff4040"
	sortedCol  = "#40a0ff"
	wallCol    = "#505050"
	noiseCol   = "#808080"
)

var palette = []string{"#ff6b6b", "#4ecdc4", "#ffe66d", "#a29bfe", "#fd79a8", "#55efc4", "#fab1a0", "#74b9ff"}

// Scene pairs a snapshot with the input points that ML snapshots refer to
// by index.
type Scene struct {
	Snapshot any
	Points   []ml.Point
	Width    int
	Height   int
}

func (s Scene) size() (int, int) {
	w, h := s.Width, s.Height
	if w <= 0 {
		w = ml.CanvasWidth
	}
	if h <= 0 {
		h = ml.CanvasHeight
	}
	return w, h
}

// Render writes the scene as SVG.
func Render(w io.Writer, s Scene) error {
	svg, err := SceneToSVG(s)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, svg)
	return err
}

func SceneToSVG(s Scene) (string, error) {
	width, height := s.size()
	var sb strings.Builder
	header(&sb, width, height)

	switch snap := s.Snapshot.(type) {
	case sorting.Snapshot:
		bars(&sb, snap, width, height)
	case pathfind.Snapshot:
		cells(&sb, snap, width, height)
	case ml.KMeansSnapshot:
		for i, p := range s.Points {
			circle(&sb, p.X, p.Y, 4, colour(at(snap.Assignments, i)))
		}
		for i, c := range snap.Centroids {
			cross(&sb, c.X, c.Y, colour(i))
		}
	case ml.DBSCANSnapshot:
		for i, p := range s.Points {
			fill := colour(at(snap.Labels, i) - 1)
			if at(snap.Labels, i) == ml.Noise {
				fill = noiseCol
			}
			circle(&sb, p.X, p.Y, 4, fill)
		}
	case ml.KNNSnapshot:
		for _, p := range snap.Predictions {
			fmt.Fprintf(&sb, `<rect x="%.0f" y="%.0f" width="6" height="6" fill="%s" opacity="0.5"/>`+"\n", p.X, p.Y, colour(p.Label))
		}
		labelled(&sb, s.Points)
	case ml.RegressionSnapshot:
		labelled(&sb, s.Points)
		segment(&sb, snap.Line, float64(width))
	case ml.LineSnapshot:
		labelled(&sb, s.Points)
		polyline(&sb, snap.Points, foreground)
	case ml.TreeSnapshot:
		labelled(&sb, s.Points)
		splits(&sb, snap.Tree, float64(width), float64(height))
	default:
		return "", fmt.Errorf("export: no SVG renderer for %T", s.Snapshot)
	}

	sb.WriteString("</svg>")
	return sb.String(), nil
}

func header(sb *strings.Builder, w, h int) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, w, h, w, h, background)
}

func bars(sb *strings.Builder, s sorting.Snapshot, width, height int) {
	if len(s.Values) == 0 {
		return
	}
	top := 1
	for _, v := range s.Values {
		top = max(top, v)
	}
	fills := make([]string, len(s.Values))
	for i := range fills {
		fills[i] = foreground
	}
	mark := func(idx []int, col string) {
		for _, i := range idx {
			if i >= 0 && i < len(fills) {
				fills[i] = col
			}
		}
	}
	mark(s.Sorted, sortedCol)
	mark(s.Comparing, compareCol)
	mark(s.Swapping, swapCol)

	bw := float64(width) / float64(len(s.Values))
	for i, v := range s.Values {
		h := float64(v) / float64(top) * float64(height-10)
		fmt.Fprintf(sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
			float64(i)*bw+1, float64(height)-h, bw-2, h, fills[i])
	}
}

var cellFill = map[pathfind.Cell]string{
	pathfind.Wall:    wallCol,
	pathfind.Queued:  compareCol,
	pathfind.Visited: sortedCol,
	pathfind.Path:    foreground,
	pathfind.Start:   swapCol,
	pathfind.Goal:    swapCol,
}

func cells(sb *strings.Builder, s pathfind.Snapshot, width, height int) {
	if s.Rows == 0 || s.Cols == 0 {
		return
	}
	cw := float64(width) / float64(s.Cols)
	ch := float64(height) / float64(s.Rows)
	for r := 0; r < s.Rows; r++ {
		for c := 0; c < s.Cols; c++ {
			fill, ok := cellFill[s.At(pathfind.Pos{Row: r, Col: c})]
			if !ok {
				continue
			}
			fmt.Fprintf(sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
				float64(c)*cw, float64(r)*ch, cw-1, ch-1, fill)
		}
	}
}

func labelled(sb *strings.Builder, pts []ml.Point) {
	for _, p := range pts {
		circle(sb, p.X, p.Y, 4, colour(p.Label))
	}
}

func splits(sb *strings.Builder, t ml.Tree, width, height float64) {
	for _, n := range t.Nodes {
		if n.Split == nil {
			continue
		}
		if n.Split.Axis == ml.AxisX {
			line(sb, n.Split.Threshold, 0, n.Split.Threshold, height, foreground)
		} else {
			line(sb, 0, n.Split.Threshold, width, n.Split.Threshold, foreground)
		}
	}
}

func segment(sb *strings.Builder, l ml.Line, width float64) {
	line(sb, 0, l.At(0), width, l.At(width), foreground)
}

func circle(sb *strings.Builder, x, y, r float64, fill string) {
	fmt.Fprintf(sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`+"\n", x, y, r, fill)
}

func cross(sb *strings.Builder, x, y float64, stroke string) {
	line(sb, x-8, y-8, x+8, y+8, stroke)
	line(sb, x-8, y+8, x+8, y-8, stroke)
}

func line(sb *strings.Builder, x1, y1, x2, y2 float64, stroke string) {
	fmt.Fprintf(sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="2"/>`+"\n", x1, y1, x2, y2, stroke)
}

func polyline(sb *strings.Builder, pts []ml.Point, stroke string) {
	if len(pts) < 2 {
		return
	}
	fmt.Fprintf(sb, `<path fill="none" stroke="%s" stroke-width="2" d="M`, stroke)
	for i, p := range pts {
		if i == 0 {
			fmt.Fprintf(sb, "%.1f,%.1f", p.X, p.Y)
		} else {
			fmt.Fprintf(sb, " L%.1f,%.1f", p.X, p.Y)
		}
	}
	sb.WriteString("\"/>\n")
}

func colour(i int) string {
	if i < 0 {
		return noiseCol
	}
	return palette[i%len(palette)]
}

func at(s []int, i int) int {
	if i < len(s) {
		return s[i]
	}
	return -1
}
