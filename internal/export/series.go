package export

import (
	"fmt"
	"strings"
)

// SeriesToSVG plots ys against their index, scaled to fill the frame with
// 10% padding. It is used for per-step metrics such as regression loss.
func SeriesToSVG(ys []float64, width, height int, stroke string) string {
	if len(ys) < 2 {
		return ""
	}
	lo, hi := ys[0], ys[0]
	for _, y := range ys {
		lo = min(lo, y)
		hi = max(hi, y)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	lo -= span * 0.1
	span *= 1.2

	var sb strings.Builder
	header(&sb, width, height)
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, stroke)
	for i, y := range ys {
		px := float64(i) / float64(len(ys)-1) * float64(width)
		py := float64(height) - (y-lo)/span*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", px, py)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", px, py)
		}
	}
	sb.WriteString("\"/>\n</svg>")
	return sb.String()
}
