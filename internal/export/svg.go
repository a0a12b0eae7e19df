// Package export renders trajectories and canvases as SVG.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/diffdrive/internal/dynamo"
	"github.com/san-kum/diffdrive/internal/pose"
	"github.com/san-kum/diffdrive/internal/viz"
)

const (
	pathColor  = "#00ff88"
	startColor = "#4fc3f7"
	goalColor  = "#ff5252"
)

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="%s">
`, width, height, width, height, pathColor)

	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			pattern := canvas.Dots(col, row)
			if pattern == 0 {
				continue
			}

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&viz.DotBit(dx, dy) != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

type bounds struct {
	minX, maxX, minY, maxY float64
}

func (b *bounds) add(x, y float64) {
	b.minX = math.Min(b.minX, x)
	b.maxX = math.Max(b.maxX, x)
	b.minY = math.Min(b.minY, y)
	b.maxY = math.Max(b.maxY, y)
}

// TrajectoryToSVG draws the planar path of states with the start pose and
// goal pose marked. Both axes share one scale so headings are not
// distorted. Returns "" for fewer than two states.
func TrajectoryToSVG(states []dynamo.State, start, goal pose.Pose, width, height int) string {
	if len(states) < 2 {
		return ""
	}

	b := bounds{start.X, start.X, start.Y, start.Y}
	b.add(goal.X, goal.Y)
	for _, s := range states {
		b.add(s[0], s[1])
	}

	span := math.Max(b.maxX-b.minX, b.maxY-b.minY)
	if span == 0 {
		span = 1
	}
	pad := span * 0.1
	span += 2 * pad
	scale := math.Min(float64(width), float64(height)) / span
	cx, cy := (b.minX+b.maxX)/2, (b.minY+b.maxY)/2

	toPx := func(x, y float64) (float64, float64) {
		return float64(width)/2 + (x-cx)*scale, float64(height)/2 - (y-cy)*scale
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, pathColor)

	for i, s := range states {
		x, y := toPx(s[0], s[1])
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n")

	arrow := span * 0.05 * scale
	writeMarker(&sb, "start", start, startColor, arrow, toPx)
	writeMarker(&sb, "goal", goal, goalColor, arrow, toPx)

	sb.WriteString("</svg>")
	return sb.String()
}

func writeMarker(sb *strings.Builder, id string, p pose.Pose, color string, length float64, toPx func(x, y float64) (float64, float64)) {
	x, y := toPx(p.X, p.Y)
	hx := x + length*math.Cos(p.Theta)
	hy := y - length*math.Sin(p.Theta)
	fmt.Fprintf(sb, "<g id=\"%s\" stroke=\"%s\" fill=\"%s\">\n", id, color, color)
	fmt.Fprintf(sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"4\"/>\n", x, y)
	fmt.Fprintf(sb, "<line x1=\"%.1f\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\" stroke-width=\"2\"/>\n", x, y, hx, hy)
	sb.WriteString("</g>\n")
}
