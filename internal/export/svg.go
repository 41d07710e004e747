package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/spheresim/internal/sim"
)

// Palette cycles through body colors by registry index.
var Palette = []string{"#00ff88", "#ff6b6b", "#4dabf7", "#ffd43b", "#da77f2", "#ff922b", "#20c997", "#f06595"}

func colorFor(i int) string {
	return Palette[i%len(Palette)]
}

// bounds is the padded XY box of the given frames, radii included.
type bounds struct {
	minX, minY, rangeX, rangeY float64
}

func frameBounds(frames []sim.Frame) (bounds, bool) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, f := range frames {
		for _, b := range f {
			r := float64(b.Radius)
			x, y := float64(b.Position.X()), float64(b.Position.Y())
			minX = math.Min(minX, x-r)
			maxX = math.Max(maxX, x+r)
			minY = math.Min(minY, y-r)
			maxY = math.Max(maxY, y+r)
		}
	}
	if math.IsInf(minX, 1) {
		return bounds{}, false
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	// Same scale on both axes so spheres stay round.
	r := math.Max(rangeX, rangeY) * 1.2
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	return bounds{minX: cx - r/2, minY: cy - r/2, rangeX: r, rangeY: r}, true
}

func (b bounds) project(x, y float64, width, height int) (float64, float64) {
	px := (x - b.minX) / b.rangeX * float64(width)
	py := float64(height) - (y-b.minY)/b.rangeY*float64(height)
	return px, py
}

func header(sb *strings.Builder, width, height int) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))
}

// FrameToSVG draws every body of a frame as a circle, viewed down the Z axis.
func FrameToSVG(frame sim.Frame, width, height int) string {
	b, ok := frameBounds([]sim.Frame{frame})
	if !ok {
		return ""
	}

	var sb strings.Builder
	header(&sb, width, height)

	scale := float64(width) / b.rangeX
	for i, body := range frame {
		cx, cy := b.project(float64(body.Position.X()), float64(body.Position.Y()), width, height)
		r := math.Max(float64(body.Radius)*scale, 1)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, r, colorFor(i)))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// TrajectoriesToSVG draws one path per body through all frames. Frames are
// expected to hold the same bodies in the same order.
func TrajectoriesToSVG(frames []sim.Frame, width, height int) string {
	if len(frames) < 2 {
		return ""
	}
	b, ok := frameBounds(frames)
	if !ok {
		return ""
	}

	var sb strings.Builder
	header(&sb, width, height)

	for i := range frames[0] {
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, colorFor(i)))
		for k, f := range frames {
			if i >= len(f) {
				break
			}
			x, y := b.project(float64(f[i].Position.X()), float64(f[i].Position.Y()), width, height)
			if k == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}
