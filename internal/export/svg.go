package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/reactsim/internal/analysis"
)

// Stroke colors cycled over the paths of one figure.
var palette = []string{"#00ccff", "#ff00ff", "#00ff88", "#ffaa00", "#ff4444", "#8888ff"}

// PhaseSVG renders one or more u-v paths into a single SVG figure with a
// shared scale. Paths with fewer than two points are skipped.
func PhaseSVG(w io.Writer, width, height int, paths ...[]analysis.Point) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("export: invalid svg size %dx%d", width, height)
	}
	minX, maxX, minY, maxY, ok := analysis.Bounds(paths...)
	if !ok {
		return fmt.Errorf("export: nothing to draw")
	}
	rangeX := maxX - minX
	rangeY := maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for k, path := range paths {
		if len(path) < 2 {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, palette[k%len(palette)]))
		for i, p := range path {
			x := (p.X - minX) / rangeX * float64(width)
			y := float64(height) - (p.Y-minY)/rangeY*float64(height)

			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
