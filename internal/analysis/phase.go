package analysis

import (
	"strings"

	"github.com/san-kum/reactsim/internal/sim"
)

type Point struct{ X, Y float64 }

// PhasePath returns the (u, v) points of a trajectory in time order.
func PhasePath(tr *sim.Trajectory) []Point {
	pts := make([]Point, len(tr.U))
	for i := range tr.U {
		pts[i] = Point{X: tr.U[i], Y: tr.V[i]}
	}
	return pts
}

// Bounds returns the extent of all points with 10% padding on each side.
func Bounds(paths ...[]Point) (minX, maxX, minY, maxY float64, ok bool) {
	for _, path := range paths {
		for _, p := range path {
			if !ok {
				minX, maxX, minY, maxY = p.X, p.X, p.Y, p.Y
				ok = true
				continue
			}
			minX = min(minX, p.X)
			maxX = max(maxX, p.X)
			minY = min(minY, p.Y)
			maxY = max(maxY, p.Y)
		}
	}
	if !ok {
		return
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	return
}

// PhasePortraitToASCII draws every path on one width x height character grid
// with u horizontal and v vertical.
func PhasePortraitToASCII(width, height int, paths ...[]Point) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	minX, maxX, minY, maxY, ok := Bounds(paths...)
	if !ok {
		return ""
	}
	rangeX := maxX - minX
	rangeY := maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	// Axes first so the paths draw over them.
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			canvas[row][col] = '│'
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			canvas[row][col] = '─'
		}
	}

	for _, path := range paths {
		for _, p := range path {
			col := int((p.X - minX) / rangeX * float64(width-1))
			row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))

			if row >= 0 && row < height && col >= 0 && col < width {
				canvas[row][col] = '•'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
