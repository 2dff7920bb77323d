package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/reactsim/internal/dynamo"
	"github.com/san-kum/reactsim/internal/models"
)

const (
	DefaultFieldDensity = 30
	DefaultFieldExtent  = 5.0
)

// Arrow is the right-hand side at (X, Y), scaled to roughly unit length.
type Arrow struct {
	X, Y   float64
	DU, DV float64
}

// VectorField samples the reaction right-hand side at time t on a
// density x density grid over [0, extent)^2, row by row in v. Arrows are
// divided by |d| + 0.01 so that near-zero derivatives stay finite.
func VectorField(params models.Params, t, tf float64, density int, extent float64) ([]Arrow, error) {
	if density < 1 {
		return nil, fmt.Errorf("%w: density must be positive, got %d", dynamo.ErrInvalidArgument, density)
	}
	if !(extent > 0) || math.IsInf(extent, 0) {
		return nil, fmt.Errorf("%w: extent must be positive, got %g", dynamo.ErrInvalidArgument, extent)
	}

	r := models.NewReaction(params, tf)
	arrows := make([]Arrow, 0, density*density)

	for yi := 0; yi < density; yi++ {
		for xi := 0; xi < density; xi++ {
			x := float64(xi) / float64(density) * extent
			y := float64(yi) / float64(density) * extent

			d := r.Derive(dynamo.State{x, y}, t)
			norm := math.Hypot(d[0], d[1]) + 0.01

			arrows = append(arrows, Arrow{X: x, Y: y, DU: d[0] / norm, DV: d[1] / norm})
		}
	}

	return arrows, nil
}
