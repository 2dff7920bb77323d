// Package optim searches the forcing switch time tf for the value that
// maximizes a trajectory objective.
//
//   - [PeakLocator]: derivative-free bisection driven by a forward probe
//   - [Sweep]: parallel evaluation on a uniform tf grid
//   - [RefineStep]: halves dt until successive runs agree
//
// The locator assumes the objective is unimodal on the search window. It does
// not check this; on a multimodal objective it settles on a local maximum.
package optim

import (
	"io"
	"log/slog"
)

// Objective maps a switch time to a scalar, typically sim.EndV.
type Objective func(tf float64) (float64, error)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
