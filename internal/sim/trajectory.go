// Package sim runs the reaction network with the explicit Euler scheme and
// returns trajectories as parallel U, V and T series.
package sim

import (
	"context"

	"github.com/san-kum/reactsim/internal/dynamo"
	"github.com/san-kum/reactsim/internal/integrators"
	"github.com/san-kum/reactsim/internal/metrics"
	"github.com/san-kum/reactsim/internal/models"
)

// Trajectory is the time series of one run. All three slices have length
// round(Duration/Dt)+1 and T[i] == i*Dt.
type Trajectory struct {
	U, V, T []float64

	Params   models.Params
	Tf       float64
	Dt       float64
	Duration float64
	Metrics  map[string]float64
}

func (tr *Trajectory) Len() int { return len(tr.T) }

// FinalV is the concentration of the second species at the horizon.
func (tr *Trajectory) FinalV() float64 { return tr.V[len(tr.V)-1] }

// Simulate integrates the network from (u0, v0) with switch time tf over
// [0, tend] using a fixed step dt. It fails with dynamo.ErrInvalidArgument
// for a non-positive step or duration, or when tend/dt does not round to a
// positive step count.
func Simulate(params models.Params, u0, v0, tf, tend, dt float64) (*Trajectory, error) {
	return run(context.Background(), params, u0, v0, tf, tend, dt, nil)
}

// SimulateWithMetrics is Simulate plus the default run metrics.
func SimulateWithMetrics(ctx context.Context, params models.Params, u0, v0, tf, tend, dt float64) (*Trajectory, error) {
	return run(ctx, params, u0, v0, tf, tend, dt, metrics.Default())
}

type violationReporter interface {
	FirstViolation() (float64, bool)
}

func run(ctx context.Context, params models.Params, u0, v0, tf, tend, dt float64, ms []dynamo.Metric) (*Trajectory, error) {
	s := dynamo.New(models.NewReaction(params, tf), integrators.NewEuler())
	for _, m := range ms {
		s.AddMetric(m)
	}

	result, err := s.Run(ctx, dynamo.State{u0, v0}, dynamo.Config{Dt: dt, Duration: tend})
	if err != nil {
		return nil, err
	}

	for _, m := range ms {
		if v, ok := m.(violationReporter); ok {
			if at, violated := v.FirstViolation(); violated {
				result.Metrics["first_violation"] = at
			}
		}
	}

	return &Trajectory{
		U:        result.Column(0),
		V:        result.Column(1),
		T:        result.Times,
		Params:   params,
		Tf:       tf,
		Dt:       dt,
		Duration: tend,
		Metrics:  result.Metrics,
	}, nil
}

// EndV returns an objective mapping a switch time to the final v of a run
// from the empty state (0, 0) over [0, tend].
func EndV(params models.Params, tend, dt float64) func(tf float64) (float64, error) {
	return func(tf float64) (float64, error) {
		tr, err := Simulate(params, 0, 0, tf, tend, dt)
		if err != nil {
			return 0, err
		}
		return tr.FinalV(), nil
	}
}

// MaxV is like EndV but reports the largest v reached during the run.
func MaxV(params models.Params, tend, dt float64) func(tf float64) (float64, error) {
	return func(tf float64) (float64, error) {
		tr, err := Simulate(params, 0, 0, tf, tend, dt)
		if err != nil {
			return 0, err
		}
		best := tr.V[0]
		for _, v := range tr.V[1:] {
			if v > best {
				best = v
			}
		}
		return best, nil
	}
}
