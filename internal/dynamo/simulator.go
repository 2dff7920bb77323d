package dynamo

import (
	"context"
	"fmt"
	"math"
)

type Simulator struct {
	dyn        System
	integrator Integrator
	metrics    []Metric
}

func New(dyn System, integrator Integrator) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		metrics:    make([]Metric, 0),
	}
}

func (s *Simulator) AddMetric(m Metric) { s.metrics = append(s.metrics, m) }

// StepCount returns round(duration/dt), the number of steps of a run.
func StepCount(duration, dt float64) (int, error) {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt <= 0 {
		return 0, fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidArgument, dt)
	}
	if math.IsNaN(duration) || math.IsInf(duration, 0) || duration <= 0 {
		return 0, fmt.Errorf("%w: duration must be positive, got %g", ErrInvalidArgument, duration)
	}
	n := math.Round(duration / dt)
	if n < 1 || n > math.MaxInt32 {
		return 0, fmt.Errorf("%w: duration/dt = %g does not round to a usable step count", ErrInvalidArgument, duration/dt)
	}
	return int(n), nil
}

// Run integrates from x0 with a fixed step. Time stamps are i*dt exactly;
// the state at index i is computed from the state and time at index i-1.
// Divergence is not guarded against.
func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	steps, err := StepCount(cfg.Duration, cfg.Dt)
	if err != nil {
		return nil, err
	}
	if len(x0) != s.dyn.StateDim() {
		return nil, fmt.Errorf("%w: state has %d components, system wants %d", ErrDimensionMismatch, len(x0), s.dyn.StateDim())
	}
	if !x0.IsValid() {
		return nil, fmt.Errorf("%w: initial state %v", ErrInvalidArgument, x0)
	}

	result := &Result{
		States:  make([]State, 0, steps+1),
		Times:   make([]float64, 0, steps+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	dt := cfg.Dt
	x := x0.Clone()
	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, 0)

	for i := 1; i <= steps; i++ {
		if i%1024 == 0 {
			select {
			case <-ctx.Done():
				return nil, &SimulationError{Step: i, Time: float64(i-1) * dt, State: x, Wrapped: ctx.Err()}
			default:
			}
		}

		t := float64(i-1) * dt
		for _, m := range s.metrics {
			m.Observe(x, t)
		}

		x = s.integrator.Step(s.dyn, x, t, dt)

		result.States = append(result.States, x)
		result.Times = append(result.Times, float64(i)*dt)
	}

	for _, m := range s.metrics {
		m.Observe(x, float64(steps)*dt)
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}
