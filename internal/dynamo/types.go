package dynamo

import (
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// System is an autonomous-or-not ODE right-hand side dX/dt = f(X, t).
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

// Integrator advances x by one fixed step dt from time t.
type Integrator interface {
	Step(dyn System, x State, t float64, dt float64) State
}

type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

type Config struct {
	Dt       float64
	Duration float64
}

func DefaultConfig() Config {
	return Config{
		Dt:       0.01,
		Duration: 30.0,
	}
}

// Result of one run. States and Times have equal length, index 0 is the
// initial condition.
type Result struct {
	States  []State
	Times   []float64
	Metrics map[string]float64
}

// Column extracts component idx of every state.
func (r *Result) Column(idx int) []float64 {
	col := make([]float64, len(r.States))
	for i, s := range r.States {
		if idx < len(s) {
			col[i] = s[idx]
		}
	}
	return col
}

// Final returns the last state of the run.
func (r *Result) Final() State {
	if len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1]
}
