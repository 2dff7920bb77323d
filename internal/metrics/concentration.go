package metrics

import (
	"math"

	"github.com/san-kum/reactsim/internal/dynamo"
)

// Peak tracks the largest value of one state component over a run.
type Peak struct {
	name  string
	index int
	max   float64
}

func NewPeak(name string, index int) *Peak {
	p := &Peak{name: name, index: index}
	p.Reset()
	return p
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(x dynamo.State, t float64) {
	if p.index < len(x) && x[p.index] > p.max {
		p.max = x[p.index]
	}
}

func (p *Peak) Value() float64 {
	if math.IsInf(p.max, -1) {
		return 0
	}
	return p.max
}

func (p *Peak) Reset() { p.max = math.Inf(-1) }

// Final records the last observed value of one state component.
type Final struct {
	name  string
	index int
	last  float64
}

func NewFinal(name string, index int) *Final {
	return &Final{name: name, index: index}
}

func (f *Final) Name() string { return f.name }

func (f *Final) Observe(x dynamo.State, t float64) {
	if f.index < len(x) {
		f.last = x[f.index]
	}
}

func (f *Final) Value() float64 { return f.last }

func (f *Final) Reset() { f.last = 0 }

// Default returns the metric set recorded for every reaction run.
func Default() []dynamo.Metric {
	return []dynamo.Metric{
		NewFinal("final_u", 0),
		NewFinal("final_v", 1),
		NewPeak("max_u", 0),
		NewPeak("max_v", 1),
		NewStability(1e6),
	}
}
