package metrics

import (
	"math"

	"github.com/san-kum/reactsim/internal/dynamo"
)

// Stability is the fraction of samples that are physically admissible:
// every concentration finite, non-negative and at most ceiling. Explicit
// Euler with too large a step overshoots below zero before it blows up, so
// either failure counts.
type Stability struct {
	ceiling    float64
	samples    int
	violations int
	first      float64
}

func NewStability(ceiling float64) *Stability {
	s := &Stability{ceiling: ceiling}
	s.Reset()
	return s
}

func (s *Stability) Name() string { return "stability" }

func (s *Stability) Observe(x dynamo.State, t float64) {
	s.samples++
	if admissible(x, s.ceiling) {
		return
	}
	s.violations++
	if math.IsNaN(s.first) {
		s.first = t
	}
}

func admissible(x dynamo.State, ceiling float64) bool {
	for _, c := range x {
		if !(c >= 0 && c <= ceiling) {
			return false
		}
	}
	return true
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1
	}
	return 1 - float64(s.violations)/float64(s.samples)
}

// FirstViolation reports the time of the first inadmissible sample.
func (s *Stability) FirstViolation() (float64, bool) {
	return s.first, !math.IsNaN(s.first)
}

func (s *Stability) Reset() {
	s.samples, s.violations = 0, 0
	s.first = math.NaN()
}
