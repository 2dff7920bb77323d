package models

import (
	"math"

	"github.com/san-kum/reactsim/internal/dynamo"
)

// Default autocatalytic rate constants.
const (
	DefaultA = 2.0
	DefaultB = 4.5
)

// Params are the immutable rate constants of the reaction network.
type Params struct {
	A float64 // supply rate of the external reagent
	B float64 // conversion rate u -> v
}

func DefaultParams() Params {
	return Params{A: DefaultA, B: DefaultB}
}

// Reaction is the two-species network
//
//	du/dt = s(t) - b*u + u^2*v - u
//	dv/dt = b*u - u^2*v
//
// where the supply s(t) is a until the switch time tf and a*exp(tf-t)
// afterwards.
type Reaction struct {
	params Params
	tf     float64
}

func NewReaction(params Params, tf float64) *Reaction {
	return &Reaction{params: params, tf: tf}
}

func (r *Reaction) Params() Params      { return r.params }
func (r *Reaction) SwitchTime() float64 { return r.tf }

func (r *Reaction) StateDim() int {
	return 2
}

// Supply is the external reagent feed at time t.
func (r *Reaction) Supply(t float64) float64 {
	if t <= r.tf {
		return r.params.A
	}
	return r.params.A * math.Exp(r.tf-t)
}

func (r *Reaction) Derive(x dynamo.State, t float64) dynamo.State {
	u := x[0]
	v := x[1]
	uuv := u * u * v

	du := r.Supply(t) - r.params.B*u + uuv - u
	dv := r.params.B*u - uuv

	return dynamo.State{du, dv}
}

// Equilibrium returns the fixed point (a, b/a) of the constantly fed system.
func (r *Reaction) Equilibrium() dynamo.State {
	return dynamo.State{r.params.A, r.params.B / r.params.A}
}
