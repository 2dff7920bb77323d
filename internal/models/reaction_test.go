package models

import (
	"math"
	"testing"

	"github.com/san-kum/reactsim/internal/dynamo"
)

func TestReactionDefaults(t *testing.T) {
	p := DefaultParams()
	if p.A != 2.0 || p.B != 4.5 {
		t.Errorf("unexpected defaults: %+v", p)
	}

	r := NewReaction(p, 1.0)
	if r.StateDim() != 2 {
		t.Errorf("expected state dim 2, got %d", r.StateDim())
	}
}

func TestReactionDerivativeAtOrigin(t *testing.T) {
	r := NewReaction(DefaultParams(), 1.0)
	dx := r.Derive(dynamo.State{0, 0}, 0)

	if dx[0] != DefaultA {
		t.Errorf("expected du = a at origin, got %f", dx[0])
	}
	if dx[1] != 0 {
		t.Errorf("expected dv = 0 at origin, got %f", dx[1])
	}
}

func TestReactionDerivative(t *testing.T) {
	r := NewReaction(Params{A: 2, B: 4.5}, 10)
	dx := r.Derive(dynamo.State{1, 2}, 0)

	// 2 - 4.5 + 2 - 1
	if math.Abs(dx[0]-(-1.5)) > 1e-12 {
		t.Errorf("expected du = -1.5, got %f", dx[0])
	}
	// 4.5 - 2
	if math.Abs(dx[1]-2.5) > 1e-12 {
		t.Errorf("expected dv = 2.5, got %f", dx[1])
	}
}

func TestReactionSupplySwitch(t *testing.T) {
	r := NewReaction(DefaultParams(), 3.0)

	tests := []struct {
		t        float64
		expected float64
	}{
		{0, 2.0},
		{2.99, 2.0},
		{3.0, 2.0},
		{4.0, 2.0 * math.Exp(-1)},
		{5.0, 2.0 * math.Exp(-2)},
	}

	for _, tt := range tests {
		got := r.Supply(tt.t)
		if math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("supply(%g): expected %f, got %f", tt.t, tt.expected, got)
		}
	}
}

func TestReactionSupplyContinuousAtSwitch(t *testing.T) {
	r := NewReaction(DefaultParams(), 3.0)
	before := r.Supply(3.0)
	after := r.Supply(3.0 + 1e-9)
	if math.Abs(before-after) > 1e-8 {
		t.Errorf("supply jumps at switch: %f -> %f", before, after)
	}
}

func TestReactionEquilibrium(t *testing.T) {
	r := NewReaction(DefaultParams(), math.Inf(1))
	eq := r.Equilibrium()

	dx := r.Derive(eq, 0)
	if math.Abs(dx[0]) > 1e-12 || math.Abs(dx[1]) > 1e-12 {
		t.Errorf("expected zero derivative at equilibrium %v, got %v", eq, dx)
	}
}
