package analysis

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/reactsim/internal/dynamo"
	"github.com/san-kum/reactsim/internal/models"
	"github.com/san-kum/reactsim/internal/sim"
)

func TestPhasePath(t *testing.T) {
	tr, err := sim.Simulate(models.DefaultParams(), 0, 0, 1.0, 2.0, 0.01)
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}

	path := PhasePath(tr)
	if len(path) != tr.Len() {
		t.Fatalf("expected %d points, got %d", tr.Len(), len(path))
	}
	for i, p := range path {
		if p.X != tr.U[i] || p.Y != tr.V[i] {
			t.Fatalf("point %d: got %+v", i, p)
		}
	}
}

func TestBoundsPadding(t *testing.T) {
	minX, maxX, minY, maxY, ok := Bounds([]Point{{0, 0}, {10, 5}})
	if !ok {
		t.Fatal("expected bounds")
	}
	if minX != -1 || maxX != 11 || minY != -0.5 || maxY != 5.5 {
		t.Errorf("unexpected bounds: x=[%f,%f] y=[%f,%f]", minX, maxX, minY, maxY)
	}

	if _, _, _, _, ok := Bounds(); ok {
		t.Error("expected no bounds for no points")
	}
}

func TestPhasePortraitToASCII(t *testing.T) {
	tr, err := sim.Simulate(models.DefaultParams(), 0, 0, 3.3, 30, 0.01)
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}

	out := PhasePortraitToASCII(40, 12, PhasePath(tr))
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 12 {
		t.Fatalf("expected 12 rows, got %d", len(lines))
	}
	for i, line := range lines {
		if n := len([]rune(line)); n != 40 {
			t.Errorf("row %d: expected 40 columns, got %d", i, n)
		}
	}
	if !strings.ContainsRune(out, '•') {
		t.Error("expected plotted points")
	}

	if PhasePortraitToASCII(40, 12) != "" {
		t.Error("expected empty output without paths")
	}
	if PhasePortraitToASCII(0, 12, PhasePath(tr)) != "" {
		t.Error("expected empty output for zero width")
	}
}

func TestVectorField(t *testing.T) {
	arrows, err := VectorField(models.DefaultParams(), 0, 1.0, DefaultFieldDensity, DefaultFieldExtent)
	if err != nil {
		t.Fatalf("vector field failed: %v", err)
	}

	if len(arrows) != 900 {
		t.Fatalf("expected 900 arrows, got %d", len(arrows))
	}

	first := arrows[0]
	if first.X != 0 || first.Y != 0 {
		t.Errorf("expected first arrow at origin, got (%f, %f)", first.X, first.Y)
	}
	// d = (2, 0) at the origin.
	if math.Abs(first.DU-2/2.01) > 1e-12 || first.DV != 0 {
		t.Errorf("unexpected origin arrow: %+v", first)
	}

	for _, a := range arrows {
		if a.X < 0 || a.X >= DefaultFieldExtent || a.Y < 0 || a.Y >= DefaultFieldExtent {
			t.Fatalf("arrow outside grid: %+v", a)
		}
		if math.Hypot(a.DU, a.DV) >= 1 {
			t.Fatalf("arrow not normalized: %+v", a)
		}
	}

	if arrows[1].X <= arrows[0].X || arrows[1].Y != arrows[0].Y {
		t.Error("expected row-major order with u varying fastest")
	}
}

func TestVectorFieldDecayedSupply(t *testing.T) {
	fed, _ := VectorField(models.DefaultParams(), 5, 10, 2, 1)
	starved, _ := VectorField(models.DefaultParams(), 5, 1, 2, 1)

	if starved[0].DU >= fed[0].DU {
		t.Errorf("expected weaker supply after switch: fed=%f starved=%f", fed[0].DU, starved[0].DU)
	}
}

func TestVectorFieldInvalid(t *testing.T) {
	if _, err := VectorField(models.DefaultParams(), 0, 1, 0, 5); !errors.Is(err, dynamo.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for zero density, got %v", err)
	}
	if _, err := VectorField(models.DefaultParams(), 0, 1, 10, -1); !errors.Is(err, dynamo.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for negative extent, got %v", err)
	}
}
