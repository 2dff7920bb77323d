package optim

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/reactsim/internal/dynamo"
	"github.com/san-kum/reactsim/internal/models"
	"github.com/san-kum/reactsim/internal/sim"
)

// StepConfig drives RefineStep. For i = 0, 1, ... the candidate step is
// Dt0/2^i and it is accepted when the final v at dt and 2*dt differ by less
// than Margin.
type StepConfig struct {
	Params      models.Params
	Dt0         float64
	Tf          float64
	Duration    float64
	Margin      float64
	MaxHalvings int
}

func DefaultStepConfig() StepConfig {
	return StepConfig{
		Params:      models.DefaultParams(),
		Dt0:         0.2,
		Tf:          1.0,
		Duration:    2.0,
		Margin:      1e-4,
		MaxHalvings: 100,
	}
}

type StepAttempt struct {
	Index int
	Dt    float64
	Diff  float64
}

type StepResult struct {
	Dt       float64
	Index    int
	Diff     float64
	Attempts []StepAttempt
}

// RefineStep halves the step until two runs at dt and 2*dt agree on the
// final v within the margin. It returns dynamo.ErrNotConverged when no step
// within MaxHalvings qualifies; integrator errors, such as a step that no
// longer divides the horizon, are returned unchanged.
func RefineStep(ctx context.Context, cfg StepConfig, logger *slog.Logger) (StepResult, error) {
	if logger == nil {
		logger = discardLogger()
	}
	var res StepResult
	if !(cfg.Dt0 > 0) || !(cfg.Margin > 0) || cfg.MaxHalvings < 1 {
		return res, fmt.Errorf("%w: dt0=%g margin=%g halvings=%d", dynamo.ErrInvalidArgument, cfg.Dt0, cfg.Margin, cfg.MaxHalvings)
	}

	endV := func(dt float64) (float64, error) {
		tr, err := sim.Simulate(cfg.Params, 0, 0, cfg.Tf, cfg.Duration, dt)
		if err != nil {
			return 0, err
		}
		return tr.FinalV(), nil
	}

	for i := 0; i < cfg.MaxHalvings; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		dt := cfg.Dt0 / math.Pow(2, float64(i))
		fine, err := endV(dt)
		if err != nil {
			return res, fmt.Errorf("dt=%g: %w", dt, err)
		}
		coarse, err := endV(2 * dt)
		if err != nil {
			return res, fmt.Errorf("dt=%g: %w", 2*dt, err)
		}

		diff := math.Abs(fine - coarse)
		res.Attempts = append(res.Attempts, StepAttempt{Index: i, Dt: dt, Diff: diff})
		logger.Debug("step comparison", "i", i, "dt", dt, "diff", diff)

		if diff < cfg.Margin {
			res.Dt, res.Index, res.Diff = dt, i, diff
			logger.Info("step size accepted", "dt", dt, "halvings", i, "diff", diff)
			return res, nil
		}
	}

	return res, fmt.Errorf("%w: no step below margin %g after %d halvings", dynamo.ErrNotConverged, cfg.Margin, cfg.MaxHalvings)
}
