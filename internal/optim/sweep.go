package optim

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/reactsim/internal/dynamo"
)

type Sample struct {
	Tf    float64
	Value float64
}

type SweepResult struct {
	Samples []Sample
	Best    Sample
}

// Values returns the objective values in tf order.
func (r *SweepResult) Values() []float64 {
	vals := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		vals[i] = s.Value
	}
	return vals
}

type SweepConfig struct {
	Lo, Hi  float64
	N       int
	Workers int // <= 0 uses GOMAXPROCS
}

// Sweep evaluates the objective at N evenly spaced switch times covering
// [Lo, Hi] inclusive. Evaluations run concurrently; samples come back in tf
// order and Best is the first sample with the largest value.
func Sweep(ctx context.Context, objective Objective, cfg SweepConfig, logger *slog.Logger) (*SweepResult, error) {
	if logger == nil {
		logger = discardLogger()
	}
	if math.IsNaN(cfg.Lo) || math.IsNaN(cfg.Hi) || math.IsInf(cfg.Lo, 0) || math.IsInf(cfg.Hi, 0) || cfg.Lo >= cfg.Hi {
		return nil, fmt.Errorf("%w: sweep bounds [%g, %g]", dynamo.ErrDomain, cfg.Lo, cfg.Hi)
	}
	if cfg.N < 2 {
		return nil, fmt.Errorf("%w: sweep needs at least 2 samples, got %d", dynamo.ErrDomain, cfg.N)
	}

	tfs := floats.Span(make([]float64, cfg.N), cfg.Lo, cfg.Hi)
	vals := make([]float64, cfg.N)

	err := dynamo.ForEach(ctx, cfg.N, cfg.Workers, func(ctx context.Context, i int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		v, err := objective(tfs[i])
		if err != nil {
			return fmt.Errorf("evaluate tf=%g: %w", tfs[i], err)
		}
		vals[i] = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &SweepResult{Samples: make([]Sample, cfg.N)}
	for i := range tfs {
		result.Samples[i] = Sample{Tf: tfs[i], Value: vals[i]}
	}
	result.Best = result.Samples[floats.MaxIdx(vals)]

	logger.Info("sweep finished", "samples", cfg.N, "best_tf", result.Best.Tf, "best_value", result.Best.Value)
	return result, nil
}
