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

const (
	DefaultProbe     = 1e-7
	DefaultTolerance = 1e-12
	DefaultMaxIter   = 1000

	// Horizon and step of the end-value objective used by FindPeak.
	DefaultHorizon = 30.0
	DefaultStep    = 0.01
)

// Iteration records one bisection step.
type Iteration struct {
	K      int
	A, B   float64
	P      float64
	FP     float64
	FProbe float64
}

// Peak is the outcome of a search. When Converged is false, Tf and V hold
// the last midpoint and are not an answer.
type Peak struct {
	Tf         float64
	V          float64
	Iterations int
	Converged  bool
	Trace      []Iteration
}

type PeakLocator struct {
	objective Objective
	probe     float64
	tolerance float64
	maxIter   int
	logger    *slog.Logger
}

type Option func(*PeakLocator)

// WithProbe sets the fixed forward offset used to infer slope direction.
func WithProbe(eps float64) Option {
	return func(l *PeakLocator) { l.probe = eps }
}

// WithTolerance sets the flatness threshold |f(p) - f(p+eps)|.
func WithTolerance(tol float64) Option {
	return func(l *PeakLocator) { l.tolerance = tol }
}

func WithMaxIter(n int) Option {
	return func(l *PeakLocator) { l.maxIter = n }
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *PeakLocator) {
		if logger != nil {
			l.logger = logger
		}
	}
}

func NewPeakLocator(objective Objective, opts ...Option) *PeakLocator {
	l := &PeakLocator{
		objective: objective,
		probe:     DefaultProbe,
		tolerance: DefaultTolerance,
		maxIter:   DefaultMaxIter,
		logger:    discardLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *PeakLocator) validate(lo, hi float64) error {
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return fmt.Errorf("%w: bounds must be finite, got [%g, %g]", dynamo.ErrDomain, lo, hi)
	}
	if lo >= hi {
		return fmt.Errorf("%w: start %g must be below end %g", dynamo.ErrDomain, lo, hi)
	}
	if !(l.probe > 0) {
		return fmt.Errorf("%w: probe offset must be positive, got %g", dynamo.ErrInvalidArgument, l.probe)
	}
	if math.IsNaN(l.tolerance) || l.tolerance < 0 {
		return fmt.Errorf("%w: tolerance must be non-negative, got %g", dynamo.ErrInvalidArgument, l.tolerance)
	}
	if l.maxIter < 1 {
		return fmt.Errorf("%w: iteration budget must be positive, got %d", dynamo.ErrInvalidArgument, l.maxIter)
	}
	return nil
}

// Find bisects [lo, hi] towards the maximum of the objective. Each iteration
// evaluates the midpoint p and the probe p+eps. The search stops when the two
// agree within tolerance; otherwise a drop from p to p+eps means the peak is
// left of p and the upper bound moves to p, else the lower bound does.
//
// An exhausted budget returns dynamo.ErrNotConverged with the last iterate.
// Objective errors are wrapped with the offending tf.
func (l *PeakLocator) Find(ctx context.Context, lo, hi float64) (Peak, error) {
	if err := l.validate(lo, hi); err != nil {
		return Peak{}, err
	}

	a, b := lo, hi
	var peak Peak

	for k := 0; k < l.maxIter; k++ {
		if err := ctx.Err(); err != nil {
			return peak, err
		}

		p := (a + b) / 2
		fp, err := l.objective(p)
		if err != nil {
			return peak, fmt.Errorf("evaluate tf=%g: %w", p, err)
		}
		fs, err := l.objective(p + l.probe)
		if err != nil {
			return peak, fmt.Errorf("evaluate probe tf=%g: %w", p+l.probe, err)
		}

		it := Iteration{K: k, A: a, B: b, P: p, FP: fp, FProbe: fs}
		peak.Trace = append(peak.Trace, it)
		peak.Tf, peak.V, peak.Iterations = p, fp, k+1

		l.logger.Debug("bisection step", "k", k, "a", a, "b", b, "p", p, "f", fp, "probe", fs)

		if math.Abs(fp-fs) < l.tolerance {
			peak.Converged = true
			l.logger.Info("peak located", "tf", p, "v", fp, "iterations", k+1)
			return peak, nil
		}

		if fp > fs {
			b = p
		} else {
			a = p
		}
	}

	l.logger.Warn("peak search exhausted budget", "iterations", l.maxIter, "a", a, "b", b)
	return peak, fmt.Errorf("%w: peak search after %d iterations, last interval [%g, %g]",
		dynamo.ErrNotConverged, l.maxIter, a, b)
}

// FindPeak searches [tfStart, tfEnd] for the switch time that maximizes the
// final v of a run from (0, 0) over 30 time units with dt = 0.01, using the
// default model constants and search settings.
func FindPeak(tfStart, tfEnd float64) (float64, float64, error) {
	l := NewPeakLocator(sim.EndV(models.DefaultParams(), DefaultHorizon, DefaultStep))
	peak, err := l.Find(context.Background(), tfStart, tfEnd)
	if err != nil {
		return 0, 0, err
	}
	return peak.Tf, peak.V, nil
}
