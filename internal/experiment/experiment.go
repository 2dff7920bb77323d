// Package experiment binds a config to the simulation, search and analysis
// operations so that the CLI and scripted scenarios drive them the same way.
package experiment

import (
	"context"
	"io"
	"log/slog"

	"github.com/san-kum/reactsim/internal/analysis"
	"github.com/san-kum/reactsim/internal/config"
	"github.com/san-kum/reactsim/internal/optim"
	"github.com/san-kum/reactsim/internal/sim"
)

type Experiment struct {
	cfg      *config.Config
	registry *Registry
	logger   *slog.Logger
}

// New validates cfg and returns an experiment bound to it. A nil logger
// discards output.
func New(cfg *config.Config, logger *slog.Logger) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Experiment{cfg: cfg, registry: NewRegistry(), logger: logger}, nil
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// Simulate runs the configured initial state and switch time with the
// default metrics attached.
func (e *Experiment) Simulate(ctx context.Context) (*sim.Trajectory, error) {
	c := e.cfg
	tr, err := sim.SimulateWithMetrics(ctx, c.Params(), c.InitState.U, c.InitState.V, c.Tf, c.Duration, c.Dt)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("simulation finished", "tf", c.Tf, "steps", tr.Len(), "final_v", tr.FinalV())
	return tr, nil
}

// Peak searches the configured window for the tf maximizing final v over
// the configured horizon.
func (e *Experiment) Peak(ctx context.Context) (optim.Peak, error) {
	c := e.cfg
	opts := append(c.SearchOptions(), optim.WithLogger(e.logger))
	l := optim.NewPeakLocator(sim.EndV(c.Params(), c.Duration, c.Dt), opts...)
	return l.Find(ctx, c.Search.Start, c.Search.End)
}

// Sweep evaluates the configured objective over the sweep grid.
func (e *Experiment) Sweep(ctx context.Context) (*optim.SweepResult, error) {
	c := e.cfg
	factory, err := e.registry.GetObjective(c.Sweep.Objective)
	if err != nil {
		return nil, err
	}
	return optim.Sweep(ctx, factory(c.Params(), c.Duration, c.Dt), optim.SweepConfig{
		Lo:      c.Sweep.Start,
		Hi:      c.Sweep.End,
		N:       c.Sweep.Samples,
		Workers: c.Sweep.Workers,
	}, e.logger)
}

func (e *Experiment) StepSize(ctx context.Context) (optim.StepResult, error) {
	return optim.RefineStep(ctx, e.cfg.StepConfig(), e.logger)
}

func (e *Experiment) Field() ([]analysis.Arrow, error) {
	c := e.cfg
	return analysis.VectorField(c.Params(), c.Field.Time, c.Tf, c.Field.Density, c.Field.Extent)
}
