package automation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/reactsim/internal/config"
	"github.com/san-kum/reactsim/internal/dynamo"
	"github.com/san-kum/reactsim/internal/experiment"
	"github.com/san-kum/reactsim/internal/optim"
	"github.com/san-kum/reactsim/internal/storage"
)

// Scenario is a scripted batch of operations over one base config. A
// non-empty Preset replaces the runner's base config for the whole scenario,
// including any config file or preset the caller resolved.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Preset      string         `yaml:"preset"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep overrides the base config for one operation. Absent fields
// keep the base setting; Start and End set the peak and sweep windows alike.
type ScenarioStep struct {
	Name     string   `yaml:"name"`
	Kind     string   `yaml:"kind"` // simulate, peak, sweep or stepsize
	Tf       *float64 `yaml:"tf"`
	Duration *float64 `yaml:"duration"`
	Dt       *float64 `yaml:"dt"`
	Start    *float64 `yaml:"start"`
	End      *float64 `yaml:"end"`
	Samples  *int     `yaml:"samples"`
	Save     bool     `yaml:"save"`
}

// Outcome is the result of one step. Exactly one of the result fields is set
// for a successful step; Err holds soft failures such as ErrNotConverged.
type Outcome struct {
	Step     ScenarioStep
	RunID    string
	FinalV   float64
	Peak     *optim.Peak
	Sweep    *optim.SweepResult
	StepSize *optim.StepResult
	Err      error
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}

	return &scenario, nil
}

type Runner struct {
	base   *config.Config
	store  *storage.Store
	logger *slog.Logger
}

// NewRunner returns a runner over base. store may be nil when no step saves.
func NewRunner(base *config.Config, store *storage.Store, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{base: base, store: store, logger: logger}
}

// Run executes the steps in order. Hard errors stop the scenario; a search
// that does not converge is recorded in its outcome and the scenario goes on.
func (r *Runner) Run(ctx context.Context, scenario *Scenario) ([]Outcome, error) {
	base := r.base
	if scenario.Preset != "" {
		base = config.GetPreset(scenario.Preset)
		if base == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", scenario.Preset, config.ListPresets())
		}
		r.logger.Info("scenario preset replaces base config", "scenario", scenario.Name, "preset", scenario.Preset)
	}

	outcomes := make([]Outcome, 0, len(scenario.Steps))
	for i, step := range scenario.Steps {
		r.logger.Info("scenario step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "kind", step.Kind, "name", step.Name)

		out, err := r.runStep(ctx, base, step)
		if err != nil {
			return outcomes, fmt.Errorf("step %d (%s): %w", i+1, step.Kind, err)
		}
		outcomes = append(outcomes, out)
	}

	return outcomes, nil
}

func (r *Runner) runStep(ctx context.Context, base *config.Config, step ScenarioStep) (Outcome, error) {
	cfg := apply(base, step)
	out := Outcome{Step: step}

	exp, err := experiment.New(cfg, r.logger)
	if err != nil {
		return out, err
	}

	switch step.Kind {
	case "simulate":
		tr, err := exp.Simulate(ctx)
		if err != nil {
			return out, err
		}
		out.FinalV = tr.FinalV()
		if step.Save {
			if r.store == nil {
				return out, fmt.Errorf("step asks to save but no store is configured")
			}
			if out.RunID, err = r.store.Save(tr); err != nil {
				return out, err
			}
		}

	case "peak":
		peak, err := exp.Peak(ctx)
		out.Peak = &peak
		if errors.Is(err, dynamo.ErrNotConverged) {
			out.Err = err
		} else if err != nil {
			return out, err
		}

	case "sweep":
		res, err := exp.Sweep(ctx)
		if err != nil {
			return out, err
		}
		out.Sweep = res

	case "stepsize":
		res, err := exp.StepSize(ctx)
		out.StepSize = &res
		if errors.Is(err, dynamo.ErrNotConverged) {
			out.Err = err
		} else if err != nil {
			return out, err
		}

	default:
		return out, fmt.Errorf("unknown step kind: %q", step.Kind)
	}

	return out, nil
}

func apply(base *config.Config, step ScenarioStep) *config.Config {
	cfg := *base
	if step.Tf != nil {
		cfg.Tf = *step.Tf
	}
	if step.Duration != nil {
		cfg.Duration = *step.Duration
	}
	if step.Dt != nil {
		cfg.Dt = *step.Dt
	}
	if step.Start != nil {
		cfg.Search.Start, cfg.Sweep.Start = *step.Start, *step.Start
	}
	if step.End != nil {
		cfg.Search.End, cfg.Sweep.End = *step.End, *step.End
	}
	if step.Samples != nil {
		cfg.Sweep.Samples = *step.Samples
	}
	return &cfg
}
