package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/reactsim/internal/dynamo"
	"github.com/san-kum/reactsim/internal/models"
	"github.com/san-kum/reactsim/internal/optim"
)

const (
	DefaultDt       = 0.01
	DefaultDuration = 30.0
	DefaultTf       = 3.3
	DefaultTfStart  = 3.0
	DefaultTfEnd    = 4.0
	DefaultSamples  = 100
)

type Config struct {
	Model     ModelConfig  `yaml:"model"`
	InitState InitState    `yaml:"init_state"`
	Tf        float64      `yaml:"tf"`
	Dt        float64      `yaml:"dt"`
	Duration  float64      `yaml:"duration"`
	Search    SearchConfig `yaml:"search"`
	Sweep     SweepConfig  `yaml:"sweep"`
	StepSize  StepConfig   `yaml:"step_size"`
	Field     FieldConfig  `yaml:"field"`
}

type ModelConfig struct {
	A float64 `yaml:"a"`
	B float64 `yaml:"b"`
}

type InitState struct {
	U float64 `yaml:"u"`
	V float64 `yaml:"v"`
}

type SearchConfig struct {
	Start     float64 `yaml:"start"`
	End       float64 `yaml:"end"`
	Probe     float64 `yaml:"probe"`
	Tolerance float64 `yaml:"tolerance"`
	MaxIter   int     `yaml:"max_iter"`
}

type SweepConfig struct {
	Start     float64 `yaml:"start"`
	End       float64 `yaml:"end"`
	Samples   int     `yaml:"samples"`
	Workers   int     `yaml:"workers"`
	Objective string  `yaml:"objective"`
}

type StepConfig struct {
	Dt0         float64 `yaml:"dt0"`
	Tf          float64 `yaml:"tf"`
	Compare     float64 `yaml:"compare"`
	Margin      float64 `yaml:"margin"`
	MaxHalvings int     `yaml:"max_halvings"`
}

type FieldConfig struct {
	Time    float64 `yaml:"time"`
	Density int     `yaml:"density"`
	Extent  float64 `yaml:"extent"`
}

func DefaultConfig() *Config {
	step := optim.DefaultStepConfig()
	return &Config{
		Model:    ModelConfig{A: models.DefaultA, B: models.DefaultB},
		Tf:       DefaultTf,
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Search: SearchConfig{
			Start:     DefaultTfStart,
			End:       DefaultTfEnd,
			Probe:     optim.DefaultProbe,
			Tolerance: optim.DefaultTolerance,
			MaxIter:   optim.DefaultMaxIter,
		},
		Sweep: SweepConfig{
			Start:     0,
			End:       DefaultDuration,
			Samples:   DefaultSamples,
			Objective: "final",
		},
		StepSize: StepConfig{
			Dt0:         step.Dt0,
			Tf:          step.Tf,
			Compare:     step.Duration,
			Margin:      step.Margin,
			MaxHalvings: step.MaxHalvings,
		},
		Field: FieldConfig{
			Time:    0,
			Density: 30,
			Extent:  5.0,
		},
	}
}

// Load reads a YAML file over the defaults; keys absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	return LoadInto(path, DefaultConfig())
}

// LoadInto reads a YAML file over a copy of base, so a file can refine a
// preset. base is not modified.
func LoadInto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the parts of the config that every command relies on.
func (c *Config) Validate() error {
	if _, err := dynamo.StepCount(c.Duration, c.Dt); err != nil {
		return err
	}
	if c.Search.Start >= c.Search.End {
		return fmt.Errorf("%w: search start %g must be below end %g", dynamo.ErrDomain, c.Search.Start, c.Search.End)
	}
	if c.Sweep.Objective != "final" && c.Sweep.Objective != "max" {
		return fmt.Errorf("%w: unknown sweep objective %q", dynamo.ErrInvalidArgument, c.Sweep.Objective)
	}
	return nil
}

func (c *Config) Params() models.Params {
	return models.Params{A: c.Model.A, B: c.Model.B}
}

func (c *Config) StepConfig() optim.StepConfig {
	return optim.StepConfig{
		Params:      c.Params(),
		Dt0:         c.StepSize.Dt0,
		Tf:          c.StepSize.Tf,
		Duration:    c.StepSize.Compare,
		Margin:      c.StepSize.Margin,
		MaxHalvings: c.StepSize.MaxHalvings,
	}
}

func (c *Config) SearchOptions() []optim.Option {
	return []optim.Option{
		optim.WithProbe(c.Search.Probe),
		optim.WithTolerance(c.Search.Tolerance),
		optim.WithMaxIter(c.Search.MaxIter),
	}
}
