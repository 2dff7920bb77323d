package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/san-kum/reactsim/internal/config"
	"github.com/san-kum/reactsim/internal/dynamo"
	"github.com/san-kum/reactsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	verbose    bool

	logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
)

// binding copies an explicitly set flag into the loaded config.
type binding struct {
	flag  string
	apply func(cmd *cobra.Command, cfg *config.Config)
}

var bindings = map[*cobra.Command][]binding{}

func floatFlag(cmd *cobra.Command, name string, def float64, usage string, field func(*config.Config) *float64) {
	cmd.Flags().Float64(name, def, usage)
	bindings[cmd] = append(bindings[cmd], binding{name, func(cmd *cobra.Command, cfg *config.Config) {
		v, _ := cmd.Flags().GetFloat64(name)
		*field(cfg) = v
	}})
}

func intFlag(cmd *cobra.Command, name string, def int, usage string, field func(*config.Config) *int) {
	cmd.Flags().Int(name, def, usage)
	bindings[cmd] = append(bindings[cmd], binding{name, func(cmd *cobra.Command, cfg *config.Config) {
		v, _ := cmd.Flags().GetInt(name)
		*field(cfg) = v
	}})
}

func stringFlag(cmd *cobra.Command, name, def, usage string, field func(*config.Config) *string) {
	cmd.Flags().String(name, def, usage)
	bindings[cmd] = append(bindings[cmd], binding{name, func(cmd *cobra.Command, cfg *config.Config) {
		v, _ := cmd.Flags().GetString(name)
		*field(cfg) = v
	}})
}

// loadConfig resolves defaults, then the preset, then the config file, then
// the flags the user actually set on cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadInto(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	for _, b := range bindings[cmd] {
		if cmd.Flags().Changed(b.flag) {
			b.apply(cmd, cfg)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func modelFlags(cmd *cobra.Command) {
	d := config.DefaultConfig()
	floatFlag(cmd, "a", d.Model.A, "supply rate a", func(c *config.Config) *float64 { return &c.Model.A })
	floatFlag(cmd, "b", d.Model.B, "conversion rate b", func(c *config.Config) *float64 { return &c.Model.B })
}

func horizonFlags(cmd *cobra.Command) {
	d := config.DefaultConfig()
	floatFlag(cmd, "dt", d.Dt, "timestep", func(c *config.Config) *float64 { return &c.Dt })
	floatFlag(cmd, "time", d.Duration, "duration", func(c *config.Config) *float64 { return &c.Duration })
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "reactsim",
		Short:         "two-species reaction simulator and switch-time search",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".reactsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	d := config.DefaultConfig()

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "integrate the network and save the run",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	modelFlags(runCmd)
	horizonFlags(runCmd)
	floatFlag(runCmd, "tf", d.Tf, "supply switch time", func(c *config.Config) *float64 { return &c.Tf })
	floatFlag(runCmd, "u0", d.InitState.U, "initial u", func(c *config.Config) *float64 { return &c.InitState.U })
	floatFlag(runCmd, "v0", d.InitState.V, "initial v", func(c *config.Config) *float64 { return &c.InitState.V })
	runCmd.Flags().Bool("no-save", false, "do not store the run")

	peakCmd := &cobra.Command{
		Use:   "peak",
		Short: "bisect for the switch time maximizing final v",
		Args:  cobra.NoArgs,
		RunE:  findPeak,
	}
	modelFlags(peakCmd)
	horizonFlags(peakCmd)
	floatFlag(peakCmd, "start", d.Search.Start, "lower tf bound", func(c *config.Config) *float64 { return &c.Search.Start })
	floatFlag(peakCmd, "end", d.Search.End, "upper tf bound", func(c *config.Config) *float64 { return &c.Search.End })
	floatFlag(peakCmd, "probe", d.Search.Probe, "forward probe offset", func(c *config.Config) *float64 { return &c.Search.Probe })
	floatFlag(peakCmd, "tol", d.Search.Tolerance, "convergence tolerance", func(c *config.Config) *float64 { return &c.Search.Tolerance })
	intFlag(peakCmd, "max-iter", d.Search.MaxIter, "iteration budget", func(c *config.Config) *int { return &c.Search.MaxIter })
	peakCmd.Flags().Bool("trace", false, "print every iteration")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "evaluate an objective over a grid of switch times",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	modelFlags(sweepCmd)
	horizonFlags(sweepCmd)
	floatFlag(sweepCmd, "start", d.Sweep.Start, "first tf", func(c *config.Config) *float64 { return &c.Sweep.Start })
	floatFlag(sweepCmd, "end", d.Sweep.End, "last tf", func(c *config.Config) *float64 { return &c.Sweep.End })
	intFlag(sweepCmd, "samples", d.Sweep.Samples, "grid size", func(c *config.Config) *int { return &c.Sweep.Samples })
	intFlag(sweepCmd, "workers", d.Sweep.Workers, "parallel evaluations (0 = all cpus)", func(c *config.Config) *int { return &c.Sweep.Workers })
	stringFlag(sweepCmd, "objective", d.Sweep.Objective, "final or max", func(c *config.Config) *string { return &c.Sweep.Objective })

	stepCmd := &cobra.Command{
		Use:   "stepsize",
		Short: "halve the timestep until successive runs agree",
		Args:  cobra.NoArgs,
		RunE:  refineStep,
	}
	modelFlags(stepCmd)
	floatFlag(stepCmd, "dt0", d.StepSize.Dt0, "initial timestep", func(c *config.Config) *float64 { return &c.StepSize.Dt0 })
	floatFlag(stepCmd, "tf", d.StepSize.Tf, "supply switch time", func(c *config.Config) *float64 { return &c.StepSize.Tf })
	floatFlag(stepCmd, "compare", d.StepSize.Compare, "comparison horizon", func(c *config.Config) *float64 { return &c.StepSize.Compare })
	floatFlag(stepCmd, "margin", d.StepSize.Margin, "accepted difference in final v", func(c *config.Config) *float64 { return &c.StepSize.Margin })
	intFlag(stepCmd, "max-halvings", d.StepSize.MaxHalvings, "halving budget", func(c *config.Config) *int { return &c.StepSize.MaxHalvings })

	fieldCmd := &cobra.Command{
		Use:   "field",
		Short: "sample the normalized vector field",
		Args:  cobra.NoArgs,
		RunE:  vectorField,
	}
	modelFlags(fieldCmd)
	floatFlag(fieldCmd, "t", d.Field.Time, "evaluation time", func(c *config.Config) *float64 { return &c.Field.Time })
	floatFlag(fieldCmd, "tf", d.Tf, "supply switch time", func(c *config.Config) *float64 { return &c.Tf })
	intFlag(fieldCmd, "density", d.Field.Density, "grid points per axis", func(c *config.Config) *int { return &c.Field.Density })
	floatFlag(fieldCmd, "extent", d.Field.Extent, "grid extent", func(c *config.Config) *float64 { return &c.Field.Extent })

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot u and v against time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().Int("width", 80, "plot width")
	plotCmd.Flags().Int("height", 12, "plot height")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]...",
		Short: "u-v phase portrait of one or more runs",
		Args:  cobra.MinimumNArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().Int("width", 60, "plot width")
	phaseCmd.Flags().Int("height", 20, "plot height")

	tableCmd := &cobra.Command{
		Use:   "table [run_id]",
		Short: "print t | u v for every sample",
		Args:  cobra.ExactArgs(1),
		RunE:  printTable,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringP("output", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]...",
		Short: "render the phase path of one or more runs as SVG",
		Args:  cobra.MinimumNArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringP("output", "o", "phase.svg", "output file")
	exportSVGCmd.Flags().Int("width", 600, "image width")
	exportSVGCmd.Flags().Int("height", 600, "image height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
		},
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted batch of operations",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	rootCmd.AddCommand(runCmd, peakCmd, sweepCmd, stepCmd, fieldCmd, listCmd, plotCmd, phaseCmd, tableCmd, exportJSONCmd, exportSVGCmd, presetsCmd, scenarioCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if errors.Is(err, dynamo.ErrNotConverged) {
			fmt.Fprintln(os.Stderr, viz.StatusWarn.Render("warning: "+err.Error()))
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
