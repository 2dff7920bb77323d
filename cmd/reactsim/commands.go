package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/san-kum/reactsim/internal/analysis"
	"github.com/san-kum/reactsim/internal/automation"
	"github.com/san-kum/reactsim/internal/dynamo"
	"github.com/san-kum/reactsim/internal/experiment"
	"github.com/san-kum/reactsim/internal/export"
	"github.com/san-kum/reactsim/internal/sim"
	"github.com/san-kum/reactsim/internal/storage"
	"github.com/san-kum/reactsim/internal/viz"
	"github.com/spf13/cobra"
)

func newExperiment(cmd *cobra.Command) (*experiment.Experiment, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return experiment.New(cfg, logger)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	exp, err := newExperiment(cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	tr, err := exp.Simulate(cmd.Context())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID := "-"
	if noSave, _ := cmd.Flags().GetBool("no-save"); !noSave {
		st := storage.New(dataDir)
		if runID, err = st.Save(tr); err != nil {
			return err
		}
		logger.Info("run saved", "id", runID, "dir", dataDir)
	}

	fields := []viz.Field{
		viz.F("run id", "%s", runID),
		viz.F("tf", "%g", tr.Tf),
		viz.F("dt", "%g", tr.Dt),
		viz.F("steps", "%d", tr.Len()-1),
		viz.F("final u", "%.6f", tr.U[tr.Len()-1]),
		viz.F("final v", "%.6f", tr.FinalV()),
		viz.F("elapsed", "%v", elapsed),
	}
	for _, name := range sortedKeys(tr.Metrics) {
		fields = append(fields, viz.F(name, "%.6f", tr.Metrics[name]))
	}

	fmt.Println(viz.Report("reaction run", fields...))
	fmt.Println(viz.Subtle.Render("v ") + viz.SparklineChart(tr.V, 60))
	return nil
}

func findPeak(cmd *cobra.Command, args []string) error {
	exp, err := newExperiment(cmd)
	if err != nil {
		return err
	}
	cfg := exp.Config()

	peak, err := exp.Peak(cmd.Context())
	if err != nil && !errors.Is(err, dynamo.ErrNotConverged) {
		return err
	}

	if trace, _ := cmd.Flags().GetBool("trace"); trace {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "K\tA\tB\tP\tF(P)\tF(P+EPS)")
		for _, it := range peak.Trace {
			fmt.Fprintf(w, "%d\t%.10f\t%.10f\t%.10f\t%.10f\t%.10f\n", it.K, it.A, it.B, it.P, it.FP, it.FProbe)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	status := viz.StatusOK.Render("converged")
	if !peak.Converged {
		status = viz.StatusWarn.Render("not converged")
	}
	fmt.Println(viz.Report("switch-time peak",
		viz.F("window", "[%g, %g]", cfg.Search.Start, cfg.Search.End),
		viz.F("horizon", "%g (dt %g)", cfg.Duration, cfg.Dt),
		viz.F("tf", "%.10f", peak.Tf),
		viz.F("v", "%.10f", peak.V),
		viz.F("iterations", "%d", peak.Iterations),
		viz.Field{Label: "status", Value: status},
	))
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	exp, err := newExperiment(cmd)
	if err != nil {
		return err
	}
	cfg := exp.Config()

	res, err := exp.Sweep(cmd.Context())
	if err != nil {
		return err
	}

	caption := fmt.Sprintf("%s v over tf in [%g, %g]", cfg.Sweep.Objective, cfg.Sweep.Start, cfg.Sweep.End)
	fmt.Println(viz.TimeSeries(caption, 80, 12, res.Values()))
	fmt.Println()
	fmt.Println(viz.Report("sweep",
		viz.F("objective", "%s", cfg.Sweep.Objective),
		viz.F("samples", "%d", len(res.Samples)),
		viz.F("best tf", "%.6f", res.Best.Tf),
		viz.F("best value", "%.6f", res.Best.Value),
	))
	return nil
}

func refineStep(cmd *cobra.Command, args []string) error {
	exp, err := newExperiment(cmd)
	if err != nil {
		return err
	}

	res, err := exp.StepSize(cmd.Context())
	if err != nil && !errors.Is(err, dynamo.ErrNotConverged) {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "I\tDT\t|DV|")
	for _, a := range res.Attempts {
		fmt.Fprintf(w, "%d\t%.6e\t%.6e\n", a.Index, a.Dt, a.Diff)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}

	if err == nil {
		fmt.Println()
		fmt.Println(viz.Report("step size",
			viz.F("halvings", "%d", res.Index),
			viz.F("dt", "%.6e", res.Dt),
			viz.F("difference", "%.6e", res.Diff),
		))
	}
	return err
}

func vectorField(cmd *cobra.Command, args []string) error {
	exp, err := newExperiment(cmd)
	if err != nil {
		return err
	}

	arrows, err := exp.Field()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "U\tV\tDU\tDV")
	for _, a := range arrows {
		fmt.Fprintf(w, "%.4f\t%.4f\t%+.4f\t%+.4f\n", a.X, a.Y, a.DU, a.DV)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tTF\tDURATION\tDT\tFINAL_V")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.4f\t%.2f\t%.4f\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Tf,
			run.Duration,
			run.Dt,
			metricString(run.Metrics, "final_v"),
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	tr, err := loadRun(args[0])
	if err != nil {
		return err
	}
	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")

	fmt.Printf("run: %s\n", args[0])
	fmt.Printf("tf: %g  dt: %g  samples: %d\n\n", tr.Tf, tr.Dt, tr.Len())
	fmt.Println(viz.TimeSeries("u (blue) and v (red) vs time", width, height, tr.U, tr.V))
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	paths := make([][]analysis.Point, 0, len(args))
	for _, id := range args {
		tr, err := loadRun(id)
		if err != nil {
			return err
		}
		paths = append(paths, analysis.PhasePath(tr))
	}
	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")

	fmt.Printf("phase portrait: %v\n\n", args)
	fmt.Println(analysis.PhasePortraitToASCII(width, height, paths...))
	return nil
}

func printTable(cmd *cobra.Command, args []string) error {
	tr, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return export.Table(os.Stdout, tr)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	tr, err := loadRun(args[0])
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		return export.JSON(os.Stdout, tr)
	}
	return writeFile(out, func(w io.Writer) error { return export.JSON(w, tr) })
}

func exportSVG(cmd *cobra.Command, args []string) error {
	paths := make([][]analysis.Point, 0, len(args))
	for _, id := range args {
		tr, err := loadRun(id)
		if err != nil {
			return err
		}
		paths = append(paths, analysis.PhasePath(tr))
	}

	out, _ := cmd.Flags().GetString("output")
	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")
	if err := writeFile(out, func(w io.Writer) error { return export.PhaseSVG(w, width, height, paths...) }); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", out)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	outcomes, err := automation.NewRunner(cfg, storage.New(dataDir), logger).Run(cmd.Context(), scenario)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tKIND\tRESULT")
	for _, o := range outcomes {
		fmt.Fprintf(w, "%s\t%s\t%s\n", o.Step.Name, o.Step.Kind, describe(o))
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	return err
}

func describe(o automation.Outcome) string {
	var s string
	switch {
	case o.Peak != nil:
		s = fmt.Sprintf("tf=%.8f v=%.8f after %d iterations", o.Peak.Tf, o.Peak.V, o.Peak.Iterations)
	case o.Sweep != nil:
		s = fmt.Sprintf("best tf=%.6f value=%.6f over %d samples", o.Sweep.Best.Tf, o.Sweep.Best.Value, len(o.Sweep.Samples))
	case o.StepSize != nil:
		s = fmt.Sprintf("dt=%.6e after %d halvings", o.StepSize.Dt, o.StepSize.Index)
	default:
		s = fmt.Sprintf("final v=%.6f", o.FinalV)
		if o.RunID != "" {
			s += " saved as " + o.RunID
		}
	}
	if o.Err != nil {
		s += " " + viz.StatusWarn.Render("("+o.Err.Error()+")")
	}
	return s
}

func loadRun(runID string) (*sim.Trajectory, error) {
	return storage.New(dataDir).LoadTrajectory(runID)
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func metricString(m map[string]float64, name string) string {
	v, ok := m[name]
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.6f", v)
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
