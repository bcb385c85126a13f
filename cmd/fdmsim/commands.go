package main

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/fdmsim/internal/analysis"
	"github.com/san-kum/fdmsim/internal/check"
	"github.com/san-kum/fdmsim/internal/metrics"
	"github.com/san-kum/fdmsim/internal/output"
	"github.com/san-kum/fdmsim/internal/sim"
	"github.com/san-kum/fdmsim/internal/trim"
	"github.com/spf13/cobra"
)

func newEngine() (*sim.Engine, error) {
	return sim.New(current.cfg, current.logger, current.cache)
}

func runScript(cmd *cobra.Command, args []string) error {
	e, err := newEngine()
	if err != nil {
		return err
	}
	defer e.Close()
	for _, m := range metrics.Defaults() {
		e.AddMetric(m)
	}

	if err := e.LoadScript(args[0]); err != nil {
		return err
	}
	s := e.Script()
	if err := e.RunIC(); err != nil && !errors.Is(err, trim.ErrTrimFailed) {
		return err
	}

	var logs []string
	for _, o := range e.Outputs() {
		logs = append(logs, o.Path)
	}

	fmt.Printf("running %s (%s, %s)...\n", cyan.Render(s.Name), s.Aircraft, s.Initialize)
	start := time.Now()
	if err := e.RunScript(cmd.Context()); err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", e.ID)
	fmt.Printf("frames: %d, sim time: %.3f s\n", e.Frame(), e.Time())
	for _, ev := range s.Events {
		state := dim.Render("not fired")
		if ev.Fired() {
			state = green.Render(fmt.Sprintf("fired x%d", ev.Count()))
		}
		fmt.Printf("  event %-20s %s\n", ev.Name, state)
	}
	for _, l := range logs {
		fmt.Printf("  log %s\n", l)
	}
	fmt.Println("\nmetrics:")
	for _, m := range e.Metrics() {
		fmt.Printf("  %s: %.6f\n", m.Name(), m.Value())
	}

	if !manifest {
		return nil
	}
	m := output.Manifest{
		ID:         e.ID,
		Aircraft:   s.Aircraft,
		IC:         e.ICPath(),
		Script:     args[0],
		Timestamp:  time.Now(),
		Dt:         e.Dt(),
		EndTime:    e.Time(),
		Integrator: current.cfg.Integrator,
		Trim:       e.Record().TrimMode.String(),
		Logs:       logs,
		Metrics:    make(map[string]float64),
	}
	for _, mt := range e.Metrics() {
		m.Metrics[mt.Name()] = mt.Value()
	}
	name := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0])) + output.ManifestSuffix
	path := filepath.Join(current.cfg.OutputDir, name)
	if err := output.WriteManifest(path, m); err != nil {
		return err
	}
	fmt.Printf("manifest: %s\n", path)
	return nil
}

// initialized returns an engine with the aircraft and initfile applied, advanced by
// --time seconds. A failed trim is reported but not fatal.
func initialized(cmd *cobra.Command, name, initfile string) (*sim.Engine, error) {
	e, err := newEngine()
	if err != nil {
		return nil, err
	}
	if err := e.LoadModel(name); err != nil {
		e.Close()
		return nil, err
	}
	if err := e.LoadInitialConditions(initfile, true); err != nil {
		e.Close()
		return nil, err
	}
	e.SkipInitialTrim(noTrim)
	if err := e.RunIC(); err != nil {
		if !errors.Is(err, trim.ErrTrimFailed) {
			e.Close()
			return nil, err
		}
		fmt.Println(yellow.Render("trim failed, continuing untrimmed"))
	}
	if advance > 0 {
		if err := e.Advance(cmd.Context(), advance); err != nil {
			e.Close()
			return nil, err
		}
	}
	return e, nil
}

var reportProps = []string{
	"simulation/sim-time-sec",
	"position/lat-gc-deg",
	"position/long-gc-deg",
	"position/h-sl-ft",
	"position/h-agl-ft",
	"velocities/vt-fps",
	"velocities/vc-kts",
	"velocities/mach",
	"aero/alpha-deg",
	"aero/beta-deg",
	"attitude/phi-deg",
	"attitude/theta-deg",
	"attitude/psi-deg",
	"flight-path/gamma-deg",
	"fcs/throttle-cmd-norm",
	"fcs/elevator-cmd-norm",
}

func applyIC(cmd *cobra.Command, args []string) error {
	e, err := initialized(cmd, args[0], args[1])
	if err != nil {
		return err
	}
	defer e.Close()

	fmt.Printf("%s %s (%s)\n", bold.Render(args[0]), e.ICPath(), e.Phase())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PROPERTY\tVALUE")
	for _, p := range reportProps {
		if e.Has(p) {
			fmt.Fprintf(w, "%s\t%.6f\n", p, e.Value(p))
		}
	}
	specified := e.Props().Subtree("ic")
	for _, p := range slices.Sorted(maps.Keys(specified)) {
		fmt.Fprintf(w, "%s\t%.6f\n", p, specified[p])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	r := e.TrimReport()
	if r.Mode == trim.None {
		return nil
	}
	fmt.Printf("\ntrim %s: %d cycles, converged=%v\n", r.Mode, r.Cycles, r.Converged)
	for _, a := range r.Axes {
		mark := green.Render("ok")
		if !a.Converged() {
			mark = red.Render("no")
		}
		fmt.Printf("  %-6s %-10s %12.6f  residual %10.3e  %s\n", a.Axis, a.Variable, a.Value, a.Residual, mark)
	}
	return nil
}

func dumpProps(cmd *cobra.Command, args []string) error {
	e, err := initialized(cmd, args[0], args[1])
	if err != nil {
		return err
	}
	defer e.Close()

	if asJSON && query == "" {
		data, err := e.Props().MarshalJSON()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	paths := e.Props().Paths()
	if query != "" {
		paths = e.Props().Query(query)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, p := range paths {
		fmt.Fprintf(w, "%s\t%g\n", p, e.Value(p))
	}
	return w.Flush()
}

func checkAircraft(cmd *cobra.Command, args []string) error {
	c := check.New(current.cfg, current.logger, current.cache)
	if workers > 0 {
		c.Workers = workers
	}

	var results []check.Result
	if len(args) > 0 {
		for _, name := range args {
			results = append(results, c.One(name))
		}
	} else {
		var err error
		results, err = c.Run(cmd.Context())
		if err != nil {
			return err
		}
	}

	rows := make([][]string, 0, len(results))
	failed := 0
	for _, r := range results {
		status := green.Render("ok")
		detail := ""
		switch {
		case r.TrimFailed():
			status = yellow.Render("trim")
			detail = r.Err.Error()
		case !r.OK():
			status = red.Render("fail")
			detail = r.Err.Error()
			failed++
		}
		rows = append(rows, []string{r.Aircraft, r.IC, status, r.Duration.Round(time.Microsecond).String(), dim.Render(detail)})
	}
	fmt.Println(table([]string{"AIRCRAFT", "IC", "STATUS", "TIME", "DETAIL"}, rows))

	if failed > 0 {
		return fmt.Errorf("%d of %d aircraft failed", failed, len(results))
	}
	return nil
}

func analyzeLog(cmd *cobra.Command, args []string) error {
	l, err := output.ReadLog(args[0])
	if err != nil {
		return err
	}
	columns := args[1:]
	if len(columns) == 0 {
		columns = l.Headers
	}

	fmt.Printf("log: %s\n", args[0])
	fmt.Printf("rows: %d, rate: %.3f hz\n\n", len(l.Rows), analysis.SampleRate(l))

	rows := make([][]string, 0, len(columns))
	var reports []analysis.Report
	for _, c := range columns {
		r, err := analysis.Column(l, c)
		if err != nil {
			return err
		}
		reports = append(reports, r)
		period := "-"
		switch {
		case math.IsInf(r.Period, 1):
			period = "const"
		case r.Period > 0:
			period = fmt.Sprintf("%.3f s", r.Period)
		}
		rows = append(rows, []string{
			r.Header,
			fmt.Sprintf("%.6g", r.Stats.Min),
			fmt.Sprintf("%.6g", r.Stats.Max),
			fmt.Sprintf("%.6g", r.Stats.Mean),
			fmt.Sprintf("%.6g", r.Stats.Final),
			period,
		})
	}
	fmt.Println(table([]string{"COLUMN", "MIN", "MAX", "MEAN", "FINAL", "PERIOD"}, rows))

	if !plot {
		return nil
	}
	for _, r := range reports {
		values, _ := l.Column(r.Header)
		if len(values) == 0 {
			continue
		}
		fmt.Println()
		fmt.Println(asciigraph.Plot(values,
			asciigraph.Height(height),
			asciigraph.Width(width),
			asciigraph.Caption(r.Header),
		))
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := output.ListManifests(current.cfg.OutputDir)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tAIRCRAFT\tTIME\tEND\tDT\tINTEG\tTRIM\tLOGS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%s\t%d\n",
			run.ID[:min(8, len(run.ID))],
			run.Aircraft,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.EndTime,
			run.Dt,
			run.Integrator,
			run.Trim,
			len(run.Logs),
		)
	}
	return w.Flush()
}
