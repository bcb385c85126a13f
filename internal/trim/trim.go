// Package trim searches for control settings and aerodynamic angles that put a flight
// state in equilibrium.
//
// A run sweeps its axes in order (Gauss-Seidel). Each axis owns one variable and is
// solved on its own with the other variables held, by false position inside the
// variable's bounds. The run succeeds when every axis residual is within tolerance at
// the end of a sweep: AbsTol for translational accelerations (ft/s^2), AbsTol/10 for
// rotational ones (rad/s^2).
package trim

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/fdmsim/internal/logging"
)

var (
	// ErrTrimFailed reports that the search did not converge. It is not fatal to the engine.
	ErrTrimFailed = errors.New("Trim Failed")

	// ErrIllegalMode reports a mode the solver does not implement.
	ErrIllegalMode = errors.New("trim: illegal mode")
)

// MinAirspeed is the lowest true airspeed (ft/s) a trim is attempted at.
const MinAirspeed = 1.0

type pairing struct {
	axis     Axis
	variable Variable
}

var (
	longitudinalAxes = []pairing{
		{WDot, AlphaVar},
		{UDot, ThrottleVar},
		{QDot, ElevatorVar},
	}
	fullAxes = append(append([]pairing{}, longitudinalAxes...),
		pairing{VDot, BetaVar},
		pairing{PDot, AileronVar},
		pairing{RDot, RudderVar},
	)
)

// AxisReport is the final state of one axis.
type AxisReport struct {
	Axis      Axis
	Variable  Variable
	Value     float64
	Residual  float64
	Tolerance float64
}

func (r AxisReport) Converged() bool {
	return math.Abs(r.Residual) <= r.Tolerance
}

// Report summarizes the last run.
type Report struct {
	Mode      Mode
	Cycles    int
	Converged bool
	Axes      []AxisReport
}

// Trimmer runs trim searches. The zero value is usable.
type Trimmer struct {
	Logger *slog.Logger

	report Report
}

func New(logger *slog.Logger) *Trimmer {
	return &Trimmer{Logger: logger}
}

// Report returns the outcome of the last Run.
func (tr *Trimmer) Report() Report {
	return tr.report
}

func (tr *Trimmer) logger() *slog.Logger {
	if tr.Logger == nil {
		return logging.Discard()
	}
	return tr.Logger
}

// Run adjusts target until it is in equilibrium for mode. It returns nil on success,
// ErrTrimFailed when the search does not converge and ErrIllegalMode for modes it
// cannot solve. None succeeds without touching the target.
func (tr *Trimmer) Run(target Target, mode Mode, settings Settings) error {
	tr.report = Report{Mode: mode}
	if !mode.Supported() {
		return fmt.Errorf("%w: %v", ErrIllegalMode, mode)
	}

	var axes []pairing
	switch mode {
	case None:
		tr.report.Converged = true
		return nil
	case Longitudinal:
		axes = longitudinalAxes
	case Full:
		axes = fullAxes
	}

	log := tr.logger().With("mode", mode.String())

	if vt := target.Airspeed(); vt < MinAirspeed {
		log.Warn("airspeed too low to trim", "vt_fps", vt)
		return ErrTrimFailed
	}

	for _, p := range axes {
		target.SetVariable(p.variable, settings.bounds(p.variable).Guess)
	}

	maxCycles := settings.MaxCycles
	if maxCycles <= 0 {
		maxCycles = DefaultSettings().MaxCycles
	}

	for cycle := 1; cycle <= maxCycles; cycle++ {
		tr.report.Cycles = cycle
		for _, p := range axes {
			tol := tolerance(p.axis, settings.AbsTol)
			if math.Abs(target.Accel(p.axis)) <= 0.1*tol {
				continue
			}
			if !tr.solveAxis(target, p, tol, settings) {
				tr.report.Axes = summarize(target, axes, settings.AbsTol)
				log.Warn("no solution within bounds", "axis", p.axis.String(), "variable", p.variable.String(), "cycle", cycle)
				return ErrTrimFailed
			}
		}

		tr.report.Axes = summarize(target, axes, settings.AbsTol)
		if allConverged(tr.report.Axes) {
			tr.report.Converged = true
			log.Debug("trim converged", "cycles", cycle)
			return nil
		}
	}

	log.Warn("trim did not converge", "cycles", maxCycles)
	return ErrTrimFailed
}

func (tr *Trimmer) solveAxis(target Target, p pairing, tol float64, s Settings) bool {
	b := s.bounds(p.variable)
	f := func(x float64) float64 {
		target.SetVariable(p.variable, x)
		return target.Accel(p.axis)
	}

	current := target.Variable(p.variable)
	a, fa, bb, fb, ok := bracket(f, b.Min, b.Max, current)
	if !ok {
		target.SetVariable(p.variable, current)
		return false
	}

	xtol := s.RelTol * 1e-6 * math.Abs(b.Max-b.Min)
	maxIter := s.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultSettings().MaxIterations
	}
	x, _ := solve(f, a, fa, bb, fb, 0.1*tol, xtol, maxIter)
	target.SetVariable(p.variable, x)
	return true
}

func tolerance(a Axis, absTol float64) float64 {
	if absTol <= 0 {
		absTol = DefaultSettings().AbsTol
	}
	if a.Rotational() {
		return absTol / 10
	}
	return absTol
}

func summarize(target Target, axes []pairing, absTol float64) []AxisReport {
	out := make([]AxisReport, len(axes))
	for i, p := range axes {
		out[i] = AxisReport{
			Axis:      p.axis,
			Variable:  p.variable,
			Value:     target.Variable(p.variable),
			Residual:  target.Accel(p.axis),
			Tolerance: tolerance(p.axis, absTol),
		}
	}
	return out
}

func allConverged(axes []AxisReport) bool {
	for _, a := range axes {
		if !a.Converged() {
			return false
		}
	}
	return true
}
