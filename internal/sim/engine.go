// Package sim is the executive that ties aircraft, initial conditions, trim, stepping
// and logs together behind a property namespace.
//
// An Engine moves through
//
//	Created -> ModelLoaded -> ICLoaded -> Initialized -> (Trimmed) -> Stepping
//
// LoadModel and LoadInitialConditions move it forward and drop it back when they fail,
// so a failed load never leaves an engine that can be stepped. RunIC applies the
// initial conditions, runs any requested trim and writes the t=0 row of every log.
//
// An Engine is not safe for concurrent use. Independent engines share nothing mutable
// and may run in parallel.
package sim

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"github.com/san-kum/fdmsim/internal/aircraft"
	"github.com/san-kum/fdmsim/internal/config"
	"github.com/san-kum/fdmsim/internal/dynamo"
	"github.com/san-kum/fdmsim/internal/flight"
	"github.com/san-kum/fdmsim/internal/ic"
	"github.com/san-kum/fdmsim/internal/integrators"
	"github.com/san-kum/fdmsim/internal/logging"
	"github.com/san-kum/fdmsim/internal/metrics"
	"github.com/san-kum/fdmsim/internal/output"
	"github.com/san-kum/fdmsim/internal/props"
	"github.com/san-kum/fdmsim/internal/script"
	"github.com/san-kum/fdmsim/internal/trim"
	"github.com/san-kum/fdmsim/internal/xmldoc"
)

var (
	ErrModelLoad      = errors.New("sim: aircraft load failed")
	ErrICLoad         = errors.New("sim: initial conditions load failed")
	ErrScriptLoad     = errors.New("sim: script load failed")
	ErrNotInitialized = errors.New("sim: engine not initialized")
)

// Phase is the lifecycle position of an engine.
type Phase int

const (
	Created Phase = iota
	ModelLoaded
	ICLoaded
	Initialized
	Trimmed
	Stepping
)

var phaseNames = [...]string{"created", "model-loaded", "ic-loaded", "initialized", "trimmed", "stepping"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// Engine runs one aircraft.
type Engine struct {
	ID string

	cfg    *config.Config
	logger *slog.Logger
	cache  *xmldoc.Cache
	props  *props.Tree

	integ    dynamo.Integrator
	trimmer  *trim.Trimmer
	trimBase trim.Settings
	skipTrim bool

	phase    Phase
	aircraft *aircraft.Aircraft
	model    *flight.Model
	record   *ic.Record
	icPath   string
	script   *script.Script

	modelOutputs  []output.Directive
	scriptOutputs []output.Directive
	extraOutputs  []output.Directive
	outputs       []*output.Output
	metrics       []metrics.Metric

	x     dynamo.State
	u     dynamo.Control
	dt    float64
	frame int
	// sim time is timeBase + (frame-frameBase)*dt; the base moves when dt changes
	timeBase  float64
	frameBase int
	start orb.Point
}

// New returns an engine in the Created phase. A nil cfg uses config.DefaultConfig, a
// nil logger discards and a nil cache parses every document on each load.
func New(cfg *config.Config, logger *slog.Logger, cache *xmldoc.Cache) (*Engine, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	integ, err := integrators.New(cfg.Integrator)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Discard()
	}

	id := uuid.NewString()
	e := &Engine{
		ID:       id,
		cfg:      cfg,
		logger:   logger.With("engine", id[:8]),
		cache:    cache,
		props:    props.New(),
		integ:    integ,
		trimBase: trimSettings(cfg.Trim),
		dt:       cfg.Dt,
		u:        flight.NewControl(),
	}
	e.trimmer = trim.New(e.logger)
	e.trimBase.Seed(e.props)
	e.props.Set(propSimTime, 0)
	e.props.Set(propDt, e.dt)
	for _, p := range controlProps {
		e.props.SetDefault(p, 0)
	}
	return e, nil
}

func trimSettings(c config.TrimConfig) trim.Settings {
	s := trim.DefaultSettings()
	if c.RelTol > 0 {
		s.RelTol = c.RelTol
	}
	if c.AbsTol > 0 {
		s.AbsTol = c.AbsTol
	}
	if c.MaxIterations > 0 {
		s.MaxIterations = c.MaxIterations
	}
	if c.MaxCycles > 0 {
		s.MaxCycles = c.MaxCycles
	}
	return s
}

func (e *Engine) Phase() Phase { return e.phase }

// Props exposes the property tree. Callers must not use it concurrently with the engine.
func (e *Engine) Props() *props.Tree { return e.props }

func (e *Engine) Aircraft() *aircraft.Aircraft { return e.aircraft }

func (e *Engine) Record() *ic.Record { return e.record }

func (e *Engine) Script() *script.Script { return e.script }

// Dt returns the step size in seconds.
func (e *Engine) Dt() float64 { return e.dt }

// Time returns the simulation time in seconds.
func (e *Engine) Time() float64 { return e.props.Value(propSimTime) }

func (e *Engine) simTime() float64 {
	return e.timeBase + float64(e.frame-e.frameBase)*e.dt
}

// Frame returns the number of steps taken since the last RunIC.
func (e *Engine) Frame() int { return e.frame }

// TrimReport returns the outcome of the last trim run.
func (e *Engine) TrimReport() trim.Report { return e.trimmer.Report() }

// Outputs returns the logs opened by the last RunIC.
func (e *Engine) Outputs() []*output.Output { return e.outputs }

// AircraftRoot returns the directory aircraft definitions are looked up in.
func (e *Engine) AircraftRoot() string {
	return filepath.Join(e.cfg.RootDir, e.cfg.AircraftPath)
}

// GetProperty reads a property.
func (e *Engine) GetProperty(path string) (float64, error) {
	return e.props.Get(path)
}

// Value reads a property, returning 0 when it does not exist.
func (e *Engine) Value(path string) float64 {
	return e.props.Value(path)
}

// Has reports whether a property exists.
func (e *Engine) Has(path string) bool {
	return e.props.Has(path)
}

// SetProperty writes a property. Writing a command property runs the command: a trim
// for simulation/do_simple_trim (the value is the trim mode) and a return to the
// initial conditions for a non-zero simulation/reset.
func (e *Engine) SetProperty(path string, v float64) error {
	p := props.Normalize(path)
	switch p {
	case propDoTrim:
		e.props.Set(p, v)
		if e.phase < Initialized {
			return ErrNotInitialized
		}
		mode := trim.Mode(int(v))
		return e.runTrim(mode)
	case propReset:
		e.props.Set(p, v)
		if v == 0 {
			return nil
		}
		e.props.Set(p, 0)
		return e.RunIC()
	case propDt:
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("sim: step size must be positive, got %g", v)
		}
		if e.phase >= Initialized {
			e.timeBase, e.frameBase = e.Time(), e.frame
			for _, o := range e.outputs {
				o.Rebase(v, e.frame)
			}
		}
		e.dt = v
	}
	e.props.Set(p, v)
	return nil
}

// SetIntegrator replaces the integrator selected by the configuration.
func (e *Engine) SetIntegrator(integ dynamo.Integrator) {
	e.integ = integ
}

// SkipInitialTrim makes RunIC leave the state untrimmed even when the initial
// conditions ask for a trim. The loaded record is not changed.
func (e *Engine) SkipInitialTrim(skip bool) {
	e.skipTrim = skip
}

// AddOutput registers a log that is opened by the next RunIC.
func (e *Engine) AddOutput(d output.Directive) {
	e.extraOutputs = append(e.extraOutputs, d)
}

// AddMetric registers a metric. Metrics are reset by RunIC and observe the initial
// state and every committed step after it.
func (e *Engine) AddMetric(m metrics.Metric) {
	e.metrics = append(e.metrics, m)
}

func (e *Engine) Metrics() []metrics.Metric { return e.metrics }

func (e *Engine) observe() {
	t := e.Time()
	for _, m := range e.metrics {
		m.Observe(e.x, e.u, t)
	}
}

// Close closes every open log.
func (e *Engine) Close() error {
	return e.closeOutputs()
}

func (e *Engine) closeOutputs() error {
	var errs []error
	for _, o := range e.outputs {
		errs = append(errs, o.Close())
	}
	e.outputs = nil
	return errors.Join(errs...)
}

func (e *Engine) openOutputs() error {
	var all []output.Directive
	all = append(all, e.modelOutputs...)
	all = append(all, e.scriptOutputs...)
	all = append(all, e.extraOutputs...)

	for _, d := range all {
		o, err := output.Open(d, e.cfg.OutputDir, e.dt, e.props, e.logger)
		if err != nil {
			e.closeOutputs()
			return err
		}
		e.logger.Debug("output opened", "path", o.Path, "columns", len(o.Columns), "frames", o.Frames())
		e.outputs = append(e.outputs, o)
	}
	return nil
}

func (e *Engine) writeOutputs(force bool) error {
	t := e.Time()
	for _, o := range e.outputs {
		var err error
		if force {
			if o.Frames() > 0 {
				err = o.Write(t, e.props)
			}
		} else {
			err = o.Sample(e.frame, t, e.props)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
