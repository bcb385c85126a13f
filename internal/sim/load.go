package sim

import (
	"fmt"
	"path/filepath"

	"github.com/san-kum/fdmsim/internal/aircraft"
	"github.com/san-kum/fdmsim/internal/flight"
	"github.com/san-kum/fdmsim/internal/ic"
	"github.com/san-kum/fdmsim/internal/output"
	"github.com/san-kum/fdmsim/internal/script"
)

// LoadModel reads <root>/<aircraft_path>/<name>/<name>.xml. On failure the engine is
// back in the Created phase.
func (e *Engine) LoadModel(name string) error {
	e.dropModel()

	path := aircraft.Path(e.AircraftRoot(), name)
	root, err := e.cache.Load(path, aircraft.RootName)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrModelLoad, name, err)
	}
	ac, err := aircraft.Load(root, filepath.Dir(path), e.logger)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrModelLoad, name, err)
	}
	if ac.Name == "" {
		ac.Name = name
	}
	if !ac.Flyable() {
		return fmt.Errorf("%w: %s: incomplete definition (mass or wing geometry missing)", ErrModelLoad, name)
	}

	var directives []output.Directive
	for _, el := range ac.Outputs {
		d, err := output.ParseDirective(el)
		if err != nil {
			return fmt.Errorf("%w: %s: line %d: %w", ErrModelLoad, name, el.Line, err)
		}
		directives = append(directives, d)
	}

	e.aircraft = ac
	e.model = flight.NewModel(ac)
	e.modelOutputs = directives
	e.phase = ModelLoaded
	e.logger.Info("aircraft loaded", "aircraft", ac.Name, "weight_lbs", ac.Weight, "outputs", len(directives))
	return nil
}

func (e *Engine) dropModel() {
	if err := e.closeOutputs(); err != nil {
		e.logger.Warn("closing outputs", "err", err)
	}
	e.aircraft, e.model, e.record = nil, nil, nil
	e.modelOutputs = nil
	e.phase = Created
}

// LoadInitialConditions reads an initialize document. With useAircraftPath the path is
// relative to the loaded aircraft's directory. On failure the engine is back in the
// ModelLoaded phase.
func (e *Engine) LoadInitialConditions(path string, useAircraftPath bool) error {
	if e.phase < ModelLoaded {
		return fmt.Errorf("%w: %s: no aircraft loaded", ErrICLoad, path)
	}
	e.record = nil
	e.phase = ModelLoaded

	if useAircraftPath {
		path = filepath.Join(e.aircraft.Dir, path)
	}
	root, err := e.cache.Load(path, ic.RootName)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrICLoad, err)
	}
	rec, err := ic.Resolve(root)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrICLoad, path, err)
	}
	if rec.Name == "" {
		rec.Name = filepath.Base(path)
	}

	e.record = rec
	e.icPath = path
	e.phase = ICLoaded
	e.logger.Debug("initial conditions loaded", "path", path, "version", int(rec.Version), "specified", len(rec.SpecifiedValues()))
	return nil
}

// ICPath returns the path the initial conditions were read from.
func (e *Engine) ICPath() string { return e.icPath }

// LoadScript reads a runscript and loads the aircraft and initial conditions it names.
// The script's step size replaces the configured one when given.
func (e *Engine) LoadScript(path string) error {
	e.script = nil
	e.scriptOutputs = nil

	root, err := e.cache.Load(path, script.RootName)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrScriptLoad, err)
	}
	s, err := script.Parse(root)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrScriptLoad, path, err)
	}

	if err := e.LoadModel(s.Aircraft); err != nil {
		return fmt.Errorf("%w: %w", ErrScriptLoad, err)
	}
	if err := e.LoadInitialConditions(s.Initialize, true); err != nil {
		return fmt.Errorf("%w: %w", ErrScriptLoad, err)
	}

	if s.Dt > 0 {
		if err := e.SetProperty(propDt, s.Dt); err != nil {
			return fmt.Errorf("%w: %w", ErrScriptLoad, err)
		}
	}
	for _, d := range s.Declarations {
		e.props.Set(d.Path, d.Value)
	}

	e.script = s
	e.scriptOutputs = s.Outputs
	e.logger.Info("script loaded", "script", s.Name, "end", s.End, "events", len(s.Events))
	return nil
}
