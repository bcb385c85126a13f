package sim

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/fdmsim/internal/dynamo"
	"github.com/san-kum/fdmsim/internal/flight"
	"github.com/san-kum/fdmsim/internal/ic"
	"github.com/san-kum/fdmsim/internal/trim"
	"github.com/san-kum/fdmsim/internal/units"
)

// RunIC applies the loaded initial conditions at t=0, runs the trim they request and
// writes the first row of every log. A trim that does not converge returns
// trim.ErrTrimFailed and leaves the untrimmed state in place; the engine stays usable.
func (e *Engine) RunIC() error {
	if e.phase < ICLoaded || e.record == nil {
		return ErrNotInitialized
	}
	if err := e.closeOutputs(); err != nil {
		e.logger.Warn("closing outputs", "err", err)
	}

	e.frame, e.frameBase, e.timeBase = 0, 0, 0
	e.applyIC(e.record)
	e.phase = Initialized
	if e.script != nil {
		for _, ev := range e.script.Events {
			ev.Reset()
		}
	}
	for _, m := range e.metrics {
		m.Reset()
	}

	if err := e.openOutputs(); err != nil {
		e.phase = ICLoaded
		return err
	}

	var trimErr error
	if e.record.WantsTrim() && !e.skipTrim {
		trimErr = e.runTrim(e.record.TrimMode)
	}
	e.observe()
	if err := e.writeOutputs(true); err != nil {
		return err
	}
	e.logger.Info("initial conditions applied", "ic", e.record.Name, "trim", e.record.TrimMode.String(), "trim_skipped", e.skipTrim, "outputs", len(e.outputs))
	return trimErr
}

// geodetic fields only appear under ic/ when a descriptor specifies them.
var geodetic = map[string]bool{ic.LatitudeGeod: true, ic.AltitudeGeod: true}

// applyIC builds the flight state from rec, publishes it and then writes every specified
// value verbatim to its ic/ path and to its live path. Live headings are wrapped to
// [0, 360).
func (e *Engine) applyIC(rec *ic.Record) {
	e.x = icState(rec, e.model)
	e.readControls()
	e.start = e.position()
	e.publish()

	for _, f := range ic.Fields() {
		if geodetic[f.ID] {
			e.props.Delete(f.ICPath)
			continue
		}
		e.props.Set(f.ICPath, e.props.Value(f.LivePath))
	}
	for _, v := range rec.SpecifiedValues() {
		live := v.Resolved
		if v.Field.Heading {
			live = units.WrapDegrees(live)
		}
		e.props.Set(v.Field.ICPath, v.Resolved)
		e.props.Set(v.Field.LivePath, live)
	}
}

// icState turns a record into a flight state. Body velocities take precedence over
// local ones, which take precedence over airspeed and aerodynamic angles. Fields left
// unspecified keep their zero defaults.
func icState(rec *ic.Record, m *flight.Model) dynamo.State {
	get := rec.Resolved
	angle := func(id string) (float64, bool) {
		v, ok := get(id)
		return v / units.DegPerRad, ok
	}

	elevation, _ := get(ic.Elevation)
	m.TerrainElevation = elevation

	hsl := elevation
	if h, ok := get(ic.AltitudeMSL); ok {
		hsl = h
	} else if h, ok := get(ic.AltitudeAGL); ok {
		hsl = h + elevation
	} else if h, ok := get(ic.Altitude); ok {
		hsl = h + elevation
	}

	lon, _ := angle(ic.Longitude)
	var latGC, radius float64
	if latGeod, ok := angle(ic.LatitudeGeod); ok {
		if h, ok := get(ic.AltitudeGeod); ok {
			latGC, radius = flight.GeodeticToGeocentric(latGeod, h)
		} else {
			latGC, _ = flight.GeodeticToGeocentric(latGeod, hsl)
			radius = flight.SeaLevelRadius(latGC) + hsl
		}
	} else {
		latGC, _ = angle(ic.Latitude)
		radius = flight.SeaLevelRadius(latGC) + hsl
	}
	x := flight.NewState(latGC, lon, radius)
	hsl = radius - flight.SeaLevelRadius(latGC)

	x[flight.Phi], _ = angle(ic.Phi)
	theta, thetaSet := angle(ic.Theta)
	x[flight.Theta] = theta
	x[flight.Psi], _ = angle(ic.Psi)
	x[flight.P], _ = get(ic.P)
	x[flight.Q], _ = get(ic.Q)
	x[flight.R], _ = get(ic.R)

	switch {
	case rec.Specified(ic.UBody) || rec.Specified(ic.VBody) || rec.Specified(ic.WBody):
		x[flight.U], _ = get(ic.UBody)
		x[flight.V], _ = get(ic.VBody)
		x[flight.W], _ = get(ic.WBody)
	case rec.Specified(ic.VNorth) || rec.Specified(ic.VEast) || rec.Specified(ic.VDown):
		n, _ := get(ic.VNorth)
		ee, _ := get(ic.VEast)
		d, _ := get(ic.VDown)
		dcm := flight.BodyToLocal(x[flight.Phi], x[flight.Theta], x[flight.Psi])
		x[flight.U], x[flight.V], x[flight.W] = dcm.ApplyT(n, ee, d)
	default:
		vt := icAirspeed(rec, hsl)
		alpha, _ := angle(ic.Alpha)
		beta, _ := angle(ic.Beta)
		gamma, gammaSet := angle(ic.Gamma)
		if roc, ok := get(ic.ROC); ok && !gammaSet && vt > 0 {
			gamma = math.Asin(math.Max(-1, math.Min(1, roc/vt)))
		}
		if !thetaSet {
			x[flight.Theta] = alpha + gamma
		}
		x[flight.U], x[flight.V], x[flight.W] = flight.WindToBody(vt, alpha, beta)
	}
	return x
}

// icAirspeed returns the true airspeed in ft/s from vt, else vc, else mach.
func icAirspeed(rec *ic.Record, hsl float64) float64 {
	if vt, ok := rec.Resolved(ic.VT); ok {
		return vt
	}
	air := flight.Atmosphere(hsl)
	if vc, ok := rec.Resolved(ic.VC); ok {
		return vc * units.FpsPerKnot * math.Sqrt(flight.SeaLevelDensity/air.Density)
	}
	if mach, ok := rec.Resolved(ic.Mach); ok {
		return mach * air.SoundSpeed
	}
	return 0
}

// runTrim trims the live state in place. Simulation time is the same before and after.
// On failure the property tree is rolled back to its contents before the run.
func (e *Engine) runTrim(mode trim.Mode) error {
	if mode == trim.None {
		return nil
	}
	snap := e.props.Snapshot()
	t0 := e.props.Value(propSimTime)
	defer e.props.Set(propSimTime, t0)

	settings := trim.ReadSettings(e.props, e.trimBase)
	target := trim.NewFlightTarget(e.model, e.x, e.u)
	err := e.trimmer.Run(target, mode, settings)
	if err != nil {
		e.props.Restore(snap)
	}
	e.props.Set(propTrimOK, 0)
	if err != nil {
		if errors.Is(err, trim.ErrTrimFailed) {
			e.logger.Warn("trim failed", "mode", mode.String(), "cycles", e.trimmer.Report().Cycles)
			return err
		}
		return fmt.Errorf("sim: %w", err)
	}

	e.x = target.State()
	e.u = target.Control()
	e.writeControls()
	e.publish()
	e.props.Set(propTrimOK, 1)
	if e.phase == Initialized {
		e.phase = Trimmed
	}

	rep := e.trimmer.Report()
	e.logger.Info("trim converged", "mode", mode.String(), "cycles", rep.Cycles,
		"alpha_deg", e.props.Value("aero/alpha-deg"),
		"throttle", e.u[flight.Throttle], "elevator", e.u[flight.Elevator])
	return nil
}
