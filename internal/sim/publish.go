package sim

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/san-kum/fdmsim/internal/flight"
	"github.com/san-kum/fdmsim/internal/units"
)

const (
	propSimTime = "simulation/sim-time-sec"
	propFrame   = "simulation/frame"
	propDt      = "simulation/dt"
	propDoTrim  = "simulation/do_simple_trim"
	propReset   = "simulation/reset"
	propTrimOK  = "simulation/trim-completed"
)

// Control inputs, indexed like flight's control vector.
var controlProps = [flight.ControlDim]string{
	flight.Aileron:  "fcs/aileron-cmd-norm",
	flight.Elevator: "fcs/elevator-cmd-norm",
	flight.Rudder:   "fcs/rudder-cmd-norm",
	flight.Throttle: "fcs/throttle-cmd-norm",
}

var controlPosProps = [flight.ControlDim]string{
	flight.Aileron:  "fcs/aileron-pos-norm",
	flight.Elevator: "fcs/elevator-pos-norm",
	flight.Rudder:   "fcs/rudder-pos-norm",
	flight.Throttle: "fcs/throttle-pos-norm",
}

var controlLimits = [flight.ControlDim][2]float64{
	flight.Aileron:  {-1, 1},
	flight.Elevator: {-1, 1},
	flight.Rudder:   {-1, 1},
	flight.Throttle: {0, 1},
}

// readControls loads the control vector from the command properties.
func (e *Engine) readControls() {
	for i, p := range controlProps {
		lim := controlLimits[i]
		e.u[i] = math.Max(lim[0], math.Min(lim[1], e.props.Value(p)))
	}
}

// writeControls publishes the control vector to the command properties.
func (e *Engine) writeControls() {
	for i, p := range controlProps {
		e.props.Set(p, e.u[i])
	}
}

func (e *Engine) position() orb.Point {
	lat, _ := flight.GeocentricToGeodetic(e.x[flight.Lat], e.x[flight.Radius])
	return orb.Point{e.x[flight.Lon] * units.DegPerRad, lat * units.DegPerRad}
}

// publish derives every live property from the flight state.
func (e *Engine) publish() {
	x, t := e.x, e.props
	o := e.model.Observe(x, e.u)
	deg := units.DegPerRad

	t.Set(propSimTime, e.simTime())
	t.Set(propFrame, float64(e.frame))
	t.Set(propDt, e.dt)

	t.Set("velocities/u-fps", x[flight.U])
	t.Set("velocities/v-fps", x[flight.V])
	t.Set("velocities/w-fps", x[flight.W])
	t.Set("velocities/p-rad_sec", x[flight.P])
	t.Set("velocities/q-rad_sec", x[flight.Q])
	t.Set("velocities/r-rad_sec", x[flight.R])
	t.Set("velocities/vt-fps", o.Vt)
	t.Set("velocities/vc-kts", o.VCKts)
	t.Set("velocities/mach", o.Mach)
	t.Set("velocities/v-north-fps", o.VNorth)
	t.Set("velocities/v-east-fps", o.VEast)
	t.Set("velocities/v-down-fps", o.VDown)
	t.Set("velocities/h-dot-fps", -o.VDown)

	t.Set("attitude/phi-deg", x[flight.Phi]*deg)
	t.Set("attitude/theta-deg", x[flight.Theta]*deg)
	t.Set("attitude/psi-deg", units.WrapDegrees(x[flight.Psi]*deg))
	t.Set("attitude/phi-rad", x[flight.Phi])
	t.Set("attitude/theta-rad", x[flight.Theta])
	t.Set("attitude/psi-rad", x[flight.Psi])

	t.Set("aero/alpha-deg", o.Alpha*deg)
	t.Set("aero/beta-deg", o.Beta*deg)
	t.Set("aero/alpha-rad", o.Alpha)
	t.Set("aero/beta-rad", o.Beta)
	t.Set("aero/qbar-psf", o.Qbar)
	t.Set("flight-path/gamma-deg", o.Gamma*deg)

	t.Set("position/h-sl-ft", o.HSL)
	t.Set("position/h-agl-ft", o.HAGL)
	t.Set("position/lat-gc-deg", x[flight.Lat]*deg)
	t.Set("position/long-gc-deg", x[flight.Lon]*deg)
	t.Set("position/lat-geod-deg", o.LatGeod*deg)
	t.Set("position/geod-alt-ft", o.HGeod)
	t.Set("position/radius-to-vehicle-ft", x[flight.Radius])
	t.Set("position/terrain-elevation-asl-ft", e.model.TerrainElevation)
	t.Set("position/distance-from-start-mag-mt", geo.Distance(e.start, e.position()))

	t.Set("atmosphere/rho-slugs_ft3", o.Air.Density)
	t.Set("atmosphere/T-R", o.Air.Temperature)
	t.Set("atmosphere/P-psf", o.Air.Pressure)
	t.Set("atmosphere/a-fps", o.Air.SoundSpeed)

	t.Set("accelerations/udot-ft_sec2", o.UDot)
	t.Set("accelerations/vdot-ft_sec2", o.VDot)
	t.Set("accelerations/wdot-ft_sec2", o.WDot)
	t.Set("accelerations/pdot-rad_sec2", o.PDot)
	t.Set("accelerations/qdot-rad_sec2", o.QDot)
	t.Set("accelerations/rdot-rad_sec2", o.RDot)
	t.Set("accelerations/gravity-ft_sec2", o.Gravity)

	for i, p := range controlPosProps {
		t.Set(p, e.u[i])
	}
}
