package trim

import (
	"math"

	"github.com/san-kum/fdmsim/internal/dynamo"
	"github.com/san-kum/fdmsim/internal/flight"
)

// Axis is an equilibrium condition a trim run drives to zero.
type Axis int

const (
	WDot Axis = iota
	UDot
	QDot
	VDot
	PDot
	RDot
)

var axisNames = [...]string{"wdot", "udot", "qdot", "vdot", "pdot", "rdot"}

func (a Axis) String() string { return axisNames[a] }

// Rotational reports whether the axis is an angular acceleration.
func (a Axis) Rotational() bool {
	return a == QDot || a == PDot || a == RDot
}

// Variable is a quantity a trim run adjusts.
type Variable int

const (
	AlphaVar Variable = iota
	ThrottleVar
	ElevatorVar
	BetaVar
	AileronVar
	RudderVar
)

var variableNames = [...]string{"alpha", "throttle", "elevator", "beta", "aileron", "rudder"}

func (v Variable) String() string { return variableNames[v] }

// Target is the system a Trimmer adjusts.
type Target interface {
	Airspeed() float64
	Variable(v Variable) float64
	SetVariable(v Variable, value float64)
	Accel(a Axis) float64
}

// FlightTarget trims a working copy of a flight state. True airspeed, flight path
// angle, bank, heading and position are held; pitch follows alpha and beta so the
// flight path angle is kept.
type FlightTarget struct {
	model *flight.Model
	x     dynamo.State
	u     dynamo.Control

	vt, alpha, beta, gamma float64

	obs   flight.Observation
	stale bool
}

func NewFlightTarget(m *flight.Model, x dynamo.State, u dynamo.Control) *FlightTarget {
	t := &FlightTarget{model: m, x: x.Clone(), u: u.Clone(), stale: true}
	obs := m.Observe(t.x, t.u)
	t.vt, t.alpha, t.beta = obs.Vt, obs.Alpha, obs.Beta
	t.gamma = obs.Gamma
	t.x[flight.P], t.x[flight.Q], t.x[flight.R] = 0, 0, 0
	t.updateBody()
	return t
}

func (t *FlightTarget) Airspeed() float64 { return t.vt }

func (t *FlightTarget) Variable(v Variable) float64 {
	switch v {
	case AlphaVar:
		return t.alpha
	case BetaVar:
		return t.beta
	case ThrottleVar:
		return t.u[flight.Throttle]
	case ElevatorVar:
		return t.u[flight.Elevator]
	case AileronVar:
		return t.u[flight.Aileron]
	default:
		return t.u[flight.Rudder]
	}
}

func (t *FlightTarget) SetVariable(v Variable, value float64) {
	switch v {
	case AlphaVar:
		t.alpha = value
		t.updateBody()
	case BetaVar:
		t.beta = value
		t.updateBody()
	case ThrottleVar:
		t.u[flight.Throttle] = value
	case ElevatorVar:
		t.u[flight.Elevator] = value
	case AileronVar:
		t.u[flight.Aileron] = value
	case RudderVar:
		t.u[flight.Rudder] = value
	}
	t.stale = true
}

func (t *FlightTarget) Accel(a Axis) float64 {
	if t.stale {
		t.obs = t.model.Observe(t.x, t.u)
		t.stale = false
	}
	switch a {
	case WDot:
		return t.obs.WDot
	case UDot:
		return t.obs.UDot
	case QDot:
		return t.obs.QDot
	case VDot:
		return t.obs.VDot
	case PDot:
		return t.obs.PDot
	default:
		return t.obs.RDot
	}
}

// State returns a copy of the trimmed state.
func (t *FlightTarget) State() dynamo.State { return t.x.Clone() }

// Control returns a copy of the trimmed controls.
func (t *FlightTarget) Control() dynamo.Control { return t.u.Clone() }

// updateBody recomputes body velocities from vt, alpha and beta, then solves pitch so
// that u sin(theta) - (v sin(phi) + w cos(phi)) cos(theta) = vt sin(gamma).
func (t *FlightTarget) updateBody() {
	u, v, w := flight.WindToBody(t.vt, t.alpha, t.beta)
	t.x[flight.U], t.x[flight.V], t.x[flight.W] = u, v, w

	sf, cf := math.Sincos(t.x[flight.Phi])
	b := v*sf + w*cf
	r := math.Hypot(u, b)
	if r == 0 {
		return
	}
	s := math.Max(-1, math.Min(1, t.vt*math.Sin(t.gamma)/r))
	t.x[flight.Theta] = math.Atan2(b, u) + math.Asin(s)
}
