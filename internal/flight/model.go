package flight

import (
	"math"

	"github.com/san-kum/fdmsim/internal/dynamo"
)

// GM is the earth's gravitational parameter in ft^3/s^2.
const GM = 1.40764417572e16

// MassProps are the inertial properties of the airframe.
type MassProps struct {
	Mass float64 // slug
	Ixx  float64 // slug*ft^2
	Iyy  float64
	Izz  float64
}

// AirData is what a force model sees of the flight state.
type AirData struct {
	Vt    float64
	Alpha float64
	Beta  float64
	Qbar  float64
	Rho   float64
	P     float64
	Q     float64
	R     float64
}

// Loads are body-axis forces (lbf) and moments (ft*lbf), gravity excluded.
type Loads struct {
	X, Y, Z float64
	L, M, N float64
}

// Airframe supplies mass properties and the aerodynamic and propulsive loads.
type Airframe interface {
	MassProps() MassProps
	Loads(air AirData, u dynamo.Control) Loads
}

// Model is the six degree of freedom rigid-body system over a spherical-gravity earth.
// It satisfies dynamo.System.
type Model struct {
	Airframe         Airframe
	TerrainElevation float64
}

func NewModel(a Airframe) *Model {
	return &Model{Airframe: a}
}

func (m *Model) StateDim() int   { return StateDim }
func (m *Model) ControlDim() int { return ControlDim }

func (m *Model) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	dx, _ := m.evaluate(x, u)
	return dx
}

// Observation holds the quantities derived from one state.
type Observation struct {
	Vt, Alpha, Beta float64
	VNorth          float64
	VEast           float64
	VDown           float64
	Gamma           float64
	HSL             float64
	HAGL            float64
	LatGeod, HGeod  float64
	Qbar, Mach      float64
	VCKts           float64
	Gravity         float64
	Air             Air
	Loads           Loads

	// body accelerations, ft/s^2 and rad/s^2
	UDot, VDot, WDot float64
	PDot, QDot, RDot float64
}

// Observe evaluates the derived quantities of x under controls u.
func (m *Model) Observe(x dynamo.State, u dynamo.Control) Observation {
	_, obs := m.evaluate(x, u)
	return obs
}

func (m *Model) evaluate(x dynamo.State, u dynamo.Control) (dynamo.State, Observation) {
	var o Observation
	dx := make(dynamo.State, StateDim)

	uu, vv, ww := x[U], x[V], x[W]
	p, q, r := x[P], x[Q], x[R]
	phi, theta, psi := x[Phi], x[Theta], x[Psi]
	lat, radius := x[Lat], x[Radius]

	o.Vt, o.Alpha, o.Beta = AeroAngles(uu, vv, ww)
	o.HSL = radius - SeaLevelRadius(lat)
	o.HAGL = o.HSL - m.TerrainElevation
	o.LatGeod, o.HGeod = GeocentricToGeodetic(lat, radius)
	o.Air = Atmosphere(o.HSL)
	o.Qbar = 0.5 * o.Air.Density * o.Vt * o.Vt
	o.Mach = o.Vt / o.Air.SoundSpeed
	o.VCKts = EquivalentAirspeed(o.Vt, o.Air.Density)
	o.Gravity = GM / (radius * radius)

	dcm := BodyToLocal(phi, theta, psi)
	o.VNorth, o.VEast, o.VDown = dcm.Apply(uu, vv, ww)
	o.Gamma = math.Atan2(-o.VDown, math.Hypot(o.VNorth, o.VEast))

	mp := m.Airframe.MassProps()
	o.Loads = m.Airframe.Loads(AirData{
		Vt: o.Vt, Alpha: o.Alpha, Beta: o.Beta, Qbar: o.Qbar, Rho: o.Air.Density, P: p, Q: q, R: r,
	}, u)

	sf, cf := math.Sincos(phi)
	st, ct := math.Sincos(theta)
	g := o.Gravity

	o.UDot = o.Loads.X/mp.Mass - g*st + r*vv - q*ww
	o.VDot = o.Loads.Y/mp.Mass + g*sf*ct + p*ww - r*uu
	o.WDot = o.Loads.Z/mp.Mass + g*cf*ct + q*uu - p*vv

	o.PDot = (o.Loads.L + (mp.Iyy-mp.Izz)*q*r) / mp.Ixx
	o.QDot = (o.Loads.M + (mp.Izz-mp.Ixx)*p*r) / mp.Iyy
	o.RDot = (o.Loads.N + (mp.Ixx-mp.Iyy)*p*q) / mp.Izz

	dx[U], dx[V], dx[W] = o.UDot, o.VDot, o.WDot
	dx[P], dx[Q], dx[R] = o.PDot, o.QDot, o.RDot

	dx[Phi] = p + (q*sf+r*cf)*st/ct
	dx[Theta] = q*cf - r*sf
	dx[Psi] = (q*sf + r*cf) / ct

	dx[Lat] = o.VNorth / radius
	dx[Lon] = o.VEast / (radius * math.Cos(lat))
	dx[Radius] = -o.VDown

	return dx, o
}
