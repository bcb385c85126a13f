// Package flight holds the rigid-body flight state and the equations of motion that
// advance it.
//
// The state vector is laid out as
//
//	u v w      body velocity (ft/s)
//	p q r      body rates (rad/s)
//	phi theta psi  Euler angles (rad)
//	lat lon radius geocentric position (rad, rad, ft)
//
// and the control vector as aileron, elevator, rudder (normalized -1..1) and
// throttle (0..1).
package flight

import (
	"math"

	"github.com/san-kum/fdmsim/internal/dynamo"
)

// State indices.
const (
	U = iota
	V
	W
	P
	Q
	R
	Phi
	Theta
	Psi
	Lat
	Lon
	Radius
	StateDim
)

// Control indices.
const (
	Aileron = iota
	Elevator
	Rudder
	Throttle
	ControlDim
)

// NewState returns a zero state at the given geocentric position.
func NewState(latGC, lon, radius float64) dynamo.State {
	x := make(dynamo.State, StateDim)
	x[Lat], x[Lon], x[Radius] = latGC, lon, radius
	return x
}

// NewControl returns a neutral control vector.
func NewControl() dynamo.Control {
	return make(dynamo.Control, ControlDim)
}

// DCM is the body-to-local (north, east, down) rotation.
type DCM [3][3]float64

func BodyToLocal(phi, theta, psi float64) DCM {
	sf, cf := math.Sincos(phi)
	st, ct := math.Sincos(theta)
	sp, cp := math.Sincos(psi)
	return DCM{
		{ct * cp, sf*st*cp - cf*sp, cf*st*cp + sf*sp},
		{ct * sp, sf*st*sp + cf*cp, cf*st*sp - sf*cp},
		{-st, sf * ct, cf * ct},
	}
}

// Apply rotates a body vector into the local frame.
func (m DCM) Apply(x, y, z float64) (n, e, d float64) {
	return m[0][0]*x + m[0][1]*y + m[0][2]*z,
		m[1][0]*x + m[1][1]*y + m[1][2]*z,
		m[2][0]*x + m[2][1]*y + m[2][2]*z
}

// ApplyT rotates a local vector into the body frame.
func (m DCM) ApplyT(n, e, d float64) (x, y, z float64) {
	return m[0][0]*n + m[1][0]*e + m[2][0]*d,
		m[0][1]*n + m[1][1]*e + m[2][1]*d,
		m[0][2]*n + m[1][2]*e + m[2][2]*d
}

// WindToBody returns body velocity components for a true airspeed and aerodynamic angles.
func WindToBody(vt, alpha, beta float64) (u, v, w float64) {
	sa, ca := math.Sincos(alpha)
	sb, cb := math.Sincos(beta)
	return vt * ca * cb, vt * sb, vt * sa * cb
}

// AeroAngles returns true airspeed, angle of attack and sideslip for a body velocity.
func AeroAngles(u, v, w float64) (vt, alpha, beta float64) {
	vt = math.Sqrt(u*u + v*v + w*w)
	if u != 0 || w != 0 {
		alpha = math.Atan2(w, u)
	}
	if vt > 0 {
		beta = math.Asin(math.Max(-1, math.Min(1, v/vt)))
	}
	return vt, alpha, beta
}
