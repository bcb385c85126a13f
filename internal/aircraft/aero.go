package aircraft

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/fdmsim/internal/dynamo"
	"github.com/san-kum/fdmsim/internal/flight"
	"github.com/san-kum/fdmsim/internal/xmldoc"
)

// Coefficients of a linear build-up model. Control derivatives are per unit of
// normalized command; rate derivatives use the usual b/2V and c/2V scaling.
type Coefficients map[string]float64

// DefaultCoefficients describes a generic single-engine light aircraft.
func DefaultCoefficients() Coefficients {
	return Coefficients{
		"CL0": 0.25, "CLalpha": 4.6, "CLde": 0.35, "CLq": 3.9,
		"CD0": 0.027, "K": 0.054,
		"CYbeta": -0.31, "CYdr": 0.187,
		"Clbeta": -0.089, "Clp": -0.47, "Clr": 0.096, "Clda": 0.178, "Cldr": 0.0147,
		"Cm0": 0.04, "Cmalpha": -0.6, "Cmq": -12.4, "Cmde": -1.1,
		"Cnbeta": 0.065, "Cnp": -0.03, "Cnr": -0.099, "Cnda": -0.053, "Cndr": -0.0657,
	}
}

func (c Coefficients) read(aero *xmldoc.Element) error {
	for _, el := range aero.FindAll("coefficient") {
		name := strings.TrimSpace(el.Attr("name"))
		if _, ok := c[name]; !ok {
			return fmt.Errorf("%w: unknown coefficient %q", ErrInvalid, name)
		}
		v, err := el.Number()
		if err != nil {
			return fmt.Errorf("%w: coefficient %s: %v", ErrInvalid, name, err)
		}
		c[name] = v
	}
	return nil
}

// MassProps implements flight.Airframe.
func (ac *Aircraft) MassProps() flight.MassProps {
	return ac.Inertia
}

// Loads implements flight.Airframe.
func (ac *Aircraft) Loads(air flight.AirData, u dynamo.Control) flight.Loads {
	c := ac.Coefficients
	m := ac.Metrics
	da, de, dr, throttle := u[flight.Aileron], u[flight.Elevator], u[flight.Rudder], u[flight.Throttle]

	var pn, qn, rn float64
	if air.Vt > 1 {
		pn = air.P * m.WingSpan / (2 * air.Vt)
		qn = air.Q * m.Chord / (2 * air.Vt)
		rn = air.R * m.WingSpan / (2 * air.Vt)
	}

	cl := c["CL0"] + c["CLalpha"]*air.Alpha + c["CLde"]*de + c["CLq"]*qn
	cd := c["CD0"] + c["K"]*cl*cl
	cy := c["CYbeta"]*air.Beta + c["CYdr"]*dr
	croll := c["Clbeta"]*air.Beta + c["Clp"]*pn + c["Clr"]*rn + c["Clda"]*da + c["Cldr"]*dr
	cm := c["Cm0"] + c["Cmalpha"]*air.Alpha + c["Cmq"]*qn + c["Cmde"]*de
	cn := c["Cnbeta"]*air.Beta + c["Cnp"]*pn + c["Cnr"]*rn + c["Cnda"]*da + c["Cndr"]*dr

	qs := air.Qbar * m.WingArea
	lift, drag := cl*qs, cd*qs
	sa, ca := math.Sincos(air.Alpha)

	return flight.Loads{
		X: lift*sa - drag*ca + throttle*ac.MaxThrust,
		Y: cy * qs,
		Z: -lift*ca - drag*sa,
		L: croll * qs * m.WingSpan,
		M: cm * qs * m.Chord,
		N: cn * qs * m.WingSpan,
	}
}
