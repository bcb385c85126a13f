package flight

import "math"

// Standard atmosphere constants, English units.
const (
	SeaLevelDensity     = 0.0023768907688 // slug/ft^3
	SeaLevelTemperature = 518.67          // Rankine
	SeaLevelPressure    = 2116.228        // lbf/ft^2

	g0          = 32.174049
	gasConstant = 1716.557
	lapseRate   = 0.00356616 // R/ft
	tropopause  = 36089.24
	heatRatio   = 1.4
)

var pressureExponent = g0 / (gasConstant * lapseRate)

// Air is the atmospheric state at one altitude.
type Air struct {
	Temperature float64 // R
	Pressure    float64 // psf
	Density     float64 // slug/ft^3
	SoundSpeed  float64 // ft/s
}

// Atmosphere returns the standard atmosphere at h feet above sea level. Above the
// tropopause the layer is isothermal.
func Atmosphere(h float64) Air {
	var t, p float64
	if h < tropopause {
		t = SeaLevelTemperature - lapseRate*h
		p = SeaLevelPressure * math.Pow(t/SeaLevelTemperature, pressureExponent)
	} else {
		t = SeaLevelTemperature - lapseRate*tropopause
		pt := SeaLevelPressure * math.Pow(t/SeaLevelTemperature, pressureExponent)
		p = pt * math.Exp(-g0*(h-tropopause)/(gasConstant*t))
	}
	return Air{
		Temperature: t,
		Pressure:    p,
		Density:     p / (gasConstant * t),
		SoundSpeed:  math.Sqrt(heatRatio * gasConstant * t),
	}
}

// Equivalent airspeed in knots for a true airspeed in ft/s at density rho.
func EquivalentAirspeed(vt, rho float64) float64 {
	return vt * math.Sqrt(rho/SeaLevelDensity) / 1.68781
}
