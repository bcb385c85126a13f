// Package metrics accumulates scalar figures over the committed states of a run.
package metrics

import (
	"math"

	"github.com/san-kum/fdmsim/internal/dynamo"
	"github.com/san-kum/fdmsim/internal/flight"
)

// Metric observes every committed step of a run.
type Metric interface {
	Name() string
	Observe(x dynamo.State, u dynamo.Control, t float64)
	Value() float64
	Reset()
}

// Defaults returns the metrics reported for every scripted run.
func Defaults() []Metric {
	return []Metric{
		NewEnergyDrift(),
		NewControlEffort(),
		NewEnvelope(DefaultAlphaLimit, DefaultBankLimit),
	}
}

const g0 = 32.174049 // ft/s²

// energyHeight is the specific total energy in feet: geocentric radius plus the
// kinetic term V²/2g.
func energyHeight(x dynamo.State) float64 {
	vt2 := x[flight.U]*x[flight.U] + x[flight.V]*x[flight.V] + x[flight.W]*x[flight.W]
	return x[flight.Radius] + vt2/(2*g0)
}

// EnergyDrift is the largest change of energy height from the first observed state, in
// feet. Unpowered gliding flight loses energy; trimmed cruise should hold it.
type EnergyDrift struct {
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift { return &EnergyDrift{} }

func (e *EnergyDrift) Name() string { return "energy_drift_ft" }

func (e *EnergyDrift) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if len(x) < flight.StateDim {
		return
	}
	h := energyHeight(x)
	if e.samples == 0 {
		e.initial = h
	}
	e.samples++
	e.maxDrift = math.Max(e.maxDrift, math.Abs(h-e.initial))
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() { *e = EnergyDrift{} }

// ControlEffort is the mean over steps of the summed control deflection change, which
// is zero for a run that holds its controls.
type ControlEffort struct {
	last    dynamo.Control
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort { return &ControlEffort{} }

func (c *ControlEffort) Name() string { return "control_effort" }

func (c *ControlEffort) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if c.last != nil {
		for i := range min(len(u), len(c.last)) {
			c.sum += math.Abs(u[i] - c.last[i])
		}
		c.samples++
	}
	c.last = u.Clone()
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() { *c = ControlEffort{} }

const (
	DefaultAlphaLimit = 16 * math.Pi / 180
	DefaultBankLimit  = 60 * math.Pi / 180
)

// Envelope is the fraction of steps flown with angle of attack and bank inside their
// limits (radians). It is 1 for a run that never leaves the envelope.
type Envelope struct {
	alphaLimit float64
	bankLimit  float64
	violations int
	samples    int
}

func NewEnvelope(alphaLimit, bankLimit float64) *Envelope {
	return &Envelope{alphaLimit: alphaLimit, bankLimit: bankLimit}
}

func (e *Envelope) Name() string { return "envelope" }

func (e *Envelope) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if len(x) < flight.StateDim {
		return
	}
	e.samples++
	alpha := math.Atan2(x[flight.W], x[flight.U])
	if math.Abs(alpha) > e.alphaLimit || math.Abs(x[flight.Phi]) > e.bankLimit {
		e.violations++
	}
}

func (e *Envelope) Value() float64 {
	if e.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(e.violations)/float64(e.samples)
}

func (e *Envelope) Reset() {
	e.violations = 0
	e.samples = 0
}
