// Package units converts tagged physical quantities to the engine's internal units.
//
// Every family has a fixed table of unit tokens and the factor that converts a value
// expressed in that unit to the family's base unit:
//
//   - [Length]: FT
//   - [Speed]: FT/SEC
//   - [Angle]: DEG
//   - [Airspeed]: KTS
//   - [AngularRate]: RAD/SEC
//   - [Area], [Weight], [Force], [Inertia]: FT2, LBS, LBS, SLUG*FT2
//
// The tables are immutable and safe to share between engines.
package units

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnknownUnit is returned when a unit token is not in the family's table.
var ErrUnknownUnit = errors.New("units: unknown unit")

// Family identifies a physical quantity family.
type Family int

const (
	Dimensionless Family = iota
	Length
	Speed
	Angle
	Airspeed
	AngularRate
	Area
	Weight
	Force
	Inertia
)

const (
	FtPerMeter = 3.2808399
	FpsPerKnot = 1.68781
	DegPerRad  = 57.295779513082320876798154814105
	LbsPerKg   = 2.20462262
)

type table struct {
	name    string
	base    string
	factors map[string]float64
}

var tables = map[Family]table{
	Dimensionless: {name: "dimensionless", base: "", factors: map[string]float64{"": 1.0}},
	Length: {name: "length", base: "FT", factors: map[string]float64{
		"FT": 1.0,
		"M":  FtPerMeter,
		"IN": 1.0 / 12.0,
		"KM": 1000.0 * FtPerMeter,
	}},
	Speed: {name: "speed", base: "FT/SEC", factors: map[string]float64{
		"FT/SEC": 1.0,
		"FT/S":   1.0,
		"KTS":    FpsPerKnot,
		"M/SEC":  FtPerMeter,
		"M/S":    FtPerMeter,
	}},
	Angle: {name: "angle", base: "DEG", factors: map[string]float64{
		"DEG": 1.0,
		"RAD": DegPerRad,
	}},
	Airspeed: {name: "airspeed", base: "KTS", factors: map[string]float64{
		"KTS":    1.0,
		"FT/SEC": 1.0 / FpsPerKnot,
		"M/SEC":  FtPerMeter / FpsPerKnot,
	}},
	AngularRate: {name: "angular rate", base: "RAD/SEC", factors: map[string]float64{
		"RAD/SEC": 1.0,
		"DEG/SEC": 1.0 / DegPerRad,
	}},
	Area: {name: "area", base: "FT2", factors: map[string]float64{
		"FT2": 1.0,
		"M2":  FtPerMeter * FtPerMeter,
	}},
	Weight: {name: "weight", base: "LBS", factors: map[string]float64{
		"LBS": 1.0,
		"KG":  LbsPerKg,
	}},
	Force: {name: "force", base: "LBS", factors: map[string]float64{
		"LBS": 1.0,
		"N":   0.224808943,
	}},
	Inertia: {name: "inertia", base: "SLUG*FT2", factors: map[string]float64{
		"SLUG*FT2": 1.0,
		"KG*M2":    0.737562149,
	}},
}

func (f Family) String() string {
	if t, ok := tables[f]; ok {
		return t.name
	}
	return fmt.Sprintf("family(%d)", int(f))
}

// Base returns the unit token values of the family are converted to.
func (f Family) Base() string {
	return tables[f].base
}

// Factor returns the multiplier from unit to the family's base unit.
func Factor(f Family, unit string) (float64, error) {
	t, ok := tables[f]
	if !ok {
		return 0, fmt.Errorf("%w: no table for %v", ErrUnknownUnit, f)
	}
	token := strings.ToUpper(strings.TrimSpace(unit))
	if token == "" {
		token = t.base
	}
	k, ok := t.factors[token]
	if !ok {
		return 0, fmt.Errorf("%w: %q is not a %s unit", ErrUnknownUnit, unit, t.name)
	}
	return k, nil
}

// Convert returns value, expressed in unit, in the family's base unit.
// An empty unit means the value is already in the base unit.
func Convert(value float64, f Family, unit string) (float64, error) {
	k, err := Factor(f, unit)
	if err != nil {
		return 0, err
	}
	return value * k, nil
}

// Quantity is a value read from a document, with its family and optional unit token.
type Quantity struct {
	Value  float64
	Family Family
	Unit   string
}

// Resolve converts q to its family's base unit, using defaultUnit when q carries no unit.
func (q Quantity) Resolve(defaultUnit string) (float64, error) {
	unit := q.Unit
	if strings.TrimSpace(unit) == "" {
		unit = defaultUnit
	}
	return Convert(q.Value, q.Family, unit)
}

// WrapDegrees maps an angle in degrees to [0, 360).
func WrapDegrees(deg float64) float64 {
	w := math.Mod(deg, 360.0)
	if w < 0 {
		w += 360.0
	}
	if w >= 360.0 {
		w = 0
	}
	return w
}

// AnglesEqualDeg reports whether two headings in degrees are within tol of each other,
// with 360 and 0 treated as the same direction.
func AnglesEqualDeg(a, b, tol float64) bool {
	d := math.Abs(WrapDegrees(a) - WrapDegrees(b))
	if d > 180.0 {
		d = 360.0 - d
	}
	return d <= tol
}
