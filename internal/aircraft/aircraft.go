// Package aircraft loads fdm_config documents into an airframe the flight model can fly.
package aircraft

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/san-kum/fdmsim/internal/flight"
	"github.com/san-kum/fdmsim/internal/logging"
	"github.com/san-kum/fdmsim/internal/units"
	"github.com/san-kum/fdmsim/internal/xmldoc"
)

// RootName is the element name of an aircraft definition.
const RootName = "fdm_config"

// Gravity converts weight (lbs) to mass (slug).
const Gravity = 32.174049

var (
	ErrMissingSection = errors.New("aircraft: required section missing")
	ErrInvalid        = errors.New("aircraft: invalid definition")
)

// Required top-level sections.
var requiredSections = []string{"metrics", "mass_balance", "ground_reactions"}

type Metrics struct {
	WingArea float64 // ft^2
	WingSpan float64 // ft
	Chord    float64 // ft
}

// Aircraft is a loaded definition.
type Aircraft struct {
	Name         string
	Dir          string
	Metrics      Metrics
	Inertia      flight.MassProps
	EmptyWeight  float64
	Weight       float64
	MaxThrust    float64
	Contacts     int
	Coefficients Coefficients

	// Outputs are the <output> blocks of the definition, in document order.
	Outputs []*xmldoc.Element
}

// Path returns the conventional location of an aircraft definition under root.
func Path(root, name string) string {
	return filepath.Join(root, name, name+".xml")
}

// Load builds an Aircraft from a parsed fdm_config element. dir is the directory the
// definition was read from.
func Load(root *xmldoc.Element, dir string, logger *slog.Logger) (*Aircraft, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	if root == nil || root.Name != RootName {
		return nil, fmt.Errorf("%w: root is not <%s>", ErrInvalid, RootName)
	}
	for _, s := range requiredSections {
		if root.FindElement(s) == nil {
			return nil, fmt.Errorf("%w: <%s>", ErrMissingSection, s)
		}
	}

	ac := &Aircraft{Name: root.Attr("name"), Dir: dir, Coefficients: DefaultCoefficients()}

	if err := ac.readMetrics(root.FindElement("metrics")); err != nil {
		return nil, err
	}
	if err := ac.readMassBalance(root.FindElement("mass_balance")); err != nil {
		return nil, err
	}
	ac.Contacts = len(root.FindElement("ground_reactions").FindAll("contact"))

	if prop := root.FindElement("propulsion"); prop != nil {
		if err := ac.readPropulsion(prop); err != nil {
			return nil, err
		}
	}

	if aero := root.FindElement("aerodynamics"); aero != nil {
		if err := ac.Coefficients.read(aero); err != nil {
			return nil, err
		}
	} else {
		logger.Warn("no aerodynamics section, using default coefficients", "aircraft", ac.Name)
	}

	ac.Outputs = root.FindAll("output")
	return ac, nil
}

func (ac *Aircraft) readMetrics(el *xmldoc.Element) error {
	var err error
	if ac.Metrics.WingArea, err = quantity(el, "wingarea", units.Area, 0); err != nil {
		return err
	}
	if ac.Metrics.WingSpan, err = quantity(el, "wingspan", units.Length, 0); err != nil {
		return err
	}
	if ac.Metrics.Chord, err = quantity(el, "chord", units.Length, 0); err != nil {
		return err
	}
	if ac.Metrics.WingArea < 0 || ac.Metrics.WingSpan < 0 || ac.Metrics.Chord < 0 {
		return fmt.Errorf("%w: negative metrics", ErrInvalid)
	}
	return nil
}

func (ac *Aircraft) readMassBalance(el *xmldoc.Element) error {
	var err error
	mp := &ac.Inertia
	if mp.Ixx, err = quantity(el, "ixx", units.Inertia, 1); err != nil {
		return err
	}
	if mp.Iyy, err = quantity(el, "iyy", units.Inertia, 1); err != nil {
		return err
	}
	if mp.Izz, err = quantity(el, "izz", units.Inertia, 1); err != nil {
		return err
	}
	if ac.EmptyWeight, err = quantity(el, "emptywt", units.Weight, 0); err != nil {
		return err
	}

	ac.Weight = ac.EmptyWeight
	for _, pm := range el.FindAll("pointmass") {
		w, err := quantity(pm, "weight", units.Weight, 0)
		if err != nil {
			return err
		}
		ac.Weight += w
	}

	if mp.Ixx <= 0 || mp.Iyy <= 0 || mp.Izz <= 0 {
		return fmt.Errorf("%w: moments of inertia must be positive", ErrInvalid)
	}
	mp.Mass = ac.Weight / Gravity
	return nil
}

func (ac *Aircraft) readPropulsion(el *xmldoc.Element) error {
	for _, eng := range el.FindAll("engine") {
		t, err := quantity(eng, "thrust", units.Force, 0)
		if err != nil {
			return err
		}
		ac.MaxThrust += t
	}
	return nil
}

// Flyable reports whether the definition has the mass and wing data a flight model needs.
func (ac *Aircraft) Flyable() bool {
	return ac.Inertia.Mass > 0 && ac.Metrics.WingArea > 0 && ac.Metrics.WingSpan > 0 && ac.Metrics.Chord > 0
}

// quantity reads the named child as a unit-tagged value in the family's base unit.
func quantity(parent *xmldoc.Element, name string, f units.Family, def float64) (float64, error) {
	el := parent.FindElement(name)
	if el == nil {
		return def, nil
	}
	raw, err := el.Number()
	if err != nil {
		return 0, fmt.Errorf("%w: <%s>: %v", ErrInvalid, name, err)
	}
	v, err := units.Quantity{Value: raw, Family: f, Unit: el.Attr("unit")}.Resolve(f.Base())
	if err != nil {
		return 0, fmt.Errorf("<%s>: %w", name, err)
	}
	return v, nil
}
