// Package ic resolves initial-condition descriptors into canonical records.
//
// Two descriptor schemas exist. Version 1 lists every quantity at the document root.
// Version 2 nests position under a <position> block whose latitude may be geocentric or
// geodetic, and optionally carries <orientation>, <velocity> and <attitude_rate> blocks.
// Each schema has its own Descriptor type; both share the field table and the unit
// converter.
package ic

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/fdmsim/internal/trim"
	"github.com/san-kum/fdmsim/internal/units"
	"github.com/san-kum/fdmsim/internal/xmldoc"
)

// RootName is the element name of an initial-condition document.
const RootName = "initialize"

var (
	ErrInvalidDescriptor  = errors.New("ic: invalid descriptor")
	ErrUnsupportedVersion = errors.New("ic: unsupported descriptor version")
)

// Descriptor is a parsed document of a known schema version.
type Descriptor interface {
	Version() Version
	Resolve() (*Record, error)
}

// V1Descriptor is a flat version 1 document.
type V1Descriptor struct {
	Root *xmldoc.Element
}

// V2Descriptor is a version 2 document with its blocks located.
type V2Descriptor struct {
	Root        *xmldoc.Element
	Position    *xmldoc.Element
	Orientation *xmldoc.Element
	Velocity    *xmldoc.Element
	Rates       *xmldoc.Element
}

func (V1Descriptor) Version() Version { return V1 }
func (V2Descriptor) Version() Version { return V2 }

// Detect reads the version attribute of el and returns the matching descriptor.
func Detect(el *xmldoc.Element) (Descriptor, error) {
	if el == nil || el.Name != RootName {
		name := "<nil>"
		if el != nil {
			name = el.Name
		}
		return nil, fmt.Errorf("%w: root element %s", ErrInvalidDescriptor, name)
	}

	version := 1.0
	if raw := strings.TrimSpace(el.Attr("version")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: version %q", ErrInvalidDescriptor, raw)
		}
		version = v
	}

	switch {
	case version >= 1 && version < 2:
		return V1Descriptor{Root: el}, nil
	case version >= 2 && version < 3:
		d := V2Descriptor{
			Root:        el,
			Position:    el.FindElement("position"),
			Orientation: el.FindElement("orientation"),
			Velocity:    el.FindElement("velocity"),
			Rates:       el.FindElement("attitude_rate"),
		}
		return d, nil
	default:
		return nil, fmt.Errorf("%w: %g", ErrUnsupportedVersion, version)
	}
}

// Resolve detects the schema of el and resolves it.
func Resolve(el *xmldoc.Element) (*Record, error) {
	d, err := Detect(el)
	if err != nil {
		return nil, err
	}
	return d.Resolve()
}

func (d V1Descriptor) Resolve() (*Record, error) {
	rec := newRecord(d.Root.Attr("name"), V1)
	for _, id := range v1Fields {
		if err := readRootField(rec, d.Root, id); err != nil {
			return nil, err
		}
	}
	if err := readTrim(rec, d.Root); err != nil {
		return nil, err
	}
	return rec, nil
}

func (d V2Descriptor) Resolve() (*Record, error) {
	rec := newRecord(d.Root.Attr("name"), V2)
	for _, id := range v2RootFields {
		if err := readRootField(rec, d.Root, id); err != nil {
			return nil, err
		}
	}

	if d.Position != nil {
		geodetic := false
		if lat := d.Position.FindElement("latitude"); lat != nil {
			id := Latitude
			if strings.HasPrefix(strings.ToLower(lat.Attr("type")), "geod") {
				id = LatitudeGeod
				geodetic = true
			}
			if err := readElement(rec, lat, id, ""); err != nil {
				return nil, err
			}
		}

		for _, c := range d.Position.Children {
			id := ""
			switch c.Name {
			case "longitude":
				id = Longitude
			case "altitude", "altitudeAGL":
				id = AltitudeAGL
				if geodetic {
					id = AltitudeGeod
				}
			case "altitudeMSL":
				id = AltitudeMSL
			}
			if id == "" {
				continue
			}
			if err := readElement(rec, c, id, ""); err != nil {
				return nil, err
			}
		}
	}

	if d.Orientation != nil {
		if err := readBlock(rec, d.Orientation, v2Orientation); err != nil {
			return nil, err
		}
	}

	if d.Velocity != nil {
		fields := v2LocalVel
		if strings.EqualFold(d.Velocity.Attr("frame"), "body") {
			fields = v2BodyVel
		}
		if err := readBlock(rec, d.Velocity, fields); err != nil {
			return nil, err
		}
	}

	if d.Rates != nil {
		if err := readBlock(rec, d.Rates, v2Rates); err != nil {
			return nil, err
		}
	}

	if err := readTrim(rec, d.Root); err != nil {
		return nil, err
	}
	return rec, nil
}

func readRootField(rec *Record, root *xmldoc.Element, id string) error {
	f := byID[id]
	el := root.FindElement(f.Tag)
	if el == nil {
		return nil
	}
	return readElement(rec, el, id, "")
}

// readBlock reads the children of a block element. A unit attribute on the block applies
// to children that carry none of their own.
func readBlock(rec *Record, block *xmldoc.Element, fields map[string]string) error {
	blockUnit := block.Attr("unit")
	for _, c := range block.Children {
		id, ok := fields[c.Name]
		if !ok {
			continue
		}
		if err := readElement(rec, c, id, blockUnit); err != nil {
			return err
		}
	}
	return nil
}

func readElement(rec *Record, el *xmldoc.Element, id, fallbackUnit string) error {
	f := byID[id]
	raw, err := el.Number()
	if err != nil {
		return fmt.Errorf("%w: <%s>: %v", ErrInvalidDescriptor, el.Name, err)
	}

	unit := el.Attr("unit")
	if strings.TrimSpace(unit) == "" {
		unit = fallbackUnit
	}
	q := units.Quantity{Value: raw, Family: f.Family, Unit: unit}
	v, err := q.Resolve(f.DefaultUnit)
	if err != nil {
		return fmt.Errorf("<%s>: %w", el.Name, err)
	}

	rec.set(Value{Field: *f, Quantity: q, Resolved: v, Specified: true})
	return nil
}

func readTrim(rec *Record, root *xmldoc.Element) error {
	el := root.FindElement("trim")
	if el == nil {
		return nil
	}
	m, err := trim.ParseMode(el.Text)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
	}
	rec.TrimMode = m
	return nil
}
