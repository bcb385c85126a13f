package output

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/fdmsim/internal/props"
	"github.com/san-kum/fdmsim/internal/xmldoc"
)

// ErrInvalidDirective reports an output block that cannot be used.
var ErrInvalidDirective = errors.New("output: invalid directive")

// MaxRate is the highest accepted sample rate in Hz.
const MaxRate = 1000.0

// Format is the layout of a log file.
type Format string

const (
	CSV     Format = "CSV"
	Tabular Format = "TABULAR"
)

// Property is an extra logged property.
type Property struct {
	Path    string
	Caption string
}

// Directive describes one log: where it goes, how often it is sampled and what it holds.
type Directive struct {
	Name       string
	Format     Format
	Rate       float64
	Groups     map[Group]bool
	Properties []Property
}

// ParseDirective reads an <output> element.
func ParseDirective(el *xmldoc.Element) (Directive, error) {
	d := Directive{
		Name:   strings.TrimSpace(el.Attr("name")),
		Format: Format(strings.ToUpper(strings.TrimSpace(el.Attr("type")))),
		Rate:   1,
		Groups: make(map[Group]bool),
	}
	if d.Format == "" {
		d.Format = CSV
	}
	if d.Format != CSV && d.Format != Tabular {
		return d, fmt.Errorf("%w: type %q", ErrInvalidDirective, el.Attr("type"))
	}
	if d.Name == "" {
		return d, fmt.Errorf("%w: missing name", ErrInvalidDirective)
	}

	if raw := strings.TrimSpace(el.Attr("rate")); raw != "" {
		r, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return d, fmt.Errorf("%w: rate %q", ErrInvalidDirective, raw)
		}
		d.Rate = r
	}
	d.Rate = math.Max(0, math.Min(MaxRate, d.Rate))

	for _, g := range Groups {
		if c := el.FindElement(string(g)); c != nil && strings.EqualFold(c.Text, "ON") {
			d.Groups[g] = true
		}
	}
	if c := el.FindElement("fcs"); c != nil && strings.EqualFold(c.Text, "ON") {
		d.Groups[GroupAerosurfaces] = true
	}

	for _, p := range el.FindAll("property") {
		path := strings.TrimSpace(p.Text)
		if path == "" {
			continue
		}
		d.Properties = append(d.Properties, Property{Path: path, Caption: strings.TrimSpace(p.Attr("caption"))})
	}
	return d, nil
}

// Enabled reports whether the directive samples at all.
func (d Directive) Enabled() bool {
	return d.Rate > 0
}

// Frames returns how many steps of length dt separate two samples, or 0 when disabled.
func (d Directive) Frames(dt float64) int {
	if !d.Enabled() || dt <= 0 {
		return 0
	}
	n := int(0.5 + 1.0/(dt*d.Rate))
	if n < 1 {
		n = 1
	}
	return n
}

// Columns resolves the directive into its columns in write order. Extra properties for
// which known returns false are reported in skipped and left out.
func (d Directive) Columns(known func(path string) bool) (cols []Column, skipped []string) {
	for _, g := range Groups {
		if d.Groups[g] {
			cols = append(cols, groupColumns[g]...)
		}
	}
	for _, p := range d.Properties {
		if !known(p.Path) {
			skipped = append(skipped, p.Path)
			continue
		}
		h := p.Caption
		if h == "" {
			h = HeaderForPath(p.Path)
		}
		cols = append(cols, Column{Path: props.Normalize(p.Path), Header: h})
	}
	return cols, skipped
}
