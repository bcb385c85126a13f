// Package script reads run scripts: which aircraft and initial conditions to use, how
// long to run, the events that change properties along the way and the logs to keep.
package script

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/fdmsim/internal/output"
	"github.com/san-kum/fdmsim/internal/xmldoc"
)

const RootName = "runscript"

// ErrInvalidScript reports a script document that cannot be run.
var ErrInvalidScript = errors.New("script: invalid script")

// Declaration is a property a script creates before the run starts.
type Declaration struct {
	Path  string
	Value float64
}

// Script is a parsed run script.
type Script struct {
	Name       string
	Aircraft   string
	Initialize string

	Start float64
	End   float64
	// Dt is the step size requested by the script; 0 leaves the engine's own.
	Dt float64

	Declarations []Declaration
	Events       []*Event
	Outputs      []output.Directive
}

// Parse reads a <runscript> element.
func Parse(root *xmldoc.Element) (*Script, error) {
	if root == nil || root.Name != RootName {
		return nil, fmt.Errorf("%w: root element is not <%s>", ErrInvalidScript, RootName)
	}
	s := &Script{Name: root.Attr("name")}

	use := root.FindElement("use")
	if use == nil {
		return nil, fmt.Errorf("%w: missing <use>", ErrInvalidScript)
	}
	s.Aircraft = strings.TrimSpace(use.Attr("aircraft"))
	s.Initialize = strings.TrimSpace(use.Attr("initialize"))
	if s.Aircraft == "" || s.Initialize == "" {
		return nil, fmt.Errorf("%w: <use> needs aircraft and initialize", ErrInvalidScript)
	}

	run := root.FindElement("run")
	if run == nil {
		return nil, fmt.Errorf("%w: missing <run>", ErrInvalidScript)
	}
	if err := s.readRun(run); err != nil {
		return nil, err
	}

	for _, el := range root.FindAll("output") {
		d, err := output.ParseDirective(el)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrInvalidScript, el.Line, err)
		}
		s.Outputs = append(s.Outputs, d)
	}
	return s, nil
}

func (s *Script) readRun(run *xmldoc.Element) error {
	var err error
	if s.Start, err = attrNumber(run, "start", 0); err != nil {
		return err
	}
	if s.End, err = attrNumber(run, "end", 0); err != nil {
		return err
	}
	if s.Dt, err = attrNumber(run, "dt", 0); err != nil {
		return err
	}
	if s.End < s.Start {
		return fmt.Errorf("%w: end %g before start %g", ErrInvalidScript, s.End, s.Start)
	}
	if s.Dt < 0 {
		return fmt.Errorf("%w: negative dt %g", ErrInvalidScript, s.Dt)
	}

	for _, p := range run.FindAll("property") {
		v, err := attrNumber(p, "value", 0)
		if err != nil {
			return err
		}
		if p.Text == "" {
			return fmt.Errorf("%w: line %d: empty property declaration", ErrInvalidScript, p.Line)
		}
		s.Declarations = append(s.Declarations, Declaration{Path: p.Text, Value: v})
	}

	for i, el := range run.FindAll("event") {
		ev, err := parseEvent(el)
		if err != nil {
			return err
		}
		if ev.Name == "" {
			ev.Name = "event " + strconv.Itoa(i)
		}
		s.Events = append(s.Events, ev)
	}
	return nil
}

func attrNumber(el *xmldoc.Element, name string, def float64) (float64, error) {
	raw := strings.TrimSpace(el.Attr(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: line %d: %s=%q", ErrInvalidScript, el.Line, name, raw)
	}
	return v, nil
}
