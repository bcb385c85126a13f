package script

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/fdmsim/internal/xmldoc"
)

// Op is a comparison operator of a condition line.
type Op string

const (
	OpGE Op = "ge"
	OpLE Op = "le"
	OpGT Op = "gt"
	OpLT Op = "lt"
	OpEQ Op = "eq"
	OpNE Op = "ne"
)

var opAliases = map[string]Op{
	"ge": OpGE, ">=": OpGE, "GE": OpGE,
	"le": OpLE, "<=": OpLE, "LE": OpLE,
	"gt": OpGT, ">": OpGT, "GT": OpGT,
	"lt": OpLT, "<": OpLT, "LT": OpLT,
	"eq": OpEQ, "==": OpEQ, "EQ": OpEQ,
	"ne": OpNE, "!=": OpNE, "NE": OpNE,
}

func (o Op) compare(a, b float64) bool {
	switch o {
	case OpGE:
		return a >= b
	case OpLE:
		return a <= b
	case OpGT:
		return a > b
	case OpLT:
		return a < b
	case OpEQ:
		return a == b
	case OpNE:
		return a != b
	}
	return false
}

// Getter reads property values.
type Getter interface {
	Value(path string) float64
}

// Setter writes properties, running any command bound to the path.
type Setter interface {
	SetProperty(path string, v float64) error
}

// Properties is what events are evaluated and fired against.
type Properties interface {
	Getter
	Setter
}

// Condition is one "property op value" line. The right side is either a number or
// another property.
type Condition struct {
	Property string
	Op       Op
	Value    float64
	RHS      string
}

func (c Condition) Eval(g Getter) bool {
	rhs := c.Value
	if c.RHS != "" {
		rhs = g.Value(c.RHS)
	}
	return c.Op.compare(g.Value(c.Property), rhs)
}

func (c Condition) String() string {
	if c.RHS != "" {
		return fmt.Sprintf("%s %s %s", c.Property, c.Op, c.RHS)
	}
	return fmt.Sprintf("%s %s %g", c.Property, c.Op, c.Value)
}

// ParseCondition reads a single condition line.
func ParseCondition(line string) (Condition, error) {
	f := strings.Fields(line)
	if len(f) != 3 {
		return Condition{}, fmt.Errorf("%w: condition %q is not \"property op value\"", ErrInvalidScript, line)
	}
	op, ok := opAliases[f[1]]
	if !ok {
		return Condition{}, fmt.Errorf("%w: unknown operator %q", ErrInvalidScript, f[1])
	}
	c := Condition{Property: f[0], Op: op}
	if v, err := strconv.ParseFloat(f[2], 64); err == nil {
		c.Value = v
	} else {
		c.RHS = f[2]
	}
	return c, nil
}

// Action is how a set applies its value.
type Action string

const (
	ActionStep  Action = "FG_STEP"
	ActionDelta Action = "FG_DELTA"
)

// Assignment is a <set> of an event.
type Assignment struct {
	Property string
	Value    float64
	Action   Action
}

func (a Assignment) apply(p Properties) error {
	v := a.Value
	if a.Action == ActionDelta {
		v += p.Value(a.Property)
	}
	return p.SetProperty(a.Property, v)
}

// Event applies its assignments when its conditions become true. A persistent event
// re-arms once its conditions go false again; any other event fires at most once.
type Event struct {
	Name       string
	Persistent bool
	// Any makes the conditions a disjunction instead of a conjunction.
	Any         bool
	Conditions  []Condition
	Assignments []Assignment

	fired  bool
	active bool
	count  int
}

func parseEvent(el *xmldoc.Element) (*Event, error) {
	ev := &Event{
		Name:       strings.TrimSpace(el.Attr("name")),
		Persistent: strings.EqualFold(el.Attr("persistent"), "true"),
	}
	if d := el.ChildValue("description"); d != "" && ev.Name == "" {
		ev.Name = d
	}

	for _, c := range el.FindAll("condition") {
		if strings.EqualFold(c.Attr("logic"), "OR") {
			ev.Any = true
		}
		for _, line := range strings.Split(c.Text, "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			cond, err := ParseCondition(line)
			if err != nil {
				return nil, fmt.Errorf("event %q line %d: %w", ev.Name, c.Line, err)
			}
			ev.Conditions = append(ev.Conditions, cond)
		}
	}
	if len(ev.Conditions) == 0 {
		return nil, fmt.Errorf("%w: event %q has no condition", ErrInvalidScript, ev.Name)
	}

	for _, s := range el.FindAll("set") {
		a := Assignment{Property: strings.TrimSpace(s.Attr("name")), Action: ActionStep}
		if a.Property == "" {
			return nil, fmt.Errorf("%w: event %q line %d: set without name", ErrInvalidScript, ev.Name, s.Line)
		}
		v, err := s.AttrNumber("value")
		if err != nil {
			return nil, fmt.Errorf("%w: event %q line %d: %w", ErrInvalidScript, ev.Name, s.Line, err)
		}
		a.Value = v
		switch act := Action(strings.ToUpper(strings.TrimSpace(s.Attr("action")))); act {
		case "", ActionStep:
		case ActionDelta:
			a.Action = ActionDelta
		default:
			return nil, fmt.Errorf("%w: event %q: unsupported action %q", ErrInvalidScript, ev.Name, act)
		}
		ev.Assignments = append(ev.Assignments, a)
	}
	return ev, nil
}

// Eval reports whether the conditions hold right now.
func (e *Event) Eval(g Getter) bool {
	for _, c := range e.Conditions {
		ok := c.Eval(g)
		if e.Any && ok {
			return true
		}
		if !e.Any && !ok {
			return false
		}
	}
	return !e.Any
}

// Fired reports whether the event has run since the last Reset.
func (e *Event) Fired() bool { return e.fired }

// Count returns how many times the event has run since the last Reset.
func (e *Event) Count() int { return e.count }

// Update evaluates the event and applies its assignments on a rising edge. It returns
// whether the event fired.
func (e *Event) Update(p Properties) (bool, error) {
	now := e.Eval(p)
	rising := now && !e.active
	e.active = now
	if !rising || (e.fired && !e.Persistent) {
		return false, nil
	}
	e.fired = true
	e.count++
	for _, a := range e.Assignments {
		if err := a.apply(p); err != nil {
			return true, fmt.Errorf("event %q: %w", e.Name, err)
		}
	}
	return true, nil
}

// Reset re-arms the event.
func (e *Event) Reset() {
	e.fired, e.active, e.count = false, false, 0
}
