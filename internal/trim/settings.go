package trim

import "github.com/san-kum/fdmsim/internal/props"

// SettingsRoot is the property subtree the solver reads its settings from.
const SettingsRoot = "trim/solver/"

// Bounds is the search interval and starting value of one trim variable.
type Bounds struct {
	Guess float64
	Min   float64
	Max   float64
}

// Settings configure a trim run.
type Settings struct {
	RelTol        float64
	AbsTol        float64
	MaxIterations int
	MaxCycles     int

	Throttle Bounds
	Elevator Bounds
	Alpha    Bounds
	Beta     Bounds
	Aileron  Bounds
	Rudder   Bounds
}

func DefaultSettings() Settings {
	return Settings{
		RelTol:        1e-4,
		AbsTol:        1e-3,
		MaxIterations: 2000,
		MaxCycles:     60,
		Throttle:      Bounds{Guess: 0.5, Min: 0, Max: 1},
		Elevator:      Bounds{Guess: -0.1, Min: -1, Max: 1},
		Alpha:         Bounds{Guess: 0.05, Min: -0.1, Max: 0.18},
		Beta:          Bounds{Guess: 0, Min: -0.3, Max: 0.3},
		Aileron:       Bounds{Guess: 0, Min: -1, Max: 1},
		Rudder:        Bounds{Guess: 0, Min: -1, Max: 1},
	}
}

func (s *Settings) bounds(v Variable) *Bounds {
	switch v {
	case AlphaVar:
		return &s.Alpha
	case ThrottleVar:
		return &s.Throttle
	case ElevatorVar:
		return &s.Elevator
	case BetaVar:
		return &s.Beta
	case AileronVar:
		return &s.Aileron
	default:
		return &s.Rudder
	}
}

type setting struct {
	name string
	get  func(*Settings) float64
	set  func(*Settings, float64)
}

func boundSettings(prefix string, b func(*Settings) *Bounds) []setting {
	return []setting{
		{prefix + "Guess", func(s *Settings) float64 { return b(s).Guess }, func(s *Settings, v float64) { b(s).Guess = v }},
		{prefix + "Min", func(s *Settings) float64 { return b(s).Min }, func(s *Settings, v float64) { b(s).Min = v }},
		{prefix + "Max", func(s *Settings) float64 { return b(s).Max }, func(s *Settings, v float64) { b(s).Max = v }},
	}
}

var settingTable = func() []setting {
	out := []setting{
		{"rtol", func(s *Settings) float64 { return s.RelTol }, func(s *Settings, v float64) { s.RelTol = v }},
		{"abstol", func(s *Settings) float64 { return s.AbsTol }, func(s *Settings, v float64) { s.AbsTol = v }},
		{"iterMax", func(s *Settings) float64 { return float64(s.MaxIterations) }, func(s *Settings, v float64) { s.MaxIterations = int(v) }},
		{"maxCycles", func(s *Settings) float64 { return float64(s.MaxCycles) }, func(s *Settings, v float64) { s.MaxCycles = int(v) }},
	}
	out = append(out, boundSettings("throttle", func(s *Settings) *Bounds { return &s.Throttle })...)
	out = append(out, boundSettings("elevator", func(s *Settings) *Bounds { return &s.Elevator })...)
	out = append(out, boundSettings("alpha", func(s *Settings) *Bounds { return &s.Alpha })...)
	out = append(out, boundSettings("beta", func(s *Settings) *Bounds { return &s.Beta })...)
	out = append(out, boundSettings("aileron", func(s *Settings) *Bounds { return &s.Aileron })...)
	out = append(out, boundSettings("rudder", func(s *Settings) *Bounds { return &s.Rudder })...)
	return out
}()

// Seed writes s under trim/solver/ without overwriting values already present.
func (s Settings) Seed(t *props.Tree) {
	for _, st := range settingTable {
		t.SetDefault(SettingsRoot+st.name, st.get(&s))
	}
}

// ReadSettings reads trim/solver/ back, keeping base values for missing entries.
func ReadSettings(t *props.Tree, base Settings) Settings {
	s := base
	for _, st := range settingTable {
		if v, err := t.Get(SettingsRoot + st.name); err == nil {
			st.set(&s, v)
		}
	}
	return s
}
