package config

import "sort"

// Presets are named step configurations.
var Presets = map[string]*Config{
	"realtime": {Dt: 1.0 / 120.0, Integrator: "rk4"},
	"coarse":   {Dt: 1.0 / 60.0, Integrator: "euler"},
	"precise":  {Dt: 1.0 / 480.0, Integrator: "rk45"},
}

// GetPreset returns a default configuration with the named preset's step settings
// applied, or nil if there is no such preset.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Dt = p.Dt
	cfg.Integrator = p.Integrator
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
