package output

import (
	"github.com/san-kum/fdmsim/internal/props"
)

// Group is a named set of columns switched on as a unit.
type Group string

const (
	GroupSimulation   Group = "simulation"
	GroupAerosurfaces Group = "aerosurfaces"
	GroupRates        Group = "rates"
	GroupVelocities   Group = "velocities"
	GroupAerodynamics Group = "aerodynamics"
	GroupAtmosphere   Group = "atmosphere"
	GroupPosition     Group = "position"
)

// Groups lists every group in the order their columns are written.
var Groups = []Group{
	GroupSimulation, GroupAerosurfaces, GroupRates, GroupVelocities,
	GroupAerodynamics, GroupAtmosphere, GroupPosition,
}

// Column is one log column.
type Column struct {
	Path   string
	Header string
}

var groupColumns = map[Group][]Column{
	GroupSimulation: {
		{"simulation/frame", "Frame"},
	},
	GroupAerosurfaces: {
		{"fcs/aileron-cmd-norm", "Aileron Command (norm)"},
		{"fcs/elevator-cmd-norm", "Elevator Command (norm)"},
		{"fcs/rudder-cmd-norm", "Rudder Command (norm)"},
		{"fcs/throttle-cmd-norm", "Throttle Command (norm)"},
	},
	GroupRates: {
		{"velocities/p-rad_sec", "P (rad/s)"},
		{"velocities/q-rad_sec", "Q (rad/s)"},
		{"velocities/r-rad_sec", "R (rad/s)"},
		{"attitude/phi-deg", "Phi (deg)"},
		{"attitude/theta-deg", "Theta (deg)"},
		{"attitude/psi-deg", "Psi (deg)"},
	},
	GroupVelocities: {
		{"aero/qbar-psf", "q bar (psf)"},
		{"velocities/vt-fps", "V_{Total} (ft/s)"},
		{"velocities/mach", "Mach"},
		{"velocities/u-fps", "UBody"},
		{"velocities/v-fps", "VBody"},
		{"velocities/w-fps", "WBody"},
		{"velocities/v-north-fps", "V_{North} (ft/s)"},
		{"velocities/v-east-fps", "V_{East} (ft/s)"},
		{"velocities/v-down-fps", "V_{Down} (ft/s)"},
		{"velocities/h-dot-fps", "Rate of Climb (ft/s)"},
	},
	GroupAerodynamics: {
		{"aero/alpha-deg", "Alpha (deg)"},
		{"aero/beta-deg", "Beta (deg)"},
		{"flight-path/gamma-deg", "Gamma (deg)"},
	},
	GroupAtmosphere: {
		{"atmosphere/rho-slugs_ft3", "Rho (slugs/ft^3)"},
		{"atmosphere/T-R", "Temperature (R)"},
		{"atmosphere/P-psf", "Pressure (psf)"},
		{"atmosphere/a-fps", "Sound Speed (ft/s)"},
	},
	GroupPosition: {
		{"position/h-sl-ft", "Altitude ASL (ft)"},
		{"position/h-agl-ft", "Altitude AGL (ft)"},
		{"position/lat-gc-deg", "Latitude (deg)"},
		{"position/long-gc-deg", "Longitude (deg)"},
		{"position/lat-geod-deg", "Latitude Geodetic (deg)"},
		{"position/terrain-elevation-asl-ft", "Terrain Elevation (ft)"},
		{"position/distance-from-start-mag-mt", "Distance From Start (m)"},
	},
}

var (
	headerByPath = map[string]string{}
	pathByHeader = map[string]string{}
)

func init() {
	for _, g := range Groups {
		for _, c := range groupColumns[g] {
			headerByPath[c.Path] = c.Header
			pathByHeader[c.Header] = c.Path
		}
	}
}

// GroupColumns returns the fixed columns of a group.
func GroupColumns(g Group) []Column {
	out := make([]Column, len(groupColumns[g]))
	copy(out, groupColumns[g])
	return out
}

// HeaderForPath returns the header a property is logged under. Paths outside the fixed
// column table are logged under their absolute property name.
func HeaderForPath(path string) string {
	p := props.Normalize(path)
	if h, ok := headerByPath[p]; ok {
		return h
	}
	return props.Absolute(p)
}

// ColumnForHeader is the inverse of HeaderForPath.
func ColumnForHeader(header string) (string, bool) {
	if p, ok := pathByHeader[header]; ok {
		return p, true
	}
	if len(header) > len(props.Prefix) && header[:len(props.Prefix)] == props.Prefix {
		return props.Normalize(header), true
	}
	return "", false
}
