package ic

import "github.com/san-kum/fdmsim/internal/units"

// Field describes one initial-condition quantity: how it is read from a descriptor and
// where its resolved value lives in the property tree.
type Field struct {
	ID          string
	Tag         string
	Family      units.Family
	DefaultUnit string
	ICPath      string
	LivePath    string
	Header      string
	Heading     bool
}

// Field identifiers.
const (
	VT           = "vt"
	VC           = "vc"
	Mach         = "mach"
	UBody        = "ubody"
	VBody        = "vbody"
	WBody        = "wbody"
	VNorth       = "vnorth"
	VEast        = "veast"
	VDown        = "vdown"
	Latitude     = "latitude"
	LatitudeGeod = "latitudeGeod"
	Longitude    = "longitude"
	Altitude     = "altitude"
	AltitudeAGL  = "altitudeAGL"
	AltitudeGeod = "altitudeGeod"
	AltitudeMSL  = "altitudeMSL"
	Phi          = "phi"
	Theta        = "theta"
	Psi          = "psi"
	Elevation    = "elevation"
	Alpha        = "alpha"
	Beta         = "beta"
	Gamma        = "gamma"
	ROC          = "roc"
	P            = "p"
	Q            = "q"
	R            = "r"
)

const (
	rad = "RAD"
	ft  = "FT"
	fps = "FT/SEC"
	kts = "KTS"
	rps = "RAD/SEC"
)

var table = []Field{
	{VT, "vt", units.Speed, fps, "ic/vt-fps", "velocities/vt-fps", "V_{Total} (ft/s)", false},
	{VC, "vc", units.Airspeed, kts, "ic/vc-kts", "velocities/vc-kts", "/fdm/jsbsim/velocities/vc-kts", false},
	{Mach, "mach", units.Dimensionless, "", "ic/mach", "velocities/mach", "Mach", false},
	{UBody, "ubody", units.Speed, fps, "ic/u-fps", "velocities/u-fps", "UBody", false},
	{VBody, "vbody", units.Speed, fps, "ic/v-fps", "velocities/v-fps", "VBody", false},
	{WBody, "wbody", units.Speed, fps, "ic/w-fps", "velocities/w-fps", "WBody", false},
	{VNorth, "vnorth", units.Speed, fps, "ic/vn-fps", "velocities/v-north-fps", "V_{North} (ft/s)", false},
	{VEast, "veast", units.Speed, fps, "ic/ve-fps", "velocities/v-east-fps", "V_{East} (ft/s)", false},
	{VDown, "vdown", units.Speed, fps, "ic/vd-fps", "velocities/v-down-fps", "V_{Down} (ft/s)", false},
	{Latitude, "latitude", units.Angle, rad, "ic/lat-gc-deg", "position/lat-gc-deg", "Latitude (deg)", false},
	{LatitudeGeod, "latitude", units.Angle, rad, "ic/lat-geod-deg", "position/lat-geod-deg", "Latitude Geodetic (deg)", false},
	{Longitude, "longitude", units.Angle, rad, "ic/long-gc-deg", "position/long-gc-deg", "Longitude (deg)", false},
	{Altitude, "altitude", units.Length, ft, "ic/h-agl-ft", "position/h-agl-ft", "Altitude AGL (ft)", false},
	{AltitudeAGL, "altitudeAGL", units.Length, ft, "ic/h-agl-ft", "position/h-agl-ft", "Altitude AGL (ft)", false},
	{AltitudeGeod, "altitudeAGL", units.Length, ft, "ic/geod-alt-ft", "position/geod-alt-ft", "/fdm/jsbsim/position/geod-alt-ft", false},
	{AltitudeMSL, "altitudeMSL", units.Length, ft, "ic/h-sl-ft", "position/h-sl-ft", "Altitude ASL (ft)", false},
	{Phi, "phi", units.Angle, rad, "ic/phi-deg", "attitude/phi-deg", "Phi (deg)", false},
	{Theta, "theta", units.Angle, rad, "ic/theta-deg", "attitude/theta-deg", "Theta (deg)", false},
	{Psi, "psi", units.Angle, rad, "ic/psi-true-deg", "attitude/psi-deg", "Psi (deg)", true},
	{Elevation, "elevation", units.Length, ft, "ic/terrain-elevation-ft", "position/terrain-elevation-asl-ft", "Terrain Elevation (ft)", false},
	{Alpha, "alpha", units.Angle, rad, "ic/alpha-deg", "aero/alpha-deg", "Alpha (deg)", false},
	{Beta, "beta", units.Angle, rad, "ic/beta-deg", "aero/beta-deg", "Beta (deg)", false},
	{Gamma, "gamma", units.Angle, rad, "ic/gamma-deg", "flight-path/gamma-deg", "Gamma (deg)", false},
	{ROC, "roc", units.Speed, fps, "ic/roc-fps", "velocities/h-dot-fps", "Rate of Climb (ft/s)", false},
	{P, "p", units.AngularRate, rps, "ic/p-rad_sec", "velocities/p-rad_sec", "P (rad/s)", false},
	{Q, "q", units.AngularRate, rps, "ic/q-rad_sec", "velocities/q-rad_sec", "Q (rad/s)", false},
	{R, "r", units.AngularRate, rps, "ic/r-rad_sec", "velocities/r-rad_sec", "R (rad/s)", false},
}

var byID = func() map[string]*Field {
	m := make(map[string]*Field, len(table))
	for i := range table {
		m[table[i].ID] = &table[i]
	}
	return m
}()

// Fields returns a copy of the field table in its canonical order.
func Fields() []Field {
	out := make([]Field, len(table))
	copy(out, table)
	return out
}

// Lookup returns the field with the given identifier.
func Lookup(id string) (Field, bool) {
	f, ok := byID[id]
	if !ok {
		return Field{}, false
	}
	return *f, true
}

// v1Fields are read from the root of a version 1 descriptor.
var v1Fields = []string{
	VT, VC, Mach, UBody, VBody, WBody, VNorth, VEast, VDown,
	Latitude, Longitude, Altitude, AltitudeAGL, AltitudeMSL,
	Phi, Theta, Psi, Elevation, Alpha, Beta, Gamma, ROC, P, Q, R,
}

// v2RootFields are read from the root of a version 2 descriptor; everything else lives
// in the position, orientation and velocity blocks.
var v2RootFields = []string{VT, VC, Mach, Elevation, Alpha, Beta, Gamma, ROC}

// Block children of a version 2 descriptor, keyed by frame.
var (
	v2Orientation = map[string]string{"roll": Phi, "pitch": Theta, "yaw": Psi}
	v2BodyVel     = map[string]string{"x": UBody, "y": VBody, "z": WBody}
	v2LocalVel    = map[string]string{"x": VNorth, "y": VEast, "z": VDown}
	v2Rates       = map[string]string{"x": P, "y": Q, "z": R}
)
