package flight

import "math"

// WGS84 ellipsoid in feet.
const (
	SemiMajor = 20925646.3255
	SemiMinor = 20855486.5951
)

var (
	e2 = 1 - (SemiMinor*SemiMinor)/(SemiMajor*SemiMajor)
)

// SeaLevelRadius is the distance from the earth center to the ellipsoid surface along a
// geocentric latitude (radians).
func SeaLevelRadius(latGC float64) float64 {
	c := SemiMinor * math.Cos(latGC)
	s := SemiMajor * math.Sin(latGC)
	return SemiMajor * SemiMinor / math.Sqrt(c*c+s*s)
}

// GeodeticToGeocentric converts a geodetic latitude (radians) and height above the
// ellipsoid (ft) to a geocentric latitude and radius.
func GeodeticToGeocentric(latGeod, h float64) (latGC, radius float64) {
	sin, cos := math.Sincos(latGeod)
	n := SemiMajor / math.Sqrt(1-e2*sin*sin)
	p := (n + h) * cos
	z := (n*(1-e2) + h) * sin
	return math.Atan2(z, p), math.Hypot(p, z)
}

// GeocentricToGeodetic is the inverse of GeodeticToGeocentric.
func GeocentricToGeodetic(latGC, radius float64) (latGeod, h float64) {
	sin, cos := math.Sincos(latGC)
	p := radius * cos
	z := radius * sin

	phi := math.Atan2(z, p*(1-e2))
	for i := 0; i < 10; i++ {
		s := math.Sin(phi)
		n := SemiMajor / math.Sqrt(1-e2*s*s)
		next := math.Atan2(z+e2*n*s, p)
		if math.Abs(next-phi) < 1e-15 {
			phi = next
			break
		}
		phi = next
	}

	s, c := math.Sincos(phi)
	h = p*c + z*s - SemiMajor*math.Sqrt(1-e2*s*s)
	return phi, h
}
