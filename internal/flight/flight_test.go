package flight

import (
	"math"
	"testing"

	"github.com/san-kum/fdmsim/internal/dynamo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeodeticRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		latDeg float64
		h      float64
	}{
		{"equator", 0, 0},
		{"mid latitude", 47.0, 4000},
		{"southern", -33.9, 12000},
		{"high latitude", 78.2, 150},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat := tt.latDeg * math.Pi / 180
			gc, radius := GeodeticToGeocentric(lat, tt.h)
			back, h := GeocentricToGeodetic(gc, radius)
			assert.InDelta(t, lat, back, 1e-12)
			assert.InDelta(t, tt.h, h, 1e-6)
		})
	}
}

func TestGeocentricLatitudeIsSmaller(t *testing.T) {
	lat := 45 * math.Pi / 180
	gc, _ := GeodeticToGeocentric(lat, 0)
	assert.Less(t, gc, lat)
	assert.InDelta(t, 0.1924, (lat-gc)*180/math.Pi, 1e-3)
}

func TestSeaLevelRadius(t *testing.T) {
	assert.InDelta(t, SemiMajor, SeaLevelRadius(0), 1e-6)
	assert.InDelta(t, SemiMinor, SeaLevelRadius(math.Pi/2), 1e-6)

	gc, radius := GeodeticToGeocentric(0.6, 0)
	assert.InDelta(t, SeaLevelRadius(gc), radius, 1e-6)
}

func TestAtmosphere(t *testing.T) {
	sl := Atmosphere(0)
	assert.InDelta(t, SeaLevelDensity, sl.Density, 1e-6)
	assert.InDelta(t, 1116.45, sl.SoundSpeed, 0.5)

	a := Atmosphere(10000)
	assert.InDelta(t, 0.0017556, a.Density, 2e-6)

	strat := Atmosphere(40000)
	assert.Less(t, strat.Density, Atmosphere(36000).Density)
	assert.Equal(t, strat.Temperature, Atmosphere(50000).Temperature)
}

func TestDCMRoundTrip(t *testing.T) {
	m := BodyToLocal(0.1, -0.2, 2.5)
	n, e, d := m.Apply(100, 5, -3)
	x, y, z := m.ApplyT(n, e, d)
	assert.InDelta(t, 100, x, 1e-9)
	assert.InDelta(t, 5, y, 1e-9)
	assert.InDelta(t, -3, z, 1e-9)

	level := BodyToLocal(0, 0, math.Pi/2)
	n, e, _ = level.Apply(1, 0, 0)
	assert.InDelta(t, 0, n, 1e-12)
	assert.InDelta(t, 1, e, 1e-12)
}

func TestAeroAngles(t *testing.T) {
	u, v, w := WindToBody(150, 0.05, 0.02)
	vt, alpha, beta := AeroAngles(u, v, w)
	assert.InDelta(t, 150, vt, 1e-9)
	assert.InDelta(t, 0.05, alpha, 1e-12)
	assert.InDelta(t, 0.02, beta, 1e-12)

	vt, alpha, beta = AeroAngles(0, 0, 0)
	assert.Zero(t, vt)
	assert.Zero(t, alpha)
	assert.Zero(t, beta)
}

type ballistic struct{}

func (ballistic) MassProps() MassProps {
	return MassProps{Mass: 10, Ixx: 1, Iyy: 1, Izz: 1}
}
func (ballistic) Loads(AirData, dynamo.Control) Loads { return Loads{} }

func TestModelFreeFall(t *testing.T) {
	m := NewModel(ballistic{})
	_, radius := GeodeticToGeocentric(0, 1000)
	x := NewState(0, 0, radius)

	obs := m.Observe(x, NewControl())
	assert.InDelta(t, 1000, obs.HSL, 1e-6)
	assert.InDelta(t, 32.1, obs.Gravity, 0.1)
	assert.InDelta(t, obs.Gravity, obs.WDot, 1e-12)
	assert.Zero(t, obs.UDot)

	dx := m.Derive(x, NewControl(), 0)
	require.Len(t, dx, StateDim)
	assert.Zero(t, dx[Radius])
}

func TestModelKinematics(t *testing.T) {
	m := NewModel(ballistic{})
	_, radius := GeodeticToGeocentric(0, 5000)
	x := NewState(0, 0, radius)
	x[U] = 200
	x[Psi] = math.Pi / 2
	x[Theta] = 0.1

	obs := m.Observe(x, NewControl())
	assert.InDelta(t, 200*math.Cos(0.1), obs.VEast, 1e-9)
	assert.InDelta(t, -200*math.Sin(0.1), obs.VDown, 1e-9)
	assert.InDelta(t, 0.1, obs.Gamma, 1e-12)

	dx := m.Derive(x, NewControl(), 0)
	assert.InDelta(t, obs.VEast/radius, dx[Lon], 1e-15)
	assert.InDelta(t, 200*math.Sin(0.1), dx[Radius], 1e-9)
}
