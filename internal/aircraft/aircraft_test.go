package aircraft

import (
	"strings"
	"testing"

	"github.com/san-kum/fdmsim/internal/flight"
	"github.com/san-kum/fdmsim/internal/units"
	"github.com/san-kum/fdmsim/internal/xmldoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const c172 = `<fdm_config name="c172x" version="2.0">
  <metrics>
    <wingarea unit="FT2">174</wingarea>
    <wingspan unit="FT">35.8</wingspan>
    <chord unit="FT">4.9</chord>
  </metrics>
  <mass_balance>
    <ixx unit="SLUG*FT2">948</ixx>
    <iyy unit="SLUG*FT2">1346</iyy>
    <izz unit="SLUG*FT2">1967</izz>
    <emptywt unit="LBS">1620</emptywt>
    <pointmass name="pilot"><weight unit="KG">100</weight></pointmass>
  </mass_balance>
  <ground_reactions>
    <contact type="BOGEY" name="NOSE"/>
    <contact type="BOGEY" name="LEFT_MLG"/>
  </ground_reactions>
  <propulsion>
    <engine name="io320"><thrust unit="LBS">500</thrust></engine>
  </propulsion>
  <aerodynamics>
    <coefficient name="CD0">0.03</coefficient>
  </aerodynamics>
  <output name="out.csv" type="CSV" rate="10"><position>ON</position></output>
</fdm_config>`

func load(t *testing.T, doc string) (*Aircraft, error) {
	t.Helper()
	root, err := xmldoc.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	return Load(root, "/aircraft/c172x", nil)
}

func TestLoad(t *testing.T) {
	ac, err := load(t, c172)
	require.NoError(t, err)

	assert.Equal(t, "c172x", ac.Name)
	assert.Equal(t, 174.0, ac.Metrics.WingArea)
	assert.Equal(t, 1967.0, ac.Inertia.Izz)
	assert.InDelta(t, 1620+100*units.LbsPerKg, ac.Weight, 1e-9)
	assert.InDelta(t, ac.Weight/Gravity, ac.Inertia.Mass, 1e-12)
	assert.Equal(t, 500.0, ac.MaxThrust)
	assert.Equal(t, 2, ac.Contacts)
	assert.Equal(t, 0.03, ac.Coefficients["CD0"])
	assert.Equal(t, 4.6, ac.Coefficients["CLalpha"])
	assert.Len(t, ac.Outputs, 1)
	assert.True(t, ac.Flyable())
}

func TestLoad_MissingSections(t *testing.T) {
	for _, section := range requiredSections {
		t.Run(section, func(t *testing.T) {
			doc := strings.Replace(c172, "<"+section+">", "<x"+section+">", 1)
			doc = strings.Replace(doc, "</"+section+">", "</x"+section+">", 1)
			_, err := load(t, doc)
			assert.ErrorIs(t, err, ErrMissingSection)
		})
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want error
	}{
		{"unknown coefficient", `name="CD0"`, `name="CDzz"`, ErrInvalid},
		{"bad number", `>174<`, `>wide<`, ErrInvalid},
		{"bad unit", `unit="FT2"`, `unit="ACRE"`, units.ErrUnknownUnit},
		{"zero inertia", `>948<`, `>0<`, ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(t, strings.Replace(c172, tt.from, tt.to, 1))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	root, err := xmldoc.Parse(strings.NewReader(`<initialize/>`))
	require.NoError(t, err)
	_, err = Load(root, "", nil)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLoad_EmptyAircraft(t *testing.T) {
	ac, err := load(t, `<fdm_config name="blank"><metrics/><mass_balance/><ground_reactions/></fdm_config>`)
	require.NoError(t, err)
	assert.False(t, ac.Flyable())
	assert.Equal(t, DefaultCoefficients(), ac.Coefficients)
}

func TestLoads(t *testing.T) {
	ac, err := load(t, c172)
	require.NoError(t, err)

	air := flight.AirData{Vt: 180, Alpha: 0.03, Qbar: 34}
	ctl := []float64{0, 0, 0, 0.5}
	l := ac.Loads(air, ctl)

	assert.Less(t, l.Z, 0.0, "lift acts up, body z is down")
	assert.Greater(t, l.X, 0.0, "half throttle exceeds cruise drag")
	assert.InDelta(t, 0.0, l.Y, 1e-12)
	assert.InDelta(t, 0.0, l.L, 1e-12)

	// nose-down moment grows with elevator
	up := ac.Loads(air, []float64{0, 0.5, 0, 0.5})
	assert.Less(t, up.M, l.M)

	assert.Equal(t, ac.Inertia, ac.MassProps())
}

func TestPath(t *testing.T) {
	assert.Equal(t, "/root/aircraft/c172x/c172x.xml", Path("/root/aircraft", "c172x"))
}
