package InputParameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polylab/polycrit/types"
)

var testDeck = []byte(`
Title: "Six Hump Camel"
Objective: sixhumpcamel
StartDegree: 4
MaxDegree: 12
Tolerance: 1.e-4
Seed: 42
OutputDir: /tmp/out
`)

func TestParse(t *testing.T) {
	ip := &InputParameters{}
	require.NoError(t, ip.Parse(testDeck))
	assert.Equal(t, "Six Hump Camel", ip.Title)
	assert.Equal(t, "sixhumpcamel", ip.Objective)
	assert.Equal(t, 4, ip.StartDegree)
	assert.Equal(t, 12, ip.MaxDegree)
	assert.InDelta(t, 1.e-4, ip.Tolerance, 1.e-12)
	assert.Equal(t, int64(42), ip.Seed)
	assert.Equal(t, "/tmp/out", ip.OutputDir)
}

func TestParseBadYAML(t *testing.T) {
	ip := &InputParameters{}
	err := ip.Parse([]byte("Title: [unclosed"))
	assert.ErrorIs(t, err, types.ErrConfiguration)
}

func TestValidateDefaults(t *testing.T) {
	ip := &InputParameters{Objective: "sphere"}
	require.NoError(t, ip.Validate())
	assert.Equal(t, 2, ip.StartDegree)
	assert.Equal(t, 2, ip.MaxDegree, "no auto-increase unless the deck asks")
	assert.Greater(t, ip.Tolerance, 0.)
	assert.Equal(t, "critical_points", ip.OutputBase)
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name string
		ip   InputParameters
	}{
		{"no objective", InputParameters{}},
		{"negative degree", InputParameters{Objective: "sphere", StartDegree: -1}},
		{"ceiling below start", InputParameters{Objective: "sphere", StartDegree: 5, MaxDegree: 3}},
		{"negative tolerance", InputParameters{Objective: "sphere", Tolerance: -1}},
		{"box dimension mismatch", InputParameters{Objective: "sphere",
			Center: []float64{0, 0}, HalfWidths: []float64{1}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.ip.Validate(), types.ErrConfiguration)
		})
	}
}

func TestDomainOverride(t *testing.T) {
	def, err := types.NewCubeDomain(2, 0, 1.2)
	require.NoError(t, err)

	ip := &InputParameters{Objective: "sphere"}
	require.NoError(t, ip.Validate())
	d, err := ip.Domain(def)
	require.NoError(t, err)
	assert.Equal(t, def, d)

	ip.Center = []float64{1, 2}
	ip.HalfWidths = []float64{0.5, 0.5}
	require.NoError(t, ip.Validate())
	d, err = ip.Domain(def)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, d.Center)
}
