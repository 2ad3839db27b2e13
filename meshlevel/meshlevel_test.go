package meshlevel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mastercactapus/plotarm/coord"
)

func TestTilt(t *testing.T) {
	tilt := Tilt{Slope: 0.02}

	assert.Equal(t, 0.0, tilt.DeltaZ(coord.Pt(0, 5), coord.Pt(100, 5)))
	assert.InDelta(t, 0.2, tilt.DeltaZ(coord.Pt(0, 0), coord.Pt(0, 10)), 1e-12)
	assert.InDelta(t, -0.4, tilt.DeltaZ(coord.Pt(3, 10), coord.Pt(7, -10)), 1e-12)

	// linear in dy
	a := tilt.DeltaZ(coord.Pt(0, 0), coord.Pt(0, 3))
	b := tilt.DeltaZ(coord.Pt(0, 3), coord.Pt(0, 7))
	assert.InDelta(t, tilt.DeltaZ(coord.Pt(0, 0), coord.Pt(0, 7)), a+b, 1e-12)
}

func TestMesh(t *testing.T) {
	// probes indicate a rise of 30mm over 100mm, or .3mm Z for every 1mm X
	probes := []coord.Point{
		{X: -700, Y: -450, Z: -80},
		{X: -700, Y: -550, Z: -80},

		{X: -600, Y: -450, Z: -50},
		{X: -600, Y: -550, Z: -50},
	}

	s, err := FromPoints(probes)
	require.NoError(t, err)

	assert.InDelta(t, 0.9, s.DeltaZ(coord.Pt(-650, -500), coord.Pt(-647, -500)), 1e-9)
	assert.InDelta(t, 0, s.DeltaZ(coord.Pt(-650, -500), coord.Pt(-650, -460)), 1e-9)

	ok, z := s.OffsetZ(-700, -500)
	assert.True(t, ok)
	assert.InDelta(t, 0, z, 1e-9)

	// leaving the probed area is not compensated
	assert.Equal(t, 0.0, s.DeltaZ(coord.Pt(-650, -500), coord.Pt(0, 0)))
}

func TestPlaneSurface(t *testing.T) {
	s, err := FromPoints([]coord.Point{{X: 0, Y: 0, Z: 1}, {X: 10, Y: 0, Z: 1}, {X: 0, Y: 10, Z: 11}})
	require.NoError(t, err)

	assert.InDelta(t, 5, s.DeltaZ(coord.Pt(0, 0), coord.Pt(5, 5)), 1e-9)
	// a plane extends past its points
	assert.InDelta(t, 20, s.DeltaZ(coord.Pt(0, 0), coord.Pt(-50, 20)), 1e-9)

	_, err = FromPoints([]coord.Point{{X: 0}, {X: 1}, {X: 2}})
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	c, err := New(0, nil)
	require.NoError(t, err)
	assert.Equal(t, None{}, c)

	c, err = New(0.1, nil)
	require.NoError(t, err)
	assert.Equal(t, Tilt{Slope: 0.1}, c)

	c, err = New(0.1, []coord.Point{{X: 0, Y: 0, Z: 0}, {X: 10, Y: 0, Z: 0}, {X: 0, Y: 10, Z: 10}})
	require.NoError(t, err)
	assert.InDelta(t, 1.0+10, c.DeltaZ(coord.Pt(0, 0), coord.Pt(0, 10)), 1e-9)

	_, err = New(0, []coord.Point{{X: 1, Y: 1}})
	assert.Equal(t, ErrTooFewPoints, err)
}
