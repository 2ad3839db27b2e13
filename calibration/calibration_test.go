package calibration

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mastercactapus/plotarm/coord"
	"github.com/mastercactapus/plotarm/meshlevel"
	"github.com/mastercactapus/plotarm/motion"
)

func TestLoad_Missing(t *testing.T) {
	cal, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cal)
	assert.Equal(t, 6.0, cal.ZUp)
}

func TestLoad_Partial(t *testing.T) {
	name := filepath.Join(t.TempDir(), "cal.json")
	require.NoError(t, os.WriteFile(name, []byte(`{"z_up": 4.5}`), 0644))

	cal, err := Load(name)
	require.NoError(t, err)
	assert.Equal(t, 4.5, cal.ZUp)
	assert.Equal(t, 0.0, cal.TiltSlope)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"z_up": `), 0644))
	_, err := Load(bad)
	assert.Error(t, err)

	neg := filepath.Join(dir, "neg.json")
	require.NoError(t, os.WriteFile(neg, []byte(`{"z_up": -1}`), 0644))
	_, err = Load(neg)
	assert.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	name := filepath.Join(t.TempDir(), "cal.json")
	cal := Calibration{
		ZUp:       7,
		TiltSlope: 0.01,
		Note:      "desk",
		Surface:   []coord.Point{{X: 0, Y: 0, Z: 0}, {X: 50, Y: 0, Z: 0.5}, {X: 0, Y: 50, Z: 0}},
	}
	require.NoError(t, Save(name, cal))

	got, err := Load(name)
	require.NoError(t, err)
	assert.Equal(t, cal, got)

	assert.Error(t, Save(name, Calibration{}))
}

func TestCompensator(t *testing.T) {
	c, err := Default().Compensator()
	require.NoError(t, err)
	assert.Equal(t, meshlevel.None{}, c)

	c, err = Calibration{ZUp: 6, TiltSlope: 0.05}.Compensator()
	require.NoError(t, err)
	assert.InDelta(t, 0.5, c.DeltaZ(coord.Pt(0, 0), coord.Pt(3, 10)), 1e-12)

	p := Calibration{ZUp: 4}.Apply(motion.DefaultPen())
	assert.Equal(t, 4.0, p.ZUp)
	assert.Equal(t, 400.0, p.DrawFeed)
}

func TestReady(t *testing.T) {
	name := filepath.Join(t.TempDir(), ReadyFlagName)
	assert.False(t, IsReady(name))
	err := CheckReady(name)
	assert.True(t, errors.Is(err, ErrNotReady))

	require.NoError(t, MarkReady(name, Calibration{ZUp: 5.5}))
	assert.True(t, IsReady(name))
	assert.NoError(t, CheckReady(name))

	info, err := ReadyInfo(name)
	require.NoError(t, err)
	assert.Equal(t, "calibrated z_up=5.50", info)
}
