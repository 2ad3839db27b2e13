package motion

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mastercactapus/plotarm/coord"
	"github.com/mastercactapus/plotarm/gcode"
	"github.com/mastercactapus/plotarm/meshlevel"
	"github.com/mastercactapus/plotarm/path"
	"github.com/mastercactapus/plotarm/shape"
)

func checkPenDiscipline(t *testing.T, cmds []Command) {
	t.Helper()
	down := false
	for i, c := range cmds {
		switch c.Op {
		case OpPenDown:
			assert.False(t, down, "pen lowered twice at %d", i)
			down = true
		case OpPenUp:
			assert.True(t, down, "pen raised twice at %d", i)
			down = false
		case OpDraw:
			assert.True(t, down, "draw with pen up at %d", i)
		case OpTravel:
			assert.False(t, down, "travel with pen down at %d", i)
		}
	}
	assert.False(t, down, "pen left down")
}

func TestCompile_Shapes(t *testing.T) {
	for _, k := range []shape.Kind{shape.Square, shape.Triangle, shape.Circle} {
		t.Run(k.String(), func(t *testing.T) {
			doc, err := shape.Generate(k, k.DefaultSize(), shape.Options{})
			require.NoError(t, err)

			cmds := Compile(doc, DefaultPen(), nil)
			checkPenDiscipline(t, cmds)

			last := cmds[len(cmds)-1]
			assert.Equal(t, OpTravel, last.Op)
			assert.Equal(t, OpPenUp, cmds[len(cmds)-2].Op)

			net := Stats(cmds).Net
			assert.InDelta(t, 0, net.X, 1e-9)
			assert.InDelta(t, 0, net.Y, 1e-9)
			assert.Equal(t, 0.0, net.Z)

			// the streamed text lands back at the origin too
			vm := gcode.NewVM()
			for _, b := range Program(cmds) {
				require.NoError(t, vm.Run(b), b.String())
			}
			assert.False(t, vm.RelativeMotion())
			assert.InDelta(t, 0, vm.Position().X, 0.05)
			assert.InDelta(t, 0, vm.Position().Y, 0.05)
			assert.InDelta(t, 0, vm.Position().Z, 1e-9)
		})
	}
}

func TestCompile_Square(t *testing.T) {
	doc, err := shape.Generate(shape.Square, 30, shape.Options{})
	require.NoError(t, err)
	cmds := Compile(doc, DefaultPen(), nil)

	var ops []Op
	for _, c := range cmds {
		ops = append(ops, c.Op)
		if c.Op == OpDraw {
			assert.InDelta(t, 30, math.Hypot(c.Delta.X, c.Delta.Y), 1e-9)
			assert.Equal(t, 400.0, c.Feed)
		}
		assert.True(t, c.Sync)
	}
	assert.Equal(t, []Op{OpTravel, OpPenDown, OpDraw, OpDraw, OpDraw, OpDraw, OpPenUp, OpTravel}, ops)

	assert.Equal(t, "G1 X-15 Y-15 F800", cmds[0].Block().String())
	assert.Equal(t, "G1 Z-6 F800", cmds[1].Block().String())
	assert.Equal(t, "G1 Z6 F800", cmds[6].Block().String())
	assert.Equal(t, "G1 X15 Y15 F800", cmds[7].Block().String())

	s := Stats(cmds)
	assert.Equal(t, 2, s.Travel)
	assert.Equal(t, 4, s.Draw)
	assert.Equal(t, 1, s.PenLifts)
	assert.InDelta(t, 120, s.DrawDistance, 1e-9)
}

func TestCompile_SmallMovesTelescope(t *testing.T) {
	doc := path.Document{
		{Kind: path.Move, X: 0, Y: 0},
		{Kind: path.Line, X: 0.005, Y: 0},
		{Kind: path.Line, X: 0.008, Y: 0.004},
		{Kind: path.Line, X: 1, Y: 0},
	}
	cmds := Compile(doc, DefaultPen(), nil)
	require.Len(t, cmds, 4)
	assert.Equal(t, OpPenDown, cmds[0].Op)
	assert.Equal(t, OpDraw, cmds[1].Op)
	assert.Equal(t, 1.0, cmds[1].Delta.X)
	assert.Equal(t, 0.0, cmds[1].Delta.Y)
	assert.Equal(t, OpPenUp, cmds[2].Op)
	assert.Equal(t, -1.0, cmds[3].Delta.X)
}

func TestCompile_Empty(t *testing.T) {
	assert.Empty(t, Compile(nil, DefaultPen(), nil))
}

func TestCompile_Tilt(t *testing.T) {
	doc, err := shape.Generate(shape.Square, 30, shape.Options{})
	require.NoError(t, err)
	cmds := Compile(doc, DefaultPen(), meshlevel.Tilt{Slope: 0.1})

	assert.Equal(t, "G1 X-15 Y-15 Z-1.5 F800", cmds[0].Block().String())
	for _, c := range cmds {
		if c.Op != OpDraw {
			continue
		}
		if c.Delta.Y == 0 {
			assert.Equal(t, 0.0, c.Delta.Z)
			assert.Len(t, c.Block(), 4)
		} else {
			assert.InDelta(t, 0.1*c.Delta.Y, c.Delta.Z, 1e-12)
		}
	}
	assert.InDelta(t, 0, Stats(cmds).Net.Z, 1e-9)
}

func TestCompile_SmallCompensationCarries(t *testing.T) {
	doc := path.Document{
		{Kind: path.Move, X: 0, Y: 0},
		{Kind: path.Line, X: 0, Y: 2},
		{Kind: path.Line, X: 0, Y: 4},
	}
	cmds := Compile(doc, DefaultPen(), meshlevel.Tilt{Slope: 0.0003})
	require.Len(t, cmds, 5)
	assert.Equal(t, 0.0, cmds[1].Delta.Z)
	assert.InDelta(t, 0.0012, cmds[2].Delta.Z, 1e-12)
}

func TestCompile_MaxSegment(t *testing.T) {
	doc := path.Document{
		{Kind: path.Move, X: 0, Y: 0},
		{Kind: path.Line, X: 10, Y: 0},
	}
	pen := DefaultPen()
	pen.MaxSegment = 3
	cmds := Compile(doc, pen, nil)

	s := Stats(cmds)
	assert.Equal(t, 4, s.Draw)
	assert.InDelta(t, 10, s.DrawDistance, 1e-9)
	assert.Equal(t, 0.0, s.Net.X)
}

func TestProgram(t *testing.T) {
	cmds := []Command{
		{Op: OpPenDown, Delta: coord.Point{Z: -6}, Feed: 800, Sync: true},
		{Op: OpDraw, Feed: 400},
	}
	var lines []string
	for _, b := range Program(cmds) {
		lines = append(lines, b.String())
	}
	assert.Equal(t, []string{"G21", "G91", "G1 Z-6 F800", "M400", "G1 X0 Y0 F400", "G90"}, lines)
}
