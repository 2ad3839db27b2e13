package gcode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mastercactapus/plotarm/coord"
)

func TestBlock_String(t *testing.T) {
	b := Block{{W: 'G', Arg: 1}, {W: 'X', Arg: 10}, {W: 'Y', Arg: -2.5}, {W: 'Z', Arg: 0.12345}, {W: 'F', Arg: 400}}
	assert.Equal(t, "G1 X10 Y-2.5 Z0.123 F400", b.String())

	assert.Equal(t, "X0", Word{W: 'X', Arg: -0.0001}.String())
	assert.Equal(t, "M400", Block{{W: 'M', Arg: 400}}.String())
}

func TestParse(t *testing.T) {
	blocks, err := Parse("g21\nG91 ; relative\n\nG1 X1.5 Y-2 F800\nM400\n")
	require.NoError(t, err)
	require.Len(t, blocks, 4)
	assert.Equal(t, Block{{W: 'G', Arg: 1}, {W: 'X', Arg: 1.5}, {W: 'Y', Arg: -2}, {W: 'F', Arg: 800}}, blocks[2])

	// round trip through String
	again, err := Parse(blocks[2].String())
	require.NoError(t, err)
	assert.Equal(t, blocks[2], again[0])

	blocks, err = Parse("G1 X1 (lift) Y2\n")
	require.NoError(t, err)
	assert.Equal(t, "G1 X1 Y2", blocks[0].String())

	_, err = Parse("G21\nG1 X1 $\n")
	assert.EqualError(t, err, "line 2: invalid or unhandled line: G1X1$")
}

func TestReadAll(t *testing.T) {
	blocks, err := ReadAll(strings.NewReader("G21\nG91\nG1 X-5 Y-5 F800\nM400\nG90\n"))
	require.NoError(t, err)
	assert.Len(t, blocks, 5)

	_, err = ReadAll(strings.NewReader("G21\n\nG2 X1 Y1 I1\n"))
	assert.EqualError(t, err, "line 3: unsupported code: G2")

	_, err = ReadAll(strings.NewReader("M3\n"))
	assert.Error(t, err)
}

func TestBlock_Validate(t *testing.T) {
	assert.NoError(t, MustParse("G91 G1 X1")[0].Validate())
	assert.Error(t, MustParse("G1 X1 X2")[0].Validate())
	assert.Error(t, MustParse("G90 G91")[0].Validate())
}

func TestVM_Relative(t *testing.T) {
	vm := NewVM()
	for _, b := range MustParse("G21\nG91\nG1 X10 Y5 F800\nM400\nG1 Z6 F800\nG1 X-4 Y-5 Z-6 F400\n") {
		require.NoError(t, vm.Run(b))
	}
	assert.True(t, vm.RelativeMotion())
	assert.Equal(t, 400.0, vm.Feed())
	assert.True(t, vm.Position().Equal(coord.Point{X: 6}))

	require.NoError(t, vm.Run(MustParse("G90")[0]))
	assert.False(t, vm.RelativeMotion())
	require.NoError(t, vm.Run(MustParse("G1 X1 Y1")[0]))
	assert.True(t, vm.Position().Equal(coord.Point{X: 1, Y: 1}))
}

func TestVM_Unsupported(t *testing.T) {
	vm := NewVM()
	assert.Error(t, vm.Run(MustParse("G2 X1 Y1 I1")[0]))
}
