// Package motion compiles path documents into relative arm moves.
package motion

import (
	"math"

	"github.com/mastercactapus/plotarm/coord"
	"github.com/mastercactapus/plotarm/gcode"
)

// Op is the kind of a compiled move.
type Op int

const (
	OpPenUp Op = iota
	OpPenDown
	OpTravel
	OpDraw
)

func (o Op) String() string {
	switch o {
	case OpPenUp:
		return "pen-up"
	case OpPenDown:
		return "pen-down"
	case OpTravel:
		return "travel"
	case OpDraw:
		return "draw"
	}
	return "unknown"
}

// PenState is the pen position after a command runs.
type PenState int

const (
	PenUp PenState = iota
	PenDown
)

func (p PenState) String() string {
	if p == PenDown {
		return "down"
	}
	return "up"
}

// axisEpsilon is the smallest axis value written to a block.
const axisEpsilon = 0.001

// Command is a single relative move.
type Command struct {
	Op    Op
	Delta coord.Point
	Feed  float64
	Pen   PenState

	// Sync requests a motion barrier once the move is acknowledged.
	Sync bool
}

// Block renders the command as a relative-mode G1.
func (c Command) Block() gcode.Block {
	b := gcode.Block{{W: 'G', Arg: 1}}
	switch c.Op {
	case OpPenUp, OpPenDown:
		b = append(b, gcode.Word{W: 'Z', Arg: c.Delta.Z})
	default:
		b = append(b,
			gcode.Word{W: 'X', Arg: c.Delta.X},
			gcode.Word{W: 'Y', Arg: c.Delta.Y},
		)
		if math.Abs(c.Delta.Z) > axisEpsilon {
			b = append(b, gcode.Word{W: 'Z', Arg: c.Delta.Z})
		}
	}
	return append(b, gcode.Word{W: 'F', Arg: c.Feed})
}

// Preamble puts the arm in millimeter, relative mode.
func Preamble() []gcode.Block {
	return []gcode.Block{
		{{W: 'G', Arg: 21}},
		{{W: 'G', Arg: 91}},
	}
}

// Postamble restores absolute positioning.
func Postamble() []gcode.Block {
	return []gcode.Block{{{W: 'G', Arg: 90}}}
}

// Barrier waits for all queued motion to finish.
func Barrier() gcode.Block { return gcode.Block{{W: 'M', Arg: 400}} }

// Program renders a complete job, including preamble, barriers and
// postamble, as it would be streamed to the arm.
func Program(cmds []Command) []gcode.Block {
	res := Preamble()
	for _, c := range cmds {
		res = append(res, c.Block())
		if c.Sync {
			res = append(res, Barrier())
		}
	}
	return append(res, Postamble()...)
}
