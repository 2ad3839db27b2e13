package motion

import (
	"math"

	"github.com/mastercactapus/plotarm/coord"
	"github.com/mastercactapus/plotarm/meshlevel"
	"github.com/mastercactapus/plotarm/path"
)

// MoveEpsilon is the smallest XY delta, per axis, worth sending.
const MoveEpsilon = 0.01

// Pen configures how a document is drawn.
type Pen struct {
	// ZUp is how far the pen lifts between strokes.
	ZUp        float64
	TravelFeed float64
	DrawFeed   float64

	// SyncMoves places a barrier after every XY move, not just pen
	// transitions.
	SyncMoves bool

	// MaxSegment, if positive, splits longer moves so surface compensation
	// can follow the paper.
	MaxSegment float64
}

// DefaultPen returns the standard pen settings.
func DefaultPen() Pen {
	return Pen{
		ZUp:        6,
		TravelFeed: 800,
		DrawFeed:   400,
		SyncMoves:  true,
	}
}

type compiler struct {
	pen  Pen
	comp meshlevel.Compensator

	pos   coord.Point
	down  bool
	zDebt float64
	cmds  []Command
}

// Compile converts doc, in arm space, into relative commands. The pen starts
// and ends up, and the arm finishes back at the origin.
//
// A nil comp disables Z compensation.
func Compile(doc path.Document, pen Pen, comp meshlevel.Compensator) []Command {
	if comp == nil {
		comp = meshlevel.None{}
	}
	c := &compiler{pen: pen, comp: comp}

	for _, s := range doc {
		switch s.Kind {
		case path.Move:
			c.penUp()
			c.moveTo(s.Point(), OpTravel)
		case path.Line:
			c.penDown()
			c.moveTo(s.Point(), OpDraw)
		}
	}

	c.penUp()
	c.moveTo(coord.Point{}, OpTravel)

	return c.cmds
}

func (c *compiler) penUp() {
	if !c.down {
		return
	}
	c.cmds = append(c.cmds, Command{
		Op:    OpPenUp,
		Delta: coord.Point{Z: c.pen.ZUp},
		Feed:  c.pen.TravelFeed,
		Pen:   PenUp,
		Sync:  true,
	})
	c.down = false
}

func (c *compiler) penDown() {
	if c.down {
		return
	}
	c.cmds = append(c.cmds, Command{
		Op:    OpPenDown,
		Delta: coord.Point{Z: -c.pen.ZUp},
		Feed:  c.pen.TravelFeed,
		Pen:   PenDown,
		Sync:  true,
	})
	c.down = true
}

func (c *compiler) moveTo(target coord.Point, op Op) {
	dx, dy := target.X-c.pos.X, target.Y-c.pos.Y
	if math.Abs(dx) <= MoveEpsilon && math.Abs(dy) <= MoveEpsilon {
		return
	}

	n := 1
	if c.pen.MaxSegment > 0 {
		n = int(math.Ceil(math.Hypot(dx, dy) / c.pen.MaxSegment))
	}
	steps := c.pos.Split(coord.Pt(target.X, target.Y), n, false)
	steps[n-1] = coord.Pt(target.X, target.Y)

	for _, p := range steps {
		c.emit(p, op)
	}
}

func (c *compiler) emit(p coord.Point, op Op) {
	feed, pen := c.pen.TravelFeed, PenUp
	if op == OpDraw {
		feed, pen = c.pen.DrawFeed, PenDown
	}

	delta := coord.Pt(p.X-c.pos.X, p.Y-c.pos.Y)
	dz := c.comp.DeltaZ(c.pos, p) + c.zDebt
	if math.Abs(dz) > axisEpsilon {
		delta.Z = dz
		c.zDebt = 0
	} else {
		c.zDebt = dz
	}

	c.cmds = append(c.cmds, Command{
		Op:    op,
		Delta: delta,
		Feed:  feed,
		Pen:   pen,
		Sync:  c.pen.SyncMoves,
	})
	c.pos = coord.Pt(p.X, p.Y)
}
