package path

import (
	"github.com/mastercactapus/plotarm/coord"
)

// Kind tags a Segment as pen-up travel or pen-down drawing.
type Kind byte

const (
	// Move starts a new subpath; the pen travels lifted.
	Move Kind = iota
	// Line draws a straight chord from the previous point.
	Line
)

func (k Kind) String() string {
	switch k {
	case Move:
		return "move"
	case Line:
		return "line"
	}
	return "unknown"
}

// Segment is one point-to-point unit of a path.
type Segment struct {
	Kind Kind
	X, Y float64
}

// Point returns the segment end point.
func (s Segment) Point() coord.Point { return coord.Pt(s.X, s.Y) }

// Document is an ordered list of segments; order is drawing order.
//
// A non-empty Document always begins with a Move.
type Document []Segment

// Bounds returns the bounding box of every segment end point.
func (d Document) Bounds() coord.Bounds {
	var b coord.Bounds
	for _, s := range d {
		b = b.Extend(s.X, s.Y)
	}
	return b
}

// Counts returns the number of Move and Line segments.
func (d Document) Counts() (moves, lines int) {
	for _, s := range d {
		if s.Kind == Move {
			moves++
		} else {
			lines++
		}
	}
	return moves, lines
}

// Builder accumulates a Document and keeps the leading-Move invariant.
type Builder struct {
	doc        Document
	start, cur coord.Point
	open       bool
}

// MoveTo begins a new subpath at x,y.
func (b *Builder) MoveTo(x, y float64) {
	b.doc = append(b.doc, Segment{Kind: Move, X: x, Y: y})
	b.start = coord.Pt(x, y)
	b.cur = b.start
	b.open = true
}

// LineTo draws to x,y. Without an open subpath it begins one at x,y instead.
func (b *Builder) LineTo(x, y float64) {
	if !b.open {
		b.MoveTo(x, y)
		return
	}
	b.doc = append(b.doc, Segment{Kind: Line, X: x, Y: y})
	b.cur = coord.Pt(x, y)
}

// Close draws back to the subpath start unless already within eps of it.
func (b *Builder) Close(eps float64) {
	if !b.open {
		return
	}
	if !b.cur.NearXY(b.start, eps) {
		b.LineTo(b.start.X, b.start.Y)
	}
	b.cur = b.start
}

// Current returns the last point added.
func (b *Builder) Current() coord.Point { return b.cur }

// Start returns the current subpath start.
func (b *Builder) Start() coord.Point { return b.start }

// Append copies every segment of d onto the builder.
func (b *Builder) Append(d Document) {
	for _, s := range d {
		if s.Kind == Move {
			b.MoveTo(s.X, s.Y)
		} else {
			b.LineTo(s.X, s.Y)
		}
	}
}

// Len returns the number of segments so far.
func (b *Builder) Len() int { return len(b.doc) }

// Document returns the accumulated segments.
func (b *Builder) Document() Document { return b.doc }
